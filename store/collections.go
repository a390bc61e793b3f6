package store

// FileSpec says where a collection lives on disk and under which key.
type FileSpec struct {
	File string
	Key  string
}

const (
	Menu         = "menu"
	Availability = "availability"
	Orders       = "orders"
	Analytics    = "analytics"
	Inventory    = "inventory"
	Combos       = "combos"
	Offers       = "offers"
	Specials     = "specials"
	Tasks        = "tasks"
	Staff        = "staff"
	Customers    = "customers"
)

var Layout = map[string]FileSpec{
	Menu:         {File: "menu.json", Key: "menuItems"},
	Availability: {File: "availability.json", Key: "availability"},
	Orders:       {File: "orders.json", Key: "orders"},
	Analytics:    {File: "analytics.json", Key: "analytics"},
	Inventory:    {File: "inventory.json", Key: "inventory"},
	Combos:       {File: "combos.json", Key: "combos"},
	Offers:       {File: "offers.json", Key: "offers"},
	Specials:     {File: "specials.json", Key: "specials"},
	Tasks:        {File: "tasks.json", Key: "tasks"},
	Staff:        {File: "staff.json", Key: "staff"},
	Customers:    {File: "customers.json", Key: "customers"},
}
