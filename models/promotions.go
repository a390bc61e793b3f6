package models

import "time"

type Combo struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	ItemIDs     []string  `bson:"item_ids" json:"itemIds"`
	Price       float64   `bson:"price" json:"price"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Active      bool      `bson:"active" json:"active"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

func (c Combo) RecordID() string { return c.ID }

type Offer struct {
	ID              string    `bson:"_id" json:"id"`
	Title           string    `bson:"title" json:"title"`
	Code            string    `bson:"code,omitempty" json:"code,omitempty"`
	DiscountPercent float64   `bson:"discount_percent" json:"discountPercent"`
	MinOrderValue   float64   `bson:"min_order_value" json:"minOrderValue"`
	ValidFrom       time.Time `bson:"valid_from" json:"validFrom"`
	ValidUntil      time.Time `bson:"valid_until" json:"validUntil"`
	Active          bool      `bson:"active" json:"active"`
}

func (o Offer) RecordID() string { return o.ID }

// ActiveAt reports whether the offer applies at t. A zero ValidUntil means open-ended.
func (o Offer) ActiveAt(t time.Time) bool {
	if !o.Active || t.Before(o.ValidFrom) {
		return false
	}
	return o.ValidUntil.IsZero() || t.Before(o.ValidUntil)
}

type SpecialKind string

const (
	SpecialDish     SpecialKind = "dish"
	SpecialDiscount SpecialKind = "discount"
)

// Special is a tagged record: Kind selects which of Dish or Discount is set.
type Special struct {
	ID       string           `bson:"_id" json:"id"`
	Kind     SpecialKind      `bson:"kind" json:"kind"`
	Title    string           `bson:"title" json:"title"`
	Day      string           `bson:"day,omitempty" json:"day,omitempty"`
	Dish     *SpecialDishInfo `bson:"dish,omitempty" json:"dish,omitempty"`
	Discount *DiscountInfo    `bson:"discount,omitempty" json:"discount,omitempty"`
}

type SpecialDishInfo struct {
	MenuItemID string  `bson:"menu_item_id" json:"menuItemId"`
	Price      float64 `bson:"price" json:"price"`
}

type DiscountInfo struct {
	Percent float64 `bson:"percent" json:"percent"`
}

func (s Special) RecordID() string { return s.ID }

type TaskStatus string

const (
	TaskOpen       TaskStatus = "open"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

type Task struct {
	ID         string     `bson:"_id" json:"id"`
	Title      string     `bson:"title" json:"title"`
	AssignedTo string     `bson:"assigned_to,omitempty" json:"assignedTo,omitempty"`
	Priority   string     `bson:"priority,omitempty" json:"priority,omitempty"`
	Status     TaskStatus `bson:"status" json:"status"`
	DueAt      time.Time  `bson:"due_at,omitempty" json:"dueAt,omitempty"`
	CreatedAt  time.Time  `bson:"created_at" json:"createdAt"`
}

func (t Task) RecordID() string { return t.ID }
