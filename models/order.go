package models

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// Terminal statuses accept no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

var nextStatus = map[OrderStatus]OrderStatus{
	StatusPending:   StatusPreparing,
	StatusPreparing: StatusReady,
	StatusReady:     StatusDelivered,
}

// CanTransition allows one step forward along the kitchen pipeline, or a
// cancel from any non-terminal status.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	return nextStatus[s] == to
}

type OrderType string

const (
	DineIn   OrderType = "dine-in"
	Takeaway OrderType = "takeaway"
	Delivery OrderType = "delivery"
)

func (t OrderType) Valid() bool {
	return t == DineIn || t == Takeaway || t == Delivery
}

type OrderItem struct {
	ID       string  `bson:"id" json:"id"`
	Name     string  `bson:"name" json:"name"`
	Price    float64 `bson:"price" json:"price"`
	Quantity float64 `bson:"quantity" json:"quantity"`
}

type Order struct {
	ID                string      `bson:"_id" json:"id"`
	Items             []OrderItem `bson:"items" json:"items"`
	Total             float64     `bson:"total" json:"total"`
	Status            OrderStatus `bson:"status" json:"status"`
	OrderType         OrderType   `bson:"order_type" json:"orderType"`
	TableNumber       string      `bson:"table_number,omitempty" json:"tableNumber,omitempty"`
	CustomerName      string      `bson:"customer_name,omitempty" json:"customerName,omitempty"`
	CustomerPhone     string      `bson:"customer_phone,omitempty" json:"customerPhone,omitempty"`
	DeliveryAddress   string      `bson:"delivery_address,omitempty" json:"deliveryAddress,omitempty"`
	Timestamp         time.Time   `bson:"timestamp" json:"timestamp"`
	StaffMember       string      `bson:"staff_member,omitempty" json:"staffMember,omitempty"`
	Migrated          bool        `bson:"migrated,omitempty" json:"migrated,omitempty"`
	MigratedToProfile string      `bson:"migrated_to_profile,omitempty" json:"migratedToProfile,omitempty"`
	UpdatedAt         time.Time   `bson:"updated_at" json:"updatedAt"`
}

func (o Order) RecordID() string { return o.ID }

// ItemsTotal is Σ price × quantity.
func ItemsTotal(items []OrderItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * it.Quantity
	}
	return total
}
