package models

import "time"

type StaffCredential struct {
	ID        string    `bson:"_id" json:"id"`
	Username  string    `bson:"username" json:"username"`
	FullName  string    `bson:"full_name" json:"fullName"`
	Role      string    `bson:"role" json:"role"`
	Password  string    `bson:"password" json:"password,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

func (s StaffCredential) RecordID() string { return s.ID }

// Redacted drops the password hash before the credential leaves the data layer.
func (s StaffCredential) Redacted() StaffCredential {
	s.Password = ""
	return s
}

type Address struct {
	Street string `bson:"street" json:"street"`
	City   string `bson:"city" json:"city"`
}

// HistoryEntry is one order in a customer's history.
type HistoryEntry struct {
	OrderID   string      `bson:"order_id" json:"orderId"`
	Items     []OrderItem `bson:"items" json:"items"`
	Total     float64     `bson:"total" json:"total"`
	Status    OrderStatus `bson:"status" json:"status"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
	Migrated  bool        `bson:"migrated" json:"migrated"`
}

type CustomerProfile struct {
	ID           string         `bson:"_id" json:"id"`
	DisplayName  string         `bson:"display_name" json:"displayName"`
	Email        string         `bson:"email,omitempty" json:"email,omitempty"`
	Phone        string         `bson:"phone,omitempty" json:"phone,omitempty"`
	Addresses    []Address      `bson:"addresses,omitempty" json:"addresses,omitempty"`
	OrderHistory []HistoryEntry `bson:"order_history" json:"orderHistory"`
	CreatedAt    time.Time      `bson:"created_at" json:"createdAt"`
}

func (c CustomerProfile) RecordID() string { return c.ID }

// MigratedOrders counts history entries that came from the legacy order log.
func (c CustomerProfile) MigratedOrders() int {
	n := 0
	for _, h := range c.OrderHistory {
		if h.Migrated {
			n++
		}
	}
	return n
}

func (c CustomerProfile) HasOrder(orderID string) bool {
	for _, h := range c.OrderHistory {
		if h.OrderID == orderID {
			return true
		}
	}
	return false
}
