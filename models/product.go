package models

import "time"

type MenuItem struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Category    string    `bson:"category" json:"category"`
	Price       float64   `bson:"price" json:"price"`
	Vegetarian  bool      `bson:"vegetarian" json:"vegetarian"`
	Spicy       bool      `bson:"spicy" json:"spicy"`
	ImageURL    string    `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

func (m MenuItem) RecordID() string { return m.ID }

// Availability is keyed by the menu item id.
type Availability struct {
	ItemID    string    `bson:"_id" json:"itemId"`
	Available bool      `bson:"available" json:"available"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

func (a Availability) RecordID() string { return a.ItemID }

type StockStatus string

const (
	OutOfStock StockStatus = "out_of_stock"
	LowStock   StockStatus = "low_stock"
	InStock    StockStatus = "in_stock"
)

// DeriveStockStatus is the only place stock status is decided.
func DeriveStockStatus(current, minimum float64) StockStatus {
	switch {
	case current <= 0:
		return OutOfStock
	case current <= minimum:
		return LowStock
	default:
		return InStock
	}
}

type InventoryItem struct {
	ID        string      `bson:"_id" json:"id"`
	Name      string      `bson:"name" json:"name"`
	Category  string      `bson:"category,omitempty" json:"category,omitempty"`
	Unit      string      `bson:"unit" json:"unit"`
	Current   float64     `bson:"current" json:"current"`
	Minimum   float64     `bson:"minimum" json:"minimum"`
	Status    StockStatus `bson:"status" json:"status"`
	Supplier  string      `bson:"supplier,omitempty" json:"supplier,omitempty"`
	UpdatedAt time.Time   `bson:"updated_at" json:"updatedAt"`
}

func (i InventoryItem) RecordID() string { return i.ID }
