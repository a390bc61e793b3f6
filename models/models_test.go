package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStockStatus(t *testing.T) {
	tests := []struct {
		current, minimum float64
		want             StockStatus
	}{
		{0, 5, OutOfStock},
		{-1, 0, OutOfStock},
		{5, 5, LowStock},
		{2.5, 5, LowStock},
		{5.01, 5, InStock},
		{1, 0, InStock},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveStockStatus(tt.current, tt.minimum), "current=%v minimum=%v", tt.current, tt.minimum)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusPending, StatusPreparing, true},
		{StatusPreparing, StatusReady, true},
		{StatusReady, StatusDelivered, true},
		{StatusPending, StatusReady, false},
		{StatusPending, StatusDelivered, false},
		{StatusReady, StatusPending, false},
		{StatusPending, StatusCancelled, true},
		{StatusReady, StatusCancelled, true},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestOfferActiveAt(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	until := from.Add(48 * time.Hour)
	offer := Offer{Active: true, ValidFrom: from, ValidUntil: until}

	assert.False(t, offer.ActiveAt(from.Add(-time.Second)))
	assert.True(t, offer.ActiveAt(from))
	assert.True(t, offer.ActiveAt(until.Add(-time.Second)))
	assert.False(t, offer.ActiveAt(until))

	openEnded := Offer{Active: true, ValidFrom: from}
	assert.True(t, openEnded.ActiveAt(from.AddDate(1, 0, 0)))

	offer.Active = false
	assert.False(t, offer.ActiveAt(from.Add(time.Hour)))
}

func TestCustomerHistory(t *testing.T) {
	p := CustomerProfile{OrderHistory: []HistoryEntry{
		{OrderID: "o-1", Migrated: true},
		{OrderID: "o-2"},
	}}
	assert.Equal(t, 1, p.MigratedOrders())
	assert.True(t, p.HasOrder("o-2"))
	assert.False(t, p.HasOrder("o-3"))
}

func TestRedactedDropsPassword(t *testing.T) {
	s := StaffCredential{ID: "s-1", Username: "asha", Password: "$2a$hash"}
	r := s.Redacted()
	assert.Empty(t, r.Password)
	assert.Equal(t, "asha", r.Username)
	assert.Equal(t, "$2a$hash", s.Password)
}
