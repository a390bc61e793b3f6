package dataservice

import (
	"context"
	"strings"

	"restaurant/fault"
	"restaurant/models"
	"restaurant/store"
)

type CustomerInput struct {
	DisplayName string           `json:"displayName"`
	Email       string           `json:"email"`
	Phone       string           `json:"phone"`
	Addresses   []models.Address `json:"addresses"`
}

func (s *Service) ListCustomers(ctx context.Context) ([]models.CustomerProfile, error) {
	return list[models.CustomerProfile](ctx, s, store.Customers)
}

func (s *Service) GetCustomer(ctx context.Context, id string) (models.CustomerProfile, error) {
	return get[models.CustomerProfile](ctx, s, store.Customers, id)
}

func (s *Service) AddCustomer(ctx context.Context, in CustomerInput) (models.CustomerProfile, WriteResult, error) {
	name := strings.TrimSpace(in.DisplayName)
	if name == "" {
		return models.CustomerProfile{}, WriteResult{}, fault.Invalid("displayName is required")
	}
	return insert(ctx, s, store.Customers, func([]models.CustomerProfile) (models.CustomerProfile, error) {
		return models.CustomerProfile{
			ID:           s.newID(),
			DisplayName:  name,
			Email:        strings.TrimSpace(in.Email),
			Phone:        strings.TrimSpace(in.Phone),
			Addresses:    in.Addresses,
			OrderHistory: []models.HistoryEntry{},
			CreatedAt:    s.now(),
		}, nil
	})
}

// AppendOrderHistory adds entry to the profile's history. An entry for an
// order the profile already holds is left alone, so the call reports
// appended=false and no write happens.
func (s *Service) AppendOrderHistory(ctx context.Context, profileID string, entry models.HistoryEntry) (bool, error) {
	if entry.OrderID == "" {
		return false, fault.Invalid("history entry has no order id")
	}
	appended := false
	_, err := WriteCollection(ctx, s, store.Customers, func(profiles []models.CustomerProfile) (Changes[models.CustomerProfile], error) {
		var ch Changes[models.CustomerProfile]
		profile, _, ok := find(profiles, profileID)
		if !ok {
			return ch, fault.Missing(store.Customers, profileID)
		}
		if profile.HasOrder(entry.OrderID) {
			return ch, nil
		}
		history := make([]models.HistoryEntry, 0, len(profile.OrderHistory)+1)
		history = append(history, profile.OrderHistory...)
		profile.OrderHistory = append(history, entry)
		appended = true
		ch.patch(profile, map[string]any{"order_history": profile.OrderHistory})
		return ch, nil
	})
	return appended, err
}
