package dataservice

import (
	"context"

	"restaurant/analytics"
	"restaurant/fault"
	"restaurant/models"
	"restaurant/store"
)

type RecomputeResult struct {
	Success  bool         `json:"success"`
	Warning  string       `json:"warning,omitempty"`
	Backend  store.Source `json:"backend,omitempty"`
	Fallback bool         `json:"fallback,omitempty"`
}

// GetAnalytics returns the stored snapshot. When none has been stored yet it
// is computed from the orders and saved.
func (s *Service) GetAnalytics(ctx context.Context) (models.AnalyticsSnapshot, error) {
	snaps, err := list[models.AnalyticsSnapshot](ctx, s, store.Analytics)
	if err != nil {
		return models.AnalyticsSnapshot{}, err
	}
	if snap, _, ok := find(snaps, models.SnapshotID); ok {
		return snap, nil
	}
	snap, res := s.RecomputeAnalytics(ctx)
	if !res.Success && snap.ID == "" {
		return snap, fault.New(fault.Persistence, "%s", res.Warning)
	}
	return snap, nil
}

// RecomputeAnalytics rebuilds the snapshot from the full order log and stores
// it. Failures never surface as errors, only as a warning on the result.
func (s *Service) RecomputeAnalytics(ctx context.Context) (models.AnalyticsSnapshot, RecomputeResult) {
	orders, _, err := readStore[models.Order](ctx, s, store.Orders)
	if err != nil {
		s.log.Warn("analytics recompute could not read orders", "error", err)
		return models.AnalyticsSnapshot{}, RecomputeResult{Warning: "analytics not updated: " + err.Error()}
	}

	snap := analytics.Recompute(orders, s.now(), s.location)
	wr, err := WriteCollection(ctx, s, store.Analytics, func([]models.AnalyticsSnapshot) (Changes[models.AnalyticsSnapshot], error) {
		return Changes[models.AnalyticsSnapshot]{Put: []models.AnalyticsSnapshot{snap}}, nil
	})
	if err != nil {
		s.log.Warn("analytics snapshot not stored", "error", err)
		return snap, RecomputeResult{Warning: "analytics not stored: " + err.Error()}
	}
	s.log.Debug("analytics recomputed", "orders", len(orders), "revenue", snap.RevenueAnalytics.TotalRevenue)
	return snap, RecomputeResult{Success: true, Backend: wr.Backend, Fallback: wr.Fallback}
}
