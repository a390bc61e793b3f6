package dataservice

import (
	"context"
	"strings"
	"time"

	"restaurant/fault"
	"restaurant/models"
	"restaurant/store"
	"restaurant/utils"
)

const alertTimeout = 30 * time.Second

type InventoryInput struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Unit     string `json:"unit"`
	Supplier string `json:"supplier"`
	Current  any    `json:"current"`
	Minimum  any    `json:"minimum"`
}

// StockUpdate sets Current when present, otherwise adds Delta.
type StockUpdate struct {
	ID      string `json:"id"`
	Current any    `json:"current,omitempty"`
	Delta   any    `json:"delta,omitempty"`
}

func inventoryName(i models.InventoryItem) string { return i.Name }

func parseQuantity(field string, v any) (float64, error) {
	n, err := utils.ToNumber(v)
	if err != nil {
		return 0, fault.Invalid("%s: %v", field, err)
	}
	if n < 0 {
		return 0, fault.Invalid("%s must not be negative", field)
	}
	return n, nil
}

func (s *Service) ListInventory(ctx context.Context) ([]models.InventoryItem, error) {
	return list[models.InventoryItem](ctx, s, store.Inventory)
}

func (s *Service) AddInventoryItem(ctx context.Context, in InventoryInput) (models.InventoryItem, WriteResult, error) {
	item, res, err := insert(ctx, s, store.Inventory, func(all []models.InventoryItem) (models.InventoryItem, error) {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return models.InventoryItem{}, fault.Invalid("name is required")
		}
		current, err := parseQuantity("current", in.Current)
		if err != nil {
			return models.InventoryItem{}, err
		}
		minimum, err := parseQuantity("minimum", in.Minimum)
		if err != nil {
			return models.InventoryItem{}, err
		}
		if nameTaken(all, name, "", inventoryName) {
			return models.InventoryItem{}, fault.Duplicate(store.Inventory, name)
		}
		return models.InventoryItem{
			ID:        s.newID(),
			Name:      name,
			Category:  in.Category,
			Unit:      in.Unit,
			Supplier:  in.Supplier,
			Current:   current,
			Minimum:   minimum,
			Status:    models.DeriveStockStatus(current, minimum),
			UpdatedAt: s.now(),
		}, nil
	})
	if err == nil && item.Status != models.InStock {
		s.alert(ctx, item)
	}
	return item, res, err
}

func (s *Service) UpdateInventoryItem(ctx context.Context, id string, in InventoryInput) (models.InventoryItem, WriteResult, error) {
	var before models.StockStatus
	item, res, err := replace(ctx, s, store.Inventory, id, func(item models.InventoryItem, all []models.InventoryItem) (models.InventoryItem, error) {
		before = item.Status
		if name := strings.TrimSpace(in.Name); name != "" {
			if nameTaken(all, name, id, inventoryName) {
				return item, fault.Duplicate(store.Inventory, name)
			}
			item.Name = name
		}
		if in.Category != "" {
			item.Category = in.Category
		}
		if in.Unit != "" {
			item.Unit = in.Unit
		}
		if in.Supplier != "" {
			item.Supplier = in.Supplier
		}
		if in.Current != nil {
			current, err := parseQuantity("current", in.Current)
			if err != nil {
				return item, err
			}
			item.Current = current
		}
		if in.Minimum != nil {
			minimum, err := parseQuantity("minimum", in.Minimum)
			if err != nil {
				return item, err
			}
			item.Minimum = minimum
		}
		item.Status = models.DeriveStockStatus(item.Current, item.Minimum)
		item.UpdatedAt = s.now()
		return item, nil
	})
	if err == nil && becameScarce(before, item.Status) {
		s.alert(ctx, item)
	}
	return item, res, err
}

func (s *Service) DeleteInventoryItem(ctx context.Context, id string) (WriteResult, error) {
	return remove[models.InventoryItem](ctx, s, store.Inventory, id)
}

// AdjustStock applies stock updates as one batch. Unknown ids, non-numeric
// values and results below zero are skipped.
func (s *Service) AdjustStock(ctx context.Context, updates []StockUpdate) (WriteResult, error) {
	var scarce []models.InventoryItem
	res, err := WriteCollection(ctx, s, store.Inventory, func(items []models.InventoryItem) (Changes[models.InventoryItem], error) {
		var ch Changes[models.InventoryItem]
		now := s.now()
		touched := map[string]int{}
		for _, u := range updates {
			item, _, ok := find(items, u.ID)
			if !ok {
				ch.Skipped++
				continue
			}
			// a second update for the same id builds on the first
			if i, seen := touched[u.ID]; seen {
				item = ch.Put[i]
			}
			current, err := nextStock(item.Current, u)
			if err != nil {
				s.log.Debug("skipping stock update", "id", u.ID, "error", err)
				ch.Skipped++
				continue
			}
			before := item.Status
			item.Current = current
			item.Status = models.DeriveStockStatus(item.Current, item.Minimum)
			item.UpdatedAt = now
			fields := map[string]any{"current": item.Current, "status": item.Status, "updated_at": now}
			if i, seen := touched[u.ID]; seen {
				ch.Put[i] = item
				ch.Fields[u.ID] = fields
			} else {
				touched[u.ID] = len(ch.Put)
				ch.patch(item, fields)
			}
			if becameScarce(before, item.Status) {
				scarce = append(scarce, item)
			}
		}
		return ch, nil
	})
	if err != nil {
		return res, err
	}
	for _, item := range scarce {
		s.alert(ctx, item)
	}
	return res, nil
}

func nextStock(current float64, u StockUpdate) (float64, error) {
	if u.Current != nil {
		return parseQuantity("current", u.Current)
	}
	delta, err := utils.ToNumber(u.Delta)
	if err != nil {
		return 0, fault.Invalid("delta: %v", err)
	}
	next := current + delta
	if next < 0 {
		return 0, fault.Invalid("stock cannot go below zero")
	}
	return next, nil
}

func becameScarce(before, after models.StockStatus) bool {
	return after != models.InStock && after != before
}

// alert is best effort and runs off the request path: a slow or failed
// notification never delays or fails the write.
func (s *Service) alert(ctx context.Context, item models.InventoryItem) {
	if s.alerter == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), alertTimeout)
	s.alerts.Add(1)
	go func() {
		defer s.alerts.Done()
		defer cancel()
		if err := s.alerter.StockAlert(ctx, item); err != nil {
			s.log.Warn("stock alert failed", "item", item.Name, "status", item.Status, "error", err)
		}
	}()
}

// WaitAlerts blocks until every stock alert already started has returned.
func (s *Service) WaitAlerts() { s.alerts.Wait() }
