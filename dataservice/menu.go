package dataservice

import (
	"context"
	"strings"

	"restaurant/fault"
	"restaurant/models"
	"restaurant/store"
	"restaurant/utils"
)

type MenuItemInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       any    `json:"price"`
	Vegetarian  *bool  `json:"vegetarian"`
	Spicy       *bool  `json:"spicy"`
	ImageURL    string `json:"imageUrl"`
}

type PriceUpdate struct {
	ID    string `json:"id"`
	Price any    `json:"price"`
}

func menuName(m models.MenuItem) string { return m.Name }

func parsePrice(v any) (float64, error) {
	price, err := utils.ToNumber(v)
	if err != nil {
		return 0, fault.Invalid("price: %v", err)
	}
	if price <= 0 {
		return 0, fault.Invalid("price must be positive")
	}
	return utils.Round2(price), nil
}

func (s *Service) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	return list[models.MenuItem](ctx, s, store.Menu)
}

func (s *Service) GetMenuItem(ctx context.Context, id string) (models.MenuItem, error) {
	return get[models.MenuItem](ctx, s, store.Menu, id)
}

func (s *Service) AddMenuItem(ctx context.Context, in MenuItemInput) (models.MenuItem, WriteResult, error) {
	return insert(ctx, s, store.Menu, func(all []models.MenuItem) (models.MenuItem, error) {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return models.MenuItem{}, fault.Invalid("name is required")
		}
		if strings.TrimSpace(in.Category) == "" {
			return models.MenuItem{}, fault.Invalid("category is required")
		}
		price, err := parsePrice(in.Price)
		if err != nil {
			return models.MenuItem{}, err
		}
		if nameTaken(all, name, "", menuName) {
			return models.MenuItem{}, fault.Duplicate(store.Menu, name)
		}
		now := s.now()
		item := models.MenuItem{
			ID:          s.newID(),
			Name:        name,
			Description: in.Description,
			Category:    strings.TrimSpace(in.Category),
			Price:       price,
			ImageURL:    in.ImageURL,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if in.Vegetarian != nil {
			item.Vegetarian = *in.Vegetarian
		}
		if in.Spicy != nil {
			item.Spicy = *in.Spicy
		}
		return item, nil
	})
}

// UpdateMenuItem changes only the fields present in in.
func (s *Service) UpdateMenuItem(ctx context.Context, id string, in MenuItemInput) (models.MenuItem, WriteResult, error) {
	return replace(ctx, s, store.Menu, id, func(item models.MenuItem, all []models.MenuItem) (models.MenuItem, error) {
		if name := strings.TrimSpace(in.Name); name != "" {
			if nameTaken(all, name, id, menuName) {
				return item, fault.Duplicate(store.Menu, name)
			}
			item.Name = name
		}
		if in.Description != "" {
			item.Description = in.Description
		}
		if c := strings.TrimSpace(in.Category); c != "" {
			item.Category = c
		}
		if in.Price != nil {
			price, err := parsePrice(in.Price)
			if err != nil {
				return item, err
			}
			item.Price = price
		}
		if in.Vegetarian != nil {
			item.Vegetarian = *in.Vegetarian
		}
		if in.Spicy != nil {
			item.Spicy = *in.Spicy
		}
		if in.ImageURL != "" {
			item.ImageURL = in.ImageURL
		}
		item.UpdatedAt = s.now()
		return item, nil
	})
}

func (s *Service) DeleteMenuItem(ctx context.Context, id string) (WriteResult, error) {
	return remove[models.MenuItem](ctx, s, store.Menu, id)
}

// UpdateMenuPrices applies every valid price change in one batch; unknown
// ids and bad prices are skipped and counted.
func (s *Service) UpdateMenuPrices(ctx context.Context, updates []PriceUpdate) (WriteResult, error) {
	return WriteCollection(ctx, s, store.Menu, func(items []models.MenuItem) (Changes[models.MenuItem], error) {
		var ch Changes[models.MenuItem]
		now := s.now()
		for _, u := range updates {
			item, _, ok := find(items, u.ID)
			if !ok {
				ch.Skipped++
				continue
			}
			price, err := parsePrice(u.Price)
			if err != nil {
				s.log.Debug("skipping price update", "id", u.ID, "error", err)
				ch.Skipped++
				continue
			}
			item.Price = price
			item.UpdatedAt = now
			ch.patch(item, map[string]any{"price": price, "updated_at": now})
		}
		return ch, nil
	})
}

func (s *Service) GetAvailability(ctx context.Context) ([]models.Availability, error) {
	return list[models.Availability](ctx, s, store.Availability)
}

// AvailableMenu is the menu minus items marked unavailable. Items with no
// availability record count as available.
func (s *Service) AvailableMenu(ctx context.Context) ([]models.MenuItem, error) {
	menu, err := s.ListMenu(ctx)
	if err != nil {
		return nil, err
	}
	avail, err := s.GetAvailability(ctx)
	if err != nil {
		return nil, err
	}
	off := map[string]bool{}
	for _, a := range avail {
		if !a.Available {
			off[a.ItemID] = true
		}
	}
	out := make([]models.MenuItem, 0, len(menu))
	for _, m := range menu {
		if !off[m.ID] {
			out = append(out, m)
		}
	}
	return out, nil
}

// SetAvailability records availability per menu item id in one batch. Ids
// that are not on the menu are skipped.
func (s *Service) SetAvailability(ctx context.Context, updates map[string]bool) (WriteResult, error) {
	menu, err := s.ListMenu(ctx)
	if err != nil {
		return WriteResult{}, err
	}
	onMenu := make(map[string]bool, len(menu))
	for _, m := range menu {
		onMenu[m.ID] = true
	}

	return WriteCollection(ctx, s, store.Availability, func(current []models.Availability) (Changes[models.Availability], error) {
		var ch Changes[models.Availability]
		now := s.now()
		for id, available := range updates {
			if !onMenu[id] {
				ch.Skipped++
				continue
			}
			if existing, _, ok := find(current, id); ok && existing.Available == available {
				continue
			}
			ch.Put = append(ch.Put, models.Availability{ItemID: id, Available: available, UpdatedAt: now})
		}
		return ch, nil
	})
}
