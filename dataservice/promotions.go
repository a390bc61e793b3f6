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

type ComboInput struct {
	Name        string   `json:"name"`
	ItemIDs     []string `json:"itemIds"`
	Price       any      `json:"price"`
	Description string   `json:"description"`
	Active      *bool    `json:"active"`
}

func comboName(c models.Combo) string { return c.Name }

func (s *Service) ListCombos(ctx context.Context) ([]models.Combo, error) {
	return list[models.Combo](ctx, s, store.Combos)
}

// checkMenuItems fails unless every id is on the menu.
func (s *Service) checkMenuItems(ctx context.Context, ids []string) error {
	menu, err := s.ListMenu(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, _, ok := find(menu, id); !ok {
			return fault.Invalid("menu item %q does not exist", id)
		}
	}
	return nil
}

func (s *Service) AddCombo(ctx context.Context, in ComboInput) (models.Combo, WriteResult, error) {
	if len(in.ItemIDs) < 2 {
		return models.Combo{}, WriteResult{}, fault.Invalid("a combo needs at least two items")
	}
	if err := s.checkMenuItems(ctx, in.ItemIDs); err != nil {
		return models.Combo{}, WriteResult{}, err
	}
	return insert(ctx, s, store.Combos, func(all []models.Combo) (models.Combo, error) {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return models.Combo{}, fault.Invalid("name is required")
		}
		price, err := parsePrice(in.Price)
		if err != nil {
			return models.Combo{}, err
		}
		if nameTaken(all, name, "", comboName) {
			return models.Combo{}, fault.Duplicate(store.Combos, name)
		}
		combo := models.Combo{
			ID:          s.newID(),
			Name:        name,
			ItemIDs:     in.ItemIDs,
			Price:       price,
			Description: in.Description,
			Active:      true,
			UpdatedAt:   s.now(),
		}
		if in.Active != nil {
			combo.Active = *in.Active
		}
		return combo, nil
	})
}

func (s *Service) UpdateCombo(ctx context.Context, id string, in ComboInput) (models.Combo, WriteResult, error) {
	if len(in.ItemIDs) > 0 {
		if len(in.ItemIDs) < 2 {
			return models.Combo{}, WriteResult{}, fault.Invalid("a combo needs at least two items")
		}
		if err := s.checkMenuItems(ctx, in.ItemIDs); err != nil {
			return models.Combo{}, WriteResult{}, err
		}
	}
	return replace(ctx, s, store.Combos, id, func(combo models.Combo, all []models.Combo) (models.Combo, error) {
		if name := strings.TrimSpace(in.Name); name != "" {
			if nameTaken(all, name, id, comboName) {
				return combo, fault.Duplicate(store.Combos, name)
			}
			combo.Name = name
		}
		if len(in.ItemIDs) > 0 {
			combo.ItemIDs = in.ItemIDs
		}
		if in.Price != nil {
			price, err := parsePrice(in.Price)
			if err != nil {
				return combo, err
			}
			combo.Price = price
		}
		if in.Description != "" {
			combo.Description = in.Description
		}
		if in.Active != nil {
			combo.Active = *in.Active
		}
		combo.UpdatedAt = s.now()
		return combo, nil
	})
}

func (s *Service) DeleteCombo(ctx context.Context, id string) (WriteResult, error) {
	return remove[models.Combo](ctx, s, store.Combos, id)
}

type OfferInput struct {
	Title           string     `json:"title"`
	Code            string     `json:"code"`
	DiscountPercent any        `json:"discountPercent"`
	MinOrderValue   any        `json:"minOrderValue"`
	ValidFrom       *time.Time `json:"validFrom"`
	ValidUntil      *time.Time `json:"validUntil"`
	Active          *bool      `json:"active"`
}

func parsePercent(v any) (float64, error) {
	p, err := utils.ToNumber(v)
	if err != nil {
		return 0, fault.Invalid("discount: %v", err)
	}
	if p <= 0 || p > 100 {
		return 0, fault.Invalid("discount must be within (0, 100]")
	}
	return p, nil
}

func (in OfferInput) apply(o models.Offer) (models.Offer, error) {
	if t := strings.TrimSpace(in.Title); t != "" {
		o.Title = t
	}
	if in.Code != "" {
		o.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	}
	if in.DiscountPercent != nil {
		p, err := parsePercent(in.DiscountPercent)
		if err != nil {
			return o, err
		}
		o.DiscountPercent = p
	}
	if in.MinOrderValue != nil {
		v, err := parseQuantity("minOrderValue", in.MinOrderValue)
		if err != nil {
			return o, err
		}
		o.MinOrderValue = v
	}
	if in.ValidFrom != nil {
		o.ValidFrom = *in.ValidFrom
	}
	if in.ValidUntil != nil {
		o.ValidUntil = *in.ValidUntil
	}
	if in.Active != nil {
		o.Active = *in.Active
	}
	if !o.ValidUntil.IsZero() && !o.ValidUntil.After(o.ValidFrom) {
		return o, fault.Invalid("validUntil must be after validFrom")
	}
	return o, nil
}

func (s *Service) ListOffers(ctx context.Context) ([]models.Offer, error) {
	return list[models.Offer](ctx, s, store.Offers)
}

// ActiveOffers are the offers that apply right now.
func (s *Service) ActiveOffers(ctx context.Context) ([]models.Offer, error) {
	offers, err := s.ListOffers(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	active := []models.Offer{}
	for _, o := range offers {
		if o.ActiveAt(now) {
			active = append(active, o)
		}
	}
	return active, nil
}

func (s *Service) AddOffer(ctx context.Context, in OfferInput) (models.Offer, WriteResult, error) {
	if strings.TrimSpace(in.Title) == "" {
		return models.Offer{}, WriteResult{}, fault.Invalid("title is required")
	}
	if in.DiscountPercent == nil {
		return models.Offer{}, WriteResult{}, fault.Invalid("discount is required")
	}
	return insert(ctx, s, store.Offers, func([]models.Offer) (models.Offer, error) {
		return in.apply(models.Offer{ID: s.newID(), ValidFrom: s.now(), Active: true})
	})
}

func (s *Service) UpdateOffer(ctx context.Context, id string, in OfferInput) (models.Offer, WriteResult, error) {
	return replace(ctx, s, store.Offers, id, func(o models.Offer, _ []models.Offer) (models.Offer, error) {
		return in.apply(o)
	})
}

func (s *Service) DeleteOffer(ctx context.Context, id string) (WriteResult, error) {
	return remove[models.Offer](ctx, s, store.Offers, id)
}

type SpecialInput struct {
	Kind       models.SpecialKind `json:"kind"`
	Title      string             `json:"title"`
	Day        string             `json:"day"`
	MenuItemID string             `json:"menuItemId"`
	Price      any                `json:"price"`
	Percent    any                `json:"percent"`
}

// special builds the variant selected by Kind; fields of the other variant are rejected.
func (s *Service) special(ctx context.Context, id string, in SpecialInput) (models.Special, error) {
	sp := models.Special{ID: id, Kind: in.Kind, Title: strings.TrimSpace(in.Title), Day: strings.ToLower(strings.TrimSpace(in.Day))}
	if sp.Title == "" {
		return sp, fault.Invalid("title is required")
	}
	switch in.Kind {
	case models.SpecialDish:
		if in.Percent != nil {
			return sp, fault.Invalid("a dish special takes no percent")
		}
		if err := s.checkMenuItems(ctx, []string{in.MenuItemID}); err != nil {
			return sp, err
		}
		price, err := parsePrice(in.Price)
		if err != nil {
			return sp, err
		}
		sp.Dish = &models.SpecialDishInfo{MenuItemID: in.MenuItemID, Price: price}
	case models.SpecialDiscount:
		if in.MenuItemID != "" || in.Price != nil {
			return sp, fault.Invalid("a discount special takes no menu item or price")
		}
		p, err := parsePercent(in.Percent)
		if err != nil {
			return sp, err
		}
		sp.Discount = &models.DiscountInfo{Percent: p}
	default:
		return sp, fault.Invalid("unknown special kind %q", in.Kind)
	}
	return sp, nil
}

func (s *Service) ListSpecials(ctx context.Context) ([]models.Special, error) {
	return list[models.Special](ctx, s, store.Specials)
}

func (s *Service) AddSpecial(ctx context.Context, in SpecialInput) (models.Special, WriteResult, error) {
	sp, err := s.special(ctx, s.newID(), in)
	if err != nil {
		return sp, WriteResult{}, err
	}
	return insert(ctx, s, store.Specials, func([]models.Special) (models.Special, error) { return sp, nil })
}

// UpdateSpecial replaces the special wholesale; switching kind is allowed.
func (s *Service) UpdateSpecial(ctx context.Context, id string, in SpecialInput) (models.Special, WriteResult, error) {
	sp, err := s.special(ctx, id, in)
	if err != nil {
		return sp, WriteResult{}, err
	}
	return replace(ctx, s, store.Specials, id, func(models.Special, []models.Special) (models.Special, error) {
		return sp, nil
	})
}

func (s *Service) DeleteSpecial(ctx context.Context, id string) (WriteResult, error) {
	return remove[models.Special](ctx, s, store.Specials, id)
}
