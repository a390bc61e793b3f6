package dataservice

import (
	"context"
	"strings"

	"restaurant/fault"
	"restaurant/models"
	"restaurant/store"
	"restaurant/utils"
)

type OrderItemInput struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    any    `json:"price"`
	Quantity any    `json:"quantity"`
}

type OrderInput struct {
	Items           []OrderItemInput `json:"items"`
	OrderType       models.OrderType `json:"orderType"`
	TableNumber     string           `json:"tableNumber"`
	CustomerName    string           `json:"customerName"`
	CustomerPhone   string           `json:"customerPhone"`
	DeliveryAddress string           `json:"deliveryAddress"`
	StaffMember     string           `json:"staffMember"`
}

func (in OrderInput) items() ([]models.OrderItem, error) {
	if len(in.Items) == 0 {
		return nil, fault.Invalid("order has no items")
	}
	items := make([]models.OrderItem, 0, len(in.Items))
	for i, it := range in.Items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			return nil, fault.Invalid("item %d: name is required", i)
		}
		price, err := utils.ToNumber(it.Price)
		if err != nil {
			return nil, fault.Invalid("item %q price: %v", name, err)
		}
		if price < 0 {
			return nil, fault.Invalid("item %q price must not be negative", name)
		}
		qty, err := utils.ToNumber(it.Quantity)
		if err != nil {
			return nil, fault.Invalid("item %q quantity: %v", name, err)
		}
		if qty <= 0 {
			return nil, fault.Invalid("item %q quantity must be positive", name)
		}
		items = append(items, models.OrderItem{ID: it.ID, Name: name, Price: price, Quantity: qty})
	}
	return items, nil
}

func (s *Service) ListOrders(ctx context.Context) ([]models.Order, error) {
	return list[models.Order](ctx, s, store.Orders)
}

func (s *Service) GetOrder(ctx context.Context, id string) (models.Order, error) {
	return get[models.Order](ctx, s, store.Orders, id)
}

// CreateOrder validates and stores a new pending order, then refreshes analytics.
func (s *Service) CreateOrder(ctx context.Context, in OrderInput) (models.Order, WriteResult, error) {
	items, err := in.items()
	if err != nil {
		return models.Order{}, WriteResult{}, err
	}
	if in.OrderType == "" {
		in.OrderType = models.DineIn
	}
	if !in.OrderType.Valid() {
		return models.Order{}, WriteResult{}, fault.Invalid("unknown order type %q", in.OrderType)
	}
	if in.OrderType == models.DineIn && strings.TrimSpace(in.TableNumber) == "" {
		return models.Order{}, WriteResult{}, fault.Invalid("dine-in orders need a table number")
	}
	if in.OrderType == models.Delivery && strings.TrimSpace(in.DeliveryAddress) == "" {
		return models.Order{}, WriteResult{}, fault.Invalid("delivery orders need an address")
	}

	now := s.now()
	order, res, err := insert(ctx, s, store.Orders, func([]models.Order) (models.Order, error) {
		return models.Order{
			ID:              s.newID(),
			Items:           items,
			Total:           utils.Round2(models.ItemsTotal(items)),
			Status:          models.StatusPending,
			OrderType:       in.OrderType,
			TableNumber:     strings.TrimSpace(in.TableNumber),
			CustomerName:    strings.TrimSpace(in.CustomerName),
			CustomerPhone:   strings.TrimSpace(in.CustomerPhone),
			DeliveryAddress: strings.TrimSpace(in.DeliveryAddress),
			Timestamp:       now,
			StaffMember:     strings.TrimSpace(in.StaffMember),
			UpdatedAt:       now,
		}, nil
	})
	if err != nil {
		return order, res, err
	}
	res.Warning = s.afterOrderChange(ctx)
	return order, res, nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, WriteResult, error) {
	if !status.Valid() {
		return models.Order{}, WriteResult{}, fault.Invalid("unknown order status %q", status)
	}
	var updated models.Order
	res, err := WriteCollection(ctx, s, store.Orders, func(orders []models.Order) (Changes[models.Order], error) {
		var ch Changes[models.Order]
		order, _, ok := find(orders, id)
		if !ok {
			return ch, fault.Missing(store.Orders, id)
		}
		if !order.Status.CanTransition(status) {
			return ch, fault.Invalid("order %s cannot move from %s to %s", id, order.Status, status)
		}
		order.Status = status
		order.UpdatedAt = s.now()
		updated = order
		ch.patch(order, map[string]any{"status": status, "updated_at": order.UpdatedAt})
		return ch, nil
	})
	if err != nil {
		return updated, res, err
	}
	res.Warning = s.afterOrderChange(ctx)
	return updated, res, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id string) (WriteResult, error) {
	res, err := remove[models.Order](ctx, s, store.Orders, id)
	if err != nil {
		return res, err
	}
	res.Warning = s.afterOrderChange(ctx)
	return res, nil
}

// MarkOrdersMigrated links orders to profiles in one batch. Orders that are
// missing or already migrated are skipped; the count of marked orders is
// returned.
func (s *Service) MarkOrdersMigrated(ctx context.Context, links map[string]string) (int, error) {
	if len(links) == 0 {
		return 0, nil
	}
	res, err := WriteCollection(ctx, s, store.Orders, func(orders []models.Order) (Changes[models.Order], error) {
		var ch Changes[models.Order]
		now := s.now()
		for _, order := range orders {
			profileID, ok := links[order.ID]
			if !ok {
				continue
			}
			if order.Migrated {
				ch.Skipped++
				continue
			}
			order.Migrated = true
			order.MigratedToProfile = profileID
			order.UpdatedAt = now
			ch.patch(order, map[string]any{"migrated": true, "migrated_to_profile": profileID, "updated_at": now})
		}
		return ch, nil
	})
	return res.Updated, err
}

// afterOrderChange keeps analytics in step with the order log. A failure is
// returned as a warning; the order change itself stands.
func (s *Service) afterOrderChange(ctx context.Context) string {
	if _, res := s.RecomputeAnalytics(ctx); !res.Success {
		return res.Warning
	}
	return ""
}
