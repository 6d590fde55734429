package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pricelist/internal/domain"
	"pricelist/internal/repository"
)

// OrderService implements order placement, listing and status management.
type OrderService struct {
	items  repository.ItemRepository
	orders repository.OrderRepository
	tx     repository.TxManager
}

func NewOrderService(items repository.ItemRepository, orders repository.OrderRepository, tx repository.TxManager) *OrderService {
	return &OrderService{items: items, orders: orders, tx: tx}
}

var (
	ErrItemUnavailable = errors.New("item is not available")
	ErrInvalidStatus   = errors.New("invalid status")
)

// unknownItemName is the display placeholder for lines whose item was
// deleted after the order was placed.
const unknownItemName = "Unknown Item"

// OrderLineView is an order line joined with the current catalog state.
// Price stays the snapshot taken at order time.
type OrderLineView struct {
	ItemID   string  `json:"itemId"`
	Name     string  `json:"name"`
	Unit     string  `json:"unit,omitempty"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderView is an order prepared for display.
type OrderView struct {
	ID          string             `json:"id"`
	User        string             `json:"user"`
	Items       []OrderLineView    `json:"items"`
	TotalAmount float64            `json:"totalAmount"`
	Status      domain.OrderStatus `json:"status"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// PlaceOrder validates every requested line against the catalog, snapshots
// prices, and persists the order atomically. Any unavailable or unknown item
// rejects the whole order; nothing is written in that case. An empty line set
// produces an empty pending order.
func (s *OrderService) PlaceOrder(ctx context.Context, user string, lines []domain.OrderLine) (*domain.Order, error) {
	if user == "" {
		return nil, ErrInvalidInput
	}

	var created *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		items := make([]domain.OrderLine, 0, len(lines))
		var total float64
		for _, l := range lines {
			it, err := s.items.GetByID(ctx, l.ItemID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("item %s: %w", l.ItemID, ErrItemUnavailable)
				}
				return err
			}
			if !it.Available {
				return fmt.Errorf("item %s: %w", l.ItemID, ErrItemUnavailable)
			}
			items = append(items, domain.OrderLine{
				ItemID:   it.ID,
				Quantity: l.Quantity,
				Price:    it.Price,
			})
			total += it.Price * float64(l.Quantity)
		}

		o := domain.Order{
			User:        user,
			Items:       items,
			TotalAmount: total,
			Status:      domain.OrderStatusPending,
		}
		if err := s.orders.Create(ctx, &o); err != nil {
			return err
		}
		created = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetOrder returns an order by id without the display join.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.orders.GetByID(ctx, id)
}

// ListForUser returns the user's orders joined with current item records.
func (s *OrderService) ListForUser(ctx context.Context, user string) ([]OrderView, error) {
	if user == "" {
		return nil, ErrInvalidInput
	}
	orders, err := s.orders.ListByUser(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, orders)
}

// ListAll returns every order joined with current item records.
func (s *OrderService) ListAll(ctx context.Context) ([]OrderView, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, orders)
}

// UpdateStatus sets the order status. Any status may move to any status,
// including a no-op; everything else on the order stays untouched.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.orders.UpdateStatus(ctx, id, status)
}

// resolve joins order lines to the current catalog for display. Deleted items
// resolve to a placeholder name; the snapshot price is kept either way.
func (s *OrderService) resolve(ctx context.Context, orders []domain.Order) ([]OrderView, error) {
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		v := OrderView{
			ID:          o.ID,
			User:        o.User,
			Items:       make([]OrderLineView, 0, len(o.Items)),
			TotalAmount: o.TotalAmount,
			Status:      o.Status,
			CreatedAt:   o.CreatedAt,
		}
		for _, l := range o.Items {
			lv := OrderLineView{
				ItemID:   l.ItemID,
				Name:     unknownItemName,
				Quantity: l.Quantity,
				Price:    l.Price,
			}
			it, err := s.items.GetByID(ctx, l.ItemID)
			switch {
			case err == nil:
				lv.Name = it.Name
				lv.Unit = it.Unit
			case errors.Is(err, repository.ErrNotFound):
				// dangling reference, keep the placeholder
			default:
				return nil, err
			}
			v.Items = append(v.Items, lv)
		}
		out = append(out, v)
	}
	return out, nil
}
