package repository

import (
	"context"
	"errors"

	"pricelist/internal/domain"
)

// ErrNotFound is returned when an entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned on unique-key conflicts (account usernames).
var ErrAlreadyExists = errors.New("already exists")

// ItemRepository stores catalog items.
type ItemRepository interface {
	Create(ctx context.Context, it *domain.Item) error
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	Update(ctx context.Context, it *domain.Item) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Item, error)
}

// AccountRepository stores user accounts keyed by username.
type AccountRepository interface {
	Create(ctx context.Context, a *domain.Account) error
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
}

// OrderRepository stores orders. Listings return orders in insertion order.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	ListByUser(ctx context.Context, username string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
}

// TxManager is the transaction abstraction. The in-memory store uses a global
// write lock; the sqlite store uses a database transaction.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
