package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"pricelist/internal/domain"
)

// MemoryStore is a combined in-memory store. Listings keep insertion order.
type MemoryStore struct {
	mu           sync.RWMutex
	itemsByID    map[string]domain.Item
	itemIDs      []string
	accountsByID map[string]domain.Account
	ordersByID   map[string]domain.Order
	orderIDs     []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		itemsByID:    make(map[string]domain.Item),
		accountsByID: make(map[string]domain.Account),
		ordersByID:   make(map[string]domain.Order),
	}
}

// transaction-aware locking helpers
type txKey struct{}

func isTx(ctx context.Context) bool {
	v := ctx.Value(txKey{})
	if v == nil {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RLock()
	}
}
func (m *MemoryStore) runlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RUnlock()
	}
}
func (m *MemoryStore) wlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Lock()
	}
}
func (m *MemoryStore) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Unlock()
	}
}

// Ensure interfaces
var _ ItemRepository = (*MemoryStore)(nil)

// ItemRepository implementation
func (m *MemoryStore) Create(ctx context.Context, it *domain.Item) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	it.ID = uuid.NewString()
	m.itemsByID[it.ID] = *it
	m.itemIDs = append(m.itemIDs, it.ID)
	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	it, ok := m.itemsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	// return copy
	cp := it
	return &cp, nil
}

func (m *MemoryStore) Update(ctx context.Context, it *domain.Item) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.itemsByID[it.ID]; !ok {
		return ErrNotFound
	}
	m.itemsByID[it.ID] = *it
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.itemsByID[id]; !ok {
		return ErrNotFound
	}
	delete(m.itemsByID, id)
	for i, iid := range m.itemIDs {
		if iid == id {
			m.itemIDs = append(m.itemIDs[:i], m.itemIDs[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]domain.Item, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	out := make([]domain.Item, 0, len(m.itemIDs))
	for _, id := range m.itemIDs {
		out = append(out, m.itemsByID[id])
	}
	return out, nil
}

// AccountRepository implementation on wrapper type
type MemoryAccounts struct{ store *MemoryStore }

func NewMemoryAccounts(store *MemoryStore) *MemoryAccounts { return &MemoryAccounts{store: store} }

var _ AccountRepository = (*MemoryAccounts)(nil)

func (ma *MemoryAccounts) Create(ctx context.Context, a *domain.Account) error {
	ma.store.wlock(ctx)
	defer ma.store.wunlock(ctx)
	if _, ok := ma.store.accountsByID[a.Username]; ok {
		return ErrAlreadyExists
	}
	ma.store.accountsByID[a.Username] = *a
	return nil
}

func (ma *MemoryAccounts) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	ma.store.rlock(ctx)
	defer ma.store.runlock(ctx)
	a, ok := ma.store.accountsByID[username]
	if !ok {
		return nil, ErrNotFound
	}
	cp := a
	return &cp, nil
}

// OrderRepository implementation on wrapper type
type MemoryOrders struct{ store *MemoryStore }

func NewMemoryOrders(store *MemoryStore) *MemoryOrders { return &MemoryOrders{store: store} }

var _ OrderRepository = (*MemoryOrders)(nil)

func (mo *MemoryOrders) Create(ctx context.Context, o *domain.Order) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	o.ID = uuid.NewString()
	o.CreatedAt = time.Now().UTC()
	mo.store.ordersByID[o.ID] = *o
	mo.store.orderIDs = append(mo.store.orderIDs, o.ID)
	return nil
}

func (mo *MemoryOrders) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	o, ok := mo.store.ordersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := o
	return &cp, nil
}

func (mo *MemoryOrders) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	o, ok := mo.store.ordersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	o.Status = status
	mo.store.ordersByID[id] = o
	cp := o
	return &cp, nil
}

func (mo *MemoryOrders) ListByUser(ctx context.Context, username string) ([]domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	out := make([]domain.Order, 0)
	for _, id := range mo.store.orderIDs {
		if o := mo.store.ordersByID[id]; o.User == username {
			out = append(out, o)
		}
	}
	return out, nil
}

func (mo *MemoryOrders) ListAll(ctx context.Context) ([]domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	out := make([]domain.Order, 0, len(mo.store.orderIDs))
	for _, id := range mo.store.orderIDs {
		out = append(out, mo.store.ordersByID[id])
	}
	return out, nil
}

// Tx manager using write lock to emulate transaction boundary
type MemoryTx struct{ store *MemoryStore }

func NewMemoryTx(store *MemoryStore) *MemoryTx { return &MemoryTx{store: store} }

var _ TxManager = (*MemoryTx)(nil)

func (tx *MemoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// take the write lock and mark the context so repositories skip their own locks
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	ctx = context.WithValue(ctx, txKey{}, true)
	return fn(ctx)
}
