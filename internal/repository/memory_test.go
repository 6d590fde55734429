package repository

import (
	"context"
	"testing"

	"pricelist/internal/domain"
)

func TestMemoryStore_ItemCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	it := domain.Item{Name: "Apples", Price: 2.5, Unit: "kg", Available: true}
	if err := store.Create(ctx, &it); err != nil {
		t.Fatalf("create: %v", err)
	}
	if it.ID == "" {
		t.Fatalf("no id")
	}

	got, err := store.GetByID(ctx, it.ID)
	if err != nil || got.ID != it.ID {
		t.Fatalf("get: %v", err)
	}

	it.Price = 3
	if err := store.Update(ctx, &it); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := store.Delete(ctx, it.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetByID(ctx, it.ID); err == nil {
		t.Fatalf("expected not found")
	}
}

func TestMemoryStore_ListInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	names := []string{"Apples", "Bread", "Milk"}
	for _, n := range names {
		it := domain.Item{Name: n, Price: 1, Unit: "pcs", Available: true}
		if err := store.Create(ctx, &it); err != nil {
			t.Fatal(err)
		}
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != len(names) {
		t.Fatalf("expected %d items, got %d", len(names), len(list))
	}
	for i, n := range names {
		if list[i].Name != n {
			t.Fatalf("position %d: expected %s, got %s", i, n, list[i].Name)
		}
	}
}

func TestMemoryAccounts_UniqueUsername(t *testing.T) {
	ctx := context.Background()
	accounts := NewMemoryAccounts(NewMemoryStore())

	a := domain.Account{Username: "bob", Password: "pw"}
	if err := accounts.Create(ctx, &a); err != nil {
		t.Fatalf("create: %v", err)
	}
	dup := domain.Account{Username: "bob", Password: "other"}
	if err := accounts.Create(ctx, &dup); err != ErrAlreadyExists {
		t.Fatalf("expected already exists, got %v", err)
	}

	got, err := accounts.GetByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Password != "pw" {
		t.Fatalf("original record overwritten")
	}
}

func TestMemoryOrders_StatusAndListing(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	orders := NewMemoryOrders(store)

	o1 := domain.Order{User: "bob", Status: domain.OrderStatusPending}
	o2 := domain.Order{User: "alice", Status: domain.OrderStatusPending}
	o3 := domain.Order{User: "bob", Status: domain.OrderStatusPending}
	for _, o := range []*domain.Order{&o1, &o2, &o3} {
		if err := orders.Create(ctx, o); err != nil {
			t.Fatal(err)
		}
	}
	if o1.CreatedAt.IsZero() {
		t.Fatalf("created_at not set")
	}

	mine, err := orders.ListByUser(ctx, "bob")
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != o1.ID || mine[1].ID != o3.ID {
		t.Fatalf("user listing wrong: %+v", mine)
	}

	all, err := orders.ListAll(ctx)
	if err != nil || len(all) != 3 {
		t.Fatalf("list all: %v %d", err, len(all))
	}

	upd, err := orders.UpdateStatus(ctx, o2.ID, domain.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if upd.Status != domain.OrderStatusConfirmed || upd.User != "alice" {
		t.Fatalf("status update corrupted order: %+v", upd)
	}
	if _, err := orders.UpdateStatus(ctx, "missing", domain.OrderStatusConfirmed); err != ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMemoryTx_AtomicPlacement(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tx := NewMemoryTx(store)
	orders := NewMemoryOrders(store)

	it := domain.Item{Name: "Apples", Price: 2.5, Unit: "kg", Available: true}
	if err := store.Create(ctx, &it); err != nil {
		t.Fatal(err)
	}

	// validate availability and write the order under one lock
	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		got, err := store.GetByID(ctx, it.ID)
		if err != nil {
			return err
		}
		if !got.Available {
			t.Fatalf("availability precondition")
		}
		o := domain.Order{
			User:        "bob",
			Items:       []domain.OrderLine{{ItemID: it.ID, Quantity: 3, Price: got.Price}},
			TotalAmount: got.Price * 3,
			Status:      domain.OrderStatusPending,
		}
		return orders.Create(ctx, &o)
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	all, _ := orders.ListAll(context.Background())
	if len(all) != 1 || all[0].TotalAmount != 7.5 {
		t.Fatalf("order not persisted correctly: %+v", all)
	}
}
