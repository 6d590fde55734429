package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pricelist/internal/domain"
	"pricelist/internal/repository"
)

func setup(t *testing.T) (*CatalogService, *OrderService, *repository.MemoryOrders) {
	t.Helper()
	store := repository.NewMemoryStore()
	ordersRepo := repository.NewMemoryOrders(store)
	tx := repository.NewMemoryTx(store)
	cs := NewCatalogService(store)
	os := NewOrderService(store, ordersRepo, tx)
	return cs, os, ordersRepo
}

func TestPlaceOrder_SnapshotsPriceAndTotal(t *testing.T) {
	ctx := context.Background()
	cs, os, _ := setup(t)

	apples, err := cs.Create(ctx, domain.Item{Name: "Apples", Price: 2.5, Unit: "kg"})
	require.NoError(t, err)
	milk, err := cs.Create(ctx, domain.Item{Name: "Milk", Price: 1.2, Unit: "l"})
	require.NoError(t, err)

	o, err := os.PlaceOrder(ctx, "bob", []domain.OrderLine{
		{ItemID: apples.ID, Quantity: 3},
		{ItemID: milk.ID, Quantity: 2},
	})
	require.NoError(t, err)
	require.NotEmpty(t, o.ID)
	require.Equal(t, "bob", o.User)
	require.Equal(t, domain.OrderStatusPending, o.Status)
	require.False(t, o.CreatedAt.IsZero())

	require.Equal(t, []domain.OrderLine{
		{ItemID: apples.ID, Quantity: 3, Price: 2.5},
		{ItemID: milk.ID, Quantity: 2, Price: 1.2},
	}, o.Items)
	require.InDelta(t, 3*2.5+2*1.2, o.TotalAmount, 1e-9)
}

func TestPlaceOrder_RejectsUnavailableItem(t *testing.T) {
	ctx := context.Background()
	cs, os, ordersRepo := setup(t)

	apples, err := cs.Create(ctx, domain.Item{Name: "Apples", Price: 2.5, Unit: "kg"})
	require.NoError(t, err)
	off := false
	bread, err := cs.Create(ctx, domain.Item{Name: "Bread", Price: 1, Unit: "pcs"})
	require.NoError(t, err)
	_, err = cs.Update(ctx, bread.ID, ItemPatch{Available: &off})
	require.NoError(t, err)

	_, err = os.PlaceOrder(ctx, "bob", []domain.OrderLine{
		{ItemID: apples.ID, Quantity: 1},
		{ItemID: bread.ID, Quantity: 1},
	})
	require.ErrorIs(t, err, ErrItemUnavailable)

	// all-or-nothing: nothing persisted
	all, err := ordersRepo.ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestPlaceOrder_RejectsUnknownItem(t *testing.T) {
	ctx := context.Background()
	_, os, ordersRepo := setup(t)

	_, err := os.PlaceOrder(ctx, "bob", []domain.OrderLine{{ItemID: "missing", Quantity: 1}})
	require.ErrorIs(t, err, ErrItemUnavailable)

	all, err := ordersRepo.ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestPlaceOrder_EmptyLinesAccepted(t *testing.T) {
	ctx := context.Background()
	_, os, _ := setup(t)

	o, err := os.PlaceOrder(ctx, "bob", nil)
	require.NoError(t, err)
	require.Empty(t, o.Items)
	require.Zero(t, o.TotalAmount)
	require.Equal(t, domain.OrderStatusPending, o.Status)
}

func TestPlaceOrder_PriceChangeDoesNotTouchSnapshot(t *testing.T) {
	ctx := context.Background()
	cs, os, _ := setup(t)

	apples, err := cs.Create(ctx, domain.Item{Name: "Apples", Price: 2.5, Unit: "kg"})
	require.NoError(t, err)
	o, err := os.PlaceOrder(ctx, "bob", []domain.OrderLine{{ItemID: apples.ID, Quantity: 3}})
	require.NoError(t, err)

	newPrice := 9.99
	_, err = cs.Update(ctx, apples.ID, ItemPatch{Price: &newPrice})
	require.NoError(t, err)

	got, err := os.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, 2.5, got.Items[0].Price)
	require.Equal(t, 7.5, got.TotalAmount)
}

func TestListForUser_ResolvesDeletedItemAsUnknown(t *testing.T) {
	ctx := context.Background()
	cs, os, _ := setup(t)

	apples, err := cs.Create(ctx, domain.Item{Name: "Apples", Price: 2.5, Unit: "kg"})
	require.NoError(t, err)
	o, err := os.PlaceOrder(ctx, "bob", []domain.OrderLine{{ItemID: apples.ID, Quantity: 3}})
	require.NoError(t, err)

	require.NoError(t, cs.Delete(ctx, apples.ID))

	views, err := os.ListForUser(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, o.ID, views[0].ID)
	require.Len(t, views[0].Items, 1)

	line := views[0].Items[0]
	require.Equal(t, "Unknown Item", line.Name)
	require.Equal(t, apples.ID, line.ItemID)
	require.Equal(t, 2.5, line.Price, "snapshot survives catalog delete")
	require.Equal(t, 7.5, views[0].TotalAmount)
}

func TestListForUser_FiltersByOwner(t *testing.T) {
	ctx := context.Background()
	cs, os, _ := setup(t)

	apples, err := cs.Create(ctx, domain.Item{Name: "Apples", Price: 2.5, Unit: "kg"})
	require.NoError(t, err)
	_, err = os.PlaceOrder(ctx, "bob", []domain.OrderLine{{ItemID: apples.ID, Quantity: 1}})
	require.NoError(t, err)
	_, err = os.PlaceOrder(ctx, "alice", []domain.OrderLine{{ItemID: apples.ID, Quantity: 2}})
	require.NoError(t, err)

	bobs, err := os.ListForUser(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobs, 1)
	require.Equal(t, "bob", bobs[0].User)
	require.Equal(t, "Apples", bobs[0].Items[0].Name)
	require.Equal(t, "kg", bobs[0].Items[0].Unit)

	all, err := os.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	cs, os, _ := setup(t)

	apples, err := cs.Create(ctx, domain.Item{Name: "Apples", Price: 2.5, Unit: "kg"})
	require.NoError(t, err)
	o, err := os.PlaceOrder(ctx, "bob", []domain.OrderLine{{ItemID: apples.ID, Quantity: 3}})
	require.NoError(t, err)

	upd, err := os.UpdateStatus(ctx, o.ID, domain.OrderStatusConfirmed)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusConfirmed, upd.Status)
	// everything else untouched
	require.Equal(t, o.ID, upd.ID)
	require.Equal(t, o.Items, upd.Items)
	require.Equal(t, o.TotalAmount, upd.TotalAmount)
	require.True(t, upd.CreatedAt.Equal(o.CreatedAt))

	// no transition graph: completed back to pending is allowed
	upd, err = os.UpdateStatus(ctx, o.ID, domain.OrderStatusPending)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusPending, upd.Status)
}

func TestUpdateStatus_InvalidValueLeavesOrderUntouched(t *testing.T) {
	ctx := context.Background()
	cs, os, _ := setup(t)

	apples, err := cs.Create(ctx, domain.Item{Name: "Apples", Price: 2.5, Unit: "kg"})
	require.NoError(t, err)
	o, err := os.PlaceOrder(ctx, "bob", []domain.OrderLine{{ItemID: apples.ID, Quantity: 3}})
	require.NoError(t, err)

	_, err = os.UpdateStatus(ctx, o.ID, domain.OrderStatus("shipped"))
	require.ErrorIs(t, err, ErrInvalidStatus)

	got, err := os.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusPending, got.Status)
}

func TestUpdateStatus_UnknownOrder(t *testing.T) {
	ctx := context.Background()
	_, os, _ := setup(t)

	_, err := os.UpdateStatus(ctx, "missing", domain.OrderStatusConfirmed)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
