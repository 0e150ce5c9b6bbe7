package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemCreateDefaultsUnpurchased(t *testing.T) {
	db := openTestDB(t)
	lists := NewListRepository(db.DB)
	items := NewItemRepository(db.DB)
	ctx := context.Background()

	listID, err := lists.Create(ctx, "Groceries")
	require.NoError(t, err)

	_, err = items.Create(ctx, listID, "Milk", 2, 3.50)
	require.NoError(t, err)

	got, err := items.GetByList(ctx, listID, "")
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "Milk", got[0].Name)
	assert.Equal(t, listID, got[0].ListID)
	assert.False(t, got[0].Purchased)
	assert.Zero(t, got[0].Subtotal())
}

func TestItemsInsertionOrderAndFilter(t *testing.T) {
	db := openTestDB(t)
	lists := NewListRepository(db.DB)
	items := NewItemRepository(db.DB)
	ctx := context.Background()

	listID, err := lists.Create(ctx, "Groceries")
	require.NoError(t, err)

	for _, name := range []string{"Milk", "Whole milk", "Bread"} {
		_, err := items.Create(ctx, listID, name, 1, 1)
		require.NoError(t, err)
	}

	all, err := items.GetByList(ctx, listID, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Milk", all[0].Name)
	assert.Equal(t, "Whole milk", all[1].Name)
	assert.Equal(t, "Bread", all[2].Name)

	// The match is case-sensitive: "milk" must not pick up "Milk".
	milk, err := items.GetByList(ctx, listID, "milk")
	require.NoError(t, err)
	require.Len(t, milk, 1)
	assert.Equal(t, "Whole milk", milk[0].Name)

	upper, err := items.GetByList(ctx, listID, "Milk")
	require.NoError(t, err)
	require.Len(t, upper, 1)
	assert.Equal(t, "Milk", upper[0].Name)
}

func TestSetPurchasedIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	lists := NewListRepository(db.DB)
	items := NewItemRepository(db.DB)
	ctx := context.Background()

	listID, err := lists.Create(ctx, "Groceries")
	require.NoError(t, err)
	id, err := items.Create(ctx, listID, "Milk", 2, 3.50)
	require.NoError(t, err)

	require.NoError(t, items.SetPurchased(ctx, id, true))
	require.NoError(t, items.SetPurchased(ctx, id, true))

	got, err := items.GetByList(ctx, listID, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Purchased)
	assert.Equal(t, "Milk", got[0].Name)
	assert.InDelta(t, 2, got[0].Quantity, 1e-9)
	assert.InDelta(t, 3.50, got[0].UnitPrice, 1e-9)

	// Unknown ids are silently ignored.
	require.NoError(t, items.SetPurchased(ctx, 9999, true))
}

func TestDeleteUnknownItemIsNoOp(t *testing.T) {
	db := openTestDB(t)
	items := NewItemRepository(db.DB)

	require.NoError(t, items.Delete(context.Background(), 9999))
}

func TestPurchasedTotal(t *testing.T) {
	db := openTestDB(t)
	lists := NewListRepository(db.DB)
	items := NewItemRepository(db.DB)
	ctx := context.Background()

	listID, err := lists.Create(ctx, "Groceries")
	require.NoError(t, err)

	// Empty list totals zero, not NULL.
	total, err := items.PurchasedTotal(ctx, listID)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = items.Create(ctx, listID, "Milk", 2, 3.50)
	require.NoError(t, err)
	bread, err := items.Create(ctx, listID, "Bread", 1, 5.00)
	require.NoError(t, err)

	// Nothing purchased yet.
	total, err = items.PurchasedTotal(ctx, listID)
	require.NoError(t, err)
	assert.Zero(t, total)

	require.NoError(t, items.SetPurchased(ctx, bread, true))

	total, err = items.PurchasedTotal(ctx, listID)
	require.NoError(t, err)
	assert.InDelta(t, 5.00, total, 1e-9)
}
