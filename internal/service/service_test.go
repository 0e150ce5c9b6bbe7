package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tavares/listabot/internal/config"
	"github.com/tavares/listabot/internal/export"
	"github.com/tavares/listabot/internal/metrics"
	"github.com/tavares/listabot/internal/repository/sqlite"
	"github.com/tavares/listabot/internal/selection"
	"github.com/tavares/listabot/pkg/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	l := logger.New("error")
	db, err := config.NewDatabase(filepath.Join(t.TempDir(), "test.db"), l)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	lists := sqlite.NewListRepository(db.DB)
	items := sqlite.NewItemRepository(db.DB)
	exporter := export.NewPipeline(lists, items, export.FixedDir(t.TempDir()), l)

	return New(l, metrics.New(), lists, items, selection.NewTracker(), exporter)
}

func TestConfirmedListDeleteDropsSelection(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.CreateList(ctx, "Groceries")
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, id, "Milk", 2, 3.50)
	require.NoError(t, err)

	svc.ToggleSelection(id, true)
	require.True(t, svc.IsSelected(id))

	conf := svc.RequestDeleteList(id)

	// Nothing happens until the confirmation comes back.
	lists, err := svc.ListsView(ctx, "")
	require.NoError(t, err)
	require.Len(t, lists, 1)

	require.NoError(t, svc.ConfirmDelete(ctx, conf.Token))

	lists, err = svc.ListsView(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, lists)

	view, err := svc.ItemsView(ctx, id, "")
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	assert.False(t, svc.IsSelected(id))
	assert.Empty(t, svc.SelectedLists())
}

func TestCancelDeleteKeepsEverything(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.CreateList(ctx, "Groceries")
	require.NoError(t, err)

	conf := svc.RequestDeleteList(id)
	assert.True(t, svc.CancelDelete(conf.Token))

	lists, err := svc.ListsView(ctx, "")
	require.NoError(t, err)
	require.Len(t, lists, 1)

	// The token is spent; confirming it afterwards is rejected.
	assert.Error(t, svc.ConfirmDelete(ctx, conf.Token))
	assert.False(t, svc.CancelDelete(conf.Token))
}

func TestConfirmDeleteUnknownToken(t *testing.T) {
	svc := newTestService(t)

	assert.Error(t, svc.ConfirmDelete(context.Background(), uuid.New()))
}

func TestConfirmedItemDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	listID, err := svc.CreateList(ctx, "Groceries")
	require.NoError(t, err)
	view, err := svc.AddItem(ctx, listID, "Milk", 2, 3.50)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)

	conf := svc.RequestDeleteItem(view.Items[0].ID)
	require.NoError(t, svc.ConfirmDelete(ctx, conf.Token))

	view, err = svc.ItemsView(ctx, listID, "")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestOpenListContext(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	listID, err := svc.CreateList(ctx, "Groceries")
	require.NoError(t, err)
	view, err := svc.AddItem(ctx, listID, "Bread", 1, 5.00)
	require.NoError(t, err)
	itemID := view.Items[0].ID

	assert.Zero(t, svc.OpenListID())

	// With the list open, toggling refreshes its view.
	_, err = svc.OpenList(ctx, listID)
	require.NoError(t, err)
	assert.Equal(t, listID, svc.OpenListID())

	view, err = svc.ToggleItem(ctx, itemID, true)
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, listID, view.ListID)
	assert.InDelta(t, 5.00, view.PurchasedTotal, 1e-9)

	// Without one, the toggle still applies but there is no view to
	// refresh.
	svc.GoHome()
	view, err = svc.ToggleItem(ctx, itemID, true)
	require.NoError(t, err)
	assert.Nil(t, view)
}

func TestDeletingOpenListClosesIt(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	listID, err := svc.CreateList(ctx, "Groceries")
	require.NoError(t, err)
	_, err = svc.OpenList(ctx, listID)
	require.NoError(t, err)

	conf := svc.RequestDeleteList(listID)
	require.NoError(t, svc.ConfirmDelete(ctx, conf.Token))

	assert.Zero(t, svc.OpenListID())
}

func TestExportSelectedRequiresSelection(t *testing.T) {
	svc := newTestService(t)

	ids, ok := svc.ExportSelected()
	assert.False(t, ok)
	assert.Empty(t, ids)

	svc.ToggleSelection(4, true)
	svc.ToggleSelection(2, true)

	ids, ok = svc.ExportSelected()
	assert.True(t, ok)
	assert.Equal(t, []int64{2, 4}, ids)
}

func TestExportProducesFile(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	listID, err := svc.CreateList(ctx, "Groceries")
	require.NoError(t, err)
	view, err := svc.AddItem(ctx, listID, "Milk", 2, 3.50)
	require.NoError(t, err)
	_, err = svc.ToggleItem(ctx, view.Items[0].ID, true)
	require.NoError(t, err)

	result := svc.Export(ctx, []int64{listID}, export.FormatExcel)
	require.True(t, result.OK, result.Reason)
	assert.NotEmpty(t, result.Path)

	result = svc.Export(ctx, []int64{listID}, export.Format("docx"))
	assert.False(t, result.OK)
	assert.NotEmpty(t, result.Reason)
}
