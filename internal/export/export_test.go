package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tavares/listabot/internal/config"
	"github.com/tavares/listabot/internal/repository"
	"github.com/tavares/listabot/internal/repository/sqlite"
	"github.com/tavares/listabot/pkg/logger"
)

// recordingSink captures the row stream for assertions.
type recordingSink struct {
	headings []string
	rows     []Row
	total    float64
	saved    string
}

func (s *recordingSink) beginList(name string)     { s.headings = append(s.headings, name) }
func (s *recordingSink) writeRow(row Row)          { s.rows = append(s.rows, row) }
func (s *recordingSink) finish(grandTotal float64) { s.total = grandTotal }
func (s *recordingSink) save(path string) error    { s.saved = path; return nil }
func (s *recordingSink) ext() string               { return "rec" }

func newTestRepos(t *testing.T) (repository.ListRepository, repository.ItemRepository) {
	t.Helper()

	db, err := config.NewDatabase(filepath.Join(t.TempDir(), "test.db"), logger.New("error"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	return sqlite.NewListRepository(db.DB), sqlite.NewItemRepository(db.DB)
}

func seedLists(t *testing.T, lists repository.ListRepository, items repository.ItemRepository) (int64, int64) {
	t.Helper()
	ctx := context.Background()

	groceries, err := lists.Create(ctx, "Groceries")
	require.NoError(t, err)
	milk, err := items.Create(ctx, groceries, "Milk", 2, 3.50)
	require.NoError(t, err)
	_, err = items.Create(ctx, groceries, "Bread", 1, 5.00)
	require.NoError(t, err)
	require.NoError(t, items.SetPurchased(ctx, milk, true))

	party, err := lists.Create(ctx, "Party")
	require.NoError(t, err)
	cake, err := items.Create(ctx, party, "Cake", 1, 20.00)
	require.NoError(t, err)
	require.NoError(t, items.SetPurchased(ctx, cake, true))

	return groceries, party
}

func TestFeedRowsAndGrandTotal(t *testing.T) {
	lists, items := newTestRepos(t)
	groceries, party := seedLists(t, lists, items)

	p := NewPipeline(lists, items, nil, logger.New("error"))
	sink := &recordingSink{}

	total, err := p.feed(context.Background(), []int64{groceries, party}, sink)
	require.NoError(t, err)

	// Purchased: Milk 2*3.50 + Cake 1*20.00.
	assert.InDelta(t, 27.00, total, 1e-9)

	assert.Equal(t, []string{"Groceries", "Party"}, sink.headings)
	require.Len(t, sink.rows, 3)

	assert.Equal(t, "Milk", sink.rows[0].ItemName)
	assert.Equal(t, "Groceries", sink.rows[0].ListName)
	assert.True(t, sink.rows[0].Purchased)
	assert.InDelta(t, 7.00, sink.rows[0].Subtotal, 1e-9)

	// Unpurchased items appear with a zero subtotal.
	assert.Equal(t, "Bread", sink.rows[1].ItemName)
	assert.False(t, sink.rows[1].Purchased)
	assert.Zero(t, sink.rows[1].Subtotal)

	assert.Equal(t, "Cake", sink.rows[2].ItemName)
	assert.Equal(t, "Party", sink.rows[2].ListName)
}

func TestFeedSkipsEmptyAndUnknownLists(t *testing.T) {
	lists, items := newTestRepos(t)

	empty, err := lists.Create(context.Background(), "Empty")
	require.NoError(t, err)

	p := NewPipeline(lists, items, nil, logger.New("error"))
	sink := &recordingSink{}

	total, err := p.feed(context.Background(), []int64{empty, 9999}, sink)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, sink.headings)
	assert.Empty(t, sink.rows)
}

func TestRunExcel(t *testing.T) {
	lists, items := newTestRepos(t)
	groceries, party := seedLists(t, lists, items)

	dir := t.TempDir()
	p := NewPipeline(lists, items, FixedDir(dir), logger.New("error"))
	p.now = func() time.Time { return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC) }

	path, err := p.Run(context.Background(), []int64{groceries, party}, FormatExcel)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "lista_compras_20260314_150926.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)

	// Header, three items, grand total.
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Lista", "Item", "Qtd", "Preço", "Comprado", "Subtotal"}, rows[0])
	assert.Equal(t, "Groceries", rows[1][0])
	assert.Equal(t, "Milk", rows[1][1])
	assert.Equal(t, "Sim", rows[1][4])
	assert.Equal(t, "R$7.00", rows[1][5])
	assert.Equal(t, "Não", rows[2][4])
	assert.Equal(t, "Total", rows[4][4])
	assert.Equal(t, "R$27.00", rows[4][5])
}

func TestRunPDF(t *testing.T) {
	lists, items := newTestRepos(t)
	groceries, party := seedLists(t, lists, items)

	dir := t.TempDir()
	p := NewPipeline(lists, items, FixedDir(dir), logger.New("error"))

	path, err := p.Run(context.Background(), []int64{groceries, party}, FormatPDF)
	require.NoError(t, err)

	assert.Equal(t, ".pdf", filepath.Ext(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRunFailureLeavesNoFile(t *testing.T) {
	lists, items := newTestRepos(t)
	groceries, party := seedLists(t, lists, items)

	missing := filepath.Join(t.TempDir(), "does", "not", "exist")
	p := NewPipeline(lists, items, FixedDir(missing), logger.New("error"))

	path, err := p.Run(context.Background(), []int64{groceries, party}, FormatExcel)
	require.Error(t, err)
	assert.Empty(t, path)

	_, statErr := os.Stat(missing)
	assert.True(t, os.IsNotExist(statErr))
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("excel")
	require.NoError(t, err)
	assert.Equal(t, FormatExcel, format)

	format, err = ParseFormat("pdf")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, format)

	_, err = ParseFormat("docx")
	assert.Error(t, err)
}
