package export

import (
	"github.com/xuri/excelize/v2"
)

// excelSink writes a flat spreadsheet: one sheet, a header row, one row per
// item across all lists, and a trailing grand-total row.
type excelSink struct {
	f     *excelize.File
	sheet string
	next  int // next row to write, 1-based
	err   error
}

func newExcelSink() *excelSink {
	s := &excelSink{
		f:     excelize.NewFile(),
		sheet: "Sheet1",
		next:  1,
	}
	s.appendRow([]any{"Lista", "Item", "Qtd", "Preço", "Comprado", "Subtotal"})
	return s
}

func (s *excelSink) beginList(string) {} // flat layout, lists are a column

func (s *excelSink) writeRow(row Row) {
	s.appendRow([]any{
		row.ListName,
		row.ItemName,
		row.Quantity,
		money(row.UnitPrice),
		yesNo(row.Purchased),
		money(row.Subtotal),
	})
}

func (s *excelSink) finish(grandTotal float64) {
	s.appendRow([]any{"", "", "", "", "Total", money(grandTotal)})
}

func (s *excelSink) save(path string) error {
	if s.err != nil {
		return s.err
	}
	if err := s.f.SaveAs(path); err != nil {
		return err
	}
	return s.f.Close()
}

func (s *excelSink) ext() string { return "xlsx" }

// appendRow writes cells starting at column A of the next free row. The first
// error sticks and is surfaced by save.
func (s *excelSink) appendRow(cells []any) {
	cell, err := excelize.CoordinatesToCellName(1, s.next)
	if err == nil {
		err = s.f.SetSheetRow(s.sheet, cell, &cells)
	}
	if err != nil && s.err == nil {
		s.err = err
	}
	s.next++
}
