package export

import (
	"fmt"

	"github.com/go-pdf/fpdf"
)

// Column widths in millimeters; together they fit a portrait A4 page.
var pdfColumns = []struct {
	title string
	width float64
}{
	{"Item", 70},
	{"Qtd", 20},
	{"Preço", 30},
	{"Status", 25},
	{"Total", 30},
}

// pdfSink writes a sectioned document: a heading plus sub-table per list and
// one trailing total line for the whole export.
type pdfSink struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newPDFSink() *pdfSink {
	pdf := fpdf.New("P", "mm", "A4", "")
	s := &pdfSink{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, s.tr("Lista de Compras"), "", 1, "C", false, 0, "")
	return s
}

func (s *pdfSink) beginList(name string) {
	s.pdf.Ln(4)
	s.pdf.SetFont("Helvetica", "B", 12)
	s.pdf.CellFormat(0, 8, s.tr(name), "", 1, "L", false, 0, "")

	s.pdf.SetFont("Helvetica", "B", 9)
	s.pdf.SetFillColor(200, 200, 200)
	for _, col := range pdfColumns {
		s.pdf.CellFormat(col.width, 7, s.tr(col.title), "1", 0, "C", true, 0, "")
	}
	s.pdf.Ln(-1)
}

func (s *pdfSink) writeRow(row Row) {
	s.pdf.SetFont("Helvetica", "", 9)
	cells := []string{
		row.ItemName,
		fmt.Sprintf("%.1f", row.Quantity),
		money(row.UnitPrice),
		yesNo(row.Purchased),
		money(row.Subtotal),
	}
	for i, col := range pdfColumns {
		s.pdf.CellFormat(col.width, 6, s.tr(cells[i]), "1", 0, "L", false, 0, "")
	}
	s.pdf.Ln(-1)
}

func (s *pdfSink) finish(grandTotal float64) {
	s.pdf.Ln(6)
	s.pdf.SetFont("Helvetica", "B", 12)
	s.pdf.CellFormat(0, 8, s.tr(fmt.Sprintf("Total: R$ %.2f", grandTotal)), "", 1, "L", false, 0, "")
}

func (s *pdfSink) save(path string) error {
	return s.pdf.OutputFileAndClose(path)
}

func (s *pdfSink) ext() string { return "pdf" }
