// Package export turns a set of shopping lists into a spreadsheet or PDF
// document. The pipeline walks the lists in the order given, emits one row per
// item, and keeps a running grand total over purchased items only.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tavares/listabot/internal/repository"
)

// Format identifies a document sink.
type Format string

const (
	FormatExcel Format = "excel"
	FormatPDF   Format = "pdf"
)

// ParseFormat converts user input into a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatExcel, FormatPDF:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Row is one exported line: an item together with the list it belongs to and
// its subtotal (zero when the item is not purchased).
type Row struct {
	ListName  string
	ItemName  string
	Quantity  float64
	UnitPrice float64
	Purchased bool
	Subtotal  float64
}

// FolderPicker resolves the destination directory for generated files. It is
// an external collaborator; implementations may prompt the user.
type FolderPicker interface {
	Choose() (string, error)
}

// FixedDir is a FolderPicker that always returns the same directory.
type FixedDir string

// Choose returns the configured directory.
func (d FixedDir) Choose() (string, error) { return string(d), nil }

// sink consumes the ordered row stream produced by the pipeline.
type sink interface {
	beginList(name string)
	writeRow(row Row)
	finish(grandTotal float64)
	save(path string) error
	ext() string
}

// Pipeline reads lists and items from the repositories and feeds a document
// sink.
type Pipeline struct {
	lists  repository.ListRepository
	items  repository.ItemRepository
	picker FolderPicker
	logger *logrus.Logger
	now    func() time.Time
}

// NewPipeline creates an export pipeline. picker may be nil, in which case
// files are written to the current working directory.
func NewPipeline(lists repository.ListRepository, items repository.ItemRepository, picker FolderPicker, logger *logrus.Logger) *Pipeline {
	return &Pipeline{
		lists:  lists,
		items:  items,
		picker: picker,
		logger: logger,
		now:    time.Now,
	}
}

// Run exports the given lists in order and returns the path of the generated
// file. The filename carries a second-granularity timestamp so repeated
// exports into the same directory never overwrite each other. On failure no
// file is left behind.
func (p *Pipeline) Run(ctx context.Context, ids []int64, format Format) (string, error) {
	var s sink
	switch format {
	case FormatExcel:
		s = newExcelSink()
	case FormatPDF:
		s = newPDFSink()
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}

	grandTotal, err := p.feed(ctx, ids, s)
	if err != nil {
		return "", err
	}
	s.finish(grandTotal)

	name := fmt.Sprintf("lista_compras_%s.%s", p.now().Format("20060102_150405"), s.ext())
	path := filepath.Join(p.destination(), name)

	if err := s.save(path); err != nil {
		// Do not leave a half-written file that a later run could
		// mistake for a finished export.
		os.Remove(path)
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"file":        path,
		"format":      format,
		"lists":       len(ids),
		"grand_total": grandTotal,
	}).Info("Export completed")

	return path, nil
}

// feed streams every item of every list into the sink and returns the grand
// total over purchased items.
func (p *Pipeline) feed(ctx context.Context, ids []int64, s sink) (float64, error) {
	var grandTotal float64

	for _, id := range ids {
		name, err := p.lists.GetName(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve list %d: %w", id, err)
		}

		items, err := p.items.GetByList(ctx, id, "")
		if err != nil {
			return 0, fmt.Errorf("failed to load items of list %d: %w", id, err)
		}
		if len(items) == 0 {
			continue
		}

		s.beginList(name)
		for _, item := range items {
			subtotal := item.Subtotal()
			grandTotal += subtotal
			s.writeRow(Row{
				ListName:  name,
				ItemName:  item.Name,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				Purchased: item.Purchased,
				Subtotal:  subtotal,
			})
		}
	}

	return grandTotal, nil
}

func (p *Pipeline) destination() string {
	if p.picker != nil {
		if dir, err := p.picker.Choose(); err == nil && dir != "" {
			return dir
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func money(v float64) string {
	return fmt.Sprintf("R$%.2f", v)
}

func yesNo(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}
