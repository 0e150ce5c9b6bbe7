package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tavares/listabot/internal/export"
	"github.com/tavares/listabot/internal/metrics"
	"github.com/tavares/listabot/internal/models"
	"github.com/tavares/listabot/internal/repository"
	"github.com/tavares/listabot/internal/selection"
)

// Service is the single entry point the presentation layers talk to. It owns
// the selection tracker and the list-detail context (which list is currently
// open) and orchestrates the repositories and the export pipeline.
type Service struct {
	logger  *logrus.Logger
	metrics *metrics.Metrics

	Lists repository.ListRepository
	Items repository.ItemRepository

	selected *selection.Tracker
	exporter *export.Pipeline

	mu       sync.Mutex
	openList int64 // 0 when no list is open
	pending  map[uuid.UUID]pendingDelete
}

// New creates a new Service with all required dependencies.
func New(logger *logrus.Logger, m *metrics.Metrics,
	lists repository.ListRepository,
	items repository.ItemRepository,
	selected *selection.Tracker,
	exporter *export.Pipeline,
) *Service {
	return &Service{
		logger:   logger,
		metrics:  m,
		Lists:    lists,
		Items:    items,
		selected: selected,
		exporter: exporter,
		pending:  make(map[uuid.UUID]pendingDelete),
	}
}

// ItemsView is what the presentation renders for an open list: its items (in
// insertion order, possibly filtered) together with the purchased total.
type ItemsView struct {
	ListID         int64         `json:"list_id"`
	Items          []models.Item `json:"items"`
	PurchasedTotal float64       `json:"purchased_total"`
}

// ---------------------------------------------------------------------------
// Home context: lists, filtering, selection
// ---------------------------------------------------------------------------

// CreateList creates a new list and returns its identifier.
func (s *Service) CreateList(ctx context.Context, name string) (int64, error) {
	s.metrics.Actions.WithLabelValues("create_list").Inc()

	id, err := s.Lists.Create(ctx, name)
	if err != nil {
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{"list_id": id, "name": name}).Info("List created")
	return id, nil
}

// ListsView returns all lists, or those whose name contains filter, newest
// first.
func (s *Service) ListsView(ctx context.Context, filter string) ([]models.List, error) {
	s.metrics.Actions.WithLabelValues("filter_lists").Inc()
	return s.Lists.GetAll(ctx, filter)
}

// ToggleSelection marks or unmarks a list for bulk export.
func (s *Service) ToggleSelection(id int64, active bool) {
	s.metrics.Actions.WithLabelValues("toggle_selection").Inc()
	s.selected.Toggle(id, active)
}

// SelectedLists returns a sorted snapshot of the lists marked for export.
func (s *Service) SelectedLists() []int64 {
	return s.selected.Current()
}

// IsSelected reports whether a list is currently marked for export.
func (s *Service) IsSelected(id int64) bool {
	return s.selected.Contains(id)
}

// ---------------------------------------------------------------------------
// Export
// ---------------------------------------------------------------------------

// ExportResult is the outcome of one export run: either the path of the
// generated file or a human-readable reason for the failure. Export never
// panics across the service boundary.
type ExportResult struct {
	OK     bool   `json:"ok"`
	Path   string `json:"path,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// ExportSelected returns the lists currently marked for export. The second
// return is false when nothing is selected, in which case the presentation
// should not prompt for a format.
func (s *Service) ExportSelected() ([]int64, bool) {
	ids := s.selected.Current()
	return ids, len(ids) > 0
}

// Export runs the export pipeline for the given lists with the chosen format.
func (s *Service) Export(ctx context.Context, ids []int64, format export.Format) ExportResult {
	s.metrics.Actions.WithLabelValues("export").Inc()

	path, err := s.exporter.Run(ctx, ids, format)
	if err != nil {
		s.logger.WithError(err).WithField("format", format).Error("Export failed")
		s.metrics.Exports.WithLabelValues(string(format), "failure").Inc()
		return ExportResult{Reason: err.Error()}
	}

	s.metrics.Exports.WithLabelValues(string(format), "success").Inc()
	return ExportResult{OK: true, Path: path}
}

// ---------------------------------------------------------------------------
// List-detail context: items
// ---------------------------------------------------------------------------

// OpenList makes id the current list-detail context and loads its items.
func (s *Service) OpenList(ctx context.Context, id int64) (*ItemsView, error) {
	s.metrics.Actions.WithLabelValues("open_list").Inc()

	s.mu.Lock()
	s.openList = id
	s.mu.Unlock()

	return s.ItemsView(ctx, id, "")
}

// GoHome leaves the list-detail context.
func (s *Service) GoHome() {
	s.mu.Lock()
	s.openList = 0
	s.mu.Unlock()
}

// OpenListID returns the id of the currently open list, or 0 when none is.
func (s *Service) OpenListID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openList
}

// ItemsView loads the items of a list, optionally filtered by a name
// substring, together with the purchased total. An unknown list yields an
// empty view, not an error.
func (s *Service) ItemsView(ctx context.Context, listID int64, filter string) (*ItemsView, error) {
	items, err := s.Items.GetByList(ctx, listID, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.Items.PurchasedTotal(ctx, listID)
	if err != nil {
		return nil, err
	}

	return &ItemsView{ListID: listID, Items: items, PurchasedTotal: total}, nil
}

// AddItem creates an item and returns the refreshed view of its list. The
// presentation validates name, quantity and price before dispatching here.
func (s *Service) AddItem(ctx context.Context, listID int64, name string, quantity, unitPrice float64) (*ItemsView, error) {
	s.metrics.Actions.WithLabelValues("add_item").Inc()

	id, err := s.Items.Create(ctx, listID, name, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"item_id": id, "list_id": listID}).Info("Item added")
	return s.ItemsView(ctx, listID, "")
}

// ToggleItem flips the purchased flag of an item. When a list-detail context
// is active its refreshed view is returned; otherwise the view is nil.
func (s *Service) ToggleItem(ctx context.Context, id int64, purchased bool) (*ItemsView, error) {
	s.metrics.Actions.WithLabelValues("toggle_item").Inc()

	if err := s.Items.SetPurchased(ctx, id, purchased); err != nil {
		return nil, err
	}

	if open := s.OpenListID(); open != 0 {
		return s.ItemsView(ctx, open, "")
	}
	return nil, nil
}

// ---------------------------------------------------------------------------
// Two-phase deletion
// ---------------------------------------------------------------------------

type deleteKind int

const (
	deleteList deleteKind = iota
	deleteItem
)

type pendingDelete struct {
	kind deleteKind
	id   int64
}

// Confirmation is a pending destructive operation. The effect only runs when
// the presentation calls ConfirmDelete with the token.
type Confirmation struct {
	Token   uuid.UUID `json:"token"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
}

// RequestDeleteList stages the deletion of a list and all its items.
func (s *Service) RequestDeleteList(id int64) Confirmation {
	return s.stageDelete(pendingDelete{kind: deleteList, id: id},
		"Delete list?", "All of its items will be removed.")
}

// RequestDeleteItem stages the deletion of a single item.
func (s *Service) RequestDeleteItem(id int64) Confirmation {
	return s.stageDelete(pendingDelete{kind: deleteItem, id: id},
		"Delete item?", "This item will be removed permanently.")
}

func (s *Service) stageDelete(p pendingDelete, title, message string) Confirmation {
	token := uuid.New()

	s.mu.Lock()
	s.pending[token] = p
	s.mu.Unlock()

	return Confirmation{Token: token, Title: title, Message: message}
}

// ConfirmDelete executes a staged deletion. The token is consumed whether the
// deletion succeeds or not. Deleting a list also drops it from the selection
// set and closes it if it was the open list-detail context.
func (s *Service) ConfirmDelete(ctx context.Context, token uuid.UUID) error {
	s.mu.Lock()
	p, ok := s.pending[token]
	delete(s.pending, token)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("unknown or already handled confirmation token")
	}

	switch p.kind {
	case deleteList:
		s.metrics.Actions.WithLabelValues("delete_list").Inc()
		if err := s.Lists.Delete(ctx, p.id); err != nil {
			return err
		}
		s.selected.Remove(p.id)

		s.mu.Lock()
		if s.openList == p.id {
			s.openList = 0
		}
		s.mu.Unlock()

		s.logger.WithField("list_id", p.id).Info("List deleted")
	case deleteItem:
		s.metrics.Actions.WithLabelValues("delete_item").Inc()
		if err := s.Items.Delete(ctx, p.id); err != nil {
			return err
		}
		s.logger.WithField("item_id", p.id).Info("Item deleted")
	}

	return nil
}

// CancelDelete discards a staged deletion. It reports whether the token was
// known.
func (s *Service) CancelDelete(token uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.pending[token]
	delete(s.pending, token)
	return ok
}
