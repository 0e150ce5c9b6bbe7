package repository

import (
	"context"

	"github.com/tavares/listabot/internal/models"
)

// ListRepository defines the interface for shopping list data operations.
//
// Read operations never fail on missing identifiers: ListName falls back to a
// synthesized label and Lists returns an empty slice.
type ListRepository interface {
	Create(ctx context.Context, name string) (int64, error)
	// Delete removes the list and every item it owns in a single
	// transaction. Deleting an unknown id is a no-op.
	Delete(ctx context.Context, id int64) error
	// GetAll returns lists ordered newest first, optionally filtered by a
	// name substring.
	GetAll(ctx context.Context, filter string) ([]models.List, error)
	// GetName returns the stored name, or "List {id}" when the list no
	// longer exists.
	GetName(ctx context.Context, id int64) (string, error)
}

// ItemRepository defines the interface for item data operations.
//
// Quantity and unit price positivity is a caller contract: the presentation
// layer validates input before dispatch and the repository persists what it is
// given.
type ItemRepository interface {
	Create(ctx context.Context, listID int64, name string, quantity, unitPrice float64) (int64, error)
	// Delete removes a single item. Deleting an unknown id is a no-op.
	Delete(ctx context.Context, id int64) error
	// SetPurchased sets the purchased flag unconditionally; setting the
	// same value twice is harmless.
	SetPurchased(ctx context.Context, id int64, purchased bool) error
	// GetByList returns items in insertion order, optionally filtered by a
	// name substring.
	GetByList(ctx context.Context, listID int64, filter string) ([]models.Item, error)
	// PurchasedTotal sums quantity*unit_price over the purchased items of
	// one list. A list with no qualifying items yields 0.
	PurchasedTotal(ctx context.Context, listID int64) (float64, error)
}
