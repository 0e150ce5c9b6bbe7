package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tavares/listabot/internal/models"
	"github.com/tavares/listabot/internal/repository"
)

type itemRepository struct {
	db *sql.DB
}

// NewItemRepository creates a new SQLite-backed item repository
func NewItemRepository(db *sql.DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, listID int64, name string, quantity, unitPrice float64) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO itens (lista_id, nome, quantidade, preco_unit, comprado) VALUES (?, ?, ?, ?, 0)`,
		listID, name, quantity, unitPrice,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get new item ID: %w", err)
	}

	return id, nil
}

func (r *itemRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM itens WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete item %d: %w", id, err)
	}
	return nil
}

func (r *itemRepository) SetPurchased(ctx context.Context, id int64, purchased bool) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE itens SET comprado = ? WHERE id = ?`, boolToInt(purchased), id,
	); err != nil {
		return fmt.Errorf("failed to update purchased flag of item %d: %w", id, err)
	}
	return nil
}

func (r *itemRepository) GetByList(ctx context.Context, listID int64, filter string) ([]models.Item, error) {
	query := `SELECT id, lista_id, nome, quantidade, preco_unit, comprado FROM itens WHERE lista_id = ?`
	args := []any{listID}

	if filter != "" {
		// instr compares bytes, so the substring match is case-sensitive
		// and needs no wildcard escaping.
		query += ` AND instr(nome, ?) > 0`
		args = append(args, filter)
	}

	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		var purchased int
		if err := rows.Scan(
			&item.ID,
			&item.ListID,
			&item.Name,
			&item.Quantity,
			&item.UnitPrice,
			&purchased,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.Purchased = purchased != 0
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *itemRepository) PurchasedTotal(ctx context.Context, listID int64) (float64, error) {
	var total sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(quantidade * preco_unit) FROM itens WHERE lista_id = ? AND comprado = 1`,
		listID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum purchased items of list %d: %w", listID, err)
	}

	// SUM over zero rows yields NULL, which reads as a zero total.
	return total.Float64, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
