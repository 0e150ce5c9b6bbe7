package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tavares/listabot/internal/models"
	"github.com/tavares/listabot/internal/repository"
)

type listRepository struct {
	db *sql.DB
}

// NewListRepository creates a new SQLite-backed list repository
func NewListRepository(db *sql.DB) repository.ListRepository {
	return &listRepository{db: db}
}

func (r *listRepository) Create(ctx context.Context, name string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `INSERT INTO listas (nome) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to create list: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get new list ID: %w", err)
	}

	return id, nil
}

func (r *listRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Items first, then the list row; either both go or neither does.
	if _, err := tx.ExecContext(ctx, `DELETE FROM itens WHERE lista_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete items of list %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM listas WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete list %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit list deletion: %w", err)
	}

	return nil
}

func (r *listRepository) GetAll(ctx context.Context, filter string) ([]models.List, error) {
	query := `SELECT id, nome FROM listas`
	args := []any{}

	if filter != "" {
		// instr compares bytes, so the substring match is case-sensitive
		// and needs no wildcard escaping.
		query += ` WHERE instr(nome, ?) > 0`
		args = append(args, filter)
	}

	query += ` ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}
	defer rows.Close()

	var lists []models.List
	for rows.Next() {
		var list models.List
		if err := rows.Scan(&list.ID, &list.Name); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, list)
	}

	return lists, rows.Err()
}

func (r *listRepository) GetName(ctx context.Context, id int64) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx, `SELECT nome FROM listas WHERE id = ?`, id).Scan(&name)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Sprintf("List %d", id), nil
		}
		return "", fmt.Errorf("failed to get name of list %d: %w", id, err)
	}

	return name, nil
}
