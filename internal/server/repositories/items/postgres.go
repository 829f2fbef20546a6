package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/termblocks/checklist/internal/common"
	"github.com/termblocks/checklist/internal/dbx"
	"github.com/termblocks/checklist/internal/server/models"
)

// PostgresRepository implements item storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, it *models.Item) error {
	query := `INSERT INTO items (category_id, name, position) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, it.CategoryID, it.Name, it.Position).Scan(&it.ID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	query := `SELECT id, category_id, name, position FROM items WHERE id = $1`

	it := &models.Item{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&it.ID, &it.CategoryID, &it.Name, &it.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return it, nil
}

// ListByCategories returns the items of the given categories grouped by
// category and in display order within each category.
func (r *PostgresRepository) ListByCategories(ctx context.Context, categoryIDs []int64) ([]*models.Item, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, category_id, name, position FROM items
		WHERE category_id = ANY($1)
		ORDER BY category_id, position, id
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Int64Array(categoryIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to select items: %w", err)
	}
	defer rows.Close()

	var result []*models.Item
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(&it.ID, &it.CategoryID, &it.Name, &it.Position); err != nil {
			return nil, err
		}
		result = append(result, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteByCategories removes all items of the given categories. Uploads must
// be removed first.
func (r *PostgresRepository) DeleteByCategories(ctx context.Context, categoryIDs []int64) (int64, error) {
	if len(categoryIDs) == 0 {
		return 0, nil
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE category_id = ANY($1)`, pq.Int64Array(categoryIDs))
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
