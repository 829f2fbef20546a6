package categories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/termblocks/checklist/internal/common"
	"github.com/termblocks/checklist/internal/dbx"
	"github.com/termblocks/checklist/internal/server/models"
)

// PostgresRepository implements category storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Category) error {
	query := `INSERT INTO categories (checklist_id, name, position) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, c.ChecklistID, c.Name, c.Position).Scan(&c.ID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	query := `SELECT id, checklist_id, name, position FROM categories WHERE id = $1`

	c := &models.Category{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.ChecklistID, &c.Name, &c.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// ListByChecklist returns the categories of a checklist in display order.
func (r *PostgresRepository) ListByChecklist(ctx context.Context, checklistID int64) ([]*models.Category, error) {
	query := `SELECT id, checklist_id, name, position FROM categories WHERE checklist_id = $1 ORDER BY position, id`
	rows, err := r.db.QueryContext(ctx, query, checklistID)
	if err != nil {
		return nil, fmt.Errorf("failed to select categories: %w", err)
	}
	defer rows.Close()

	var result []*models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.ChecklistID, &c.Name, &c.Position); err != nil {
			return nil, err
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteByChecklist removes all categories of a checklist. Items must be
// removed first. It returns the number of deleted rows.
func (r *PostgresRepository) DeleteByChecklist(ctx context.Context, checklistID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE checklist_id = $1`, checklistID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
