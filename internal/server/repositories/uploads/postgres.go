package uploads

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

// PostgresRepository implements upload metadata storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts upload metadata and fills in the generated id and created_at.
// A duplicate storage key violates the unique index and is returned as a db error.
func (r *PostgresRepository) Create(ctx context.Context, u *models.FileUpload) error {
	query := `
		INSERT INTO file_uploads (item_id, filename, storage_key, size)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, u.ItemID, u.Filename, u.StorageKey, u.Size).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.FileUpload, error) {
	query := `SELECT id, item_id, filename, storage_key, size, created_at FROM file_uploads WHERE id = $1`

	u := &models.FileUpload{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.ItemID, &u.Filename, &u.StorageKey, &u.Size, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// ListByItems returns the uploads of the given items ordered by item, then id.
func (r *PostgresRepository) ListByItems(ctx context.Context, itemIDs []int64) ([]*models.FileUpload, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, item_id, filename, storage_key, size, created_at FROM file_uploads
		WHERE item_id = ANY($1)
		ORDER BY item_id, id
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Int64Array(itemIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to select uploads: %w", err)
	}
	defer rows.Close()

	var result []*models.FileUpload
	for rows.Next() {
		var u models.FileUpload
		if err := rows.Scan(&u.ID, &u.ItemID, &u.Filename, &u.StorageKey, &u.Size, &u.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM file_uploads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorFileNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteByItems(ctx context.Context, itemIDs []int64) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM file_uploads WHERE item_id = ANY($1)`, pq.Int64Array(itemIDs))
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
