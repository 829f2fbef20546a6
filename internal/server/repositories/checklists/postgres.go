package checklists

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/termblocks/checklist/internal/common"
	"github.com/termblocks/checklist/internal/dbx"
	"github.com/termblocks/checklist/internal/server/models"
)

const selectColumns = `id, title, description, public_token, is_public, owner_id, created_at, updated_at`

// PostgresRepository implements checklist storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanChecklist(s scanner) (*models.Checklist, error) {
	var (
		c     models.Checklist
		token sql.NullString
		owner sql.NullInt64
	)
	if err := s.Scan(&c.ID, &c.Title, &c.Description, &token, &c.IsPublic, &owner, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.PublicToken = token.String
	if owner.Valid {
		c.OwnerID = &owner.Int64
	}
	return &c, nil
}

func nullToken(token string) sql.NullString {
	return sql.NullString{String: token, Valid: token != ""}
}

func nullOwner(owner *int64) sql.NullInt64 {
	if owner == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *owner, Valid: true}
}

// Create inserts the checklist header and fills in the generated id and timestamps.
func (r *PostgresRepository) Create(ctx context.Context, c *models.Checklist) error {
	query := `
		INSERT INTO checklists (title, description, public_token, is_public, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		c.Title, c.Description, nullToken(c.PublicToken), c.IsPublic, nullOwner(c.OwnerID),
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Checklist, error) {
	query := `SELECT ` + selectColumns + ` FROM checklists WHERE id = $1`
	c, err := scanChecklist(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorChecklistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// GetByPublicToken looks a checklist up by its public token regardless of
// the is_public flag.
func (r *PostgresRepository) GetByPublicToken(ctx context.Context, token string) (*models.Checklist, error) {
	query := `SELECT ` + selectColumns + ` FROM checklists WHERE public_token = $1`
	c, err := scanChecklist(r.db.QueryRowContext(ctx, query, token))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorChecklistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// List returns checklist headers ordered by id, optionally filtered by owner.
func (r *PostgresRepository) List(ctx context.Context, ownerID *int64) ([]*models.Checklist, error) {
	query := `SELECT ` + selectColumns + ` FROM checklists ORDER BY id`
	args := []any{}
	if ownerID != nil {
		query = `SELECT ` + selectColumns + ` FROM checklists WHERE owner_id = $1 ORDER BY id`
		args = append(args, *ownerID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select checklists: %w", err)
	}
	defer rows.Close()

	var result []*models.Checklist
	for rows.Next() {
		c, err := scanChecklist(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) UpdateHeader(ctx context.Context, id int64, title, description string) error {
	query := `UPDATE checklists SET title = $2, description = $3, updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, title, description)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res)
}

// Publish sets is_public and assigns candidate as the public token unless a
// token is already present. It returns the token stored on the row.
func (r *PostgresRepository) Publish(ctx context.Context, id int64, candidate string) (string, error) {
	query := `
		UPDATE checklists
		SET public_token = COALESCE(public_token, $2), is_public = TRUE, updated_at = now()
		WHERE id = $1
		RETURNING public_token
	`
	var token string
	err := r.db.QueryRowContext(ctx, query, id, candidate).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", common.ErrorChecklistNotFound
	}
	if err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}
	return token, nil
}

// Unpublish clears is_public. The token is kept.
func (r *PostgresRepository) Unpublish(ctx context.Context, id int64) error {
	query := `UPDATE checklists SET is_public = FALSE, updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res)
}

// Delete removes the checklist header only; children must be removed first.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM checklists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorChecklistNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
