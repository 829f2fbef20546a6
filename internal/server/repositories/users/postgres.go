package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/termblocks/checklist/internal/common"
	"github.com/termblocks/checklist/internal/dbx"
	"github.com/termblocks/checklist/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Declare inserts a user with the given identity hash or returns the
// existing one. The no-op update makes RETURNING yield the existing row.
func (r *PostgresRepository) Declare(ctx context.Context, identityHash string) (*models.User, error) {
	query :=
		`INSERT INTO users (identity_hash)
         VALUES ($1)
		 ON CONFLICT (identity_hash) DO UPDATE SET identity_hash = EXCLUDED.identity_hash
		 RETURNING id, identity_hash, created_at
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, identityHash).Scan(&user.ID, &user.IdentityHash, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query :=
		`SELECT id, identity_hash, created_at FROM users
		 WHERE id = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.IdentityHash, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
