package users

import (
	"context"

	"github.com/termblocks/checklist/internal/server/models"
)

type Repository interface {
	Declare(ctx context.Context, identityHash string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}
