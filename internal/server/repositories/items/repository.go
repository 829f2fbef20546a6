package items

import (
	"context"

	"github.com/termblocks/checklist/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, it *models.Item) error
	GetByID(ctx context.Context, id int64) (*models.Item, error)
	ListByCategories(ctx context.Context, categoryIDs []int64) ([]*models.Item, error)
	DeleteByCategories(ctx context.Context, categoryIDs []int64) (int64, error)
}
