package categories

import (
	"context"

	"github.com/termblocks/checklist/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	ListByChecklist(ctx context.Context, checklistID int64) ([]*models.Category, error)
	DeleteByChecklist(ctx context.Context, checklistID int64) (int64, error)
}
