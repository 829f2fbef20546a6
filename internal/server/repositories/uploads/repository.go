package uploads

import (
	"context"

	"github.com/termblocks/checklist/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, u *models.FileUpload) error
	GetByID(ctx context.Context, id int64) (*models.FileUpload, error)
	ListByItems(ctx context.Context, itemIDs []int64) ([]*models.FileUpload, error)
	Delete(ctx context.Context, id int64) error
	DeleteByItems(ctx context.Context, itemIDs []int64) (int64, error)
}
