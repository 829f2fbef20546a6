// Package checklists persists checklist headers. Children are stored by the
// categories, items and uploads repositories.
package checklists

import (
	"context"

	"github.com/termblocks/checklist/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Checklist) error
	GetByID(ctx context.Context, id int64) (*models.Checklist, error)
	GetByPublicToken(ctx context.Context, token string) (*models.Checklist, error)
	List(ctx context.Context, ownerID *int64) ([]*models.Checklist, error)
	UpdateHeader(ctx context.Context, id int64, title, description string) error
	Publish(ctx context.Context, id int64, candidate string) (string, error)
	Unpublish(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}
