package checklists

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/termblocks/checklist/internal/common"
	"github.com/termblocks/checklist/internal/server/models"
	"github.com/termblocks/checklist/internal/server/repositories/memtable"
)

var errDuplicateToken = errors.New("duplicate public token")

// MemoryRepository implements Repository over a memtable.Table.
type MemoryRepository struct {
	mu    sync.Locker
	table *memtable.Table[models.Checklist]
}

func NewMemoryRepository(mu sync.Locker, table *memtable.Table[models.Checklist]) *MemoryRepository {
	return &MemoryRepository{mu: mu, table: table}
}

func copyChecklist(c models.Checklist) *models.Checklist {
	if c.OwnerID != nil {
		owner := *c.OwnerID
		c.OwnerID = &owner
	}
	c.Categories = nil
	return &c
}

func (r *MemoryRepository) tokenTaken(token string, except int64) bool {
	return len(r.table.Select(func(c models.Checklist) bool {
		return c.ID != except && c.PublicToken == token
	})) > 0
}

func (r *MemoryRepository) Create(ctx context.Context, c *models.Checklist) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.IsPublic && c.PublicToken == "" {
		return errors.New("public checklist requires a token")
	}
	if c.PublicToken != "" && r.tokenTaken(c.PublicToken, 0) {
		return errDuplicateToken
	}

	now := time.Now().UTC()
	c.ID = r.table.NextID()
	c.CreatedAt, c.UpdatedAt = now, now
	r.table.Put(c.ID, *copyChecklist(*c))
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*models.Checklist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.table.Get(id)
	if !ok {
		return nil, common.ErrorChecklistNotFound
	}
	return copyChecklist(c), nil
}

func (r *MemoryRepository) GetByPublicToken(ctx context.Context, token string) (*models.Checklist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token == "" {
		return nil, common.ErrorChecklistNotFound
	}
	found := r.table.Select(func(c models.Checklist) bool { return c.PublicToken == token })
	if len(found) == 0 {
		return nil, common.ErrorChecklistNotFound
	}
	return copyChecklist(found[0]), nil
}

func (r *MemoryRepository) List(ctx context.Context, ownerID *int64) ([]*models.Checklist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.table.Select(func(c models.Checklist) bool {
		return ownerID == nil || (c.OwnerID != nil && *c.OwnerID == *ownerID)
	})
	result := make([]*models.Checklist, 0, len(rows))
	for _, c := range rows {
		result = append(result, copyChecklist(c))
	}
	return result, nil
}

func (r *MemoryRepository) UpdateHeader(ctx context.Context, id int64, title, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.table.Get(id)
	if !ok {
		return common.ErrorChecklistNotFound
	}
	c.Title, c.Description, c.UpdatedAt = title, description, time.Now().UTC()
	r.table.Put(id, c)
	return nil
}

func (r *MemoryRepository) Publish(ctx context.Context, id int64, candidate string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.table.Get(id)
	if !ok {
		return "", common.ErrorChecklistNotFound
	}
	if c.PublicToken == "" {
		if r.tokenTaken(candidate, id) {
			return "", errDuplicateToken
		}
		c.PublicToken = candidate
	}
	c.IsPublic, c.UpdatedAt = true, time.Now().UTC()
	r.table.Put(id, c)
	return c.PublicToken, nil
}

func (r *MemoryRepository) Unpublish(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.table.Get(id)
	if !ok {
		return common.ErrorChecklistNotFound
	}
	c.IsPublic, c.UpdatedAt = false, time.Now().UTC()
	r.table.Put(id, c)
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.table.Delete(id) {
		return common.ErrorChecklistNotFound
	}
	return nil
}
