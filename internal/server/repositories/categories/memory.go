package categories

import (
	"context"
	"sync"

	"github.com/termblocks/checklist/internal/common"
	"github.com/termblocks/checklist/internal/server/models"
	"github.com/termblocks/checklist/internal/server/repositories/memtable"
)

// MemoryRepository implements Repository over a memtable.Table.
type MemoryRepository struct {
	mu    sync.Locker
	table *memtable.Table[models.Category]
}

func NewMemoryRepository(mu sync.Locker, table *memtable.Table[models.Category]) *MemoryRepository {
	return &MemoryRepository{mu: mu, table: table}
}

func (r *MemoryRepository) Create(ctx context.Context, c *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = r.table.NextID()
	row := *c
	row.Items = nil
	r.table.Put(c.ID, row)
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.table.Get(id)
	if !ok {
		return nil, common.ErrorCategoryNotFound
	}
	return &c, nil
}

func (r *MemoryRepository) ListByChecklist(ctx context.Context, checklistID int64) ([]*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.table.Select(func(c models.Category) bool { return c.ChecklistID == checklistID })
	result := make([]*models.Category, 0, len(rows))
	for i := range rows {
		result = append(result, &rows[i])
	}
	sortByPosition(result)
	return result, nil
}

func (r *MemoryRepository) DeleteByChecklist(ctx context.Context, checklistID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.table.DeleteWhere(func(c models.Category) bool { return c.ChecklistID == checklistID }), nil
}
