package items

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/termblocks/checklist/internal/common"
	"github.com/termblocks/checklist/internal/server/models"
	"github.com/termblocks/checklist/internal/server/repositories/memtable"
)

// MemoryRepository implements Repository over a memtable.Table.
type MemoryRepository struct {
	mu    sync.Locker
	table *memtable.Table[models.Item]
}

func NewMemoryRepository(mu sync.Locker, table *memtable.Table[models.Item]) *MemoryRepository {
	return &MemoryRepository{mu: mu, table: table}
}

func (r *MemoryRepository) Create(ctx context.Context, it *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	it.ID = r.table.NextID()
	row := *it
	row.Uploads = nil
	r.table.Put(it.ID, row)
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.table.Get(id)
	if !ok {
		return nil, common.ErrorItemNotFound
	}
	return &it, nil
}

func (r *MemoryRepository) ListByCategories(ctx context.Context, categoryIDs []int64) ([]*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.table.Select(func(it models.Item) bool { return slices.Contains(categoryIDs, it.CategoryID) })
	result := make([]*models.Item, 0, len(rows))
	for i := range rows {
		result = append(result, &rows[i])
	}
	slices.SortStableFunc(result, func(a, b *models.Item) int {
		return cmp.Or(
			cmp.Compare(a.CategoryID, b.CategoryID),
			cmp.Compare(a.Position, b.Position),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return result, nil
}

func (r *MemoryRepository) DeleteByCategories(ctx context.Context, categoryIDs []int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.table.DeleteWhere(func(it models.Item) bool { return slices.Contains(categoryIDs, it.CategoryID) }), nil
}
