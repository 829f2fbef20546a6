package uploads

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/termblocks/checklist/internal/common"
	"github.com/termblocks/checklist/internal/server/models"
	"github.com/termblocks/checklist/internal/server/repositories/memtable"
)

var errDuplicateStorageKey = errors.New("duplicate storage key")

// MemoryRepository implements Repository over a memtable.Table.
type MemoryRepository struct {
	mu    sync.Locker
	table *memtable.Table[models.FileUpload]
}

func NewMemoryRepository(mu sync.Locker, table *memtable.Table[models.FileUpload]) *MemoryRepository {
	return &MemoryRepository{mu: mu, table: table}
}

func (r *MemoryRepository) Create(ctx context.Context, u *models.FileUpload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dup := r.table.Select(func(row models.FileUpload) bool { return row.StorageKey == u.StorageKey })
	if len(dup) > 0 {
		return errDuplicateStorageKey
	}

	u.ID = r.table.NextID()
	u.CreatedAt = time.Now().UTC()
	r.table.Put(u.ID, *u)
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*models.FileUpload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.table.Get(id)
	if !ok {
		return nil, common.ErrorFileNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) ListByItems(ctx context.Context, itemIDs []int64) ([]*models.FileUpload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.table.Select(func(u models.FileUpload) bool { return slices.Contains(itemIDs, u.ItemID) })
	result := make([]*models.FileUpload, 0, len(rows))
	for i := range rows {
		result = append(result, &rows[i])
	}
	slices.SortStableFunc(result, func(a, b *models.FileUpload) int {
		return cmp.Or(cmp.Compare(a.ItemID, b.ItemID), cmp.Compare(a.ID, b.ID))
	})
	return result, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.table.Delete(id) {
		return common.ErrorFileNotFound
	}
	return nil
}

func (r *MemoryRepository) DeleteByItems(ctx context.Context, itemIDs []int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.table.DeleteWhere(func(u models.FileUpload) bool { return slices.Contains(itemIDs, u.ItemID) }), nil
}
