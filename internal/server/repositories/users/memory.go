package users

import (
	"context"
	"sync"
	"time"

	"github.com/termblocks/checklist/internal/common"
	"github.com/termblocks/checklist/internal/server/models"
	"github.com/termblocks/checklist/internal/server/repositories/memtable"
)

type MemoryRepository struct {
	mu    sync.Locker
	table *memtable.Table[models.User]
}

func NewMemoryRepository(mu sync.Locker, table *memtable.Table[models.User]) *MemoryRepository {
	return &MemoryRepository{mu: mu, table: table}
}

func (r *MemoryRepository) Declare(ctx context.Context, identityHash string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := r.table.Select(func(u models.User) bool { return u.IdentityHash == identityHash })
	if len(found) > 0 {
		return &found[0], nil
	}

	u := models.User{ID: r.table.NextID(), IdentityHash: identityHash, CreatedAt: time.Now().UTC()}
	r.table.Put(u.ID, u)
	return &u, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.table.Get(id)
	if !ok {
		return nil, common.ErrorUserNotFound
	}
	return &u, nil
}
