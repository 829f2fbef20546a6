package uploads

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/termblocks/checklist/internal/common"
	"github.com/termblocks/checklist/internal/server/models"
	"github.com/termblocks/checklist/internal/server/repositories/memtable"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(&sync.Mutex{}, memtable.New[models.FileUpload]())

	a := &models.FileUpload{ItemID: 1, Filename: "a.txt", StorageKey: "k1_a.txt"}
	b := &models.FileUpload{ItemID: 1, Filename: "a.txt", StorageKey: "k2_a.txt"}
	c := &models.FileUpload{ItemID: 2, Filename: "c.pdf", StorageKey: "k3_c.pdf"}
	for _, u := range []*models.FileUpload{a, b, c} {
		require.NoError(t, repo.Create(ctx, u))
	}
	assert.False(t, a.CreatedAt.IsZero())

	err := repo.Create(ctx, &models.FileUpload{ItemID: 1, StorageKey: "k1_a.txt"})
	assert.Error(t, err, "storage key must be unique")

	list, err := repo.ListByItems(ctx, []int64{1})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, repo.Delete(ctx, a.ID))
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), common.ErrorFileNotFound)

	n, err := repo.DeleteByItems(ctx, []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = repo.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, common.ErrorFileNotFound)
}
