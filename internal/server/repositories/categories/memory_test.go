package categories

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
	repo := NewMemoryRepository(&sync.Mutex{}, memtable.New[models.Category]())

	second := &models.Category{ChecklistID: 1, Name: "second", Position: 1}
	first := &models.Category{ChecklistID: 1, Name: "first", Position: 0}
	other := &models.Category{ChecklistID: 2, Name: "other"}
	for _, c := range []*models.Category{second, first, other} {
		require.NoError(t, repo.Create(ctx, c))
	}

	list, err := repo.ListByChecklist(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Name)
	assert.Equal(t, "second", list[1].Name)

	got, err := repo.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ChecklistID)

	n, err := repo.DeleteByChecklist(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, common.ErrorCategoryNotFound)
}
