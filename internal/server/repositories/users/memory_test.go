package users

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

func TestMemoryRepository_DeclareIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(&sync.Mutex{}, memtable.New[models.User]())

	a, err := repo.Declare(ctx, "h1")
	require.NoError(t, err)
	b, err := repo.Declare(ctx, "h1")
	require.NoError(t, err)
	c, err := repo.Declare(ctx, "h2")
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "h2", got.IdentityHash)

	_, err = repo.GetByID(ctx, 100)
	assert.ErrorIs(t, err, common.ErrorUserNotFound)
}
