package visibility

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/termblocks/checklist/internal/common"
	"github.com/termblocks/checklist/internal/server/models"
	"github.com/termblocks/checklist/internal/server/repositories/repomanager"
	"github.com/termblocks/checklist/internal/server/store"
)

func TestIsVisible(t *testing.T) {
	tests := []struct {
		name string
		c    *models.Checklist
		want bool
	}{
		{"nil", nil, false},
		{"private no token", &models.Checklist{}, false},
		{"private with token", &models.Checklist{PublicToken: "t"}, false},
		{"public without token", &models.Checklist{IsPublic: true}, false},
		{"public with token", &models.Checklist{IsPublic: true, PublicToken: "t"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsVisible(tt.c))
		})
	}
}

type fixture struct {
	rm     *repomanager.InMemoryRepositoryManager
	gate   *Gate
	list   *models.Checklist
	upload *models.FileUpload
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	rm := repomanager.NewInMemoryRepositoryManager()
	st := store.New(rm)

	c, err := st.CreateTree(ctx, rm.Conn(), models.ChecklistDraft{
		Title:      "T",
		Categories: []models.CategoryDraft{{Name: "c", Items: []models.ItemDraft{{Name: "i"}}}},
	})
	require.NoError(t, err)

	u := &models.FileUpload{ItemID: c.Categories[0].Items[0].ID, Filename: "a.txt", StorageKey: "k_a.txt"}
	require.NoError(t, rm.Uploads(rm.Conn()).Create(ctx, u))

	g := NewGate(rm, st)
	n := 0
	g.newToken = func() string {
		n++
		return fmt.Sprintf("token-%d", n)
	}
	return &fixture{rm: rm, gate: g, list: c, upload: u}
}

func TestPublish_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.gate.Publish(ctx, f.rm.Conn(), f.list.ID)
	require.NoError(t, err)
	second, err := f.gate.Publish(ctx, f.rm.Conn(), f.list.ID)
	require.NoError(t, err)

	assert.Equal(t, "token-1", first)
	assert.Equal(t, first, second)

	_, err = f.gate.Publish(ctx, f.rm.Conn(), 999)
	assert.ErrorIs(t, err, common.ErrorChecklistNotFound)
}

func TestResolveByToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.gate.ResolveByToken(ctx, f.rm.Conn(), "nonexistent-token")
	assert.ErrorIs(t, err, common.ErrorChecklistNotFound)

	_, err = f.gate.ResolveByToken(ctx, f.rm.Conn(), "")
	assert.ErrorIs(t, err, common.ErrorChecklistNotFound)

	token, err := f.gate.Publish(ctx, f.rm.Conn(), f.list.ID)
	require.NoError(t, err)

	got, err := f.gate.ResolveByToken(ctx, f.rm.Conn(), token)
	require.NoError(t, err)
	assert.Equal(t, f.list.ID, got.ID)
	require.Len(t, got.Categories, 1)
	assert.Len(t, got.Categories[0].Items[0].Uploads, 1)

	require.NoError(t, f.gate.Unpublish(ctx, f.rm.Conn(), f.list.ID))
	_, err = f.gate.ResolveByToken(ctx, f.rm.Conn(), token)
	assert.ErrorIs(t, err, common.ErrorChecklistNotFound, "cleared flag hides the checklist")
	assert.NotErrorIs(t, err, common.ErrorDenied)

	again, err := f.gate.Publish(ctx, f.rm.Conn(), f.list.ID)
	require.NoError(t, err)
	assert.Equal(t, token, again)
}

func TestAuthorizeFileAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.gate.AuthorizeFileAccess(ctx, f.rm.Conn(), f.upload)
	assert.ErrorIs(t, err, common.ErrorDenied)

	_, err = f.gate.Publish(ctx, f.rm.Conn(), f.list.ID)
	require.NoError(t, err)
	assert.NoError(t, f.gate.AuthorizeFileAccess(ctx, f.rm.Conn(), f.upload))
}

func TestAuthorizeFileAccess_BrokenChainIsDenied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	orphan := &models.FileUpload{ItemID: 31337, StorageKey: "orphan"}
	err := f.gate.AuthorizeFileAccess(ctx, f.rm.Conn(), orphan)
	assert.ErrorIs(t, err, common.ErrorDenied)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}
