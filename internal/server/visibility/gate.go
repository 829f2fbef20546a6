// Package visibility decides whether a checklist, or a file attached to it,
// may be shown to a caller who only holds its public token.
package visibility

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/termblocks/checklist/internal/common"
	"github.com/termblocks/checklist/internal/dbx"
	"github.com/termblocks/checklist/internal/server/models"
	"github.com/termblocks/checklist/internal/server/repositories/repomanager"
	"github.com/termblocks/checklist/internal/server/store"
)

// IsVisible reports whether c is publicly accessible.
func IsVisible(c *models.Checklist) bool {
	return c != nil && c.IsPublic && c.PublicToken != ""
}

type Gate struct {
	rm       repomanager.RepositoryManager
	store    *store.Store
	newToken func() string
}

func NewGate(rm repomanager.RepositoryManager, st *store.Store) *Gate {
	return &Gate{rm: rm, store: st, newToken: uuid.NewString}
}

// ResolveByToken returns the full subtree of the checklist holding token.
// A checklist that exists but is not visible is reported as not found.
func (g *Gate) ResolveByToken(ctx context.Context, db dbx.DBTX, token string) (*models.Checklist, error) {
	if token == "" {
		return nil, common.ErrorChecklistNotFound
	}
	c, err := g.store.LoadTreeByToken(ctx, db, token)
	if err != nil {
		return nil, err
	}
	if !IsVisible(c) {
		return nil, common.ErrorChecklistNotFound
	}
	return c, nil
}

// AuthorizeFileAccess returns nil when u belongs to a visible checklist and
// common.ErrorDenied otherwise, including when the ownership chain is broken.
func (g *Gate) AuthorizeFileAccess(ctx context.Context, db dbx.DBTX, u *models.FileUpload) error {
	c, err := g.store.ChecklistOfUpload(ctx, db, u)
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorDenied
	}
	if err != nil {
		return err
	}
	if !IsVisible(c) {
		return common.ErrorDenied
	}
	return nil
}

// Publish makes the checklist public and returns its token. A token is
// generated on the first call only.
func (g *Gate) Publish(ctx context.Context, db dbx.DBTX, id int64) (string, error) {
	return g.rm.Checklists(db).Publish(ctx, id, g.newToken())
}

// Unpublish hides the checklist. Its token is kept, so publishing again
// restores the same link.
func (g *Gate) Unpublish(ctx context.Context, db dbx.DBTX, id int64) error {
	return g.rm.Checklists(db).Unpublish(ctx, id)
}
