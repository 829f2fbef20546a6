// Package repomanager vends repositories bound to a database handle and
// scopes multi-entity writes to a single transaction.
package repomanager

import (
	"context"

	"github.com/termblocks/checklist/internal/dbx"
	"github.com/termblocks/checklist/internal/server/repositories/categories"
	"github.com/termblocks/checklist/internal/server/repositories/checklists"
	"github.com/termblocks/checklist/internal/server/repositories/items"
	"github.com/termblocks/checklist/internal/server/repositories/uploads"
	"github.com/termblocks/checklist/internal/server/repositories/users"
)

// RepositoryManager is the store handle passed to services.
//
// Conn returns a non-transactional handle. InTx runs fn inside one
// transaction: it commits when fn returns nil and rolls back otherwise.
// Repositories built from the tx handle must not outlive fn, and fn must not
// use Conn.
type RepositoryManager interface {
	Conn() dbx.DBTX
	InTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error
	RunMigrations(ctx context.Context) error
	Close() error

	Checklists(db dbx.DBTX) checklists.Repository
	Categories(db dbx.DBTX) categories.Repository
	Items(db dbx.DBTX) items.Repository
	Uploads(db dbx.DBTX) uploads.Repository
	Users(db dbx.DBTX) users.Repository
}
