package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/termblocks/checklist/internal/dbx"
	"github.com/termblocks/checklist/internal/server/models"
	"github.com/termblocks/checklist/internal/server/repositories/categories"
	"github.com/termblocks/checklist/internal/server/repositories/checklists"
	"github.com/termblocks/checklist/internal/server/repositories/items"
	"github.com/termblocks/checklist/internal/server/repositories/memtable"
	"github.com/termblocks/checklist/internal/server/repositories/uploads"
	"github.com/termblocks/checklist/internal/server/repositories/users"
)

var errNoSQL = errors.New("in-memory handle does not execute SQL")

type memState struct {
	checklists *memtable.Table[models.Checklist]
	categories *memtable.Table[models.Category]
	items      *memtable.Table[models.Item]
	uploads    *memtable.Table[models.FileUpload]
	users      *memtable.Table[models.User]
}

func newMemState() *memState {
	return &memState{
		checklists: memtable.New[models.Checklist](),
		categories: memtable.New[models.Category](),
		items:      memtable.New[models.Item](),
		uploads:    memtable.New[models.FileUpload](),
		users:      memtable.New[models.User](),
	}
}

func (s *memState) clone() *memState {
	return &memState{
		checklists: s.checklists.Clone(),
		categories: s.categories.Clone(),
		items:      s.items.Clone(),
		uploads:    s.uploads.Clone(),
		users:      s.users.Clone(),
	}
}

func (s *memState) restore(src *memState) {
	s.checklists.Restore(src.checklists)
	s.categories.Restore(src.categories)
	s.items.Restore(src.items)
	s.uploads.Restore(src.uploads)
	s.users.Restore(src.users)
}

// memHandle marks which state a repository operates on. Its SQL methods
// are never used by the memory repositories.
type memHandle struct {
	state  *memState
	locker sync.Locker
}

func (h *memHandle) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, errNoSQL
}

func (h *memHandle) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, errNoSQL
}

func (h *memHandle) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}

// InMemoryRepositoryManager keeps all data in process memory. It backs the
// "memory" DSN and service tests.
//
// Every repository call through Conn takes the manager lock. InTx holds the
// lock for the whole of fn and works on a copy of the data that replaces the
// live state only on success, so a failed transaction leaves nothing behind.
type InMemoryRepositoryManager struct {
	mu    sync.Mutex
	state *memState
	conn  *memHandle
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	m := &InMemoryRepositoryManager{state: newMemState()}
	m.conn = &memHandle{state: m.state, locker: &m.mu}
	return m
}

func (m *InMemoryRepositoryManager) Conn() dbx.DBTX {
	return m.conn
}

func (m *InMemoryRepositoryManager) InTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.state.clone()
	if err := fn(ctx, &memHandle{state: snapshot, locker: memtable.NoLock{}}); err != nil {
		return err
	}
	m.state.restore(snapshot)
	return nil
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Close() error {
	return nil
}

func (m *InMemoryRepositoryManager) handle(db dbx.DBTX) *memHandle {
	if h, ok := db.(*memHandle); ok {
		return h
	}
	return m.conn
}

func (m *InMemoryRepositoryManager) Checklists(db dbx.DBTX) checklists.Repository {
	h := m.handle(db)
	return checklists.NewMemoryRepository(h.locker, h.state.checklists)
}

func (m *InMemoryRepositoryManager) Categories(db dbx.DBTX) categories.Repository {
	h := m.handle(db)
	return categories.NewMemoryRepository(h.locker, h.state.categories)
}

func (m *InMemoryRepositoryManager) Items(db dbx.DBTX) items.Repository {
	h := m.handle(db)
	return items.NewMemoryRepository(h.locker, h.state.items)
}

func (m *InMemoryRepositoryManager) Uploads(db dbx.DBTX) uploads.Repository {
	h := m.handle(db)
	return uploads.NewMemoryRepository(h.locker, h.state.uploads)
}

func (m *InMemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	h := m.handle(db)
	return users.NewMemoryRepository(h.locker, h.state.users)
}

var _ RepositoryManager = (*InMemoryRepositoryManager)(nil)
