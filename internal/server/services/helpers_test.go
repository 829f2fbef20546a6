package services

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/require"
	"github.com/termblocks/checklist/internal/common"
	"github.com/termblocks/checklist/internal/dbx"
	"github.com/termblocks/checklist/internal/logging"
	"github.com/termblocks/checklist/internal/server/config"
	"github.com/termblocks/checklist/internal/server/models"
	"github.com/termblocks/checklist/internal/server/repositories/repomanager"
	"github.com/termblocks/checklist/internal/server/repositories/uploads"
	"github.com/termblocks/checklist/internal/server/storage"
)

// --- helpers ---

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// flakyStorage wraps a storage and fails selected operations.
type flakyStorage struct {
	storage.Storage
	putErr    error
	deleteErr error
	deleted   []string
}

func (f *flakyStorage) Put(ctx context.Context, key string, content []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	return f.Storage.Put(ctx, key, content)
}

func (f *flakyStorage) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.Storage.Delete(ctx, key)
}

type env struct {
	rm      repomanager.RepositoryManager
	blobs   *flakyStorage
	svc     *ChecklistService
	logs    *syncBuffer
	cfg     *config.Config
	ctx     context.Context
	tb      testing.TB
	backend storage.Storage
}

func newEnvWith(t *testing.T, rm repomanager.RepositoryManager) *env {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()

	logs := &syncBuffer{}
	logger, err := logging.New("slog", "json", logs)
	require.NoError(t, err)

	backend := storage.NewLocalStorageFS(memfs.New())
	blobs := &flakyStorage{Storage: backend}

	return &env{
		rm:      rm,
		blobs:   blobs,
		svc:     NewChecklistService(rm, blobs, cfg, logger),
		logs:    logs,
		cfg:     cfg,
		ctx:     context.Background(),
		tb:      t,
		backend: backend,
	}
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return newEnvWith(t, repomanager.NewInMemoryRepositoryManager())
}

func tripDraft() models.ChecklistDraft {
	return models.ChecklistDraft{
		Title:       "Trip",
		Description: "summer",
		Categories: []models.CategoryDraft{
			{Name: "Docs", Items: []models.ItemDraft{{Name: "Passport"}, {Name: "Visa"}}},
			{Name: "Bags", Items: []models.ItemDraft{{Name: "Backpack"}}},
		},
	}
}

func (e *env) create(draft models.ChecklistDraft) *models.Checklist {
	e.tb.Helper()
	c, err := e.svc.Create(e.ctx, draft)
	require.NoError(e.tb, err)
	return c
}

func (e *env) upload(itemID int64, name, body string) *models.FileUpload {
	e.tb.Helper()
	u, err := e.svc.UploadFile(e.ctx, itemID, name, []byte(body))
	require.NoError(e.tb, err)
	return u
}

func (e *env) blobExists(key string) bool {
	_, err := e.backend.Get(e.ctx, key)
	return !errors.Is(err, common.ErrorFileNotFound)
}

func shape(c *models.Checklist) [][]string {
	var out [][]string
	for _, cat := range c.Categories {
		row := []string{cat.Name}
		for _, it := range cat.Items {
			row = append(row, it.Name)
		}
		out = append(out, row)
	}
	return out
}

// failingUploadsManager makes upload metadata inserts fail.
type failingUploadsManager struct {
	*repomanager.InMemoryRepositoryManager
	err error
}

type failingUploads struct {
	uploads.Repository
	err error
}

func (f failingUploads) Create(context.Context, *models.FileUpload) error { return f.err }

func (m failingUploadsManager) Uploads(db dbx.DBTX) uploads.Repository {
	return failingUploads{Repository: m.InMemoryRepositoryManager.Uploads(db), err: m.err}
}
