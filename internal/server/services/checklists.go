// Package services contains server-side business logic. ChecklistService
// implements the checklist operations on top of the entity store, the
// visibility gate, the upload validator and file storage.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/termblocks/checklist/internal/common"
	"github.com/termblocks/checklist/internal/dbx"
	"github.com/termblocks/checklist/internal/logging"
	"github.com/termblocks/checklist/internal/server/config"
	"github.com/termblocks/checklist/internal/server/models"
	"github.com/termblocks/checklist/internal/server/repositories/repomanager"
	"github.com/termblocks/checklist/internal/server/storage"
	"github.com/termblocks/checklist/internal/server/store"
	"github.com/termblocks/checklist/internal/server/upload"
	"github.com/termblocks/checklist/internal/server/visibility"
)

type ChecklistService struct {
	repomanager   repomanager.RepositoryManager
	store         *store.Store
	gate          *visibility.Gate
	validator     *upload.Validator
	storage       storage.Storage
	publicBaseURL string
	logger        logging.Logger
}

// NewChecklistService wires the service from the repository manager, the
// blob storage and the server config.
func NewChecklistService(rm repomanager.RepositoryManager, st storage.Storage, cfg *config.Config, logger logging.Logger) *ChecklistService {
	s := store.New(rm)
	return &ChecklistService{
		repomanager:   rm,
		store:         s,
		gate:          visibility.NewGate(rm, s),
		validator:     upload.NewValidator(cfg.MaxUploadSize),
		storage:       st,
		publicBaseURL: cfg.PublicBaseURL,
		logger:        logger.With("module", "checklists"),
	}
}

// MaxUploadSize is the largest file UploadFile accepts.
func (s *ChecklistService) MaxUploadSize() int64 {
	return s.validator.MaxSize()
}

func (s *ChecklistService) List(ctx context.Context, ownerID *int64) ([]*models.Checklist, error) {
	return s.store.LoadTrees(ctx, s.repomanager.Conn(), ownerID)
}

func (s *ChecklistService) Get(ctx context.Context, id int64) (*models.Checklist, error) {
	return s.store.LoadTree(ctx, s.repomanager.Conn(), id)
}

func checkDraft(d models.ChecklistDraft) error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", common.ErrorIncorrectArgument)
	}
	return nil
}

// Create stores a new private checklist with its categories and items in
// one transaction. OwnerID is stored as given.
func (s *ChecklistService) Create(ctx context.Context, draft models.ChecklistDraft) (*models.Checklist, error) {
	if err := checkDraft(draft); err != nil {
		return nil, err
	}

	var created *models.Checklist
	err := s.repomanager.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		c, err := s.store.CreateTree(ctx, tx, draft)
		if err != nil {
			return err
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "checklist created", "id", created.ID, "categories", len(created.Categories))
	return created, nil
}

// Replace overwrites title, description and the whole category tree of a
// checklist. Existing categories, items and uploads are deleted, never
// merged, so their ids do not survive. The owner is kept.
func (s *ChecklistService) Replace(ctx context.Context, id int64, draft models.ChecklistDraft) (*models.Checklist, error) {
	if err := checkDraft(draft); err != nil {
		return nil, err
	}

	var (
		replaced *models.Checklist
		keys     []string
	)
	err := s.repomanager.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Checklists(tx).UpdateHeader(ctx, id, draft.Title, draft.Description); err != nil {
			return err
		}
		removed, err := s.store.DeleteChildren(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := s.store.InsertCategories(ctx, tx, id, draft.Categories); err != nil {
			return err
		}
		c, err := s.store.LoadTree(ctx, tx, id)
		if err != nil {
			return err
		}
		replaced, keys = c, removed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.removeBlobs(ctx, keys)
	s.logger.Info(ctx, "checklist replaced", "id", id, "removed_files", len(keys))
	return replaced, nil
}

// Delete removes the checklist with its subtree. Backing files are removed
// after the transaction commits.
func (s *ChecklistService) Delete(ctx context.Context, id int64) error {
	var keys []string
	err := s.repomanager.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		removed, err := s.store.DeleteChecklist(ctx, tx, id)
		keys = removed
		return err
	})
	if err != nil {
		return err
	}

	s.removeBlobs(ctx, keys)
	s.logger.Info(ctx, "checklist deleted", "id", id, "removed_files", len(keys))
	return nil
}

// Publish makes the checklist public and returns its public URL. Repeated
// calls return the same URL.
func (s *ChecklistService) Publish(ctx context.Context, id int64) (string, error) {
	token, err := s.gate.Publish(ctx, s.repomanager.Conn(), id)
	if err != nil {
		return "", err
	}
	return s.PublicURL(token)
}

// PublicURL joins the configured base URL and token.
func (s *ChecklistService) PublicURL(token string) (string, error) {
	u, err := url.JoinPath(s.publicBaseURL, token)
	if err != nil {
		return "", fmt.Errorf("build public url: %w", err)
	}
	return u, nil
}

func (s *ChecklistService) Unpublish(ctx context.Context, id int64) error {
	return s.gate.Unpublish(ctx, s.repomanager.Conn(), id)
}

// Clone copies the categories and items of a checklist into a new private
// checklist without a token. Uploads are not copied.
func (s *ChecklistService) Clone(ctx context.Context, id int64) (*models.Checklist, error) {
	var clone *models.Checklist
	err := s.repomanager.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		src, err := s.store.LoadTree(ctx, tx, id)
		if err != nil {
			return err
		}
		draft := models.DraftOf(src)
		draft.Title += common.CloneTitleSuffix

		c, err := s.store.CreateTree(ctx, tx, draft)
		if err != nil {
			return err
		}
		clone = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "checklist cloned", "source_id", id, "id", clone.ID)
	return clone, nil
}

// GetPublic returns a public checklist by token. Unknown tokens and
// checklists that are no longer public both yield a not-found error.
func (s *ChecklistService) GetPublic(ctx context.Context, token string) (*models.Checklist, error) {
	return s.gate.ResolveByToken(ctx, s.repomanager.Conn(), token)
}

// removeBlobs deletes files of removed uploads. Failures are logged and
// otherwise ignored.
func (s *ChecklistService) removeBlobs(ctx context.Context, keys []string) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		s.removeBlob(ctx, key)
	}
}

func (s *ChecklistService) removeBlob(ctx context.Context, key string) {
	err := s.storage.Delete(ctx, key)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrorNotFound):
		s.logger.Debug(ctx, "file already gone", "key", key)
	default:
		s.logger.Warn(ctx, "failed to remove file", "key", key, "error", err)
	}
}
