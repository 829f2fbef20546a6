package services

import (
	"context"
	"fmt"

	"github.com/termblocks/checklist/internal/server/models"
	"github.com/termblocks/checklist/internal/server/upload"
)

// UploadFile attaches a file to an item. The content is validated, written
// to storage and then recorded. No record is created when the write fails,
// and the written file is removed again when the record cannot be stored.
func (s *ChecklistService) UploadFile(ctx context.Context, itemID int64, filename string, content []byte) (*models.FileUpload, error) {
	if _, err := s.repomanager.Items(s.repomanager.Conn()).GetByID(ctx, itemID); err != nil {
		return nil, err
	}

	key, err := s.validator.Validate(filename, content)
	if err != nil {
		return nil, err
	}

	if err := s.storage.Put(ctx, key, content); err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	u := &models.FileUpload{
		ItemID:     itemID,
		Filename:   upload.BaseName(filename),
		StorageKey: key,
		Size:       int64(len(content)),
	}
	if err := s.repomanager.Uploads(s.repomanager.Conn()).Create(ctx, u); err != nil {
		s.removeBlob(context.WithoutCancel(ctx), key)
		return nil, err
	}

	s.logger.Info(ctx, "file uploaded", "item_id", itemID, "upload_id", u.ID, "size", u.Size)
	return u, nil
}

// DeleteFile removes the stored file, ignoring storage failures, and then
// its record.
func (s *ChecklistService) DeleteFile(ctx context.Context, id int64) error {
	repo := s.repomanager.Uploads(s.repomanager.Conn())

	u, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	s.removeBlob(ctx, u.StorageKey)

	if err := repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info(ctx, "file deleted", "upload_id", id)
	return nil
}

// ServePublicFile returns a file of a public checklist. A missing record is
// reported as not found; a file of a private checklist as denied.
func (s *ChecklistService) ServePublicFile(ctx context.Context, id int64) (*models.FileUpload, []byte, error) {
	db := s.repomanager.Conn()

	u, err := s.repomanager.Uploads(db).GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if err := s.gate.AuthorizeFileAccess(ctx, db, u); err != nil {
		return nil, nil, err
	}

	data, err := s.storage.Get(ctx, u.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return u, data, nil
}
