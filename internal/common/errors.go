// Package common defines shared constants and sentinel errors used across
// the checklist service layers. Callers should use errors.Is to match these
// values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	ErrorChecklistNotFound = fmt.Errorf("checklist %w", ErrorNotFound)
	ErrorCategoryNotFound  = fmt.Errorf("category %w", ErrorNotFound)
	ErrorItemNotFound      = fmt.Errorf("item %w", ErrorNotFound)
	ErrorFileNotFound      = fmt.Errorf("file %w", ErrorNotFound)
	ErrorUserNotFound      = fmt.Errorf("user %w", ErrorNotFound)

	// Visibility errors.
	ErrorDenied = errors.New("checklist is not public")

	// Upload policy errors. Both rejections wrap ErrorRejected.
	ErrorRejected        = errors.New("upload rejected")
	ErrorInvalidFileType = fmt.Errorf("%w: invalid file type", ErrorRejected)
	ErrorFileTooLarge    = fmt.Errorf("%w: file too large", ErrorRejected)

	// Service-level errors.
	ErrorInternal          = errors.New("internal error")
	ErrorIncorrectArgument = errors.New("incorrect argument")
)
