// Package upload enforces the file type and size policy for attachments and
// produces collision-safe storage keys. It never touches storage itself.
package upload

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/termblocks/checklist/internal/common"
)

var allowedExtensions = map[string]struct{}{
	".txt":  {},
	".pdf":  {},
	".xlsx": {},
}

type Validator struct {
	maxSize  int64
	newToken func() string
}

// NewValidator returns a validator rejecting content larger than maxSize
// bytes. A non-positive maxSize selects common.MaxUploadSize.
func NewValidator(maxSize int64) *Validator {
	if maxSize <= 0 {
		maxSize = common.MaxUploadSize
	}
	return &Validator{maxSize: maxSize, newToken: common.NewCompactUUID}
}

func (v *Validator) MaxSize() int64 {
	return v.maxSize
}

// Validate checks filename and content against the policy and returns the
// storage key for the accepted file. Rejections wrap common.ErrorRejected.
func (v *Validator) Validate(filename string, content []byte) (string, error) {
	name := BaseName(filename)
	if !allowedExtension(name) {
		return "", common.ErrorInvalidFileType
	}
	if int64(len(content)) > v.maxSize {
		return "", common.ErrorFileTooLarge
	}
	return v.newToken() + "_" + name, nil
}

// BaseName strips any directory part a client may send with the filename.
func BaseName(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// allowedExtension matches the suffix case-insensitively. Leading dots do
// not start an extension, so ".pdf" has none.
func allowedExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimLeft(name, ".")))
	_, ok := allowedExtensions[ext]
	return ok
}
