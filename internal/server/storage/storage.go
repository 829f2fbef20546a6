// Package storage keeps the bytes of uploaded files. Files are addressed by
// the storage key produced by the upload validator, never by their original
// name.
package storage

import (
	"context"
	"fmt"
	"strings"
)

// Storage is the blob store behind file uploads.
// Get and Delete return an error matching common.ErrorFileNotFound when the
// key is unknown.
type Storage interface {
	Put(ctx context.Context, key string, content []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// checkKey rejects keys that could escape the storage area.
func checkKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}
