package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/termblocks/checklist/internal/common"
	"github.com/termblocks/checklist/internal/filex"
)

// LocalStorage stores files flat in one directory of a billy filesystem.
type LocalStorage struct {
	fs billy.Filesystem
}

// NewLocalStorage creates dir if needed and stores files in it.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	root, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return NewLocalStorageFS(osfs.New(root)), nil
}

// NewLocalStorageFS stores files in the root of fsys. Tests pass memfs.New().
func NewLocalStorageFS(fsys billy.Filesystem) *LocalStorage {
	return &LocalStorage{fs: fsys}
}

func (s *LocalStorage) Put(ctx context.Context, key string, content []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := util.WriteFile(s.fs, key, content, 0o640); err != nil {
		return fmt.Errorf("local storage: write %q: %w", key, err)
	}
	return nil
}

func (s *LocalStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	data, err := util.ReadFile(s.fs, key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, common.ErrorFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("local storage: read %q: %w", key, err)
	}
	return data, nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	err := s.fs.Remove(key)
	if errors.Is(err, fs.ErrNotExist) {
		return common.ErrorFileNotFound
	}
	if err != nil {
		return fmt.Errorf("local storage: remove %q: %w", key, err)
	}
	return nil
}
