package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileSlot keeps the payload in <dir>/<name>.json.
type FileSlot struct {
	path string
}

// NewFileSlot creates dir if needed.
func NewFileSlot(dir, name string) (*FileSlot, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileSlot{path: filepath.Join(dir, name+".json")}, nil
}

// Path returns the backing file.
func (f *FileSlot) Path() string { return f.path }

func (f *FileSlot) Get(_ context.Context) ([]byte, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return b, err
}

// Put writes to a temp file and renames it over the slot.
func (f *FileSlot) Put(_ context.Context, payload []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

func (f *FileSlot) Healthy(_ context.Context) bool {
	_, err := os.Stat(filepath.Dir(f.path))
	return err == nil
}

func (f *FileSlot) Close() error { return nil }
