package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ReceiptStore keeps payment receipts as opaque files on disk. Stored
// names are uuids so the original filename never reaches the filesystem.
type ReceiptStore struct {
	dir string
}

func NewReceiptStore(dir string) (*ReceiptStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create receipts dir: %w", err)
	}
	return &ReceiptStore{dir: dir}, nil
}

// Save writes the blob and returns the stored name. Only the extension of
// the original filename is preserved.
func (s *ReceiptStore) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if len(ext) > 10 {
		ext = ""
	}
	name := uuid.NewString() + ext

	file, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create receipt file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		_ = os.Remove(file.Name())
		return "", fmt.Errorf("write receipt file: %w", err)
	}
	return name, nil
}

// Open returns the stored blob. Names containing path separators are
// rejected so a stored path can never escape the receipts directory.
func (s *ReceiptStore) Open(name string) (*os.File, error) {
	if name == "" || name != filepath.Base(name) {
		return nil, os.ErrNotExist
	}
	return os.Open(filepath.Join(s.dir, name))
}
