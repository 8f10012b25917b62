package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rzkdmln/sicakap/internal/core/apperror"
	"github.com/rzkdmln/sicakap/pkg/logger"
)

// Store persists scans under a single root directory using the
// date-partitioned tree layout.
type Store struct {
	root string
}

// NewStore creates the store, ensuring the root directory exists.
func NewStore(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("archive root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create archive root: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the configured archive root.
func (s *Store) Root() string {
	return s.root
}

// Save writes the scan under regDate's partition and returns the relative
// archive path to store on the record.
func (s *Store) Save(ctx context.Context, regDate, filename string, r io.Reader) (string, error) {
	relPath, err := TreePath(regDate, filename)
	if err != nil {
		return "", err
	}

	fullPath := filepath.Join(s.root, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", apperror.NewStorage(fmt.Errorf("create partition: %w", err))
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return "", apperror.NewStorage(fmt.Errorf("create file: %w", err))
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(fullPath)
		return "", apperror.NewStorage(fmt.Errorf("write file: %w", err))
	}

	logger.Info(ctx, "scan archived", "archive_path", relPath)
	return relPath, nil
}

// Resolve maps a stored archive path to an absolute filesystem path,
// rejecting traversal and missing files.
func (s *Store) Resolve(archivePath string) (string, error) {
	relPath, err := CleanRelPath(archivePath)
	if err != nil {
		return "", err
	}

	fullPath := filepath.Join(s.root, filepath.FromSlash(relPath))
	info, err := os.Stat(fullPath)
	if err != nil || info.IsDir() {
		return "", apperror.NewNotFound("archive file", archivePath)
	}
	return fullPath, nil
}
