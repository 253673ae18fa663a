package library

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/pkg/validator"
)

// FileStorage keeps the original uploaded bytes on disk so documents can
// be re-served or re-indexed later. Files are named by document ID plus
// the sanitized upload name, so nothing a client sends can escape the
// upload directory.
type FileStorage struct {
	dir string
}

func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

// Save writes content under a collision-free name and returns the storage
// path and the stored filename.
func (s *FileStorage) Save(documentID, originalName string, content []byte) (string, string, error) {
	filename := documentID + "_" + validator.SanitizeFilename(originalName)
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, filename, nil
}

// Remove deletes a stored file. A file that is already gone is not an
// error.
func (s *FileStorage) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
