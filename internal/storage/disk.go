// Package storage persists uploaded ticket images on local disk under
// uuid-derived keys. Stored paths are relative to the uploads directory and
// served by the static file route; the lifecycle core treats them as opaque.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore saves multipart uploads and removes reconciled-away files.
type ImageStore struct {
	dir string
}

// NewImageStore ensures the upload directory exists.
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &ImageStore{dir: dir}, nil
}

// Save writes the upload to disk and returns its relative file path.
func (s *ImageStore) Save(header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return name, nil
}

// Remove deletes a stored file; missing files are not an error.
func (s *ImageStore) Remove(relPath string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(relPath)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dir returns the root the static file route serves from.
func (s *ImageStore) Dir() string {
	return s.dir
}
