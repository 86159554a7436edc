// Package storage writes report images to local disk and hands back the
// public reference under which they are served.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// UploadSaver stores submitted evidence images.
type UploadSaver struct {
	dir string
}

// NewUploadSaver ensures the upload directory exists.
func NewUploadSaver(dir string) (*UploadSaver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &UploadSaver{dir: dir}, nil
}

// Dir returns the directory images are written to.
func (s *UploadSaver) Dir() string {
	return s.dir
}

// Save writes the image and returns its public URL path. Filenames are
// prefixed with the upload time to avoid collisions between same-named files.
func (s *UploadSaver) Save(originalName string, data []byte) (string, error) {
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeFilename(originalName))
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return "/uploads/" + name, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "upload"
	}
	return name
}
