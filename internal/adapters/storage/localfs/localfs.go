// Package localfs stores uploaded images on the local disk under a single
// directory that is also served at /uploads/.
package localfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Storage struct {
	dir string
}

func New(dir string) *Storage {
	return &Storage{dir: dir}
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SaveImage writes the upload under a unique name and returns the public
// path it is served from. The original filename only contributes a
// sanitized suffix so collisions and path tricks are impossible.
func (s *Storage) SaveImage(_ context.Context, filename string, data []byte) (string, error) {
	base := unsafeChars.ReplaceAllString(filepath.Base(filename), "-")
	if base == "" || base == "." {
		base = "image"
	}
	name := fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), uuid.New().String()[:8], base)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create storage dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return "/uploads/" + name, nil
}

// Remove deletes a previously stored image given its public path. Paths
// outside the storage dir and external URLs are ignored.
func (s *Storage) Remove(_ context.Context, storedPath string) error {
	p := strings.TrimSpace(storedPath)
	if p == "" || strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return nil
	}
	name := filepath.Base(strings.ReplaceAll(p, "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return nil
	}
	full := filepath.Join(s.dir, name)
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
