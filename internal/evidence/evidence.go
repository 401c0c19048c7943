// Package evidence is the boundary to the image store. The engine treats
// the returned reference as an opaque attribute value and never parses it.
package evidence

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store persists evidence bytes and hands back a retrievable reference.
type Store interface {
	Store(data []byte, mimeType string) (string, error)
}

// DiskStore writes evidence under a local directory and returns a /media URL
// path. Suitable for single-instance deployments; an object-store
// implementation slots in behind the same interface.
type DiskStore struct {
	Dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create evidence dir: %w", err)
	}
	return &DiskStore{Dir: dir}, nil
}

func (d *DiskStore) Store(data []byte, mimeType string) (string, error) {
	name := uuid.New().String() + extensionFor(mimeType)
	path := filepath.Join(d.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return "/media/" + name, nil
}

func extensionFor(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
