package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirCatalog reads a catalog layout from a local directory: an index.yaml
// at the root plus the definition files it references. Used for tests and
// for mirroring a catalog onto shared storage.
type DirCatalog struct {
	dir string
}

// NewDirCatalog returns a catalog rooted at dir.
func NewDirCatalog(dir string) *DirCatalog {
	return &DirCatalog{dir: dir}
}

func (c *DirCatalog) Index(ctx context.Context) ([]Entry, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, indexFile))
	if err != nil {
		return nil, fmt.Errorf("catalog: read index: %w", err)
	}
	return parseIndex(data)
}

func (c *DirCatalog) Raw(ctx context.Context, file string) (string, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, filepath.Base(file)))
	if err != nil {
		return "", fmt.Errorf("catalog: read %s: %w", file, err)
	}
	return string(data), nil
}
