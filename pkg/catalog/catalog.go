// Package catalog reads the remote theme catalog: a YAML index describing
// the published definitions plus per-file raw content fetch. The catalog
// is strictly read-only; updates flow back through the storage backend.
package catalog

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Entry describes one published definition in the catalog index.
type Entry struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	File    string `yaml:"file"`
}

// Catalog lists published themes and fetches their raw definition text.
type Catalog interface {
	// Index returns the catalog's directory listing.
	Index(ctx context.Context) ([]Entry, error)

	// Raw returns the verbatim content of one definition file.
	Raw(ctx context.Context, file string) (string, error)
}

// index is the top-level shape of index.yaml.
type index struct {
	Themes []Entry `yaml:"themes"`
}

// parseIndex decodes an index.yaml document.
func parseIndex(data []byte) ([]Entry, error) {
	var idx index
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("catalog: decode index: %w", err)
	}
	return idx.Themes, nil
}
