// Package store abstracts the persistent theme storage backend: list,
// fetch, upload and delete of definition files keyed by theme id. The
// engine only ever replaces definitions wholesale; there are no partial
// updates. Implementations: an HTTP client for the dashboard backend, a
// local directory store, and an in-memory store for tests.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// FileExt is the only definition file extension the engine accepts.
const FileExt = ".toml"

// MaxUploadSize is the client-side ceiling on definition file size.
const MaxUploadSize = 1 << 20 // 1 MiB

// ErrNotFound reports a theme id the backend does not hold. Delete treats
// it as success (the theme is already absent); other callers branch on it.
var ErrNotFound = errors.New("store: theme not found")

// Entry identifies one stored definition file.
type Entry struct {
	ID     string `json:"id"`
	Format string `json:"format"`
}

// Store is the storage backend the theme engine persists to.
type Store interface {
	// List enumerates stored definitions.
	List(ctx context.Context) ([]Entry, error)

	// Fetch returns the raw definition text for id, or ErrNotFound.
	Fetch(ctx context.Context, id string) (string, error)

	// Upload creates or replaces the definition stored under the id
	// embedded in the file. The name is the client-side filename and is
	// validated before transmission.
	Upload(ctx context.Context, name string, data []byte) error

	// Delete removes the definition for id. Deleting an absent id returns
	// ErrNotFound, which callers treat as success.
	Delete(ctx context.Context, id string) error
}

// ValidateUpload applies the client-side gate: definition files must carry
// the expected extension and stay under the size ceiling.
func ValidateUpload(name string, data []byte) error {
	if !strings.HasSuffix(strings.ToLower(name), FileExt) {
		return fmt.Errorf("store: %q: only %s files can be uploaded", name, FileExt)
	}
	if len(data) > MaxUploadSize {
		return fmt.Errorf("store: %q: file exceeds %d byte limit", name, MaxUploadSize)
	}
	if len(data) == 0 {
		return fmt.Errorf("store: %q: file is empty", name)
	}
	return nil
}
