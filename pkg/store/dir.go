package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DirStore keeps definitions as {id}.toml files in a local directory. It
// backs offline use and tests, and supports change watching so an
// externally edited file can trigger a registry reload.
type DirStore struct {
	dir    string
	logger *slog.Logger
}

// NewDirStore opens (creating if needed) a directory-backed store.
func NewDirStore(dir string, logger *slog.Logger) (*DirStore, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("store: create theme dir %s: %w", dir, err)
	}
	return &DirStore{dir: dir, logger: logger}, nil
}

func (s *DirStore) List(ctx context.Context) ([]Entry, error) {
	des, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("store: read theme dir: %w", err)
	}

	var entries []Entry
	for _, de := range des {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, FileExt) {
			continue
		}
		entries = append(entries, Entry{
			ID:     strings.TrimSuffix(name, FileExt),
			Format: strings.TrimPrefix(FileExt, "."),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func (s *DirStore) Fetch(ctx context.Context, id string) (string, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("store: read %s: %w", id, err)
	}
	return string(data), nil
}

func (s *DirStore) Upload(ctx context.Context, name string, data []byte) error {
	if err := ValidateUpload(name, data); err != nil {
		return err
	}
	id := strings.TrimSuffix(name, FileExt)
	if err := atomicWrite(s.path(id), data, s.dir); err != nil {
		return fmt.Errorf("store: write %s: %w", id, err)
	}
	return nil
}

func (s *DirStore) Delete(ctx context.Context, id string) error {
	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	return nil
}

// Watch invokes onChange whenever a definition file in the directory is
// created, written or removed, debounced so a burst of writes triggers one
// reload. It blocks until ctx is done.
func (s *DirStore) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("store: start watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("store: watch %s: %w", s.dir, err)
	}

	const debounceDelay = 200 * time.Millisecond
	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, FileExt) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, onChange)

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("theme dir watcher error", "error", werr)
		}
	}
}

func (s *DirStore) path(id string) string {
	return filepath.Join(s.dir, id+FileExt)
}

// atomicWrite writes data to path via a temporary file and rename.
func atomicWrite(path string, data []byte, tmpDir string) error {
	tmp, err := os.CreateTemp(tmpDir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
