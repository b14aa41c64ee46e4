// Package registry holds the installed theme set: the two built-ins
// constructed in memory plus everything fetched from the storage backend,
// deduplicated by id. Loading degrades rather than aborts; a malformed or
// unreachable definition is skipped and logged while the rest load.
package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"gitlab.com/tinyland/lab/themedeck/pkg/store"
	"gitlab.com/tinyland/lab/themedeck/pkg/theme"
)

// fetchConcurrency bounds parallel definition fetches during a load.
const fetchConcurrency = 4

// ErrBuiltin is returned when an operation would modify a reserved theme.
var ErrBuiltin = errors.New("registry: built-in themes cannot be modified")

// Registry is the id-keyed set of installed themes. It is safe for
// concurrent use; lookups return clones so callers never alias registry
// state.
type Registry struct {
	mu     sync.RWMutex
	themes map[string]theme.Theme
	st     store.Store
	logger *slog.Logger
}

// New returns a registry seeded with the built-in themes.
func New(st store.Store, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Registry{
		themes: make(map[string]theme.Theme),
		st:     st,
		logger: logger,
	}
	for _, b := range theme.Builtins() {
		r.themes[b.Meta.ID] = b
	}
	return r
}

// Load merges the storage backend's contents into the registry. Built-ins
// always win an id collision; among fetched themes the first seen wins.
// Individual fetch or parse failures are logged and skipped. Only a failed
// backend listing is an error, and even then the built-ins remain usable.
func (r *Registry) Load(ctx context.Context) error {
	entries, err := r.st.List(ctx)
	if err != nil {
		return fmt.Errorf("registry: list backend: %w", err)
	}

	fetched := make([]theme.Theme, len(entries))
	ok := make([]bool, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, e := range entries {
		i, e := i, e
		g.Go(func() error {
			text, err := r.st.Fetch(gctx, e.ID)
			if err != nil {
				r.logger.Warn("skipping unreachable theme", "id", e.ID, "error", err)
				return nil
			}
			t, err := theme.Parse(text)
			if err != nil {
				r.logger.Warn("skipping malformed theme", "id", e.ID, "error", err)
				return nil
			}
			if t.Meta.ID != e.ID {
				r.logger.Warn("skipping theme whose definition id differs from its stored id",
					"stored", e.ID, "defined", t.Meta.ID)
				return nil
			}
			fetched[i], ok[i] = t, true
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; they degrade per item

	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[string]theme.Theme, len(entries)+2)
	for _, b := range theme.Builtins() {
		next[b.Meta.ID] = b
	}
	for i := range fetched {
		if !ok[i] {
			continue
		}
		t := fetched[i]
		if _, exists := next[t.Meta.ID]; exists {
			continue // built-in or first-seen entry wins
		}
		next[t.Meta.ID] = t
	}
	r.themes = next
	return nil
}

// Get returns a clone of the theme for id.
func (r *Registry) Get(id string) (theme.Theme, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.themes[id]
	if !ok {
		return theme.Theme{}, false
	}
	return t.Clone(), true
}

// List returns clones of all installed themes sorted by id.
func (r *Registry) List() []theme.Theme {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]theme.Theme, 0, len(r.themes))
	for _, t := range r.themes {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Meta.ID < out[j].Meta.ID })
	return out
}

// IsBuiltin reports whether id names one of the two reserved themes.
func (r *Registry) IsBuiltin(id string) bool {
	return theme.IsBuiltinID(id)
}

// Put inserts or replaces a theme locally. Reserved ids are immutable.
func (r *Registry) Put(t theme.Theme) error {
	if theme.IsBuiltinID(t.Meta.ID) {
		return ErrBuiltin
	}
	if err := t.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.themes[t.Meta.ID] = t.Clone()
	return nil
}

// Delete removes a theme from the backend and the local set. A backend
// "not found" means the theme was already absent and is treated as
// success. Built-ins can never be deleted.
func (r *Registry) Delete(ctx context.Context, id string) error {
	if theme.IsBuiltinID(id) {
		return ErrBuiltin
	}

	if err := r.st.Delete(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("registry: delete %s: %w", id, err)
	}

	r.mu.Lock()
	delete(r.themes, id)
	r.mu.Unlock()
	return nil
}
