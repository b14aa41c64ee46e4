// Package reconcile compares the installed registry against a remote
// catalog snapshot and silently re-uploads any catalog definition whose
// semantic version is newer than the installed one. Each outdated id is
// processed independently; one failure never blocks the rest.
package reconcile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"gitlab.com/tinyland/lab/themedeck/pkg/catalog"
	"gitlab.com/tinyland/lab/themedeck/pkg/registry"
	"gitlab.com/tinyland/lab/themedeck/pkg/store"
	"gitlab.com/tinyland/lab/themedeck/pkg/theme"
)

// Options gate a reconciliation pass. A pass runs only when auto-update is
// enabled and the caller is authorized to write to the backend.
type Options struct {
	AutoUpdate bool
	Authorized bool
}

// Result summarizes one pass.
type Result struct {
	Updated []string         // ids re-uploaded with a newer catalog version
	Failed  map[string]error // ids whose update failed, with the cause
	Skipped int              // ids already in flight from another trigger
}

// Reconciler performs catalog-vs-registry reconciliation passes. The
// in-flight set is best effort deduplication within this process; two
// triggers racing on the same id yield one upload, but there is no
// cross-process coordination.
type Reconciler struct {
	mu       sync.Mutex
	inflight map[string]bool

	st     store.Store
	logger *slog.Logger
}

// New returns a reconciler uploading through st.
func New(st store.Store, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Reconciler{
		inflight: make(map[string]bool),
		st:       st,
		logger:   logger,
	}
}

// Reconcile runs one pass: for every catalog entry whose id matches an
// installed theme, compare versions and re-upload the catalog definition
// when it is newer, tagged as a community theme, under the unchanged id.
// No user confirmation is involved. The registry itself is not mutated;
// callers reload it afterwards so it only ever reflects confirmed backend
// state.
func (r *Reconciler) Reconcile(ctx context.Context, cat catalog.Catalog, reg *registry.Registry, opts Options) (Result, error) {
	res := Result{Failed: map[string]error{}}
	if !opts.AutoUpdate || !opts.Authorized {
		return res, nil
	}

	entries, err := cat.Index(ctx)
	if err != nil {
		return res, err
	}

	for _, e := range entries {
		if e.ID == "" || reg.IsBuiltin(e.ID) {
			continue
		}
		installed, ok := reg.Get(e.ID)
		if !ok {
			continue
		}
		if theme.CompareVersions(e.Version, installed.Meta.Version) <= 0 {
			continue
		}

		if !r.begin(e.ID) {
			res.Skipped++
			continue
		}
		if err := r.update(ctx, cat, e); err != nil {
			res.Failed[e.ID] = err
			r.logger.Warn("theme update failed", "id", e.ID, "error", err)
		} else {
			res.Updated = append(res.Updated, e.ID)
			r.logger.Info("theme updated from catalog",
				"id", e.ID, "from", installed.Meta.Version, "to", e.Version)
		}
		r.end(e.ID)
	}
	return res, nil
}

// update fetches one catalog definition, round-trips it through the codec
// with the community provenance set, and re-uploads it.
func (r *Reconciler) update(ctx context.Context, cat catalog.Catalog, e catalog.Entry) error {
	raw, err := cat.Raw(ctx, e.File)
	if err != nil {
		return err
	}

	t, err := theme.Parse(raw)
	if err != nil {
		return err
	}
	if t.Meta.ID != e.ID {
		return errors.New("reconcile: catalog definition id differs from index id")
	}
	t.Meta.Provenance = theme.ProvenanceCommunity

	text, err := theme.Export(t)
	if err != nil {
		return err
	}

	err = r.st.Upload(ctx, e.ID+store.FileExt, []byte(text))
	if errors.Is(err, store.ErrNotFound) {
		// The theme was deleted while our upload was in flight. Benign;
		// the next pass simply sees nothing installed under this id.
		r.logger.Debug("upload raced a delete", "id", e.ID)
		return nil
	}
	return err
}

// begin marks id as processing; false means another trigger got there
// first.
func (r *Reconciler) begin(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inflight[id] {
		return false
	}
	r.inflight[id] = true
	return true
}

func (r *Reconciler) end(id string) {
	r.mu.Lock()
	delete(r.inflight, id)
	r.mu.Unlock()
}
