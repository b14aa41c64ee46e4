// Package engine wires the theme subsystems into one explicitly owned
// state object: the registry of installed themes, the activation state
// machine, the style document, the storage backend and the remote
// catalog. All dashboard-facing theme operations go through an Engine
// instance; there is no module-level singleton.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"gitlab.com/tinyland/lab/themedeck/pkg/activation"
	"gitlab.com/tinyland/lab/themedeck/pkg/catalog"
	"gitlab.com/tinyland/lab/themedeck/pkg/reconcile"
	"gitlab.com/tinyland/lab/themedeck/pkg/registry"
	"gitlab.com/tinyland/lab/themedeck/pkg/store"
	"gitlab.com/tinyland/lab/themedeck/pkg/style"
	"gitlab.com/tinyland/lab/themedeck/pkg/theme"
)

// ErrUnknownTheme reports an id the registry does not hold.
var ErrUnknownTheme = errors.New("engine: unknown theme id")

// ErrBusy reports an operation already in flight for the same theme id,
// e.g. an import retriggered before the first request finished.
var ErrBusy = errors.New("engine: operation already in progress for this theme")

// Options configure an Engine.
type Options struct {
	Store    store.Store
	Catalog  catalog.Catalog // nil disables catalog features
	StateDir string          // "" keeps activation state in memory only

	AutoUpdate bool
	Authorized bool

	Logger *slog.Logger
}

// Engine owns the live theme state for one application session. Construct
// it at startup, call Start once, tear it down with the session.
type Engine struct {
	reg  *registry.Registry
	ctrl *activation.Controller
	doc  *style.Document
	st   store.Store
	cat  catalog.Catalog
	rec  *reconcile.Reconciler
	opts Options

	logger *slog.Logger

	mu       sync.Mutex
	inflight map[string]bool
}

// New builds an engine from options. The document starts at baseline until
// Start restores the persisted selection.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var ss *activation.StateStore
	if opts.StateDir != "" {
		ss = activation.NewStateStore(opts.StateDir)
	}

	return &Engine{
		reg:      registry.New(opts.Store, logger),
		ctrl:     activation.NewController(ss, logger),
		doc:      style.NewDocument(),
		st:       opts.Store,
		cat:      opts.Catalog,
		rec:      reconcile.New(opts.Store, logger),
		opts:     opts,
		logger:   logger,
		inflight: make(map[string]bool),
	}
}

// Start loads the registry and re-applies the persisted selection: the
// previewed theme when a preview marker survived the restart, otherwise
// the last committed theme, otherwise the dark default. A failed backend
// load degrades to the built-ins rather than aborting startup.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.reg.Load(ctx); err != nil {
		e.logger.Warn("theme backend unavailable at startup, using built-ins", "error", err)
	}

	st := e.ctrl.State()
	if !e.applyID(st.AppliedID()) {
		// The recorded theme is gone; same handling as a live delete.
		e.ctrl.HandleDelete(st.AppliedID())
		e.applyID(theme.DarkDefaultID)
	}
	return nil
}

// Reload refreshes the registry from the backend and re-applies the
// current selection so an externally changed definition takes effect.
func (e *Engine) Reload(ctx context.Context) error {
	if err := e.reg.Load(ctx); err != nil {
		return err
	}

	st := e.ctrl.State()
	if !e.applyID(st.AppliedID()) {
		e.ctrl.HandleDelete(st.AppliedID())
		e.applyID(theme.DarkDefaultID)
	}
	return nil
}

// Themes lists the installed themes sorted by id.
func (e *Engine) Themes() []theme.Theme { return e.reg.List() }

// Theme returns the installed theme for id.
func (e *Engine) Theme(id string) (theme.Theme, bool) { return e.reg.Get(id) }

// IsBuiltin reports whether id names a reserved theme.
func (e *Engine) IsBuiltin(id string) bool { return e.reg.IsBuiltin(id) }

// State returns the activation state. While previewing, State().Active is
// what the UI shows as the current selection.
func (e *Engine) State() activation.State { return e.ctrl.State() }

// Document exposes the style document for read access and rendering.
func (e *Engine) Document() *style.Document { return e.doc }

// Subscribe registers a theme change observer; the returned function
// unsubscribes it.
func (e *Engine) Subscribe(o style.Observer) func() { return e.doc.Subscribe(o) }

// Commit makes id the committed theme and applies it, discarding any
// preview.
func (e *Engine) Commit(id string) error {
	if _, ok := e.reg.Get(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTheme, id)
	}
	st := e.ctrl.Commit(id)
	e.applyID(st.AppliedID())
	return nil
}

// Preview toggles a preview of id: previewing a new id applies it while
// remembering the committed original; previewing the id already on
// preview restores the original.
func (e *Engine) Preview(id string) error {
	if _, ok := e.reg.Get(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTheme, id)
	}
	st := e.ctrl.StartPreview(id)
	e.applyID(st.AppliedID())
	return nil
}

// CancelPreview restores the committed theme if a preview is active.
func (e *Engine) CancelPreview() {
	st := e.ctrl.CancelPreview()
	e.applyID(st.AppliedID())
}

// Import parses and uploads a new definition file, then installs it in
// the registry. Rapid duplicate imports of the same id collapse to one.
func (e *Engine) Import(ctx context.Context, name string, data []byte) (theme.Theme, error) {
	if err := store.ValidateUpload(name, data); err != nil {
		return theme.Theme{}, err
	}

	t, err := theme.Parse(string(data))
	if err != nil {
		return theme.Theme{}, err
	}
	if theme.IsBuiltinID(t.Meta.ID) {
		return theme.Theme{}, registry.ErrBuiltin
	}

	if !e.begin(t.Meta.ID) {
		return theme.Theme{}, fmt.Errorf("%w: %s", ErrBusy, t.Meta.ID)
	}
	defer e.end(t.Meta.ID)

	if err := e.st.Upload(ctx, t.Meta.ID+store.FileExt, data); err != nil {
		return theme.Theme{}, err
	}
	if err := e.reg.Put(t); err != nil {
		return theme.Theme{}, err
	}
	return t, nil
}

// Export serializes an installed theme back to definition text.
func (e *Engine) Export(id string) (string, error) {
	t, ok := e.reg.Get(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTheme, id)
	}
	return theme.Export(t)
}

// Edit replaces the definition for id with text. Editing a community
// theme never mutates the original id: the edit is stored as a fork under
// "<id>-custom" with BasedOn recording the source, and if the original
// was the active or previewed selection the fork takes its place. Editing
// a built-in is rejected.
func (e *Engine) Edit(ctx context.Context, id, text string) (theme.Theme, error) {
	orig, ok := e.reg.Get(id)
	if !ok {
		return theme.Theme{}, fmt.Errorf("%w: %s", ErrUnknownTheme, id)
	}
	if theme.IsBuiltinID(id) {
		return theme.Theme{}, registry.ErrBuiltin
	}

	edited, err := theme.Parse(text)
	if err != nil {
		return theme.Theme{}, err
	}
	if edited.Meta.ID != id {
		return theme.Theme{}, fmt.Errorf("engine: edited definition changes id from %q to %q", id, edited.Meta.ID)
	}

	if orig.Meta.Provenance == theme.ProvenanceCommunity {
		return e.saveFork(ctx, orig, edited)
	}

	if !e.begin(id) {
		return theme.Theme{}, fmt.Errorf("%w: %s", ErrBusy, id)
	}
	defer e.end(id)

	if err := e.st.Upload(ctx, id+store.FileExt, []byte(text)); err != nil {
		return theme.Theme{}, err
	}
	if err := e.reg.Put(edited); err != nil {
		return theme.Theme{}, err
	}

	st := e.ctrl.State()
	if st.AppliedID() == id {
		e.applyID(id)
	}
	return edited, nil
}

// saveFork stores an edited community theme under its fork id and moves
// the selection over when the original was active or previewed.
func (e *Engine) saveFork(ctx context.Context, orig, edited theme.Theme) (theme.Theme, error) {
	fork := edited.Clone()
	fork.Meta.ID = theme.ForkID(orig.Meta.ID)
	fork.Meta.BasedOn = orig.Meta.Name
	fork.Meta.Provenance = theme.ProvenanceCustom

	text, err := theme.Export(fork)
	if err != nil {
		return theme.Theme{}, err
	}

	if !e.begin(fork.Meta.ID) {
		return theme.Theme{}, fmt.Errorf("%w: %s", ErrBusy, fork.Meta.ID)
	}
	defer e.end(fork.Meta.ID)

	if err := e.st.Upload(ctx, fork.Meta.ID+store.FileExt, []byte(text)); err != nil {
		return theme.Theme{}, err
	}
	if err := e.reg.Put(fork); err != nil {
		return theme.Theme{}, err
	}

	st := e.ctrl.State()
	switch {
	case st.Phase == activation.PhasePreviewing && st.Preview == orig.Meta.ID:
		e.ctrl.StartPreview(fork.Meta.ID) // keeps the remembered original
		e.applyID(fork.Meta.ID)
	case st.Active == orig.Meta.ID:
		e.ctrl.Commit(fork.Meta.ID)
		e.applyID(fork.Meta.ID)
	}

	e.logger.Info("community theme forked on edit",
		"original", orig.Meta.ID, "fork", fork.Meta.ID)
	return fork, nil
}

// Delete removes a theme. If it is the committed or previewed selection
// the engine falls back to the dark default before touching the backend,
// so the document is never left without an active theme. Built-ins cannot
// be deleted; a backend "not found" counts as success.
func (e *Engine) Delete(ctx context.Context, id string) error {
	if theme.IsBuiltinID(id) {
		return registry.ErrBuiltin
	}

	if st, moved := e.ctrl.HandleDelete(id); moved {
		e.applyID(st.Active)
	}
	return e.reg.Delete(ctx, id)
}

// Sync runs one reconciliation pass against the catalog and reloads the
// registry so confirmed updates take effect, re-applying the current
// selection if its definition changed.
func (e *Engine) Sync(ctx context.Context) (reconcile.Result, error) {
	if e.cat == nil {
		return reconcile.Result{}, errors.New("engine: no catalog configured")
	}

	res, err := e.rec.Reconcile(ctx, e.cat, e.reg, reconcile.Options{
		AutoUpdate: e.opts.AutoUpdate,
		Authorized: e.opts.Authorized,
	})
	if err != nil {
		return res, err
	}

	if len(res.Updated) > 0 {
		if rerr := e.Reload(ctx); rerr != nil {
			e.logger.Warn("reload after update pass failed", "error", rerr)
		}
	}
	return res, nil
}

// applyID resolves and applies the theme for id. Returns false when the
// registry does not hold id; the document is left untouched in that case.
func (e *Engine) applyID(id string) bool {
	t, ok := e.reg.Get(id)
	if !ok {
		return false
	}
	e.doc.Apply(theme.Resolve(t), t.Meta)
	return true
}

// begin marks id as having an operation in flight.
func (e *Engine) begin(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inflight[strings.ToLower(id)] {
		return false
	}
	e.inflight[strings.ToLower(id)] = true
	return true
}

func (e *Engine) end(id string) {
	e.mu.Lock()
	delete(e.inflight, strings.ToLower(id))
	e.mu.Unlock()
}
