// Package activation tracks which theme is committed and which, if any, is
// being previewed. The state machine has exactly two phases; every
// transition is persisted so the selection survives a process restart.
package activation

import (
	"io"
	"log/slog"
	"sync"

	"gitlab.com/tinyland/lab/themedeck/pkg/theme"
)

// Phase is the activation state machine phase.
type Phase int

const (
	PhaseCommitted Phase = iota
	PhasePreviewing
)

func (p Phase) String() string {
	if p == PhasePreviewing {
		return "previewing"
	}
	return "committed"
}

// State is one point in the activation state machine. Active is always the
// committed id; Preview is set only while previewing. While previewing,
// Active remembers the original selection to restore on toggle.
type State struct {
	Phase   Phase
	Active  string
	Preview string
}

// AppliedID returns the id whose style should be on screen: the previewed
// theme while previewing, the committed theme otherwise.
func (s State) AppliedID() string {
	if s.Phase == PhasePreviewing {
		return s.Preview
	}
	return s.Active
}

// Controller owns the activation state. It is safe for concurrent use.
// A nil StateStore keeps state in memory only (used in tests).
type Controller struct {
	mu     sync.Mutex
	st     State
	store  *StateStore
	logger *slog.Logger
}

// NewController restores persisted state, defaulting to the committed dark
// default when nothing is recorded or the state file is unreadable.
func NewController(store *StateStore, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Controller{
		st:     State{Phase: PhaseCommitted, Active: theme.DarkDefaultID},
		store:  store,
		logger: logger,
	}

	if store != nil {
		st, ok, err := store.Load()
		switch {
		case err != nil:
			logger.Warn("failed to restore activation state", "error", err)
		case ok && st.Active != "":
			c.st = st
		case ok:
			// A file with no active id still means "use the default".
		}
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st
}

// StartPreview moves to Previewing(id, original). Starting a preview while
// one is active switches the previewed id but never overwrites the
// remembered original; previewing the id already on preview toggles the
// preview off and restores the original.
func (c *Controller) StartPreview(id string) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.st.Phase == PhasePreviewing && c.st.Preview == id {
		c.st = State{Phase: PhaseCommitted, Active: c.st.Active}
	} else {
		c.st = State{Phase: PhasePreviewing, Active: c.st.Active, Preview: id}
	}
	c.persistLocked()
	return c.st
}

// Commit moves to Committed(id) from any state, discarding any remembered
// original.
func (c *Controller) Commit(id string) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.st = State{Phase: PhaseCommitted, Active: id}
	c.persistLocked()
	return c.st
}

// CancelPreview restores the committed selection if a preview is active.
func (c *Controller) CancelPreview() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.st.Phase == PhasePreviewing {
		c.st = State{Phase: PhaseCommitted, Active: c.st.Active}
		c.persistLocked()
	}
	return c.st
}

// HandleDelete reacts to a theme deletion. If the deleted id is committed
// or on preview the controller falls back to the committed dark default
// immediately; otherwise the state is unchanged. The second return value
// reports whether a transition happened.
func (c *Controller) HandleDelete(id string) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	affected := c.st.Active == id || (c.st.Phase == PhasePreviewing && c.st.Preview == id)
	if !affected {
		return c.st, false
	}
	c.st = State{Phase: PhaseCommitted, Active: theme.DarkDefaultID}
	c.persistLocked()
	return c.st, true
}

// persistLocked saves the current state; persistence failures are logged,
// never surfaced, so a full disk cannot wedge theme switching.
func (c *Controller) persistLocked() {
	if c.store == nil {
		return
	}
	if err := c.store.Save(c.st); err != nil {
		c.logger.Warn("failed to persist activation state", "error", err)
	}
}
