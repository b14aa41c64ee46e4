// Package style materializes a resolved variable set as the live style
// state of the hosting document. The Document owns the active stylesheet
// and identity markers; Apply swaps them atomically and notifies
// subscribed observers afterwards.
package style

import (
	"sync"

	"gitlab.com/tinyland/lab/themedeck/pkg/theme"
)

// Event is the typed change notification delivered to observers after a
// document mutation completes.
type Event struct {
	ThemeID string
	IsDark  bool
	Cleared bool
}

// Observer receives theme change events. Implementations must not block;
// notification runs on the mutating goroutine.
type Observer interface {
	ThemeChanged(Event)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) ThemeChanged(e Event) { f(e) }

// Snapshot is a consistent copy of the document's observable state.
type Snapshot struct {
	Stylesheet string
	ThemeID    string
	IsDark     bool
	Applied    bool
}

// Document is the style surface of the hosting application. All mutation
// goes through Apply and Clear; readers take a Snapshot. There is never an
// intermediate state where only some variables have been replaced.
type Document struct {
	mu         sync.RWMutex
	observers  map[int]Observer
	nextObsID  int
	stylesheet string
	themeID    string
	isDark     bool
	applied    bool
}

// NewDocument returns a document carrying the baseline stylesheet, as if
// Clear had been called: no identity markers, every variable at its
// hardcoded default.
func NewDocument() *Document {
	return &Document{
		observers:  map[int]Observer{},
		stylesheet: baselineStylesheet(),
	}
}

// Subscribe registers an observer and returns a function that removes it.
func (d *Document) Subscribe(o Observer) func() {
	d.mu.Lock()
	id := d.nextObsID
	d.nextObsID++
	d.observers[id] = o
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.observers, id)
		d.mu.Unlock()
	}
}

// Apply replaces the active stylesheet with one rendered from res, sets the
// identity markers from meta, and notifies observers once the swap is
// complete. Applying equal inputs twice leaves the document in the same
// observable state as applying them once.
func (d *Document) Apply(res theme.Resolved, meta theme.Meta) {
	sheet := Render(res, meta)

	d.mu.Lock()
	d.stylesheet = sheet
	d.themeID = meta.ID
	d.isDark = meta.IsDark
	d.applied = true
	obs := d.observerList()
	d.mu.Unlock()

	for _, o := range obs {
		o.ThemeChanged(Event{ThemeID: meta.ID, IsDark: meta.IsDark})
	}
}

// Clear removes the active style and identity markers, restoring the
// baseline defaults used before any theme has loaded.
func (d *Document) Clear() {
	d.mu.Lock()
	d.stylesheet = baselineStylesheet()
	d.themeID = ""
	d.isDark = false
	d.applied = false
	obs := d.observerList()
	d.mu.Unlock()

	for _, o := range obs {
		o.ThemeChanged(Event{Cleared: true})
	}
}

// Snapshot returns a copy of the current observable state.
func (d *Document) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Snapshot{
		Stylesheet: d.stylesheet,
		ThemeID:    d.themeID,
		IsDark:     d.isDark,
		Applied:    d.applied,
	}
}

// observerList copies the observer set so notification happens outside the
// lock. Callers must hold d.mu.
func (d *Document) observerList() []Observer {
	obs := make([]Observer, 0, len(d.observers))
	for _, o := range d.observers {
		obs = append(obs, o)
	}
	return obs
}

// baselineStylesheet renders the hardcoded defaults with no theme identity.
func baselineStylesheet() string {
	return Render(theme.Resolve(theme.Theme{Colors: map[string]string{}}), theme.Meta{})
}
