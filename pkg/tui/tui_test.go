package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/themedeck/pkg/activation"
	"gitlab.com/tinyland/lab/themedeck/pkg/engine"
	"gitlab.com/tinyland/lab/themedeck/pkg/store"
	"gitlab.com/tinyland/lab/themedeck/pkg/theme"
)

// update is a test helper that unwraps the tea.Model interface.
func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	nm, cmd := m.Update(msg)
	return nm.(Model), cmd
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func testEngine(t *testing.T, extra ...theme.Theme) *engine.Engine {
	t.Helper()
	ms := store.NewMemStore()
	for _, th := range extra {
		text, err := theme.Export(th)
		if err != nil {
			t.Fatal(err)
		}
		ms.Seed(th.Meta.ID, text)
	}
	eng := engine.New(engine.Options{Store: ms})
	if err := eng.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	return eng
}

func nordTheme() theme.Theme {
	return theme.Theme{
		Meta:   theme.Meta{ID: "nord", Name: "Nord", IsDark: true},
		Colors: map[string]string{"primaryColor": "#88c0d0"},
	}
}

func TestNewListsInstalledThemes(t *testing.T) {
	m := New(testEngine(t, nordTheme()))

	if len(m.rows) != 3 { // 2 builtins + nord
		t.Fatalf("got %d rows, want 3", len(m.rows))
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

func TestCursorMovePreviews(t *testing.T) {
	eng := testEngine(t, nordTheme())
	m := New(eng)

	// Sorted by id: dark-default, light-default, nord.
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})
	st := eng.State()
	if st.Phase != activation.PhasePreviewing || st.Preview != "light-default" {
		t.Errorf("state after down = %+v, want previewing light-default", st)
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})
	if st := eng.State(); st.Preview != "nord" {
		t.Errorf("preview = %q, want nord", st.Preview)
	}
	// The committed selection is untouched throughout.
	if st := eng.State(); st.Active != theme.DarkDefaultID {
		t.Errorf("active = %q, want dark-default", st.Active)
	}

	// Cursor stops at the list edges.
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 2 {
		t.Errorf("cursor ran past the end: %d", m.cursor)
	}
}

func TestEnterCommits(t *testing.T) {
	eng := testEngine(t, nordTheme())
	m := New(eng)

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})

	st := eng.State()
	if st.Phase != activation.PhaseCommitted || st.Active != "light-default" {
		t.Errorf("state after enter = %+v, want committed light-default", st)
	}
}

func TestEscapeCancelsPreview(t *testing.T) {
	eng := testEngine(t, nordTheme())
	m := New(eng)

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEscape})

	st := eng.State()
	if st.Phase != activation.PhaseCommitted || st.Active != theme.DarkDefaultID {
		t.Errorf("state after escape = %+v, want committed dark-default", st)
	}
}

func TestQuitKeys(t *testing.T) {
	m := New(testEngine(t))

	m2, cmd := update(m, keyRune('q'))
	if cmd == nil || !m2.quit {
		t.Error("q did not quit")
	}
	_, cmd = update(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Error("ctrl+c did not quit")
	}
}

func TestFilterNarrowsList(t *testing.T) {
	m := New(testEngine(t, nordTheme()))

	m, _ = update(m, keyRune('/'))
	if !m.filtering {
		t.Fatal("/ did not enter filter mode")
	}
	m, _ = update(m, keyRune('n'))
	m, _ = update(m, keyRune('o'))

	if len(m.rows) != 1 || m.themes[m.rows[0]].Meta.ID != "nord" {
		t.Fatalf("filtered rows = %v", m.rows)
	}

	// Escape clears the filter.
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.filtering || len(m.rows) != 3 {
		t.Errorf("filter not cleared: filtering=%v rows=%d", m.filtering, len(m.rows))
	}
}

func TestDeleteBuiltinBlocked(t *testing.T) {
	m := New(testEngine(t))

	m, cmd := update(m, keyRune('d'))
	if cmd != nil {
		t.Error("delete of a builtin issued a command")
	}
	if !strings.Contains(m.status, "cannot be deleted") {
		t.Errorf("status = %q", m.status)
	}
}

func TestDeleteDoneReloads(t *testing.T) {
	eng := testEngine(t, nordTheme())
	m := New(eng)

	if err := eng.Delete(context.Background(), "nord"); err != nil {
		t.Fatal(err)
	}
	m, _ = update(m, deleteDoneMsg{id: "nord"})

	if len(m.rows) != 2 {
		t.Errorf("rows after delete = %d, want 2", len(m.rows))
	}
	if !strings.Contains(m.status, "deleted nord") {
		t.Errorf("status = %q", m.status)
	}
}

func TestViewShowsMarkersAndHints(t *testing.T) {
	eng := testEngine(t, nordTheme())
	m := New(eng)
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})

	view := m.View()
	if !strings.Contains(view, "Dark Default") || !strings.Contains(view, "Nord") {
		t.Error("view missing theme names")
	}
	if !strings.Contains(view, "[active]") {
		t.Error("view missing active marker")
	}
	if !strings.Contains(view, "enter:commit") {
		t.Error("view missing key hints")
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})
	if !strings.Contains(m.View(), "[preview]") {
		t.Error("view missing preview marker")
	}
}
