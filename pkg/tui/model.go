// Package tui implements the interactive theme browser. It is a small
// Elm-architecture bubbletea program: moving the cursor previews the theme
// under it, enter commits, escape backs out of the preview, and a filter
// line narrows the list.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/themedeck/pkg/engine"
	"gitlab.com/tinyland/lab/themedeck/pkg/theme"
)

// syncDoneMsg reports the result of a background catalog sync.
type syncDoneMsg struct {
	updated int
	failed  int
	err     error
}

// deleteDoneMsg reports the result of a background delete.
type deleteDoneMsg struct {
	id  string
	err error
}

// Model is the root bubbletea model for the theme browser.
type Model struct {
	eng *engine.Engine

	themes []theme.Theme // full installed list, sorted by id
	rows   []int         // indices into themes after filtering
	cursor int           // position within rows

	filter    textinput.Model
	filtering bool

	width  int
	height int
	status string
	quit   bool
}

// New builds a browser over a started engine.
func New(eng *engine.Engine) Model {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.CharLimit = 64

	m := Model{eng: eng, filter: ti}
	m.reload()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case syncDoneMsg:
		if msg.err != nil {
			m.status = "sync failed: " + msg.err.Error()
			return m, nil
		}
		m.reload()
		m.status = fmt.Sprintf("sync: %d updated, %d failed", msg.updated, msg.failed)
		return m, nil

	case deleteDoneMsg:
		if msg.err != nil {
			m.status = "delete failed: " + msg.err.Error()
			return m, nil
		}
		m.reload()
		m.status = "deleted " + msg.id
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFiltering(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

// updateBrowsing handles keys in the normal browsing state.
func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quit = true
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		return m.moveCursor(-1), nil

	case key.Matches(msg, keys.Down):
		return m.moveCursor(1), nil

	case key.Matches(msg, keys.Commit):
		if id, ok := m.selectedID(); ok {
			if err := m.eng.Commit(id); err != nil {
				m.status = err.Error()
			} else {
				m.status = "committed " + id
			}
		}
		return m, nil

	case key.Matches(msg, keys.Back):
		m.eng.CancelPreview()
		m.status = ""
		return m, nil

	case key.Matches(msg, keys.Delete):
		if id, ok := m.selectedID(); ok {
			if m.eng.IsBuiltin(id) {
				m.status = "built-in themes cannot be deleted"
				return m, nil
			}
			return m, m.deleteCmd(id)
		}
		return m, nil

	case key.Matches(msg, keys.Sync):
		m.status = "syncing..."
		return m, m.syncCmd()

	case key.Matches(msg, keys.Filter):
		m.filtering = true
		m.filter.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

// updateFiltering handles keys while the filter input is focused.
func (m Model) updateFiltering(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.filtering = false
		m.filter.SetValue("")
		m.filter.Blur()
		m.applyFilter()
		return m, nil
	case tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

// moveCursor shifts the cursor and previews the theme it lands on.
func (m Model) moveCursor(delta int) Model {
	if len(m.rows) == 0 {
		return m
	}
	next := m.cursor + delta
	if next < 0 || next >= len(m.rows) {
		return m
	}
	m.cursor = next

	if id, ok := m.selectedID(); ok {
		if err := m.eng.Preview(id); err != nil {
			m.status = err.Error()
		} else {
			m.status = "previewing " + id
		}
	}
	return m
}

// selectedID returns the theme id under the cursor.
func (m Model) selectedID() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return "", false
	}
	return m.themes[m.rows[m.cursor]].Meta.ID, true
}

// reload refreshes the theme list from the engine, clamping the cursor.
func (m *Model) reload() {
	m.themes = m.eng.Themes()
	m.applyFilter()
}

// applyFilter recomputes the visible rows from the filter query.
func (m *Model) applyFilter() {
	query := strings.ToLower(m.filter.Value())
	m.rows = make([]int, 0, len(m.themes))
	for i, t := range m.themes {
		if query == "" ||
			strings.Contains(strings.ToLower(t.Meta.ID), query) ||
			strings.Contains(strings.ToLower(t.Meta.Name), query) {
			m.rows = append(m.rows, i)
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// syncCmd runs one catalog sync off the update loop.
func (m Model) syncCmd() tea.Cmd {
	eng := m.eng
	return func() tea.Msg {
		res, err := eng.Sync(context.Background())
		return syncDoneMsg{updated: len(res.Updated), failed: len(res.Failed), err: err}
	}
}

// deleteCmd deletes one theme off the update loop.
func (m Model) deleteCmd(id string) tea.Cmd {
	eng := m.eng
	return func() tea.Msg {
		return deleteDoneMsg{id: id, err: eng.Delete(context.Background(), id)}
	}
}
