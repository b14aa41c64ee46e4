package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/themedeck/pkg/theme"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true)
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	previewStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
	swatchBox     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	provenanceTag = lipgloss.NewStyle().Faint(true).Italic(true)
)

// swatchKeys are the variables shown in the detail pane, most visually
// significant first.
var swatchKeys = []string{
	"primaryColor", "bgPrimary", "bgSecondary",
	"textPrimary", "textSecondary", "borderPrimary",
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quit {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("themedeck"))
	b.WriteString("\n\n")

	st := m.eng.State()
	for i, idx := range m.rows {
		t := m.themes[idx]
		b.WriteString(m.renderRow(t, i, st.Active, st.Preview))
		b.WriteString("\n")
	}
	if len(m.rows) == 0 {
		b.WriteString(dimStyle.Render("  no themes match"))
		b.WriteString("\n")
	}

	if t, ok := m.selectedTheme(); ok {
		b.WriteString("\n")
		b.WriteString(renderDetail(t))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

// renderRow renders one list line with cursor, name and state markers.
func (m Model) renderRow(t theme.Theme, row int, activeID, previewID string) string {
	cursor := "  "
	if row == m.cursor {
		cursor = cursorStyle.Render("> ")
	}

	label := fmt.Sprintf("%s (%s)", t.Meta.Name, t.Meta.ID)
	switch t.Meta.ID {
	case previewID:
		label = previewStyle.Render(label + "  [preview]")
	case activeID:
		label = activeStyle.Render(label + "  [active]")
	}

	tag := provenanceTag.Render(t.Meta.Provenance.String())
	return cursor + label + " " + tag
}

// renderDetail renders the swatch pane for the selected theme.
func renderDetail(t theme.Theme) string {
	res := theme.Resolve(t)

	var parts []string
	for _, k := range swatchKeys {
		v := res.Vars[k]
		block := lipgloss.NewStyle().Background(lipgloss.Color(v)).Render("  ")
		parts = append(parts, block+" "+dimStyle.Render(v))
	}

	body := strings.Join(parts, "\n")
	if t.Meta.BasedOn != "" {
		body += "\n" + dimStyle.Render("based on "+t.Meta.BasedOn)
	}
	if t.Meta.Version != "" {
		body += "\n" + dimStyle.Render("v"+t.Meta.Version)
	}
	return swatchBox.Render(body)
}

// renderStatusBar renders the filter input when active, otherwise the
// status message followed by key hints.
func (m Model) renderStatusBar() string {
	if m.filtering {
		return m.filter.View()
	}

	var hints []string
	for _, b := range helpBindings() {
		h := b.Help()
		hints = append(hints, h.Key+":"+h.Desc)
	}
	line := strings.Join(hints, "  ")
	if m.status != "" {
		line = m.status + "  |  " + line
	}
	if m.width > 0 && len(line) > m.width {
		line = line[:m.width]
	}
	return dimStyle.Render(line)
}

// selectedTheme returns the theme under the cursor.
func (m Model) selectedTheme() (theme.Theme, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return theme.Theme{}, false
	}
	return m.themes[m.rows[m.cursor]], true
}
