package flows

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true)
	menuKeyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	menuCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	menuDimStyle    = lipgloss.NewStyle().Faint(true)
	menuErrStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// menuOption is one entry in a single-key option menu.
type menuOption struct {
	key    string // direct-select key; empty for navigation-only entries
	label  string
	detail string
}

// menu is a small single-select option list shared by the flow steps that
// present closed choices (source kind, destination kind, bookmark names).
type menu struct {
	title   string
	options []menuOption
	index   int
}

// handleKey processes navigation and selection. It returns the chosen index
// and true when the user picked an option.
func (m *menu) handleKey(msg tea.KeyMsg) (int, bool) {
	s := msg.String()
	switch s {
	case "up", "k", "ctrl+p":
		if m.index > 0 {
			m.index--
		}
		return 0, false
	case "down", "j", "ctrl+n":
		if m.index < len(m.options)-1 {
			m.index++
		}
		return 0, false
	case "enter":
		return m.index, true
	}
	for i, opt := range m.options {
		if opt.key != "" && s == opt.key {
			m.index = i
			return i, true
		}
	}
	return 0, false
}

// render returns the menu lines.
func (m *menu) render() []string {
	lines := []string{menuTitleStyle.Render(m.title)}
	for i, opt := range m.options {
		cur := "  "
		if i == m.index {
			cur = menuCursorStyle.Render("> ")
		}
		label := opt.label
		if opt.key != "" {
			label = menuKeyStyle.Render(opt.key) + " " + label
		}
		if opt.detail != "" {
			label += " " + menuDimStyle.Render(opt.detail)
		}
		lines = append(lines, cur+label)
	}
	lines = append(lines, menuDimStyle.Render("↑↓ move · enter select · esc cancel"))
	return lines
}

// countNoun formats "N change(s)" for confirmation summaries.
func countNoun(n int) string {
	if n == 1 {
		return "1 change"
	}
	return fmt.Sprintf("%d changes", n)
}

// shortList joins IDs for display, eliding long selections.
func shortList(ids []string) string {
	if len(ids) <= 4 {
		return strings.Join(ids, ", ")
	}
	return strings.Join(ids[:4], ", ") + fmt.Sprintf(", … (%d total)", len(ids))
}
