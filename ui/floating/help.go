package floating

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/jjnav/actions"
	"github.com/gerunddev/jjnav/ui/borders"
	"github.com/gerunddev/jjnav/ui/theme"
)

// HelpOverlay is a floating window listing the active keybindings, grouped
// by the bound action's registry metadata.
type HelpOverlay struct {
	viewport viewport.Model
	groups   []actions.HelpGroup
	width    int
	height   int
	ready    bool
}

// NewHelpOverlay creates a help window for the given key → action table.
func NewHelpOverlay(bindings map[string]string) *HelpOverlay {
	return &HelpOverlay{groups: actions.HelpGroups(bindings)}
}

func (h *HelpOverlay) Init() tea.Cmd {
	return nil
}

func (h *HelpOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			h.viewport.LineUp(3)
		case tea.MouseButtonWheelDown:
			h.viewport.LineDown(3)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			h.viewport.LineUp(1)
		case "down", "j":
			h.viewport.LineDown(1)
		case "pgup", "ctrl+u":
			h.viewport.HalfViewUp()
		case "pgdown", "ctrl+d":
			h.viewport.HalfViewDown()
		case "g", "home":
			h.viewport.GotoTop()
		case "G", "end":
			h.viewport.GotoBottom()
		}
	}

	h.viewport, cmd = h.viewport.Update(msg)
	return h, cmd
}

func (h *HelpOverlay) View() string {
	if !h.ready {
		return ""
	}
	return borders.RenderTitledBorder(h.viewport.View(), "Help", h.width, h.height, true)
}

func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height

	contentWidth := width - 2
	contentHeight := height - 2

	if !h.ready {
		h.viewport = viewport.New(contentWidth, contentHeight)
		h.ready = true
	} else {
		h.viewport.Width = contentWidth
		h.viewport.Height = contentHeight
	}
	h.viewport.SetContent(h.renderHelp())
}

func (h *HelpOverlay) renderHelp() string {
	sectionTitle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorYellow)

	var sections []string
	for _, g := range h.groups {
		var b strings.Builder
		b.WriteString(sectionTitle.Render(g.Title))
		for _, binding := range g.Bindings {
			b.WriteString("\n  ")
			b.WriteString(theme.HelpKeyStyle.Render(padKey(binding.Key)))
			b.WriteString(" ")
			b.WriteString(theme.HelpDescStyle.Render(binding.Help))
		}
		sections = append(sections, b.String())
	}

	sections = append(sections, sectionTitle.Render("Navigation")+
		theme.HelpDescStyle.Render("\n  ↑/↓ or j/k move by change · g/G top/bottom\n"+
			"  pgup/pgdown scroll · enter pick target · esc close overlays"))

	return strings.Join(sections, "\n\n")
}

func padKey(key string) string {
	display := key
	if display == " " {
		display = "space"
	}
	for len(display) < 7 {
		display += " "
	}
	return display
}
