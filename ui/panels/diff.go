package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/jjnav/ui/borders"
	"github.com/gerunddev/jjnav/ui/theme"
)

// DiffPanel previews the diff of the change under the cursor, rendered with
// whichever preset the configuration selected. Content always arrives via
// SetContent; the panel itself never talks to jj.
type DiffPanel struct {
	BasePanel
	viewport viewport.Model
	changeID string
	content  string
	colorize bool
	ready    bool
}

// NewDiffPanel creates a diff preview panel. colorize enables the built-in
// unified-diff highlighting; presets that emit their own formatting
// (summary, stat) read better uncolored.
func NewDiffPanel(colorize bool) *DiffPanel {
	return &DiffPanel{
		BasePanel: NewBasePanel("Diff"),
		colorize:  colorize,
	}
}

// SetContent updates the preview with the diff of a change.
func (d *DiffPanel) SetContent(changeID, content string) {
	d.changeID = changeID
	d.content = content
	if d.ready {
		d.viewport.SetContent(d.renderDiff())
		d.viewport.GotoTop()
	}
}

// ChangeID returns the change the current content belongs to.
func (d *DiffPanel) ChangeID() string {
	return d.changeID
}

func (d *DiffPanel) Init() tea.Cmd {
	return nil
}

func (d *DiffPanel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			d.viewport.LineUp(3)
		case tea.MouseButtonWheelDown:
			d.viewport.LineDown(3)
		}

	case tea.KeyMsg:
		if d.focused {
			switch msg.String() {
			case "up", "k":
				d.viewport.LineUp(1)
			case "down", "j":
				d.viewport.LineDown(1)
			case "pgup", "ctrl+u":
				d.viewport.HalfViewUp()
			case "pgdown", "ctrl+d":
				d.viewport.HalfViewDown()
			case "g", "home":
				d.viewport.GotoTop()
			case "G", "end":
				d.viewport.GotoBottom()
			}
		}
	}

	d.viewport, cmd = d.viewport.Update(msg)
	return d, cmd
}

func (d *DiffPanel) View() string {
	if !d.ready {
		return d.RenderFrame("")
	}
	return d.RenderFrame(d.viewport.View())
}

// SetSize overrides BasePanel.SetSize to also resize viewport
func (d *DiffPanel) SetSize(width, height int) {
	d.BasePanel.SetSize(width, height)

	contentWidth := d.ContentWidth()
	contentHeight := d.ContentHeight()

	if !d.ready {
		d.viewport = viewport.New(contentWidth, contentHeight)
		d.ready = true
	} else {
		d.viewport.Width = contentWidth
		d.viewport.Height = contentHeight
	}
	d.viewport.SetContent(d.renderDiff())
}

// renderDiff applies unified-diff highlighting to the content
func (d *DiffPanel) renderDiff() string {
	if !d.colorize {
		return d.content
	}

	var lines []string
	// Use contentWidth - 1 to add a safety margin and prevent overflow
	maxWidth := d.ContentWidth()
	if maxWidth > 0 {
		maxWidth = maxWidth - 1
	}

	for _, line := range strings.Split(d.content, "\n") {
		var styled string

		switch {
		case strings.HasPrefix(line, "+++ ") || strings.HasPrefix(line, "--- "):
			styled = theme.DimmedStyle.Bold(true).MaxWidth(maxWidth).Render(line)
		case strings.HasPrefix(line, "@@"):
			styled = theme.DiffHunkHeader.MaxWidth(maxWidth).Render(line)
		case strings.HasPrefix(line, "+"):
			styled = theme.DiffAddLine.MaxWidth(maxWidth).Render(line)
		case strings.HasPrefix(line, "-"):
			styled = theme.DiffRemoveLine.MaxWidth(maxWidth).Render(line)
		case strings.HasPrefix(line, "diff --git"):
			styled = theme.DimmedStyle.Bold(true).MaxWidth(maxWidth).Render(line)
		case strings.HasPrefix(line, "index "):
			styled = theme.DimmedStyle.MaxWidth(maxWidth).Render(line)
		default:
			styled = theme.DiffContextLine.MaxWidth(maxWidth).Render(line)
		}

		lines = append(lines, styled)
	}

	return strings.Join(lines, "\n")
}

// RenderFrame overrides to show the change and scroll position in the title
func (d *DiffPanel) RenderFrame(content string) string {
	title := d.title
	if d.changeID != "" {
		title = fmt.Sprintf("%s: %s", d.title, d.changeID)
	}
	if d.ready && d.viewport.TotalLineCount() > d.viewport.Height {
		scrollPercent := int(d.viewport.ScrollPercent() * 100)
		title = fmt.Sprintf("%s (%d%%)", title, scrollPercent)
	}

	return borders.RenderTitledBorder(content, title, d.width, d.height, d.focused)
}

var _ Panel = (*DiffPanel)(nil)
