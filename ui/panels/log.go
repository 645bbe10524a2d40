package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/jjnav/jj"
	"github.com/gerunddev/jjnav/selection"
	"github.com/gerunddev/jjnav/ui/prefix"
	"github.com/gerunddev/jjnav/ui/theme"
)

// LogPanel shows the pretty jj log with a change-granular cursor and
// selection markers in a two-column gutter. The rendered ANSI output is
// displayed verbatim; the structured pass supplies the line-to-change
// mapping that drives navigation.
type LogPanel struct {
	BasePanel
	viewport  viewport.Model
	log       *jj.LogOutput
	selection *selection.Set
	cursor    int // index into log.Changes
	pickMode  bool
	prefixes  *prefix.IDSet
	ready     bool
}

// NewLogPanel creates the log panel bound to the shared selection set.
func NewLogPanel(sel *selection.Set) *LogPanel {
	return &LogPanel{
		BasePanel: NewBasePanel("Log"),
		selection: sel,
	}
}

// SetLog installs a refreshed log. The cursor is restored to the change it
// was on when that change survived the operation; otherwise it snaps to the
// top.
func (l *LogPanel) SetLog(out *jj.LogOutput) {
	prevID := ""
	if l.log != nil && l.cursor < len(l.log.Changes) {
		prevID = l.log.Changes[l.cursor].ChangeID
	}

	l.log = out
	l.cursor = 0
	if prevID != "" {
		for i, c := range out.Changes {
			if c.ChangeID == prevID {
				l.cursor = i
				break
			}
		}
	}

	ids := make([]string, len(out.Changes))
	for i, c := range out.Changes {
		ids[i] = c.ChangeID
	}
	l.prefixes = prefix.NewIDSet(ids)

	if l.ready {
		l.viewport.SetContent(l.renderLog())
		l.ensureCursorVisible()
	}
}

// CursorChangeID identifies the change under the cursor. The structured
// mapping is authoritative; when it is unavailable the rendered line under
// the cursor goes through heuristic extraction, which may fail.
func (l *LogPanel) CursorChangeID() (string, bool) {
	if l.log == nil {
		return "", false
	}
	if l.cursor < len(l.log.Changes) {
		return l.log.Changes[l.cursor].ChangeID, true
	}
	lines := strings.Split(l.log.RawANSI, "\n")
	if l.cursor < len(lines) {
		return jj.ExtractChangeID(lines[l.cursor])
	}
	return "", false
}

// Count returns the number of changes in the log.
func (l *LogPanel) Count() int {
	if l.log == nil {
		return 0
	}
	return len(l.log.Changes)
}

// SetPickMode switches the cursor marker to the target-pick style.
func (l *LogPanel) SetPickMode(on bool) {
	l.pickMode = on
	l.refresh()
}

// Summary describes the cursor and selection for the status line, with the
// unique ID prefix highlighted.
func (l *LogPanel) Summary() string {
	id, ok := l.CursorChangeID()
	if !ok {
		return ""
	}
	var out string
	if l.prefixes != nil {
		out = l.prefixes.Format(id, theme.ChangeIDPrefixStyle, theme.ChangeIDRestStyle)
	} else {
		out = theme.ChangeIDStyle.Render(id)
	}
	if n := l.selection.Count(); n > 0 {
		out += theme.SelectionMarkStyle.Render(" ●") + theme.DimmedStyle.Render(fmt.Sprintf(" %d selected", n))
	}
	return out
}

func (l *LogPanel) Init() tea.Cmd {
	return nil
}

func (l *LogPanel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k", "ctrl+p":
			l.MoveCursor(-1)
		case "down", "j", "ctrl+n":
			l.MoveCursor(1)
		case "g", "home":
			l.cursor = 0
			l.refresh()
			l.viewport.GotoTop()
		case "G", "end":
			if l.Count() > 0 {
				l.cursor = l.Count() - 1
				l.refresh()
				l.viewport.GotoBottom()
			}
		case "pgup", "ctrl+u":
			l.viewport.HalfViewUp()
		case "pgdown", "ctrl+d":
			l.viewport.HalfViewDown()
		}
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			l.viewport.LineUp(3)
		case tea.MouseButtonWheelDown:
			l.viewport.LineDown(3)
		}
	}

	l.viewport, cmd = l.viewport.Update(msg)
	return l, cmd
}

// MoveCursor moves the cursor by whole changes.
func (l *LogPanel) MoveCursor(delta int) {
	next := l.cursor + delta
	if next < 0 || next >= l.Count() {
		return
	}
	l.cursor = next
	l.refresh()
	l.ensureCursorVisible()
}

func (l *LogPanel) refresh() {
	if l.ready {
		l.viewport.SetContent(l.renderLog())
	}
}

func (l *LogPanel) ensureCursorVisible() {
	if !l.ready || l.log == nil || l.cursor >= len(l.log.Changes) {
		return
	}
	info := l.log.Changes[l.cursor]
	if info.StartLine < l.viewport.YOffset {
		l.viewport.SetYOffset(info.StartLine)
	} else if info.EndLine > l.viewport.YOffset+l.viewport.Height {
		l.viewport.SetYOffset(info.EndLine - l.viewport.Height)
	}
}

func (l *LogPanel) View() string {
	if !l.ready {
		return l.RenderFrame("Loading log...")
	}
	return l.RenderFrame(l.viewport.View())
}

// SetSize overrides BasePanel.SetSize to also resize the viewport.
func (l *LogPanel) SetSize(width, height int) {
	l.BasePanel.SetSize(width, height)

	contentWidth := l.ContentWidth()
	contentHeight := l.ContentHeight()

	if !l.ready {
		l.viewport = viewport.New(contentWidth, contentHeight)
		l.ready = true
	} else {
		l.viewport.Width = contentWidth
		l.viewport.Height = contentHeight
	}
	l.viewport.SetContent(l.renderLog())
	l.ensureCursorVisible()
}

// renderLog prepends the marker gutter to the raw ANSI log lines. Column
// one carries the cursor (or pick-target) marker on the change's first
// line; column two flags every line of a selected change.
func (l *LogPanel) renderLog() string {
	if l.log == nil {
		return ""
	}

	cursorID := ""
	if l.cursor < len(l.log.Changes) {
		cursorID = l.log.Changes[l.cursor].ChangeID
	}
	startLines := make(map[int]string, len(l.log.Changes))
	for _, c := range l.log.Changes {
		startLines[c.StartLine] = c.ChangeID
	}

	cursorMark := theme.CursorMarkStyle.Render("▶")
	if l.pickMode {
		cursorMark = theme.PickMarkStyle.Render("▶")
	}
	selectedMark := theme.SelectionMarkStyle.Render("●")

	lines := strings.Split(l.log.RawANSI, "\n")
	rendered := make([]string, len(lines))
	for i, line := range lines {
		cur := " "
		if id, ok := startLines[i]; ok && cursorID != "" && id == cursorID {
			cur = cursorMark
		}
		sel := " "
		if i < len(l.log.LineToChange) {
			if id := l.log.LineToChange[i]; id != "" && l.selection.Contains(id) {
				sel = selectedMark
			}
		}
		rendered[i] = cur + sel + " " + line
	}
	return strings.Join(rendered, "\n")
}

var _ Panel = (*LogPanel)(nil)
