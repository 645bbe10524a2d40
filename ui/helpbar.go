package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/jjnav/ui/theme"
)

// Mode is the app's input mode, which decides what the help bar offers.
type Mode int

const (
	ModeNormal Mode = iota // cursor in the log, actions available
	ModePick               // a flow is waiting for a target pick
	ModeFlow               // a flow overlay has the keyboard
	ModeHelp               // help overlay open
)

// HelpBarContext captures the current UI state for help bar rendering
type HelpBarContext struct {
	Mode           Mode
	FlowTitle      string
	SelectionCount int
	Bindings       map[string]string // key -> action name
}

// HelpHint represents a single hint (key + description)
type HelpHint struct {
	Key  string
	Desc string
}

// Format renders a hint as "key desc" in uniform dim color
func (h HelpHint) Format() string {
	return theme.HelpDescStyle.Render(h.Key + " " + h.Desc)
}

// keyFor reverse-looks-up the key bound to an action. When several keys are
// bound it returns the alphabetically first one so output stays stable.
func keyFor(bindings map[string]string, action string) string {
	var keys []string
	for k, a := range bindings {
		if a == action {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	if keys[0] == " " {
		return "space"
	}
	return keys[0]
}

// getActionHints returns context-specific action hints (left section)
func getActionHints(ctx HelpBarContext) []HelpHint {
	if ctx.Mode != ModeNormal {
		return nil
	}
	// The primary verbs; everything else lives in the help overlay.
	primary := []struct {
		action string
		desc   string
	}{
		{"select", "select"},
		{"new", "new"},
		{"describe", "describe"},
		{"squash", "squash"},
		{"rebase", "rebase"},
		{"push", "push"},
	}
	var hints []HelpHint
	for _, p := range primary {
		if k := keyFor(ctx.Bindings, p.action); k != "" {
			hints = append(hints, HelpHint{Key: k, Desc: p.desc})
		}
	}
	return hints
}

// getNavigationHints returns context-specific navigation hints (center section)
func getNavigationHints(ctx HelpBarContext) []HelpHint {
	switch ctx.Mode {
	case ModeNormal:
		return []HelpHint{
			{Key: "↑↓", Desc: "move"},
		}
	case ModePick:
		return []HelpHint{
			{Key: "↑↓", Desc: "move"},
			{Key: "↵", Desc: "pick " + strings.ToLower(ctx.FlowTitle) + " target"},
			{Key: "esc", Desc: "cancel"},
		}
	case ModeFlow:
		return []HelpHint{
			{Key: "esc", Desc: "cancel " + strings.ToLower(ctx.FlowTitle)},
		}
	case ModeHelp:
		return []HelpHint{
			{Key: "↑↓", Desc: "scroll"},
			{Key: "esc", Desc: "close"},
		}
	}
	return nil
}

// getAlwaysHints returns hints that are always shown (right section)
func getAlwaysHints(ctx HelpBarContext) []HelpHint {
	var hints []HelpHint
	if k := keyFor(ctx.Bindings, "help"); k != "" {
		hints = append(hints, HelpHint{Key: k, Desc: "help"})
	}
	if k := keyFor(ctx.Bindings, "quit"); k != "" {
		hints = append(hints, HelpHint{Key: k, Desc: "quit"})
	}
	return hints
}

// formatHints joins hints with double spaces
func formatHints(hints []HelpHint) string {
	if len(hints) == 0 {
		return ""
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = h.Format()
	}
	return strings.Join(parts, "  ")
}

// RenderContextualHelpBar renders the three-section help bar
func RenderContextualHelpBar(ctx HelpBarContext, width int) string {
	leftSection := formatHints(getActionHints(ctx))
	centerSection := formatHints(getNavigationHints(ctx))
	rightSection := formatHints(getAlwaysHints(ctx))

	// Calculate widths (using lipgloss to handle ANSI sequences)
	leftWidth := lipgloss.Width(leftSection)
	centerWidth := lipgloss.Width(centerSection)
	rightWidth := lipgloss.Width(rightSection)

	totalContentWidth := leftWidth + centerWidth + rightWidth
	availableSpace := width - totalContentWidth

	if availableSpace < 6 {
		// Not enough space, just join everything with minimal spacing
		return theme.HelpBarStyle.Width(width).Render(
			leftSection + "  " + centerSection + "  " + rightSection,
		)
	}

	// Layout: [left].....[center].....[right] with center roughly centered
	// and right flush against the edge.
	midPoint := width / 2
	centerStart := midPoint - centerWidth/2

	leftToCenter := max(centerStart-leftWidth, 2)

	centerEnd := centerStart + centerWidth
	rightStart := width - rightWidth
	centerToRight := max(rightStart-centerEnd, 2)

	var bar string
	if leftWidth > 0 {
		bar = leftSection + strings.Repeat(" ", leftToCenter) + centerSection + strings.Repeat(" ", centerToRight) + rightSection
	} else {
		leftPadding := max(centerStart, 0)
		bar = strings.Repeat(" ", leftPadding) + centerSection + strings.Repeat(" ", centerToRight) + rightSection
	}

	return theme.HelpBarStyle.Width(width).Render(bar)
}
