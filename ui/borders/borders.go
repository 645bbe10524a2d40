// Package borders renders panel frames with the title embedded in the top
// border line.
package borders

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/jjnav/ui/theme"
)

// Rounded border glyphs.
const (
	topLeft     = "╭"
	topRight    = "╮"
	bottomLeft  = "╰"
	bottomRight = "╯"
	horizontal  = "─"
	vertical    = "│"
)

// RenderTitledBorder frames content in a box of the given outer dimensions,
// embedding the title in the top border. Content is clipped/padded to fit.
func RenderTitledBorder(content, title string, width, height int, focused bool) string {
	if width < 4 || height < 2 {
		return content
	}

	borderStyle := theme.UnfocusedBorder
	titleStyle := theme.TitleStyle
	if focused {
		borderStyle = theme.FocusedBorder
		titleStyle = theme.FocusedTitleStyle
	}

	innerWidth := width - 2
	innerHeight := height - 2

	top := renderTopBorder(title, innerWidth, borderStyle, titleStyle)

	lines := strings.Split(content, "\n")
	if len(lines) > innerHeight {
		lines = lines[:innerHeight]
	}
	for len(lines) < innerHeight {
		lines = append(lines, "")
	}

	side := borderStyle.Render(vertical)
	var b strings.Builder
	b.WriteString(top)
	for _, line := range lines {
		b.WriteString("\n")
		b.WriteString(side)
		b.WriteString(padLine(line, innerWidth))
		b.WriteString(side)
	}
	b.WriteString("\n")
	b.WriteString(borderStyle.Render(bottomLeft + strings.Repeat(horizontal, innerWidth) + bottomRight))

	return b.String()
}

func renderTopBorder(title string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	if title == "" {
		return borderStyle.Render(topLeft + strings.Repeat(horizontal, innerWidth) + topRight)
	}

	label := " " + title + " "
	labelWidth := lipgloss.Width(label)
	if labelWidth > innerWidth-2 {
		// Title too long for the frame; drop it rather than overflow.
		return borderStyle.Render(topLeft + strings.Repeat(horizontal, innerWidth) + topRight)
	}

	left := borderStyle.Render(topLeft + horizontal)
	right := borderStyle.Render(strings.Repeat(horizontal, innerWidth-labelWidth-1) + topRight)
	return left + titleStyle.Render(label) + right
}

// padLine pads or truncates a (possibly ANSI-styled) line to the exact width.
func padLine(line string, width int) string {
	w := lipgloss.Width(line)
	if w > width {
		return lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line + strings.Repeat(" ", width-w)
}
