// Package floating renders the modal overlays: the flow windows and the
// help screen. Overlays replace whole background rows rather than splicing
// into styled text, which keeps compositing safe in the presence of ANSI
// sequences.
package floating

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/jjnav/ui/borders"
)

// Frame renders overlay lines inside a titled floating border.
func Frame(title string, lines []string, width int) string {
	content := strings.Join(lines, "\n")
	height := len(lines) + 2
	return borders.RenderTitledBorder(content, title, width, height, true)
}

// Compose centers a floating box over the background, replacing the
// background rows it covers.
func Compose(background, box string, bgWidth int) string {
	bgLines := strings.Split(background, "\n")
	boxLines := strings.Split(box, "\n")

	top := (len(bgLines) - len(boxLines)) / 2
	if top < 0 {
		top = 0
	}
	left := (bgWidth - lipgloss.Width(boxLines[0])) / 2
	if left < 0 {
		left = 0
	}
	pad := strings.Repeat(" ", left)

	for i, boxLine := range boxLines {
		if top+i < len(bgLines) {
			bgLines[top+i] = pad + boxLine
		}
	}
	return strings.Join(bgLines, "\n")
}

// OverlayWidth picks a sensible box width for the screen.
func OverlayWidth(screenWidth int) int {
	w := screenWidth * 2 / 3
	if w > 80 {
		w = 80
	}
	if w < 30 {
		w = screenWidth - 2
	}
	return w
}
