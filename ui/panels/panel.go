package panels

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/jjnav/ui/borders"
)

// Panel defines the interface for the main view panels
type Panel interface {
	tea.Model
	Title() string
	SetFocused(bool)
	IsFocused() bool
	SetSize(width, height int)
}

// BasePanel provides common functionality for all panels
type BasePanel struct {
	title   string
	focused bool
	width   int
	height  int
}

// NewBasePanel creates a new base panel
func NewBasePanel(title string) BasePanel {
	return BasePanel{title: title}
}

func (b *BasePanel) Title() string {
	return b.title
}

func (b *BasePanel) SetTitle(title string) {
	b.title = title
}

func (b *BasePanel) SetFocused(focused bool) {
	b.focused = focused
}

func (b *BasePanel) IsFocused() bool {
	return b.focused
}

func (b *BasePanel) SetSize(width, height int) {
	b.width = width
	b.height = height
}

func (b *BasePanel) Width() int {
	return b.width
}

func (b *BasePanel) Height() int {
	return b.height
}

// ContentHeight returns the height available for content (minus borders)
func (b *BasePanel) ContentHeight() int {
	// With titled borders, title is IN the border, so just subtract top + bottom borders
	return b.height - 2
}

// ContentWidth returns the width available for content (minus borders)
func (b *BasePanel) ContentWidth() int {
	// Account for left and right borders
	return b.width - 2
}

// RenderFrame renders the panel frame with title embedded in border
func (b *BasePanel) RenderFrame(content string) string {
	return borders.RenderTitledBorder(content, b.title, b.width, b.height, b.focused)
}
