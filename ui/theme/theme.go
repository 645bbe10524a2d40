// Package theme centralizes the color palette and lipgloss styles.
package theme

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorYellow     = lipgloss.Color("220")
	ColorOrange     = lipgloss.Color("214")
	ColorRed        = lipgloss.Color("196")
	ColorMagenta    = lipgloss.Color("212")
	ColorBlue       = lipgloss.Color("39")
	ColorGreen      = lipgloss.Color("40")
	ColorWhite      = lipgloss.Color("252")
	ColorDimWhite   = lipgloss.Color("245")
	ColorBackground = lipgloss.Color("235")
	ColorSurface    = lipgloss.Color("237")
	ColorOverlay    = lipgloss.Color("239")
)

// Borders and titles
var (
	FocusedBorder     = lipgloss.NewStyle().Foreground(ColorMagenta)
	UnfocusedBorder   = lipgloss.NewStyle().Foreground(ColorOverlay)
	TitleStyle        = lipgloss.NewStyle().Foreground(ColorDimWhite)
	FocusedTitleStyle = lipgloss.NewStyle().Foreground(ColorMagenta).Bold(true)
)

// List items
var (
	SelectedItemStyle = lipgloss.NewStyle().Foreground(ColorWhite).Background(ColorSurface).Bold(true)
	NormalItemStyle   = lipgloss.NewStyle().Foreground(ColorWhite)
	DimmedStyle       = lipgloss.NewStyle().Foreground(ColorDimWhite)
)

// Log view markers
var (
	CursorMarkStyle    = lipgloss.NewStyle().Foreground(ColorMagenta).Bold(true)
	SelectionMarkStyle = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	PickMarkStyle      = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)
)

// Diff rendering
var (
	DiffAddLine     = lipgloss.NewStyle().Foreground(ColorGreen)
	DiffRemoveLine  = lipgloss.NewStyle().Foreground(ColorRed)
	DiffContextLine = lipgloss.NewStyle().Foreground(ColorWhite)
	DiffHunkHeader  = lipgloss.NewStyle().Foreground(ColorBlue)
)

// Revision metadata
var (
	RevisionIDStyle       = lipgloss.NewStyle().Foreground(ColorBlue)
	ChangeIDStyle         = lipgloss.NewStyle().Foreground(ColorMagenta)
	ChangeIDPrefixStyle   = lipgloss.NewStyle().Foreground(ColorMagenta).Bold(true)
	ChangeIDRestStyle     = lipgloss.NewStyle().Foreground(ColorDimWhite)
	RevisionIDPrefixStyle = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true)
	RevisionIDRestStyle   = lipgloss.NewStyle().Foreground(ColorDimWhite)
	AuthorStyle           = lipgloss.NewStyle().Foreground(ColorYellow)
	TimestampStyle        = lipgloss.NewStyle().Foreground(ColorDimWhite)
	WorkingCopyStyle      = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)
)

// Floating windows
var (
	FloatingWindowStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorMagenta)
	FloatingTitleStyle = lipgloss.NewStyle().Foreground(ColorMagenta).Bold(true)
)

// Help bar
var (
	HelpBarStyle  = lipgloss.NewStyle().Background(ColorBackground)
	HelpKeyStyle  = lipgloss.NewStyle().Foreground(ColorYellow)
	HelpDescStyle = lipgloss.NewStyle().Foreground(ColorDimWhite)
)

// Notices
var (
	NoticeInfoStyle  = lipgloss.NewStyle().Foreground(ColorGreen)
	NoticeWarnStyle  = lipgloss.NewStyle().Foreground(ColorOrange)
	NoticeErrorStyle = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
)

// Layout constants
const (
	DiffPanelRatio = 2 // log panel gets 1/(1+ratio) of the width when diff is shown
	PanelMinHeight = 3
	LogMinWidth    = 40
)
