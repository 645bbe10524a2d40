package messages

import "github.com/gerunddev/jjnav/jj"

// LogLoadedMsg carries a refreshed log (or the error that prevented it).
type LogLoadedMsg struct {
	Log *jj.LogOutput
	Err error
}

// DiffContentMsg carries diff content for the preview panel.
type DiffContentMsg struct {
	ChangeID string
	Content  string
}

// NoticeLevel classifies a status-line notice.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeWarn
	NoticeError
)

// NoticeMsg shows a transient message in the status line.
type NoticeMsg struct {
	Level NoticeLevel
	Text  string
}
