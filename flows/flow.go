// Package flows implements the interactive multi-step command flows:
// rebase, squash, bookmark management, push, and the single-step change
// operations. Each flow is an explicit step machine with a cancel path at
// every suspension point; the underlying jj command runs only after the
// final confirmation, so an aborted flow has zero side effects.
package flows

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/jjnav/jj"
	"github.com/gerunddev/jjnav/selection"
)

// Context carries the collaborators a flow needs. Cursor is the change under
// the cursor at the moment the flow started; flows never re-read it.
type Context struct {
	Runner    jj.CommandRunner
	Selection *selection.Set
	Cursor    string
	Remote    string // remote name for bookmark pull; defaults to origin
}

// ConsumeTargets applies the selection-vs-cursor rule shared by every
// consuming operation: the full selection when non-empty, otherwise the
// single change under the cursor.
func (c Context) ConsumeTargets() []string {
	if c.Selection.Count() > 0 {
		return c.Selection.List()
	}
	return []string{c.Cursor}
}

func (c Context) remote() string {
	if c.Remote == "" {
		return "origin"
	}
	return c.Remote
}

// Action tells the host what to do with the flow after an event.
type Action int

const (
	ActionContinue Action = iota // Keep the flow open
	ActionClose                  // Close the flow
)

// Flow is the interface all multi-step flows implement. Flows never
// interleave: the host is modal and runs at most one at a time.
type Flow interface {
	// Title names the flow for overlay chrome and notices.
	Title() string

	// Init returns the flow's startup command (e.g. a data fetch).
	Init() tea.Cmd

	// HandleKey processes keyboard input at the current step.
	HandleKey(msg tea.KeyMsg) (Action, tea.Cmd)

	// Update processes async results (command completion, fetched data).
	Update(msg tea.Msg) (Action, tea.Cmd)

	// RenderOverlay returns the flow UI lines for the given width.
	RenderOverlay(width int) []string

	// Executed reports whether the flow ran its command successfully.
	// A flow that closes without executing was cancelled.
	Executed() bool
}

// TargetPicker is implemented by flows that suspend while the user picks a
// destination change in the log view.
type TargetPicker interface {
	// NeedsTarget reports whether the flow is waiting for a log-view pick.
	NeedsTarget() bool

	// TargetPicked delivers the picked change ID and returns any follow-up
	// command.
	TargetPicked(id string) tea.Cmd
}

// ExecutedMsg is emitted exactly once per successful command execution; the
// host treats it as the log-refresh trigger.
type ExecutedMsg struct {
	Flow    string
	Message string
}

// FailedMsg reports a failed command execution. The flow's state (and the
// selection) is left untouched so the user may retry.
type FailedMsg struct {
	Flow string
	Err  error
}

// WarnMsg reports a dead end that is not an error (e.g. no bookmarks on the
// change).
type WarnMsg struct {
	Flow string
	Text string
}

// exec wraps a command invocation in a tea.Cmd. On success it clears the
// selection when the operation is a consuming one and emits ExecutedMsg;
// on failure it emits FailedMsg and leaves all state alone.
func (c Context) exec(flowName string, consume bool, successText string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			return FailedMsg{Flow: flowName, Err: err}
		}
		if consume {
			c.Selection.Clear()
		}
		return ExecutedMsg{Flow: flowName, Message: successText}
	}
}
