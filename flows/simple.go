package flows

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/jjnav/jj"
)

// The single-step operations return plain commands: there is nothing to
// suspend for, so they bypass the Flow machinery entirely.

// NewChange creates a new change on top of the selected parents (or the
// cursor change). Consuming: the selection is cleared on success.
func NewChange(c Context) tea.Cmd {
	parents := c.ConsumeTargets()
	return c.exec("New", true, "created new change", func(ctx context.Context) error {
		return jj.New(ctx, c.Runner, parents...)
	})
}

// Edit switches the working copy to the cursor change. Single-target by
// nature, so the selection is ignored and preserved.
func Edit(c Context) tea.Cmd {
	id := c.Cursor
	return c.exec("Edit", false, "now editing "+id, func(ctx context.Context) error {
		return jj.Edit(ctx, c.Runner, id)
	})
}

// Undo undoes the last jj operation.
func Undo(c Context) tea.Cmd {
	return c.exec("Undo", false, "undid last operation", func(ctx context.Context) error {
		return jj.Undo(ctx, c.Runner)
	})
}

// Fetch fetches from the default git remote.
func Fetch(c Context) tea.Cmd {
	return c.exec("Fetch", false, "fetched from remote", func(ctx context.Context) error {
		return jj.GitFetch(ctx, c.Runner)
	})
}

type abandonStep int

const (
	abandonConfirm abandonStep = iota
	abandonRunning
)

// AbandonFlow abandons the selected changes (or the cursor change) after a
// confirmation.
type AbandonFlow struct {
	ctx      Context
	step     abandonStep
	targets  []string
	errText  string
	executed bool
}

// NewAbandon creates an abandon flow.
func NewAbandon(ctx Context) *AbandonFlow {
	return &AbandonFlow{ctx: ctx, targets: ctx.ConsumeTargets()}
}

func (f *AbandonFlow) Title() string { return "Abandon" }

func (f *AbandonFlow) Executed() bool { return f.executed }

func (f *AbandonFlow) Init() tea.Cmd { return nil }

func (f *AbandonFlow) HandleKey(msg tea.KeyMsg) (Action, tea.Cmd) {
	if f.step != abandonConfirm {
		return ActionContinue, nil
	}
	switch msg.String() {
	case "esc", "n":
		return ActionClose, nil
	case "y", "enter":
		f.step = abandonRunning
		f.errText = ""
		return ActionContinue, f.run()
	}
	return ActionContinue, nil
}

func (f *AbandonFlow) run() tea.Cmd {
	revset := jj.Revset(f.targets)
	summary := fmt.Sprintf("abandoned %s", countNoun(len(f.targets)))
	return f.ctx.exec(f.Title(), true, summary, func(ctx context.Context) error {
		return jj.Abandon(ctx, f.ctx.Runner, revset)
	})
}

func (f *AbandonFlow) Update(msg tea.Msg) (Action, tea.Cmd) {
	switch msg := msg.(type) {
	case ExecutedMsg:
		if msg.Flow == f.Title() {
			f.executed = true
			return ActionClose, nil
		}
	case FailedMsg:
		if msg.Flow == f.Title() {
			f.errText = msg.Err.Error()
			f.step = abandonConfirm
		}
	}
	return ActionContinue, nil
}

func (f *AbandonFlow) RenderOverlay(width int) []string {
	lines := []string{
		menuTitleStyle.Render("Abandon - confirm"),
		fmt.Sprintf("Abandon %s: %s", countNoun(len(f.targets)), shortList(f.targets)),
		menuDimStyle.Render("y/enter abandon · n/esc cancel"),
	}
	if f.step == abandonRunning {
		lines = append(lines, "Abandoning...")
	}
	if f.errText != "" {
		lines = append(lines, menuErrStyle.Render("Error: ")+f.errText)
	}
	return lines
}

type describeStep int

const (
	describeLoading describeStep = iota
	describeEdit
	describeRunning
)

// DescribeFlow edits the description of the cursor change in a textarea.
// Describe is single-target: two changes cannot be described into one text
// without ambiguity (that case is the squash flow), so the selection is
// ignored and preserved.
type DescribeFlow struct {
	ctx      Context
	step     describeStep
	input    textarea.Model
	errText  string
	executed bool
}

// NewDescribe creates a describe flow for the cursor change.
func NewDescribe(ctx Context) *DescribeFlow {
	return &DescribeFlow{ctx: ctx, step: describeLoading}
}

func (f *DescribeFlow) Title() string { return "Describe" }

func (f *DescribeFlow) Executed() bool { return f.executed }

func (f *DescribeFlow) Init() tea.Cmd {
	runner := f.ctx.Runner
	id := f.ctx.Cursor
	return func() tea.Msg {
		desc, err := jj.Description(context.Background(), runner, id)
		return draftMsg{draft: desc, err: err}
	}
}

func (f *DescribeFlow) HandleKey(msg tea.KeyMsg) (Action, tea.Cmd) {
	switch f.step {
	case describeEdit:
		switch msg.String() {
		case "esc":
			return ActionClose, nil
		case "ctrl+s":
			f.step = describeRunning
			f.errText = ""
			return ActionContinue, f.run()
		}
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		return ActionContinue, cmd
	case describeLoading:
		if msg.String() == "esc" {
			return ActionClose, nil
		}
	}
	return ActionContinue, nil
}

func (f *DescribeFlow) run() tea.Cmd {
	id := f.ctx.Cursor
	message := f.input.Value()
	return f.ctx.exec(f.Title(), false, "described "+id, func(ctx context.Context) error {
		return jj.Describe(ctx, f.ctx.Runner, id, message)
	})
}

func (f *DescribeFlow) Update(msg tea.Msg) (Action, tea.Cmd) {
	switch msg := msg.(type) {
	case draftMsg:
		if msg.err != nil {
			return ActionClose, func() tea.Msg {
				return FailedMsg{Flow: f.Title(), Err: msg.err}
			}
		}
		ta := textarea.New()
		ta.SetValue(msg.draft)
		ta.Focus()
		f.input = ta
		f.step = describeEdit
		return ActionContinue, textarea.Blink
	case ExecutedMsg:
		if msg.Flow == f.Title() {
			f.executed = true
			return ActionClose, nil
		}
	case FailedMsg:
		if msg.Flow == f.Title() {
			f.errText = msg.Err.Error()
			f.step = describeEdit
		}
	}
	return ActionContinue, nil
}

func (f *DescribeFlow) RenderOverlay(width int) []string {
	var lines []string
	switch f.step {
	case describeLoading:
		lines = []string{menuTitleStyle.Render("Describe"), "Fetching description..."}
	case describeEdit, describeRunning:
		f.input.SetWidth(max(20, width-4))
		lines = []string{menuTitleStyle.Render("Describe " + f.ctx.Cursor)}
		lines = append(lines, strings.Split(f.input.View(), "\n")...)
		lines = append(lines, menuDimStyle.Render("ctrl+s save · esc cancel"))
		if f.step == describeRunning {
			lines = append(lines, "Saving...")
		}
	}
	if f.errText != "" {
		lines = append(lines, menuErrStyle.Render("Error: ")+f.errText)
	}
	return lines
}

var (
	_ Flow = (*AbandonFlow)(nil)
	_ Flow = (*DescribeFlow)(nil)
)
