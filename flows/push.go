package flows

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/jjnav/jj"
)

type pushStep int

const (
	pushConfirm pushStep = iota
	pushRunning
)

// PushFlow pushes the selected changes (or the cursor change) to the git
// remote after a confirmation. The allow-new modifier permits pushing
// bookmarks that do not yet exist on the remote; it changes one flag and
// nothing else about the flow.
type PushFlow struct {
	ctx      Context
	step     pushStep
	targets  []string
	allowNew bool
	errText  string
	executed bool
}

// NewPush creates a push flow.
func NewPush(ctx Context, allowNew bool) *PushFlow {
	return &PushFlow{
		ctx:      ctx,
		targets:  ctx.ConsumeTargets(),
		allowNew: allowNew,
	}
}

func (f *PushFlow) Title() string { return "Push" }

func (f *PushFlow) Executed() bool { return f.executed }

func (f *PushFlow) Init() tea.Cmd { return nil }

func (f *PushFlow) HandleKey(msg tea.KeyMsg) (Action, tea.Cmd) {
	if f.step != pushConfirm {
		return ActionContinue, nil
	}
	switch msg.String() {
	case "esc", "n":
		return ActionClose, nil
	case "y", "enter":
		f.step = pushRunning
		f.errText = ""
		return ActionContinue, f.run()
	}
	return ActionContinue, nil
}

func (f *PushFlow) run() tea.Cmd {
	revset := jj.Revset(f.targets)
	allowNew := f.allowNew
	summary := fmt.Sprintf("pushed %s", countNoun(len(f.targets)))
	return f.ctx.exec(f.Title(), true, summary, func(ctx context.Context) error {
		return jj.GitPush(ctx, f.ctx.Runner, revset, allowNew)
	})
}

func (f *PushFlow) Update(msg tea.Msg) (Action, tea.Cmd) {
	switch msg := msg.(type) {
	case ExecutedMsg:
		if msg.Flow == f.Title() {
			f.executed = true
			return ActionClose, nil
		}
	case FailedMsg:
		if msg.Flow == f.Title() {
			f.errText = msg.Err.Error()
			f.step = pushConfirm
		}
	}
	return ActionContinue, nil
}

func (f *PushFlow) RenderOverlay(width int) []string {
	mode := ""
	if f.allowNew {
		mode = " (allow new bookmarks)"
	}
	lines := []string{
		menuTitleStyle.Render("Push - confirm"),
		fmt.Sprintf("Push %s%s: %s", countNoun(len(f.targets)), mode, shortList(f.targets)),
		menuDimStyle.Render("y/enter push · n/esc cancel"),
	}
	if f.step == pushRunning {
		lines = append(lines, "Pushing...")
	}
	if f.errText != "" {
		lines = append(lines, menuErrStyle.Render("Error: ")+f.errText)
	}
	return lines
}

var _ Flow = (*PushFlow)(nil)
