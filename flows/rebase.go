package flows

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/jjnav/jj"
)

// SourceKind describes how the rebase sources are interpreted.
type SourceKind struct {
	Label string
	Flag  string
}

// DestKind describes where the sources are placed relative to the
// destination.
type DestKind struct {
	Label       string
	Flag        string
	Preposition string
}

// The closed sets of rebase source and destination kinds.
var (
	SourceKinds = []SourceKind{
		{Label: "revision", Flag: "-r"},
		{Label: "subtree", Flag: "-s"},
		{Label: "branch", Flag: "-b"},
	}
	DestKinds = []DestKind{
		{Label: "onto", Flag: "-d", Preposition: "onto"},
		{Label: "after", Flag: "-A", Preposition: "after"},
		{Label: "before", Flag: "-B", Preposition: "before"},
	}
)

type rebaseStep int

const (
	rebaseChooseSourceType rebaseStep = iota
	rebasePickDestination
	rebaseChooseDestType
	rebaseConfirm
	rebaseRunning
)

// RebaseFlow walks the user through source type, destination target,
// destination type, and confirmation before running rebase.
//
// With a non-empty selection the whole selection is rebased as individual
// revisions and the change under the cursor is the destination, so the flow
// starts at the destination-type step. With an empty selection the cursor
// change is the lone source and the user picks both a source kind and a
// destination in the log view.
type RebaseFlow struct {
	ctx           Context
	step          rebaseStep
	sources       []string
	sourceKind    SourceKind
	fromSelection bool
	dest          string
	destKind      DestKind
	menu          menu
	errText       string
	executed      bool
}

// NewRebase creates a rebase flow from the current selection and cursor.
func NewRebase(ctx Context) *RebaseFlow {
	f := &RebaseFlow{ctx: ctx}
	if ctx.Selection.Count() > 0 {
		f.sources = ctx.Selection.List()
		f.sourceKind = SourceKinds[0] // whole-selection rebases are always per-revision
		f.fromSelection = true
		f.dest = ctx.Cursor
		f.step = rebaseChooseDestType
		f.menu = destKindMenu()
	} else {
		f.sources = []string{ctx.Cursor}
		f.step = rebaseChooseSourceType
		f.menu = sourceKindMenu()
	}
	return f
}

func sourceKindMenu() menu {
	return menu{
		title: "Rebase - what moves with the source?",
		options: []menuOption{
			{key: "r", label: "revision", detail: "just this change"},
			{key: "s", label: "subtree", detail: "this change and its descendants"},
			{key: "b", label: "branch", detail: "the whole branch line"},
		},
	}
}

func destKindMenu() menu {
	return menu{
		title: "Rebase - place sources where?",
		options: []menuOption{
			{key: "o", label: "onto", detail: "as a child of the destination"},
			{key: "a", label: "after", detail: "immediately following it"},
			{key: "b", label: "before", detail: "immediately preceding it"},
		},
	}
}

func (f *RebaseFlow) Title() string { return "Rebase" }

func (f *RebaseFlow) Init() tea.Cmd { return nil }

func (f *RebaseFlow) Executed() bool { return f.executed }

// NeedsTarget reports whether the flow is waiting for a destination pick in
// the log view.
func (f *RebaseFlow) NeedsTarget() bool { return f.step == rebasePickDestination }

// TargetPicked records the destination chosen in the log view.
func (f *RebaseFlow) TargetPicked(id string) tea.Cmd {
	f.dest = id
	f.step = rebaseChooseDestType
	f.menu = destKindMenu()
	return nil
}

func (f *RebaseFlow) HandleKey(msg tea.KeyMsg) (Action, tea.Cmd) {
	if msg.String() == "esc" && f.step != rebaseRunning {
		return ActionClose, nil
	}

	switch f.step {
	case rebaseChooseSourceType:
		if i, ok := f.menu.handleKey(msg); ok {
			f.sourceKind = SourceKinds[i]
			f.step = rebasePickDestination
		}
	case rebaseChooseDestType:
		if i, ok := f.menu.handleKey(msg); ok {
			f.destKind = DestKinds[i]
			f.step = rebaseConfirm
		}
	case rebaseConfirm:
		switch msg.String() {
		case "y", "enter":
			f.step = rebaseRunning
			f.errText = ""
			return ActionContinue, f.run()
		case "n":
			return ActionClose, nil
		}
	}
	return ActionContinue, nil
}

func (f *RebaseFlow) run() tea.Cmd {
	args := jj.RebaseArgs(f.sourceKind.Flag, f.sources, f.destKind.Flag, f.dest)
	summary := fmt.Sprintf("rebased %s %s %s", countNoun(len(f.sources)), f.destKind.Preposition, f.dest)
	return f.ctx.exec(f.Title(), true, summary, func(ctx context.Context) error {
		_, err := f.ctx.Runner.Run(ctx, args...)
		return err
	})
}

func (f *RebaseFlow) Update(msg tea.Msg) (Action, tea.Cmd) {
	switch msg := msg.(type) {
	case ExecutedMsg:
		if msg.Flow == f.Title() {
			f.executed = true
			return ActionClose, nil
		}
	case FailedMsg:
		if msg.Flow == f.Title() {
			// Selection is preserved; the user may fix things up and retry.
			f.errText = msg.Err.Error()
			f.step = rebaseConfirm
		}
	}
	return ActionContinue, nil
}

func (f *RebaseFlow) RenderOverlay(width int) []string {
	var lines []string
	switch f.step {
	case rebaseChooseSourceType, rebaseChooseDestType:
		lines = f.menu.render()
	case rebasePickDestination:
		lines = []string{
			menuTitleStyle.Render("Rebase - pick the destination"),
			"Move the cursor in the log and press enter on the destination change.",
			menuDimStyle.Render("enter pick · esc cancel"),
		}
	case rebaseConfirm, rebaseRunning:
		lines = []string{
			menuTitleStyle.Render("Rebase - confirm"),
			fmt.Sprintf("Rebase %s (%s): %s", countNoun(len(f.sources)), f.sourceKind.Label, shortList(f.sources)),
			fmt.Sprintf("%s %s", f.destKind.Preposition, f.dest),
			menuDimStyle.Render("y/enter run · n/esc cancel"),
		}
		if f.step == rebaseRunning {
			lines = append(lines, "Rebasing...")
		}
	}
	if f.errText != "" {
		lines = append(lines, menuErrStyle.Render("Error: ")+f.errText)
	}
	return lines
}

var (
	_ Flow         = (*RebaseFlow)(nil)
	_ TargetPicker = (*RebaseFlow)(nil)
)
