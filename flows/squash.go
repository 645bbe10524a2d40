package flows

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/jjnav/jj"
)

// descriptionMarker prefixes each source description in the composite draft
// so the origin of every paragraph stays machine-readable.
const descriptionMarker = "JJ: from "

type squashStep int

const (
	squashPickTarget squashStep = iota
	squashLoading
	squashEditMessage
	squashRunning
)

// draftMsg carries the composed draft message (or the fetch error).
type draftMsg struct {
	draft string
	err   error
}

// noSourcesMsg reports that filtering the target out of the selection left
// nothing to squash.
type noSourcesMsg struct{}

// SquashFlow squashes one or more source changes into a target and suspends
// for a free-text edit of the combined description.
//
// Plain squash derives sources from the selection-vs-cursor rule: a
// non-empty selection squashes into the change under the cursor; an empty
// selection squashes the cursor change into its parent (`<id>-`). The
// "squash to target" variant instead has the user pick the destination in
// the log view, always with the cursor change as the single source.
type SquashFlow struct {
	ctx      Context
	step     squashStep
	sources  []string
	target   string
	input    textarea.Model
	errText  string
	executed bool
}

// NewSquash creates a plain squash flow.
func NewSquash(ctx Context) *SquashFlow {
	f := &SquashFlow{ctx: ctx, step: squashLoading}
	if ctx.Selection.Count() > 0 {
		f.target = ctx.Cursor
		for _, id := range ctx.Selection.List() {
			if id != f.target { // never squash the target into itself
				f.sources = append(f.sources, id)
			}
		}
	} else {
		f.sources = []string{ctx.Cursor}
		f.target = jj.ParentRevset(ctx.Cursor)
	}
	return f
}

// NewSquashTo creates the "squash to target" variant: single source, target
// picked in the log view.
func NewSquashTo(ctx Context) *SquashFlow {
	return &SquashFlow{
		ctx:     ctx,
		step:    squashPickTarget,
		sources: []string{ctx.Cursor},
	}
}

func (f *SquashFlow) Title() string { return "Squash" }

func (f *SquashFlow) Executed() bool { return f.executed }

func (f *SquashFlow) Init() tea.Cmd {
	if f.step != squashLoading {
		return nil
	}
	if len(f.sources) == 0 {
		// Selecting only the target change leaves no sources; running
		// squash with an empty --from revset is malformed.
		return func() tea.Msg { return noSourcesMsg{} }
	}
	return f.fetchDraft()
}

// NeedsTarget reports whether the flow is waiting for a log-view pick.
func (f *SquashFlow) NeedsTarget() bool { return f.step == squashPickTarget }

// TargetPicked records the destination and kicks off the draft fetch.
func (f *SquashFlow) TargetPicked(id string) tea.Cmd {
	f.target = id
	f.step = squashLoading
	return f.fetchDraft()
}

// fetchDraft loads the descriptions of every source and the target and
// composes the editable draft. A count mismatch aborts the flow before any
// mutating command runs.
func (f *SquashFlow) fetchDraft() tea.Cmd {
	sources := f.sources
	target := f.target
	runner := f.ctx.Runner
	return func() tea.Msg {
		ctx := context.Background()
		sourceDescs, err := jj.Descriptions(ctx, runner, sources)
		if err != nil {
			return draftMsg{err: err}
		}
		targetDesc, err := jj.Description(ctx, runner, target)
		if err != nil {
			return draftMsg{err: err}
		}
		return draftMsg{draft: composeDraft(target, targetDesc, sources, sourceDescs)}
	}
}

// composeDraft concatenates the non-blank descriptions, target first, each
// source prefixed with a marker line naming its origin change. The target's
// own description carries no marker: it stays the description of the change
// being written, only the foreign paragraphs need attribution.
func composeDraft(target, targetDesc string, sources []string, sourceDescs map[string]string) string {
	var parts []string
	if strings.TrimSpace(targetDesc) != "" {
		parts = append(parts, strings.TrimRight(targetDesc, "\n"))
	}
	for _, id := range sources {
		desc := sourceDescs[id]
		if strings.TrimSpace(desc) == "" {
			continue
		}
		parts = append(parts, descriptionMarker+id+"\n"+strings.TrimRight(desc, "\n"))
	}
	return strings.Join(parts, "\n\n")
}

func (f *SquashFlow) HandleKey(msg tea.KeyMsg) (Action, tea.Cmd) {
	switch f.step {
	case squashEditMessage:
		switch msg.String() {
		case "esc":
			return ActionClose, nil
		case "ctrl+s":
			f.step = squashRunning
			f.errText = ""
			return ActionContinue, f.run()
		}
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		return ActionContinue, cmd
	case squashPickTarget, squashLoading:
		if msg.String() == "esc" {
			return ActionClose, nil
		}
	}
	return ActionContinue, nil
}

func (f *SquashFlow) run() tea.Cmd {
	from := jj.Revset(f.sources)
	into := f.target
	message := f.input.Value()
	summary := fmt.Sprintf("squashed %s into %s", countNoun(len(f.sources)), into)
	return f.ctx.exec(f.Title(), true, summary, func(ctx context.Context) error {
		return jj.Squash(ctx, f.ctx.Runner, from, into, message)
	})
}

func (f *SquashFlow) Update(msg tea.Msg) (Action, tea.Cmd) {
	switch msg := msg.(type) {
	case noSourcesMsg:
		flow := f.Title()
		return ActionClose, func() tea.Msg {
			return WarnMsg{Flow: flow, Text: "nothing to squash: the selection is only the target change"}
		}
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
		f.step = squashEditMessage
		return ActionContinue, textarea.Blink
	case ExecutedMsg:
		if msg.Flow == f.Title() {
			f.executed = true
			return ActionClose, nil
		}
	case FailedMsg:
		if msg.Flow == f.Title() {
			f.errText = msg.Err.Error()
			f.step = squashEditMessage
		}
	}
	return ActionContinue, nil
}

func (f *SquashFlow) RenderOverlay(width int) []string {
	var lines []string
	switch f.step {
	case squashPickTarget:
		lines = []string{
			menuTitleStyle.Render("Squash - pick the destination"),
			"Move the cursor in the log and press enter on the destination change.",
			menuDimStyle.Render("enter pick · esc cancel"),
		}
	case squashLoading:
		lines = []string{menuTitleStyle.Render("Squash"), "Fetching descriptions..."}
	case squashEditMessage, squashRunning:
		f.input.SetWidth(max(20, width-4))
		lines = []string{
			menuTitleStyle.Render(fmt.Sprintf("Squash %s into %s - edit message", shortList(f.sources), f.target)),
		}
		lines = append(lines, strings.Split(f.input.View(), "\n")...)
		lines = append(lines, menuDimStyle.Render("ctrl+s squash · esc cancel"))
		if f.step == squashRunning {
			lines = append(lines, "Squashing...")
		}
	}
	if f.errText != "" {
		lines = append(lines, menuErrStyle.Render("Error: ")+f.errText)
	}
	return lines
}

var (
	_ Flow         = (*SquashFlow)(nil)
	_ TargetPicker = (*SquashFlow)(nil)
)
