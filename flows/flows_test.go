package flows

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/jjnav/jj"
	"github.com/gerunddev/jjnav/selection"
)

// fakeRunner records every invocation and answers through a handler.
type fakeRunner struct {
	mu      sync.Mutex
	calls   [][]string
	handler func(args []string) (string, error)
}

func (f *fakeRunner) Run(_ context.Context, args ...string) (jj.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, args)
	f.mu.Unlock()
	if f.handler == nil {
		return jj.Result{Args: args}, nil
	}
	stdout, err := f.handler(args)
	if err != nil {
		return jj.Result{Args: args, ExitCode: 1, Stderr: err.Error()}, err
	}
	return jj.Result{Args: args, Stdout: stdout}, nil
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeRunner) call(i int) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[i]
}

func logRecord(id, desc string) string {
	return id + ";ffffffff;" + desc + "\n---END-CHANGE---\n"
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newContext(r jj.CommandRunner, cursor string, selected ...string) Context {
	sel := selection.NewSet()
	for _, id := range selected {
		sel.Toggle(id)
	}
	return Context{Runner: r, Selection: sel, Cursor: cursor}
}

// runCmd executes a tea.Cmd synchronously and returns its message.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	return cmd()
}

func TestRebaseSelectionPath(t *testing.T) {
	r := &fakeRunner{}
	ctx := newContext(r, "D", "A", "B")
	f := NewRebase(ctx)

	if f.NeedsTarget() {
		t.Fatal("selection rebase must not ask for a log-view target")
	}

	// Selection path skips the source-type menu: first prompt is the
	// destination kind.
	if action, _ := f.HandleKey(key("a")); action != ActionContinue {
		t.Fatal("choosing a destination kind must not close the flow")
	}

	_, cmd := f.HandleKey(key("y"))
	msg := runCmd(t, cmd)

	want := []string{"rebase", "-r", "A", "-r", "B", "-A", "D"}
	if r.callCount() != 1 || !reflect.DeepEqual(r.call(0), want) {
		t.Fatalf("runner got %v, want exactly one call %v", r.calls, want)
	}

	exec, ok := msg.(ExecutedMsg)
	if !ok {
		t.Fatalf("expected ExecutedMsg, got %T", msg)
	}
	if ctx.Selection.Count() != 0 {
		t.Error("selection must be cleared after a successful rebase")
	}

	action, _ := f.Update(exec)
	if action != ActionClose || !f.Executed() {
		t.Error("flow must close as executed after success")
	}
}

func TestRebaseCursorPath(t *testing.T) {
	r := &fakeRunner{}
	f := NewRebase(newContext(r, "C"))

	f.HandleKey(key("s")) // subtree
	if !f.NeedsTarget() {
		t.Fatal("cursor rebase must wait for a destination pick")
	}
	f.TargetPicked("D")
	f.HandleKey(key("b")) // before
	_, cmd := f.HandleKey(key("enter"))
	runCmd(t, cmd)

	want := []string{"rebase", "-s", "C", "-B", "D"}
	if r.callCount() != 1 || !reflect.DeepEqual(r.call(0), want) {
		t.Fatalf("runner got %v, want %v", r.calls, want)
	}
}

func TestRebaseCancelAtDestinationTypeStep(t *testing.T) {
	r := &fakeRunner{}
	ctx := newContext(r, "D", "A", "B")
	f := NewRebase(ctx)

	action, _ := f.HandleKey(key("esc"))
	if action != ActionClose {
		t.Fatal("esc at the destination-type step must close the flow")
	}
	if f.Executed() {
		t.Error("cancelled flow must not report executed")
	}
	if r.callCount() != 0 {
		t.Errorf("cancelled flow invoked the runner %d time(s)", r.callCount())
	}
	if ctx.Selection.Count() != 2 {
		t.Error("cancellation must leave the selection untouched")
	}
}

func TestRebaseDeclineAtConfirm(t *testing.T) {
	r := &fakeRunner{}
	f := NewRebase(newContext(r, "D", "A"))
	f.HandleKey(key("o"))

	action, _ := f.HandleKey(key("n"))
	if action != ActionClose {
		t.Fatal("declining the confirmation must close the flow")
	}
	if r.callCount() != 0 {
		t.Error("declined flow must not invoke the runner")
	}
}

func TestRebaseFailurePreservesSelection(t *testing.T) {
	r := &fakeRunner{handler: func(args []string) (string, error) {
		return "", errors.New("would create a cycle")
	}}
	ctx := newContext(r, "D", "A", "B")
	f := NewRebase(ctx)

	f.HandleKey(key("o"))
	_, cmd := f.HandleKey(key("y"))
	msg := runCmd(t, cmd)

	failed, ok := msg.(FailedMsg)
	if !ok {
		t.Fatalf("expected FailedMsg, got %T", msg)
	}
	action, _ := f.Update(failed)
	if action != ActionContinue {
		t.Error("failure must keep the flow open for retry")
	}
	if ctx.Selection.Count() != 2 {
		t.Error("failure must preserve the selection")
	}
}

func TestSquashSelectionIntoCursor(t *testing.T) {
	r := &fakeRunner{handler: func(args []string) (string, error) {
		if args[0] != "log" {
			return "", nil
		}
		revset := args[3]
		switch {
		case strings.Contains(revset, "|"):
			return logRecord("A", "msg a") + logRecord("B", " "), nil
		default:
			return logRecord("C", "target msg"), nil
		}
	}}
	ctx := newContext(r, "C", "A", "B")
	f := NewSquash(ctx)

	if !reflect.DeepEqual(f.sources, []string{"A", "B"}) {
		t.Fatalf("sources = %v, want [A B]", f.sources)
	}
	if f.target != "C" {
		t.Fatalf("target = %q, want C", f.target)
	}

	msg := runCmd(t, f.Init())
	if action, _ := f.Update(msg); action != ActionContinue {
		t.Fatal("draft fetch must transition to the edit step")
	}

	_, cmd := f.HandleKey(key("ctrl+s"))
	runCmd(t, cmd)

	last := r.call(r.callCount() - 1)
	if last[0] != "squash" {
		t.Fatalf("final command = %v, want squash", last)
	}
	wantPrefix := []string{"squash", "--from", "A|B", "--into", "C", "-m"}
	if !reflect.DeepEqual(last[:6], wantPrefix) {
		t.Errorf("squash args = %v, want prefix %v", last, wantPrefix)
	}
	if ctx.Selection.Count() != 0 {
		t.Error("selection must be cleared after a successful squash")
	}
}

func TestSquashEmptySelectionTargetsParent(t *testing.T) {
	r := &fakeRunner{}
	f := NewSquash(newContext(r, "C"))

	if !reflect.DeepEqual(f.sources, []string{"C"}) {
		t.Errorf("sources = %v, want [C]", f.sources)
	}
	if f.target != "C-" {
		t.Errorf("target = %q, want the synthesized parent reference C-", f.target)
	}
}

func TestSquashSelectionOfOnlyTargetIsWarning(t *testing.T) {
	r := &fakeRunner{}
	ctx := newContext(r, "C", "C") // the selection is exactly the target
	f := NewSquash(ctx)

	msg := runCmd(t, f.Init())
	action, cmd := f.Update(msg)
	if action != ActionClose {
		t.Fatal("an empty source set must close the flow")
	}
	warn, ok := runCmd(t, cmd).(WarnMsg)
	if !ok {
		t.Fatalf("expected WarnMsg, got %T", msg)
	}
	if !strings.Contains(warn.Text, "nothing to squash") {
		t.Errorf("warning text = %q", warn.Text)
	}
	if r.callCount() != 0 {
		t.Errorf("dead-end flow ran %d commands, want 0", r.callCount())
	}
	if ctx.Selection.Count() != 1 {
		t.Error("selection must be preserved on a dead end")
	}
}

func TestSquashCountMismatchAbortsBeforeExecution(t *testing.T) {
	r := &fakeRunner{handler: func(args []string) (string, error) {
		// Two IDs requested, one record returned: B went stale.
		return logRecord("A", "msg a"), nil
	}}
	f := NewSquash(newContext(r, "C", "A", "B"))

	msg := runCmd(t, f.Init())
	action, cmd := f.Update(msg)
	if action != ActionClose {
		t.Fatal("count mismatch must abort the flow")
	}
	if _, ok := runCmd(t, cmd).(FailedMsg); !ok {
		t.Fatal("count mismatch must surface as a failure")
	}
	for i := 0; i < r.callCount(); i++ {
		if r.call(i)[0] == "squash" {
			t.Error("squash must never run after a count mismatch")
		}
	}
}

func TestSquashToTargetPicksDestination(t *testing.T) {
	r := &fakeRunner{handler: func(args []string) (string, error) {
		if args[0] != "log" {
			return "", nil
		}
		if args[3] == "A" {
			return logRecord("A", "source msg"), nil
		}
		return logRecord("D", " "), nil
	}}
	ctx := newContext(r, "A")
	f := NewSquashTo(ctx)

	if !f.NeedsTarget() {
		t.Fatal("squash-to must wait for a destination pick")
	}
	msg := runCmd(t, f.TargetPicked("D"))
	f.Update(msg)

	_, cmd := f.HandleKey(key("ctrl+s"))
	runCmd(t, cmd)

	last := r.call(r.callCount() - 1)
	want := []string{"squash", "--from", "A", "--into", "D", "-m", "JJ: from A\nsource msg"}
	if !reflect.DeepEqual(last, want) {
		t.Errorf("squash args = %v, want %v", last, want)
	}
}

func TestComposeDraft(t *testing.T) {
	tests := []struct {
		name        string
		targetDesc  string
		sources     []string
		sourceDescs map[string]string
		want        string
	}{
		{
			name:        "all present",
			targetDesc:  "target",
			sources:     []string{"A", "B"},
			sourceDescs: map[string]string{"A": "alpha", "B": "beta"},
			want:        "target\n\nJJ: from A\nalpha\n\nJJ: from B\nbeta",
		},
		{
			name:        "blank descriptions skipped",
			targetDesc:  "",
			sources:     []string{"A", "B"},
			sourceDescs: map[string]string{"A": "alpha", "B": " "},
			want:        "JJ: from A\nalpha",
		},
		{
			name:        "everything blank",
			targetDesc:  " ",
			sources:     []string{"A"},
			sourceDescs: map[string]string{"A": ""},
			want:        "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := composeDraft("T", tt.targetDesc, tt.sources, tt.sourceDescs)
			if got != tt.want {
				t.Errorf("composeDraft() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBookmarkMenuEmptyIsWarning(t *testing.T) {
	r := &fakeRunner{handler: func(args []string) (string, error) {
		return "", nil // no bookmarks on this change
	}}
	f := NewBookmarkMenu(newContext(r, "C"))

	msg := runCmd(t, f.Init())
	action, cmd := f.Update(msg)
	if action != ActionClose {
		t.Fatal("empty bookmark list must close the flow")
	}
	warn, ok := runCmd(t, cmd).(WarnMsg)
	if !ok {
		t.Fatalf("expected WarnMsg, got %T", msg)
	}
	if !strings.Contains(warn.Text, "no bookmarks") {
		t.Errorf("warning text = %q", warn.Text)
	}
}

func TestBookmarkSetMovesExisting(t *testing.T) {
	r := &fakeRunner{handler: func(args []string) (string, error) {
		if args[0] == "bookmark" && args[1] == "list" {
			return "main\nfeature\n", nil
		}
		return "", nil
	}}
	f := NewBookmarkSet(newContext(r, "C"))

	f.Update(runCmd(t, f.Init()))
	_, cmd := f.HandleKey(key("enter")) // first entry: main
	runCmd(t, cmd)

	last := r.call(r.callCount() - 1)
	want := []string{"bookmark", "set", "main", "-r", "C", "--allow-backwards"}
	if !reflect.DeepEqual(last, want) {
		t.Errorf("bookmark set args = %v, want %v", last, want)
	}
}

func TestBookmarkSetCreateNew(t *testing.T) {
	r := &fakeRunner{handler: func(args []string) (string, error) {
		if args[0] == "bookmark" && args[1] == "list" {
			return "main\n", nil
		}
		return "", nil
	}}
	f := NewBookmarkSet(newContext(r, "C"))

	f.Update(runCmd(t, f.Init()))
	f.HandleKey(key("c")) // the create-new sentinel
	for _, ch := range "wip" {
		f.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{ch}})
	}
	_, cmd := f.HandleKey(key("enter"))
	runCmd(t, cmd)

	last := r.call(r.callCount() - 1)
	want := []string{"bookmark", "create", "wip", "-r", "C"}
	if !reflect.DeepEqual(last, want) {
		t.Errorf("bookmark create args = %v, want %v", last, want)
	}
}

func TestPushAppliesSelectionRule(t *testing.T) {
	r := &fakeRunner{}
	ctx := newContext(r, "C", "A", "B")
	f := NewPush(ctx, true)

	_, cmd := f.HandleKey(key("y"))
	msg := runCmd(t, cmd)

	want := []string{"git", "push", "-r", "A|B", "--allow-new"}
	if !reflect.DeepEqual(r.call(0), want) {
		t.Errorf("push args = %v, want %v", r.call(0), want)
	}
	if _, ok := msg.(ExecutedMsg); !ok {
		t.Fatalf("expected ExecutedMsg, got %T", msg)
	}
	if ctx.Selection.Count() != 0 {
		t.Error("selection must be cleared after a successful push")
	}
}

func TestAbandonCancelHasNoSideEffects(t *testing.T) {
	r := &fakeRunner{}
	ctx := newContext(r, "C", "A")
	f := NewAbandon(ctx)

	action, _ := f.HandleKey(key("esc"))
	if action != ActionClose {
		t.Fatal("esc must close the abandon flow")
	}
	if r.callCount() != 0 {
		t.Error("cancelled abandon invoked the runner")
	}
	if ctx.Selection.Count() != 1 {
		t.Error("cancelled abandon must preserve the selection")
	}
}

func TestEditIgnoresSelection(t *testing.T) {
	r := &fakeRunner{}
	ctx := newContext(r, "C", "A", "B")

	runCmd(t, Edit(ctx))

	want := []string{"edit", "C"}
	if !reflect.DeepEqual(r.call(0), want) {
		t.Errorf("edit args = %v, want %v", r.call(0), want)
	}
	if ctx.Selection.Count() != 2 {
		t.Error("edit is single-target and must preserve the selection")
	}
}

func TestNewChangeConsumesSelection(t *testing.T) {
	r := &fakeRunner{}
	ctx := newContext(r, "C", "A", "B")

	msg := runCmd(t, NewChange(ctx))

	want := []string{"new", "A", "B"}
	if !reflect.DeepEqual(r.call(0), want) {
		t.Errorf("new args = %v, want %v", r.call(0), want)
	}
	if _, ok := msg.(ExecutedMsg); !ok {
		t.Fatalf("expected ExecutedMsg, got %T", msg)
	}
	if ctx.Selection.Count() != 0 {
		t.Error("selection must be cleared after a successful new")
	}
}

func TestConsumeTargets(t *testing.T) {
	r := &fakeRunner{}
	withSel := newContext(r, "C", "A", "B")
	if got := withSel.ConsumeTargets(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("ConsumeTargets() with selection = %v, want [A B]", got)
	}
	noSel := newContext(r, "C")
	if got := noSel.ConsumeTargets(); !reflect.DeepEqual(got, []string{"C"}) {
		t.Errorf("ConsumeTargets() without selection = %v, want [C]", got)
	}
}
