package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/jjnav/config"
	"github.com/gerunddev/jjnav/flows"
	"github.com/gerunddev/jjnav/jj"
)

type fakeRunner struct {
	calls [][]string
}

func (r *fakeRunner) Run(_ context.Context, args ...string) (jj.Result, error) {
	r.calls = append(r.calls, args)
	return jj.Result{Args: args}, nil
}

// runCmds executes a command tree, flattening batches.
func runCmds(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, runCmds(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

// logQueries counts the pretty-log fetches, one per refresh.
func logQueries(calls [][]string) int {
	n := 0
	for _, call := range calls {
		if len(call) >= 2 && call[0] == "log" && call[1] == "--color=always" {
			n++
		}
	}
	return n
}

func TestExecutedMessageTriggersExactlyOneRefresh(t *testing.T) {
	runner := &fakeRunner{}
	app := NewApp(runner, config.Default())

	_, cmd := app.Update(flows.ExecutedMsg{Flow: "Rebase", Message: "rebased 1 change onto zzz"})
	runCmds(cmd)

	if got := logQueries(runner.calls); got != 1 {
		t.Errorf("successful operation issued %d log refreshes, want exactly 1", got)
	}
	if app.notice != "rebased 1 change onto zzz" {
		t.Errorf("notice = %q, want the operation summary", app.notice)
	}
}

func TestFailedMessageDoesNotRefresh(t *testing.T) {
	runner := &fakeRunner{}
	app := NewApp(runner, config.Default())

	_, cmd := app.Update(flows.FailedMsg{Flow: "Rebase", Err: errors.New("boom")})
	runCmds(cmd)

	if got := logQueries(runner.calls); got != 0 {
		t.Errorf("failed operation issued %d log refreshes, want 0", got)
	}
	if app.notice != "boom" {
		t.Errorf("notice = %q, want the error text", app.notice)
	}
}
