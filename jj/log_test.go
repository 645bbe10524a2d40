package jj

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeRunner replays canned results keyed by the first matching argument
// prefix, recording every invocation.
type fakeRunner struct {
	calls   [][]string
	results []fakeResult
}

type fakeResult struct {
	stdout string
	err    error
}

func (f *fakeRunner) Run(_ context.Context, args ...string) (Result, error) {
	f.calls = append(f.calls, args)
	i := len(f.calls) - 1
	if i >= len(f.results) {
		return Result{Args: args}, nil
	}
	r := f.results[i]
	if r.err != nil {
		return Result{Args: args, ExitCode: 1, Stderr: r.err.Error()}, r.err
	}
	return Result{Args: args, Stdout: r.stdout}, nil
}

func record(id, commit, desc string) string {
	return id + ";" + commit + ";" + desc + "\n" + recordTerminator + "\n"
}

func TestParseChanges(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Change
		wantErr bool
	}{
		{
			name:  "single change",
			input: record("qpvuntsm", "abc123def", "add parser"),
			want:  []Change{{ChangeID: "qpvuntsm", CommitID: "abc123def", Description: "add parser"}},
		},
		{
			name:  "blank description normalized to empty",
			input: record("qpvuntsm", "abc123def", " "),
			want:  []Change{{ChangeID: "qpvuntsm", CommitID: "abc123def", Description: ""}},
		},
		{
			name:  "description with embedded separator",
			input: record("qpvuntsm", "abc123def", "fix a;b;c handling"),
			want:  []Change{{ChangeID: "qpvuntsm", CommitID: "abc123def", Description: "fix a;b;c handling"}},
		},
		{
			name:  "description with embedded newlines",
			input: record("qpvuntsm", "abc123def", "first line\n\nbody paragraph"),
			want:  []Change{{ChangeID: "qpvuntsm", CommitID: "abc123def", Description: "first line\n\nbody paragraph"}},
		},
		{
			name: "multiple records",
			input: record("qpvuntsm", "abc123de", "one") +
				record("kkmpptxz", "def456ab", "two"),
			want: []Change{
				{ChangeID: "qpvuntsm", CommitID: "abc123de", Description: "one"},
				{ChangeID: "kkmpptxz", CommitID: "def456ab", Description: "two"},
			},
		},
		{
			name:  "empty stream",
			input: "",
			want:  nil,
		},
		{
			name:    "missing fields",
			input:   "qpvuntsm\n" + recordTerminator + "\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseChanges(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseChanges() expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseChanges() error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseChanges() returned %d changes, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("change[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBlankDescriptionIsNoDescription(t *testing.T) {
	changes, err := ParseChanges(record("qpvuntsm", "abc123de", " "))
	if err != nil {
		t.Fatalf("ParseChanges() error: %v", err)
	}
	if changes[0].HasDescription() {
		t.Errorf("single-space description must surface as no description")
	}
	if changes[0].Description != "" {
		t.Errorf("Description = %q, want empty", changes[0].Description)
	}
}

func TestDescriptionsCountMismatch(t *testing.T) {
	r := &fakeRunner{results: []fakeResult{
		{stdout: record("qpvuntsm", "abc123de", "only one")},
	}}

	_, err := Descriptions(context.Background(), r, []string{"qpvuntsm", "kkmpptxz"})
	if err == nil {
		t.Fatal("Descriptions() must fail when record count differs from requested count")
	}
	if !strings.Contains(err.Error(), "could not get change information") {
		t.Errorf("error = %q, want count-mismatch message", err)
	}
}

func TestDescriptions(t *testing.T) {
	r := &fakeRunner{results: []fakeResult{
		{stdout: record("qpvuntsm", "abc123de", "one") + record("kkmpptxz", "def456ab", " ")},
	}}

	got, err := Descriptions(context.Background(), r, []string{"qpvuntsm", "kkmpptxz"})
	if err != nil {
		t.Fatalf("Descriptions() error: %v", err)
	}
	if got["qpvuntsm"] != "one" {
		t.Errorf("Descriptions[qpvuntsm] = %q, want %q", got["qpvuntsm"], "one")
	}
	if got["kkmpptxz"] != "" {
		t.Errorf("Descriptions[kkmpptxz] = %q, want empty", got["kkmpptxz"])
	}

	if len(r.calls) != 1 {
		t.Fatalf("expected 1 jj call, got %d", len(r.calls))
	}
	joined := strings.Join(r.calls[0], " ")
	if !strings.Contains(joined, "qpvuntsm|kkmpptxz") {
		t.Errorf("revset not serialized with union operator: %q", joined)
	}
}

func TestDescriptionsEmptyInput(t *testing.T) {
	r := &fakeRunner{}
	got, err := Descriptions(context.Background(), r, nil)
	if err != nil {
		t.Fatalf("Descriptions() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
	if len(r.calls) != 0 {
		t.Errorf("no jj call expected for empty input, got %d", len(r.calls))
	}
}

func TestLogMapsLinesToChanges(t *testing.T) {
	pretty := "@  \x1b[35mqpvuntsm\x1b[0m user@host now\n" +
		"│  working on things\n" +
		"○  \x1b[35mkkmpptxz\x1b[0m user@host yesterday\n" +
		"│  older change\n"
	structured := record("qpvuntsm", "abc123de", "working on things") +
		record("kkmpptxz", "def456ab", "older change")

	r := &fakeRunner{results: []fakeResult{
		{stdout: pretty},
		{stdout: structured},
	}}

	out, err := Log(context.Background(), r, "")
	if err != nil {
		t.Fatalf("Log() error: %v", err)
	}
	if len(out.Changes) != 2 {
		t.Fatalf("got %d changes, want 2", len(out.Changes))
	}
	if out.Changes[0].StartLine != 0 || out.Changes[0].EndLine != 2 {
		t.Errorf("first change spans [%d,%d), want [0,2)", out.Changes[0].StartLine, out.Changes[0].EndLine)
	}
	if out.LineToChange[1] != "qpvuntsm" {
		t.Errorf("continuation line mapped to %q, want qpvuntsm", out.LineToChange[1])
	}
	if out.LineToChange[2] != "kkmpptxz" {
		t.Errorf("line 2 mapped to %q, want kkmpptxz", out.LineToChange[2])
	}
}

func TestLogPassesRevset(t *testing.T) {
	r := &fakeRunner{results: []fakeResult{{stdout: ""}, {stdout: ""}}}
	if _, err := Log(context.Background(), r, "mine()"); err != nil {
		t.Fatalf("Log() error: %v", err)
	}
	for _, call := range r.calls {
		joined := strings.Join(call, " ")
		if !strings.Contains(joined, "-r mine()") {
			t.Errorf("call %q missing revset filter", joined)
		}
	}
}

func TestLogPropagatesRunnerError(t *testing.T) {
	r := &fakeRunner{results: []fakeResult{{err: errors.New("not a jj repo")}}}
	if _, err := Log(context.Background(), r, ""); err == nil {
		t.Fatal("Log() must propagate runner errors")
	}
}
