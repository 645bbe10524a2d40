package jj

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestRevset(t *testing.T) {
	tests := []struct {
		ids  []string
		want string
	}{
		{[]string{"abc"}, "abc"},
		{[]string{"abc", "def"}, "abc|def"},
		{[]string{"a", "b", "c"}, "a|b|c"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := Revset(tt.ids); got != tt.want {
			t.Errorf("Revset(%v) = %q, want %q", tt.ids, got, tt.want)
		}
	}
}

func TestParentRevset(t *testing.T) {
	if got := ParentRevset("qpvuntsm"); got != "qpvuntsm-" {
		t.Errorf("ParentRevset() = %q, want qpvuntsm-", got)
	}
}

func TestRebaseArgs(t *testing.T) {
	tests := []struct {
		name       string
		sourceFlag string
		sources    []string
		destFlag   string
		dest       string
		want       []string
	}{
		{
			name:       "two sources after destination",
			sourceFlag: "-s", sources: []string{"A", "B"},
			destFlag: "-A", dest: "D",
			want: []string{"rebase", "-s", "A", "-s", "B", "-A", "D"},
		},
		{
			name:       "single revision onto",
			sourceFlag: "-r", sources: []string{"A"},
			destFlag: "-d", dest: "D",
			want: []string{"rebase", "-r", "A", "-d", "D"},
		},
		{
			name:       "branch before",
			sourceFlag: "-b", sources: []string{"A"},
			destFlag: "-B", dest: "D",
			want: []string{"rebase", "-b", "A", "-B", "D"},
		},
		{
			name:       "source order preserved",
			sourceFlag: "-r", sources: []string{"C", "A", "B"},
			destFlag: "-d", dest: "D",
			want: []string{"rebase", "-r", "C", "-r", "A", "-r", "B", "-d", "D"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RebaseArgs(tt.sourceFlag, tt.sources, tt.destFlag, tt.dest)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RebaseArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSquashArgs(t *testing.T) {
	r := &fakeRunner{}
	if err := Squash(context.Background(), r, "A|B", "C", "combined message"); err != nil {
		t.Fatalf("Squash() error: %v", err)
	}
	want := []string{"squash", "--from", "A|B", "--into", "C", "-m", "combined message"}
	if !reflect.DeepEqual(r.calls[0], want) {
		t.Errorf("Squash args = %v, want %v", r.calls[0], want)
	}
}

func TestGitPushAllowNew(t *testing.T) {
	r := &fakeRunner{}
	if err := GitPush(context.Background(), r, "A|B", false); err != nil {
		t.Fatalf("GitPush() error: %v", err)
	}
	if err := GitPush(context.Background(), r, "A", true); err != nil {
		t.Fatalf("GitPush() error: %v", err)
	}

	want0 := []string{"git", "push", "-r", "A|B"}
	want1 := []string{"git", "push", "-r", "A", "--allow-new"}
	if !reflect.DeepEqual(r.calls[0], want0) {
		t.Errorf("push args = %v, want %v", r.calls[0], want0)
	}
	if !reflect.DeepEqual(r.calls[1], want1) {
		t.Errorf("push args = %v, want %v", r.calls[1], want1)
	}
}

func TestBookmarkSetAlwaysAllowsBackwards(t *testing.T) {
	r := &fakeRunner{}
	if err := BookmarkSet(context.Background(), r, "main", "qpvuntsm"); err != nil {
		t.Fatalf("BookmarkSet() error: %v", err)
	}
	want := []string{"bookmark", "set", "main", "-r", "qpvuntsm", "--allow-backwards"}
	if !reflect.DeepEqual(r.calls[0], want) {
		t.Errorf("BookmarkSet args = %v, want %v", r.calls[0], want)
	}
}

func TestBookmarkList(t *testing.T) {
	r := &fakeRunner{results: []fakeResult{{stdout: "main\nfeature\n\n"}}}
	names, err := BookmarkList(context.Background(), r, "qpvuntsm")
	if err != nil {
		t.Fatalf("BookmarkList() error: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"main", "feature"}) {
		t.Errorf("BookmarkList() = %v, want [main feature]", names)
	}
}

func TestBookmarkPullSkipsSetWhenFetchFails(t *testing.T) {
	r := &fakeRunner{results: []fakeResult{{err: errors.New("remote unreachable")}}}
	err := BookmarkPull(context.Background(), r, "main", "origin")
	if err == nil {
		t.Fatal("BookmarkPull() must fail when fetch fails")
	}
	if len(r.calls) != 1 {
		t.Fatalf("bookmark set must not run after failed fetch; got %d calls", len(r.calls))
	}
}

func TestBookmarkPull(t *testing.T) {
	r := &fakeRunner{}
	if err := BookmarkPull(context.Background(), r, "main", "origin"); err != nil {
		t.Fatalf("BookmarkPull() error: %v", err)
	}
	if len(r.calls) != 2 {
		t.Fatalf("expected fetch then set, got %d calls", len(r.calls))
	}
	wantSet := []string{"bookmark", "set", "main", "-r", "main@origin", "--allow-backwards"}
	if !reflect.DeepEqual(r.calls[1], wantSet) {
		t.Errorf("second call = %v, want %v", r.calls[1], wantSet)
	}
}

func TestRunnerAgainstRealRepo(t *testing.T) {
	// Integration check: run a read-only command against a fresh repo.
	// Skips when the jj binary is unavailable.
	ctx := context.Background()
	tmpDir := t.TempDir()

	init := NewRunner(tmpDir)
	if _, err := init.Run(ctx, "git", "init"); err != nil {
		t.Skipf("jj not available or unable to initialize repo: %v", err)
	}

	r := NewRunner(tmpDir)
	out, err := Log(ctx, r, "")
	if err != nil {
		t.Fatalf("Log() against real repo failed: %v", err)
	}
	if len(out.Changes) == 0 {
		t.Error("expected at least the working-copy change in a fresh repo")
	}
}
