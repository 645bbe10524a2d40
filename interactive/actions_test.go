package interactive

import (
	"testing"

	"github.com/gerunddev/jjnav/jj"
)

func TestBuildRevisionOptions(t *testing.T) {
	tests := []struct {
		name       string
		changes    []jj.Change
		wantLen    int
		wantLabels []string
		wantValues []string
	}{
		{
			name:    "empty changes",
			changes: []jj.Change{},
			wantLen: 0,
		},
		{
			name: "single change without description",
			changes: []jj.Change{
				{ChangeID: "abcd1234", CommitID: "deadbeef"},
			},
			wantLen:    1,
			wantLabels: []string{"abcd1234 (no description)"},
			wantValues: []string{"abcd1234"},
		},
		{
			name: "change with description",
			changes: []jj.Change{
				{ChangeID: "desctest", CommitID: "abcd1234", Description: "Fix the bug"},
			},
			wantLen:    1,
			wantLabels: []string{"desctest Fix the bug"},
			wantValues: []string{"desctest"},
		},
		{
			name: "multi-line description shows only the first line",
			changes: []jj.Change{
				{ChangeID: "multiline", CommitID: "bbbb2222", Description: "Add feature\n\nLong body text"},
			},
			wantLen:    1,
			wantLabels: []string{"multiline Add feature"},
			wantValues: []string{"multiline"},
		},
		{
			name: "multiple changes",
			changes: []jj.Change{
				{ChangeID: "aaaaaaaa", CommitID: "11111111"},
				{ChangeID: "bbbbbbbb", CommitID: "22222222", Description: "middle"},
				{ChangeID: "cccccccc", CommitID: "33333333"},
			},
			wantLen:    3,
			wantLabels: []string{"aaaaaaaa (no description)", "bbbbbbbb middle", "cccccccc (no description)"},
			wantValues: []string{"aaaaaaaa", "bbbbbbbb", "cccccccc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options := buildRevisionOptions(tt.changes)

			if len(options) != tt.wantLen {
				t.Errorf("buildRevisionOptions() returned %d options, want %d", len(options), tt.wantLen)
				return
			}

			for i, opt := range options {
				gotLabel := opt.Key
				gotValue := opt.Value

				if i < len(tt.wantLabels) && gotLabel != tt.wantLabels[i] {
					t.Errorf("option[%d] label = %q, want %q", i, gotLabel, tt.wantLabels[i])
				}

				if i < len(tt.wantValues) && gotValue != tt.wantValues[i] {
					t.Errorf("option[%d] value = %q, want %q", i, gotValue, tt.wantValues[i])
				}
			}
		})
	}
}

func TestBuildRevisionOptionsPreservesOrder(t *testing.T) {
	changes := []jj.Change{
		{ChangeID: "first", CommitID: "111"},
		{ChangeID: "second", CommitID: "222"},
		{ChangeID: "third", CommitID: "333"},
	}

	options := buildRevisionOptions(changes)

	if len(options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(options))
	}

	expectedOrder := []string{"first", "second", "third"}
	for i, opt := range options {
		if opt.Value != expectedOrder[i] {
			t.Errorf("option[%d] value = %q, want %q (order not preserved)", i, opt.Value, expectedOrder[i])
		}
	}
}
