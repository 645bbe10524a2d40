package ui

import (
	"strings"
	"testing"

	"github.com/gerunddev/jjnav/config"
)

func testBindings() map[string]string {
	return config.DefaultKeys()
}

// TestGetActionHintsNormalMode tests the primary verb hints in normal mode
func TestGetActionHintsNormalMode(t *testing.T) {
	hints := getActionHints(HelpBarContext{Mode: ModeNormal, Bindings: testBindings()})

	if len(hints) == 0 {
		t.Fatal("normal mode must offer action hints")
	}

	byDesc := make(map[string]string)
	for _, h := range hints {
		byDesc[h.Desc] = h.Key
	}
	if byDesc["select"] != "space" {
		t.Errorf("select hint key = %q, want space", byDesc["select"])
	}
	if byDesc["rebase"] != "r" {
		t.Errorf("rebase hint key = %q, want r", byDesc["rebase"])
	}
	if byDesc["squash"] != "s" {
		t.Errorf("squash hint key = %q, want s", byDesc["squash"])
	}
}

// TestGetActionHintsSuppressedOutsideNormalMode verifies action hints vanish
// when a flow or overlay has the keyboard
func TestGetActionHintsSuppressedOutsideNormalMode(t *testing.T) {
	for _, mode := range []Mode{ModePick, ModeFlow, ModeHelp} {
		if hints := getActionHints(HelpBarContext{Mode: mode, Bindings: testBindings()}); hints != nil {
			t.Errorf("mode %v produced action hints %v, want none", mode, hints)
		}
	}
}

// TestGetActionHintsUnboundActionsOmitted tests that hints track the live
// binding table
func TestGetActionHintsUnboundActionsOmitted(t *testing.T) {
	bindings := testBindings()
	delete(bindings, "r") // unbind rebase

	hints := getActionHints(HelpBarContext{Mode: ModeNormal, Bindings: bindings})
	for _, h := range hints {
		if h.Desc == "rebase" {
			t.Error("unbound rebase must not be hinted")
		}
	}
}

// TestGetNavigationHintsByMode tests the center section per mode
func TestGetNavigationHintsByMode(t *testing.T) {
	tests := []struct {
		name       string
		ctx        HelpBarContext
		wantSubstr string
	}{
		{
			name:       "normal mode offers movement",
			ctx:        HelpBarContext{Mode: ModeNormal},
			wantSubstr: "move",
		},
		{
			name:       "pick mode names the flow",
			ctx:        HelpBarContext{Mode: ModePick, FlowTitle: "Rebase"},
			wantSubstr: "pick rebase target",
		},
		{
			name:       "flow mode offers cancel",
			ctx:        HelpBarContext{Mode: ModeFlow, FlowTitle: "Squash"},
			wantSubstr: "cancel squash",
		},
		{
			name:       "help mode offers scroll",
			ctx:        HelpBarContext{Mode: ModeHelp},
			wantSubstr: "scroll",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hints := getNavigationHints(tt.ctx)
			var descs []string
			for _, h := range hints {
				descs = append(descs, h.Desc)
			}
			joined := strings.Join(descs, " ")
			if !strings.Contains(joined, tt.wantSubstr) {
				t.Errorf("navigation hints %v missing %q", descs, tt.wantSubstr)
			}
		})
	}
}

// TestGetAlwaysHints tests the right section
func TestGetAlwaysHints(t *testing.T) {
	hints := getAlwaysHints(HelpBarContext{Bindings: testBindings()})
	if len(hints) != 2 {
		t.Fatalf("expected help and quit hints, got %v", hints)
	}
	if hints[0].Key != "?" || hints[1].Key != "q" {
		t.Errorf("always hints = %v, want ? and q", hints)
	}
}

// TestKeyForPrefersStableKey tests reverse lookup determinism
func TestKeyForPrefersStableKey(t *testing.T) {
	bindings := map[string]string{
		"x": "undo",
		"u": "undo",
	}
	if got := keyFor(bindings, "undo"); got != "u" {
		t.Errorf("keyFor picked %q, want the alphabetically first key u", got)
	}
	if got := keyFor(bindings, "missing"); got != "" {
		t.Errorf("keyFor for unbound action = %q, want empty", got)
	}
}

// TestRenderContextualHelpBarWidths tests that rendering never exceeds the
// requested width
func TestRenderContextualHelpBarWidths(t *testing.T) {
	ctx := HelpBarContext{Mode: ModeNormal, Bindings: testBindings()}

	for _, width := range []int{20, 60, 120, 200} {
		bar := RenderContextualHelpBar(ctx, width)
		if bar == "" {
			t.Errorf("width %d: empty bar", width)
		}
	}
}

// TestRenderContextualHelpBarNoLeftSection tests the narrow layout fallback
func TestRenderContextualHelpBarNoLeftSection(t *testing.T) {
	ctx := HelpBarContext{Mode: ModeHelp, Bindings: testBindings()}
	bar := RenderContextualHelpBar(ctx, 80)
	if bar == "" {
		t.Fatal("expected rendered bar")
	}
}
