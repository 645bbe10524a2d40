// Package interactive is the non-TUI quick-action mode: a couple of huh
// prompts for the common operations, for people who want one action and out.
package interactive

import (
	"context"

	"github.com/charmbracelet/huh"

	"github.com/gerunddev/jjnav/jj"
)

// Run starts the interactive mode
func Run(runner jj.CommandRunner) error {
	var action string

	err := huh.NewSelect[string]().
		Title("jjnav - Quick Actions").
		Options(
			huh.NewOption("Edit - Switch working copy to a change", "edit"),
			huh.NewOption("Rebase - Move a change onto a new parent", "rebase"),
			huh.NewOption("Abandon - Abandon a change", "abandon"),
			huh.NewOption("Undo - Undo the last operation", "undo"),
		).
		Value(&action).
		Run()

	if err != nil {
		return nil // User cancelled
	}

	ctx := context.Background()
	switch action {
	case "edit":
		return runEdit(ctx, runner)
	case "rebase":
		return runRebase(ctx, runner)
	case "abandon":
		return runAbandon(ctx, runner)
	case "undo":
		return jj.Undo(ctx, runner)
	}

	return nil
}
