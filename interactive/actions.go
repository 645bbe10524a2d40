package interactive

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/gerunddev/jjnav/jj"
)

func runEdit(ctx context.Context, runner jj.CommandRunner) error {
	changes, err := jj.Changes(ctx, runner, "")
	if err != nil {
		return fmt.Errorf("failed to get log: %w", err)
	}

	options := buildRevisionOptions(changes)
	if len(options) == 0 {
		fmt.Println("No changes available")
		return nil
	}

	var revision string
	err = huh.NewSelect[string]().
		Title("Select change to edit").
		Options(options...).
		Value(&revision).
		Run()

	if err != nil {
		return nil // User cancelled
	}

	if err := jj.Edit(ctx, runner, revision); err != nil {
		return fmt.Errorf("edit failed: %w", err)
	}

	fmt.Printf("Now editing %s\n", revision)
	return nil
}

func runRebase(ctx context.Context, runner jj.CommandRunner) error {
	changes, err := jj.Changes(ctx, runner, "")
	if err != nil {
		return fmt.Errorf("failed to get log: %w", err)
	}

	options := buildRevisionOptions(changes)
	if len(options) < 2 {
		fmt.Println("Need at least 2 changes to rebase")
		return nil
	}

	// Select source revision
	var source string
	err = huh.NewSelect[string]().
		Title("Select change to rebase (source)").
		Options(options...).
		Value(&source).
		Run()

	if err != nil {
		return nil // Cancelled
	}

	// Select destination revision
	var dest string
	err = huh.NewSelect[string]().
		Title("Select destination (new parent)").
		Description(fmt.Sprintf("Rebasing %s onto...", source)).
		Options(options...).
		Value(&dest).
		Run()

	if err != nil {
		return nil // Cancelled
	}

	if source == dest {
		fmt.Println("Source and destination cannot be the same")
		return nil
	}

	args := jj.RebaseArgs("-r", []string{source}, "-d", dest)
	if _, err := runner.Run(ctx, args...); err != nil {
		return fmt.Errorf("rebase failed: %w", err)
	}

	fmt.Printf("Rebased %s onto %s\n", source, dest)
	return nil
}

func runAbandon(ctx context.Context, runner jj.CommandRunner) error {
	changes, err := jj.Changes(ctx, runner, "")
	if err != nil {
		return fmt.Errorf("failed to get log: %w", err)
	}

	options := buildRevisionOptions(changes)
	if len(options) == 0 {
		fmt.Println("No changes available")
		return nil
	}

	var revision string
	err = huh.NewSelect[string]().
		Title("Select change to abandon").
		Options(options...).
		Value(&revision).
		Run()

	if err != nil {
		return nil // Cancelled
	}

	var confirmed bool
	err = huh.NewConfirm().
		Title(fmt.Sprintf("Abandon %s?", revision)).
		Value(&confirmed).
		Run()

	if err != nil || !confirmed {
		return nil
	}

	if err := jj.Abandon(ctx, runner, revision); err != nil {
		return fmt.Errorf("abandon failed: %w", err)
	}

	fmt.Printf("Abandoned %s\n", revision)
	return nil
}

func buildRevisionOptions(changes []jj.Change) []huh.Option[string] {
	var options []huh.Option[string]
	for _, c := range changes {
		label := c.ChangeID
		if c.HasDescription() {
			label += " " + firstLine(c.Description)
		} else {
			label += " (no description)"
		}
		options = append(options, huh.NewOption(label, c.ChangeID))
	}
	return options
}

// firstLine keeps multi-line descriptions one option high.
func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
