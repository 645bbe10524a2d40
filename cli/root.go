// Package cli wires the cobra entrypoint: the bare command opens the TUI,
// -i runs quick-action mode, and any trailing arguments are handed to jj
// untouched so jjnav can sit in front of jj without hiding it.
package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gerunddev/jjnav/config"
	"github.com/gerunddev/jjnav/interactive"
	"github.com/gerunddev/jjnav/jj"
	"github.com/gerunddev/jjnav/ui"
	"github.com/gerunddev/jjnav/ui/messages"
)

var (
	interactiveMode bool
	repoPath        string
)

var rootCmd = &cobra.Command{
	Use:   "jjnav [-- jj args...]",
	Short: "An interactive terminal frontend for Jujutsu",
	Long: `jjnav is a terminal UI for the Jujutsu version control system.

Run it with no arguments to open the log browser. Any trailing arguments
are passed through to jj verbatim, so "jjnav describe -m foo" behaves
exactly like "jj describe -m foo".`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// A bare "jjnav log" is the TUI too; "jjnav log -r ..." is jj's.
		if len(args) > 0 && !(len(args) == 1 && args[0] == "log") {
			return passThrough(repoPath, args)
		}

		runner := jj.NewRunner(repoPath)

		if interactiveMode {
			return interactive.Run(runner)
		}

		cfg, warnings, err := config.Load()
		if err != nil {
			return err
		}

		app := ui.NewApp(runner, cfg)
		for _, w := range warnings {
			app.Notify(messages.NoticeWarn, w)
		}

		p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running UI: %w", err)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().BoolVarP(&interactiveMode, "interactive", "i", false,
		"run quick-action prompts instead of the full TUI")
	rootCmd.Flags().StringVarP(&repoPath, "repository", "R", "",
		"path to the repository to operate on")

	// Flags stop at the first positional argument so jj's own flags
	// survive the trip: "jjnav log -r ::@" must not eat -r.
	rootCmd.Flags().SetInterspersed(false)
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(config.Dir())

	viper.SetEnvPrefix("JJNAV")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	config.SetDefaults()

	// A missing config file just means defaults; anything else is worth
	// a warning but should not stop the program.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: could not read %s: %v\n", config.File(), err)
		}
	}
}

// passThrough execs jj with the given arguments and inherited stdio, so
// pagers, colors, and editors behave as if jj were invoked directly.
func passThrough(repoPath string, args []string) error {
	cmd := exec.Command("jj", args...)
	if repoPath != "" {
		cmd.Dir = repoPath
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		return fmt.Errorf("jj %s: %w", strings.Join(args, " "), err)
	}
	return nil
}

// Execute runs the root command and exits nonzero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
