package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/kotae/internal/adapters/driving/tui"
)

// ErrNotTerminal is returned when the TUI is started without a terminal.
var ErrNotTerminal = errors.New("tui requires an interactive terminal; use 'kotae search' instead")

// isTerminal reports whether stdin and stdout are terminals. Tests replace it.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// runApp runs the bubbletea program. Tests replace it.
var runApp = func(app *tui.App) error {
	return app.Run()
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for kotae.

Results update on every keystroke. The input stays disabled until the
dataset (and the reading dictionary, with --reading) has loaded.

Controls:
  ↑/ctrl+p, ↓/ctrl+n - Navigate results
  Enter              - Show or hide the answer
  Esc                - Clear the query
  ctrl+r             - Reload the dataset
  ctrl+c             - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if !isTerminal() {
		return ErrNotTerminal
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	rt, err := runtimeFor(cmd)
	if err != nil {
		return err
	}
	rt.Start(cmd.Context())

	app, err := tui.NewApp(tui.NewPorts(rt.Search, rt.Dataset))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := runApp(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
