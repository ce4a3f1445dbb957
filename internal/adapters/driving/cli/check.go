package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kotae/internal/core/domain"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load the dataset and print a summary",
	Long: `Loads the dataset once with the current settings and reports the number
of records, the categories found and the rows that were skipped. Missing
columns and fetch or parse failures are reported with their details.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	rt, err := runtimeFor(cmd)
	if err != nil {
		return err
	}

	ds, err := rt.LoadNow(cmd.Context())
	if err != nil {
		if errors.Is(err, domain.ErrMissingColumn) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Hint: set columns.question and columns.answer with 'kotae config set'.")
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Source:     %s\n", ds.Source)
	if ds.Category != "" {
		fmt.Fprintf(out, "Category:   %s\n", ds.Category)
	}
	fmt.Fprintf(out, "Version:    %d\n", ds.Version)
	fmt.Fprintf(out, "Records:    %d\n", ds.Len())
	fmt.Fprintf(out, "Skipped:    %d\n", ds.Skipped)
	fmt.Fprintf(out, "Categories: %s\n", listOrNone(ds.Categories()))
	return nil
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
