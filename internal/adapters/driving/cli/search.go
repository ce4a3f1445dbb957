package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/kotae/internal/core/domain"
)

// Messages shown for the non-result query states.
const (
	promptText    = "Enter one or more keywords."
	noResultsText = "No matching questions."
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

var (
	searchLimit  int
	searchOutput string
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search questions and answers",
	Long: `Loads the dataset and prints every record whose question or answer
contains all of the given keywords. Keywords are separated by whitespace,
including the full-width space. Katakana and hiragana match each other.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results to print (0 = all)")
	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", outputText, "output format: text, json or yaml")
	rootCmd.AddCommand(searchCmd)
}

// searchOutputDoc is the json/yaml rendering of a query result.
type searchOutputDoc struct {
	State   domain.QueryState `json:"state" yaml:"state"`
	Query   string            `json:"query" yaml:"query"`
	Count   int               `json:"count" yaml:"count"`
	Total   int               `json:"total" yaml:"total"`
	Results []domain.Record   `json:"results" yaml:"results"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	switch searchOutput {
	case outputText, outputJSON, outputYAML:
	default:
		return fmt.Errorf("unknown output format %q", searchOutput)
	}
	if searchLimit < 0 {
		return errors.New("limit must not be negative")
	}

	rt, err := runtimeFor(cmd)
	if err != nil {
		return err
	}

	// A query without terms never needs the dataset.
	query := strings.Join(args, " ")
	if len(strings.Fields(query)) > 0 {
		if _, err := rt.LoadNow(cmd.Context()); err != nil {
			return fmt.Errorf("loading dataset: %w", err)
		}
	}

	result, err := rt.Search.Search(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	records := result.Records
	if searchLimit > 0 && len(records) > searchLimit {
		records = records[:searchLimit]
	}

	switch searchOutput {
	case outputJSON:
		return outputSearchJSON(cmd, result, records)
	case outputYAML:
		return outputSearchYAML(cmd, result, records)
	default:
		return outputSearchText(cmd, result, records)
	}
}

func newSearchOutputDoc(result domain.QueryResult, records []domain.Record) searchOutputDoc {
	if records == nil {
		records = []domain.Record{}
	}
	return searchOutputDoc{
		State:   result.State,
		Query:   result.Query,
		Count:   len(records),
		Total:   result.Count(),
		Results: records,
	}
}

func outputSearchJSON(cmd *cobra.Command, result domain.QueryResult, records []domain.Record) error {
	out := cmd.OutOrStdout()
	data, err := json.MarshalIndent(newSearchOutputDoc(result, records), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func outputSearchYAML(cmd *cobra.Command, result domain.QueryResult, records []domain.Record) error {
	out := cmd.OutOrStdout()
	data, err := yaml.Marshal(newSearchOutputDoc(result, records))
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	fmt.Fprint(out, string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, result domain.QueryResult, records []domain.Record) error {
	out := cmd.OutOrStdout()
	switch {
	case result.State == domain.StateNoQuery:
		fmt.Fprintln(out, promptText)
		return nil
	case result.NoResults():
		fmt.Fprintln(out, noResultsText)
		return nil
	}

	if len(records) < result.Count() {
		fmt.Fprintf(out, "%d of %d results:\n", len(records), result.Count())
	} else {
		fmt.Fprintf(out, "%d results:\n", result.Count())
	}
	fmt.Fprintln(out)
	for i := range records {
		r := &records[i]
		if r.Category != "" {
			fmt.Fprintf(out, "  [%d] %s [%s]\n", i+1, r.Question, r.Category)
		} else {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, r.Question)
		}
		for _, line := range r.AnswerLines() {
			fmt.Fprintf(out, "      %s\n", line)
		}
		fmt.Fprintln(out)
	}
	return nil
}
