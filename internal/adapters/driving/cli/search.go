package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parchment-labs/noteseek/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search notes",
	Long: `Runs a hybrid search over all indexed notes, fusing full-text
and semantic rankings into one list. Korean queries are detected and
weighted toward the full-text engine.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}
	if searchService == nil {
		return errors.New("search service not configured")
	}

	outcome, err := searchService.Search(ctx, args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, outcome)
	}
	return outputSearchText(cmd, outcome)
}

func outputSearchJSON(cmd *cobra.Command, outcome *domain.SearchOutcome) error {
	data, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, outcome *domain.SearchOutcome) error {
	if len(outcome.Results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	if outcome.FellBack {
		cmd.Println("(full-text ordering)")
	}
	cmd.Println("Results:")
	cmd.Println()
	for i := range outcome.Results {
		r := &outcome.Results[i]
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, r.NoteID, r.Score)
		if r.Snippet != "" {
			cmd.Printf("      %s\n", r.Snippet)
		}
		cmd.Println()
	}
	return nil
}
