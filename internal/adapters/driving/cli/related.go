package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var relatedLimit int

var relatedCmd = &cobra.Command{
	Use:   "related [note-id]",
	Short: "Find notes related to a note",
	Long: `Finds notes semantically close to the given note, using the
centroid of its chunk embeddings. The source note itself is excluded.`,
	Args: cobra.ExactArgs(1),
	RunE: runRelated,
}

func init() {
	relatedCmd.Flags().IntVarP(&relatedLimit, "limit", "n", 5, "maximum number of results")
	rootCmd.AddCommand(relatedCmd)
}

func runRelated(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}
	if searchService == nil {
		return errors.New("search service not configured")
	}

	hits, err := searchService.Related(ctx, args[0], relatedLimit)
	if err != nil {
		return fmt.Errorf("related lookup failed: %w", err)
	}

	if len(hits) == 0 {
		cmd.Println("No related notes found.")
		return nil
	}

	cmd.Println("Related notes:")
	cmd.Println()
	for i := range hits {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, hits[i].NoteID, hits[i].Similarity)
		if hits[i].Snippet != "" {
			cmd.Printf("      %s\n", hits[i].Snippet)
		}
		cmd.Println()
	}
	return nil
}
