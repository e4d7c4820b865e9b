package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store and embedding health",
	Long: `Reports where notes are stored, how many there are, and whether
the embedding endpoint is reachable. Semantic search degrades to
full-text only while the endpoint is down.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}
	if noteStore == nil {
		return errors.New("note store not configured")
	}

	ids, err := noteStore.ListNoteIDs(ctx)
	if err != nil {
		return fmt.Errorf("listing notes: %w", err)
	}

	if storePath != "" {
		cmd.Printf("Store:      %s\n", storePath)
	}
	cmd.Printf("Notes:      %d\n", len(ids))

	if embedder == nil {
		cmd.Println("Embeddings: not configured (full-text only)")
		return nil
	}
	if err := embedder.Ping(ctx); err != nil {
		cmd.Printf("Embeddings: unreachable (%v)\n", err)
		return nil
	}
	cmd.Println("Embeddings: ok")
	return nil
}
