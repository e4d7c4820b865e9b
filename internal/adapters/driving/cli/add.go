package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/parchment-labs/noteseek/internal/core/domain"
)

var (
	addID      string
	addTitle   string
	addSummary string
	addFile    string
)

var addCmd = &cobra.Command{
	Use:   "add [body]",
	Short: "Add or update a note and index it",
	Long: `Stores a note and immediately indexes it. The body is taken
from the argument, from --file, or from stdin. Passing an existing
--id updates that note and replaces its chunk generation.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addID, "id", "", "note ID (default: new UUID)")
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "note title")
	addCmd.Flags().StringVar(&addSummary, "summary", "", "note summary")
	addCmd.Flags().StringVarP(&addFile, "file", "f", "", "read body from file")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}
	if indexService == nil {
		return errors.New("index service not configured")
	}

	body, err := readBody(cmd, args)
	if err != nil {
		return err
	}

	id := addID
	if id == "" {
		id = uuid.NewString()
	}

	note := &domain.Note{
		ID:      id,
		Title:   addTitle,
		Body:    body,
		Summary: addSummary,
	}

	result, err := indexService.IndexNote(ctx, note)
	if err != nil {
		return fmt.Errorf("indexing note: %w", err)
	}

	cmd.Printf("Note %s indexed: %s (%d chunks", id, result.Status, result.ChunksWritten)
	if result.ChunksSkipped > 0 {
		cmd.Printf(", %d skipped", result.ChunksSkipped)
	}
	cmd.Println(")")
	return nil
}

// readBody resolves the note body from the argument, --file, or stdin,
// in that precedence order.
func readBody(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if addFile != "" {
		data, err := os.ReadFile(addFile)
		if err != nil {
			return "", fmt.Errorf("reading body file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}
