package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parchment-labs/noteseek/internal/logger"
)

var indexCmd = &cobra.Command{
	Use:   "index [note-id...]",
	Short: "Re-index notes",
	Long: `Re-chunks and re-embeds notes, atomically replacing each
note's chunk generation. With no arguments, every stored note is
re-indexed concurrently; per-note failures are isolated.`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}
	if indexService == nil || noteStore == nil {
		return errors.New("index service not configured")
	}

	ids := args
	if len(ids) == 0 {
		var err error
		ids, err = noteStore.ListNoteIDs(ctx)
		if err != nil {
			return fmt.Errorf("listing notes: %w", err)
		}
	}
	if len(ids) == 0 {
		cmd.Println("No notes to index.")
		return nil
	}

	// Overrides set by another process (params set) land in the store
	// file; watching it picks them up while the bulk run is in flight.
	if paramsService != nil && storePath != "" {
		watchCtx, stopWatch := context.WithCancel(ctx)
		defer stopWatch()
		if err := paramsService.Watch(watchCtx, storePath); err != nil {
			logger.Debug("Params watch unavailable: %v", err)
		}
	}

	cmd.Printf("Indexing %d notes...\n", len(ids))
	result, err := indexService.IndexAll(ctx, ids)
	if err != nil {
		return fmt.Errorf("bulk index failed: %w", err)
	}

	cmd.Printf("Indexed %d notes (%d chunks written, %d notes failed)\n",
		result.NotesIndexed, result.ChunksWritten, result.NotesFailed)
	if result.NotesFailed > 0 {
		return fmt.Errorf("%d notes failed to index", result.NotesFailed)
	}
	return nil
}
