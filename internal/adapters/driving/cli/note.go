package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Inspect and remove stored notes",
}

var noteShowCmd = &cobra.Command{
	Use:   "show [note-id]",
	Short: "Show a stored note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteShow,
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored note IDs",
	RunE:  runNoteList,
}

var noteRemoveCmd = &cobra.Command{
	Use:   "rm [note-id]",
	Short: "Remove a note and its index entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteRemove,
}

func init() {
	noteCmd.AddCommand(noteShowCmd, noteListCmd, noteRemoveCmd)
	rootCmd.AddCommand(noteCmd)
}

func runNoteShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}
	if noteStore == nil {
		return errors.New("note store not configured")
	}

	note, err := noteStore.GetNote(ctx, args[0])
	if err != nil {
		return fmt.Errorf("loading note: %w", err)
	}

	cmd.Printf("ID:      %s\n", note.ID)
	cmd.Printf("Title:   %s\n", note.Title)
	if note.Summary != "" {
		cmd.Printf("Summary: %s\n", note.Summary)
	}
	cmd.Printf("Updated: %s\n", note.UpdatedAt.Format("2006-01-02 15:04"))
	cmd.Println()
	cmd.Println(note.Body)
	return nil
}

func runNoteList(cmd *cobra.Command, args []string) error {
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
	if len(ids) == 0 {
		cmd.Println("No notes stored.")
		return nil
	}
	for _, id := range ids {
		cmd.Println(id)
	}
	return nil
}

func runNoteRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}
	if noteStore == nil {
		return errors.New("note store not configured")
	}

	if err := noteStore.DeleteNote(ctx, args[0]); err != nil {
		return fmt.Errorf("removing note: %w", err)
	}
	cmd.Printf("Note %s removed.\n", args[0])
	return nil
}
