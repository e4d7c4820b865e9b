package driven

import (
	"context"

	"github.com/parchment-labs/noteseek/internal/core/domain"
)

// NoteStore persists notes. Saving a note re-derives its lexical index
// entry before the note becomes queryable.
type NoteStore interface {
	// SaveNote inserts or updates a note and fills in its RowID.
	SaveNote(ctx context.Context, note *domain.Note) error

	// GetNote retrieves a note by external ID.
	GetNote(ctx context.Context, id string) (*domain.Note, error)

	// ListNoteIDs returns the external IDs of all notes.
	ListNoteIDs(ctx context.Context) ([]string, error)

	// DeleteNote removes a note and its chunks.
	DeleteNote(ctx context.Context, id string) error
}

// ChunkStore persists chunk generations.
type ChunkStore interface {
	// ReplaceChunks atomically swaps the note's chunk set for the new
	// one: delete-old, insert-new, one transaction. Concurrent readers
	// never observe an interim empty window.
	ReplaceChunks(ctx context.Context, noteID string, chunks []domain.Chunk) error

	// GetChunks returns the note's current chunk generation, content
	// chunks in sequence order, summary chunk first.
	GetChunks(ctx context.Context, noteID string) ([]domain.Chunk, error)
}
