package driving

import (
	"context"

	"github.com/parchment-labs/noteseek/internal/core/domain"
)

// SearchService answers free-text queries with a single fused ranked list.
type SearchService interface {
	// Search fuses lexical and semantic retrieval for the query.
	// Empty result lists are valid; only an invalid query or the failure
	// of both engines is an error.
	Search(ctx context.Context, query string, limit int) (*domain.SearchOutcome, error)

	// Related finds notes semantically close to the given note, using
	// the centroid of its chunk vectors.
	Related(ctx context.Context, noteID string, limit int) ([]domain.SemanticHit, error)
}

// IndexService maintains the chunk and lexical indexes for notes.
type IndexService interface {
	// IndexNote chunks, embeds, and atomically replaces the note's
	// chunk generation, re-deriving the lexical entry in the same step.
	IndexNote(ctx context.Context, note *domain.Note) (domain.IndexResult, error)

	// IndexAll re-indexes the given notes concurrently, isolating
	// per-note failures.
	IndexAll(ctx context.Context, noteIDs []string) (domain.BulkIndexResult, error)
}
