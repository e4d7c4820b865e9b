package driven

import (
	"context"

	"github.com/parchment-labs/noteseek/internal/core/domain"
)

// LexicalIndex executes ranked full-text queries against the weighted
// lexical index derived from note title and body.
type LexicalIndex interface {
	// SearchLexical returns ranked hits with generated snippets.
	// Zero matches is an empty slice, not an error.
	SearchLexical(ctx context.Context, q domain.LexicalQuery) ([]domain.LexicalHit, error)
}

// VectorSearcher executes nearest-neighbour queries against chunk vectors.
type VectorSearcher interface {
	// NearestChunks returns up to limit chunk rows ordered by descending
	// cosine similarity to the query vector. excludeNoteID, when
	// non-empty, removes the source note (related-note lookups).
	NearestChunks(ctx context.Context, vector []float32, limit int, excludeNoteID string) ([]domain.ChunkMatch, error)
}

// ParamStore is the settings persistence collaborator behind the search
// parameter snapshot.
type ParamStore interface {
	// LoadParams returns the persisted overrides by parameter name.
	LoadParams(ctx context.Context) (map[string]float64, error)

	// SaveParam persists one override.
	SaveParam(ctx context.Context, name string, value float64) error
}
