package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/parchment-labs/noteseek/internal/core/domain"
	"github.com/parchment-labs/noteseek/internal/core/ports/driven"
	"github.com/parchment-labs/noteseek/internal/logger"
)

// SemanticService runs nearest-neighbour retrieval over chunk vectors,
// collapsing multiple matching chunks of the same note into one
// best-chunk-per-note hit.
type SemanticService struct {
	vectors  driven.VectorSearcher
	chunks   driven.ChunkStore
	embedder driven.EmbeddingService
}

// NewSemanticService creates the semantic engine.
func NewSemanticService(
	vectors driven.VectorSearcher,
	chunks driven.ChunkStore,
	embedder driven.EmbeddingService,
) *SemanticService {
	return &SemanticService{
		vectors:  vectors,
		chunks:   chunks,
		embedder: embedder,
	}
}

// Search embeds the query text and runs SearchVector.
func (s *SemanticService) Search(
	ctx context.Context, query string, limit int, p domain.SearchParams,
) ([]domain.SemanticHit, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return s.SearchVector(ctx, vector, limit, p)
}

// SearchVector finds the notes nearest to the query vector. Candidate
// rows are over-fetched before deduplication because dedup can only
// shrink the set; hits below MinSimilarity are dropped.
func (s *SemanticService) SearchVector(
	ctx context.Context, vector []float32, limit int, p domain.SearchParams,
) ([]domain.SemanticHit, error) {
	return s.nearest(ctx, vector, limit, "", p)
}

// Related finds notes similar to the given note: the centroid of its
// chunk vectors is queried against all other notes' chunks with the same
// dedupe-keep-max and threshold policy.
func (s *SemanticService) Related(
	ctx context.Context, noteID string, limit int, p domain.SearchParams,
) ([]domain.SemanticHit, error) {
	chunks, err := s.chunks.GetChunks(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("load chunks for %s: %w", noteID, err)
	}

	vectors := make([][]float32, 0, len(chunks))
	for i := range chunks {
		if len(chunks[i].Embedding) > 0 {
			vectors = append(vectors, chunks[i].Embedding)
		}
	}
	centroid := domain.Centroid(vectors)
	if centroid == nil {
		logger.Debug("Related: note %s has no embedded chunks", noteID)
		return []domain.SemanticHit{}, nil
	}

	return s.nearest(ctx, centroid, limit, noteID, p)
}

func (s *SemanticService) nearest(
	ctx context.Context, vector []float32, limit int, excludeNoteID string, p domain.SearchParams,
) ([]domain.SemanticHit, error) {
	if limit <= 0 {
		return []domain.SemanticHit{}, nil
	}

	overfetch := p.OverfetchFactor
	if overfetch < 1 {
		overfetch = 1
	}
	matches, err := s.vectors.NearestChunks(ctx, vector, limit*overfetch, excludeNoteID)
	if err != nil {
		logger.Warn("Vector query failed: err=%v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageQueryFailed, err)
	}

	// Dedupe by note, keep the best-scoring chunk.
	best := make(map[string]domain.ChunkMatch, len(matches))
	for _, m := range matches {
		if cur, ok := best[m.NoteID]; !ok || m.Similarity > cur.Similarity {
			best[m.NoteID] = m
		}
	}

	hits := make([]domain.SemanticHit, 0, len(best))
	for _, m := range best {
		if m.Similarity < p.MinSimilarity {
			continue
		}
		hits = append(hits, domain.SemanticHit{
			NoteID:     m.NoteID,
			Similarity: m.Similarity,
			Snippet:    leadingWords(m.Text, p.SnippetMaxWords),
			Origin:     m.Origin,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].NoteID < hits[j].NoteID
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}

	logger.Debug("Semantic search: %d hits after dedupe (from %d rows)", len(hits), len(matches))
	return hits, nil
}

// leadingWords returns the first n whitespace-separated words of text.
func leadingWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "…"
}
