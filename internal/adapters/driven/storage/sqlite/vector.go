package sqlite

import (
	"context"
	"fmt"
	"sort"

	"github.com/parchment-labs/noteseek/internal/core/domain"
	"github.com/parchment-labs/noteseek/internal/core/ports/driven"
)

// vectorSearcher implements driven.VectorSearcher with an in-process
// cosine scan over the stored chunk vectors. At personal-corpus scale
// a full scan stays well under query latency budgets and avoids an
// extension dependency.
type vectorSearcher struct {
	store *Store
}

var _ driven.VectorSearcher = (*vectorSearcher)(nil)

// NearestChunks scans all embedded chunks and returns the limit rows
// most similar to the query vector, ordered by descending similarity.
// Chunks without an embedding never match.
func (v *vectorSearcher) NearestChunks(ctx context.Context, vector []float32, limit int, excludeNoteID string) ([]domain.ChunkMatch, error) {
	if len(vector) == 0 || limit <= 0 {
		return nil, nil
	}

	rows, err := v.store.db.QueryContext(ctx, `
		SELECT c.id, n.ext_id, c.origin, c.content, c.embedding
		FROM chunks c
		JOIN notes n ON n.id = c.note_id
		WHERE c.embedding IS NOT NULL AND length(c.embedding) > 0
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunk vectors: %w", err)
	}
	defer rows.Close()

	var matches []domain.ChunkMatch
	for rows.Next() {
		var m domain.ChunkMatch
		var origin string
		var blob []byte
		if err := rows.Scan(&m.ChunkID, &m.NoteID, &origin, &m.Text, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk vector: %w", err)
		}
		if excludeNoteID != "" && m.NoteID == excludeNoteID {
			continue
		}
		embedding := bytesToFloat32Slice(blob)
		if len(embedding) != len(vector) {
			continue
		}
		m.Origin = domain.ChunkOrigin(origin)
		m.Similarity = domain.CosineSimilarity(vector, embedding)
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunk vectors: %w", err)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].ChunkID < matches[j].ChunkID
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
