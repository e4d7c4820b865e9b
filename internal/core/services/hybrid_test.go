package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parchment-labs/noteseek/internal/core/domain"
)

// buildHybrid wires a hybrid engine over mock collaborators.
func buildHybrid(
	t *testing.T,
	overrides map[string]float64,
	index *mockLexicalIndex,
	vectors *mockVectorSearcher,
	embedder *stubEmbedder,
) *HybridService {
	t.Helper()
	params := fixedParams(t, overrides)
	fts := NewFullTextService(index)
	sem := NewSemanticService(vectors, newMockChunkStore(), embedder)
	return NewHybridService(fts, sem, params)
}

// noJudge disables the adaptive judge so fusion behaviour can be
// asserted in isolation.
var noJudge = map[string]float64{"adaptive_enabled": 0}

func TestHybridService_Search_Fusion(t *testing.T) {
	t.Run("empty query rejected before dispatch", func(t *testing.T) {
		index := &mockLexicalIndex{}
		vectors := &mockVectorSearcher{}
		svc := buildHybrid(t, noJudge, index, vectors, &stubEmbedder{})

		_, err := svc.Search(context.Background(), "  \t ", 10)
		assert.ErrorIs(t, err, domain.ErrInvalidQuery)
		assert.Zero(t, index.callCount())
		assert.Zero(t, vectors.callTotal)
	})

	t.Run("default weights favour full-text", func(t *testing.T) {
		index := &mockLexicalIndex{hits: []domain.LexicalHit{
			{NoteID: "lex", Rank: 2.0, Snippet: "lexical snippet"},
		}}
		vectors := &mockVectorSearcher{matches: []domain.ChunkMatch{
			{NoteID: "sem", Similarity: 0.8, Text: "semantic text"},
		}}
		svc := buildHybrid(t, noJudge, index, vectors, &stubEmbedder{})

		outcome, err := svc.Search(context.Background(), "some query", 10)
		require.NoError(t, err)
		require.Len(t, outcome.Results, 2)
		assert.Equal(t, domain.LanguageDefault, outcome.Language)

		// Rank one in a single engine scores exactly that engine's
		// weight after normalisation.
		assert.Equal(t, "lex", outcome.Results[0].NoteID)
		assert.InDelta(t, 0.6, outcome.Results[0].Score, 1e-9)
		assert.Equal(t, "sem", outcome.Results[1].NoteID)
		assert.InDelta(t, 0.4, outcome.Results[1].Score, 1e-9)
	})

	t.Run("korean query shifts weights to full-text", func(t *testing.T) {
		index := &mockLexicalIndex{hits: []domain.LexicalHit{
			{NoteID: "lex", Rank: 2.0, Snippet: "실험 결과 요약"},
		}}
		vectors := &mockVectorSearcher{matches: []domain.ChunkMatch{
			{NoteID: "sem", Similarity: 0.8, Text: "관련 내용"},
		}}
		svc := buildHybrid(t, noJudge, index, vectors, &stubEmbedder{})

		outcome, err := svc.Search(context.Background(), "실험 결과", 10)
		require.NoError(t, err)
		require.Len(t, outcome.Results, 2)
		assert.Equal(t, domain.LanguageKorean, outcome.Language)
		assert.InDelta(t, 0.7, outcome.Results[0].Score, 1e-9)
		assert.InDelta(t, 0.3, outcome.Results[1].Score, 1e-9)
	})

	t.Run("rank one in both engines scores one", func(t *testing.T) {
		index := &mockLexicalIndex{hits: []domain.LexicalHit{
			{NoteID: "both", Rank: 3.0, Snippet: "snippet"},
		}}
		vectors := &mockVectorSearcher{matches: []domain.ChunkMatch{
			{NoteID: "both", Similarity: 0.9, Text: "text"},
		}}
		svc := buildHybrid(t, noJudge, index, vectors, &stubEmbedder{})

		outcome, err := svc.Search(context.Background(), "some query", 10)
		require.NoError(t, err)
		require.Len(t, outcome.Results, 1)
		assert.InDelta(t, 1.0, outcome.Results[0].Score, 1e-9)
		assert.Equal(t, 1, outcome.Results[0].Signals.LexicalRank)
		assert.Equal(t, 1, outcome.Results[0].Signals.SemanticRank)
		assert.Equal(t, 0.9, outcome.Results[0].Signals.Similarity)
	})

	t.Run("scores non-increasing and truncated to limit", func(t *testing.T) {
		index := &mockLexicalIndex{hits: []domain.LexicalHit{
			{NoteID: "a", Rank: 5, Snippet: "sa"},
			{NoteID: "b", Rank: 4, Snippet: "sb"},
			{NoteID: "c", Rank: 3, Snippet: "sc"},
		}}
		vectors := &mockVectorSearcher{matches: []domain.ChunkMatch{
			{NoteID: "c", Similarity: 0.9, Text: "tc"},
			{NoteID: "d", Similarity: 0.8, Text: "td"},
		}}
		svc := buildHybrid(t, noJudge, index, vectors, &stubEmbedder{})

		outcome, err := svc.Search(context.Background(), "some query", 2)
		require.NoError(t, err)
		require.Len(t, outcome.Results, 2)
		assert.GreaterOrEqual(t, outcome.Results[0].Score, outcome.Results[1].Score)
		// c is in both lists, so it must lead.
		assert.Equal(t, "c", outcome.Results[0].NoteID)
	})

	t.Run("semantic failure degrades to full-text only", func(t *testing.T) {
		index := &mockLexicalIndex{hits: []domain.LexicalHit{
			{NoteID: "lex", Rank: 2.0, Snippet: "snippet"},
		}}
		vectors := &mockVectorSearcher{err: errors.New("vector scan broken")}
		svc := buildHybrid(t, noJudge, index, vectors, &stubEmbedder{})

		outcome, err := svc.Search(context.Background(), "some query", 10)
		require.NoError(t, err)
		require.Len(t, outcome.Results, 1)
		assert.Equal(t, "lex", outcome.Results[0].NoteID)
	})

	t.Run("full-text failure degrades to semantic only", func(t *testing.T) {
		index := &mockLexicalIndex{err: errors.New("fts broken")}
		vectors := &mockVectorSearcher{matches: []domain.ChunkMatch{
			{NoteID: "sem", Similarity: 0.8, Text: "text"},
		}}
		svc := buildHybrid(t, noJudge, index, vectors, &stubEmbedder{})

		outcome, err := svc.Search(context.Background(), "some query", 10)
		require.NoError(t, err)
		require.Len(t, outcome.Results, 1)
		assert.Equal(t, "sem", outcome.Results[0].NoteID)
		assert.False(t, outcome.FellBack)
	})

	t.Run("both engines failing is an error", func(t *testing.T) {
		index := &mockLexicalIndex{err: errors.New("fts broken")}
		vectors := &mockVectorSearcher{}
		svc := buildHybrid(t, noJudge, index, vectors,
			&stubEmbedder{err: domain.ErrEmbeddingUnavailable})

		_, err := svc.Search(context.Background(), "some query", 10)
		assert.Error(t, err)
	})
}

func TestHybridService_Search_AdaptiveJudge(t *testing.T) {
	// Three hits whose snippets cover the query terms, so only the
	// score checks can fail.
	coveringHits := []domain.LexicalHit{
		{NoteID: "a", Rank: 3.0, Snippet: "alpha beta gamma"},
		{NoteID: "b", Rank: 2.0, Snippet: "alpha beta delta"},
		{NoteID: "c", Rank: 1.0, Snippet: "alpha beta epsilon"},
	}

	t.Run("accepts trustworthy fused list", func(t *testing.T) {
		index := &mockLexicalIndex{hits: coveringHits}
		vectors := &mockVectorSearcher{matches: []domain.ChunkMatch{
			{NoteID: "b", Similarity: 0.8, Text: "alpha beta"},
		}}
		svc := buildHybrid(t, nil, index, vectors, &stubEmbedder{})

		outcome, err := svc.Search(context.Background(), "alpha beta", 10)
		require.NoError(t, err)
		assert.False(t, outcome.FellBack)
		// b leads: present in both engines.
		assert.Equal(t, "b", outcome.Results[0].NoteID)
	})

	t.Run("low average score triggers full-text fallback", func(t *testing.T) {
		index := &mockLexicalIndex{hits: coveringHits}
		vectors := &mockVectorSearcher{matches: []domain.ChunkMatch{
			{NoteID: "b", Similarity: 0.8, Text: "alpha beta"},
		}}
		// An unreachable average forces the deficiency past the
		// confidence threshold on the score check alone.
		svc := buildHybrid(t, map[string]float64{"judge_min_avg_score": 0.99},
			index, vectors, &stubEmbedder{})

		outcome, err := svc.Search(context.Background(), "alpha beta", 10)
		require.NoError(t, err)
		assert.True(t, outcome.FellBack)

		// Fallback list is the pure full-text ordering: a, b, c, with
		// squashed rank scores and no semantic signals.
		require.Len(t, outcome.Results, 3)
		assert.Equal(t, "a", outcome.Results[0].NoteID)
		assert.Equal(t, "b", outcome.Results[1].NoteID)
		assert.Equal(t, "c", outcome.Results[2].NoteID)
		assert.InDelta(t, 3.0/4.0, outcome.Results[0].Score, 1e-9)
		assert.InDelta(t, 2.0/3.0, outcome.Results[1].Score, 1e-9)
		assert.Zero(t, outcome.Results[0].Signals.SemanticRank)
	})

	t.Run("judge disabled never falls back", func(t *testing.T) {
		index := &mockLexicalIndex{hits: coveringHits}
		vectors := &mockVectorSearcher{}
		svc := buildHybrid(t, map[string]float64{
			"adaptive_enabled":    0,
			"judge_min_avg_score": 0.99,
		}, index, vectors, &stubEmbedder{})

		outcome, err := svc.Search(context.Background(), "alpha beta", 10)
		require.NoError(t, err)
		assert.False(t, outcome.FellBack)
	})

	t.Run("no fallback when full-text itself failed", func(t *testing.T) {
		index := &mockLexicalIndex{err: errors.New("fts broken")}
		vectors := &mockVectorSearcher{matches: []domain.ChunkMatch{
			{NoteID: "sem", Similarity: 0.8, Text: "unrelated"},
		}}
		svc := buildHybrid(t, map[string]float64{"judge_min_avg_score": 0.99},
			index, vectors, &stubEmbedder{})

		outcome, err := svc.Search(context.Background(), "alpha beta", 10)
		require.NoError(t, err)
		assert.False(t, outcome.FellBack)
		require.Len(t, outcome.Results, 1)
	})
}

func TestHybridService_Related(t *testing.T) {
	chunks := newMockChunkStore()
	chunks.generations["src"] = []domain.Chunk{
		{ID: "c1", NoteID: "src", Seq: 0, Text: "x", Origin: domain.OriginContent, Embedding: []float32{1, 0}},
	}
	vectors := &mockVectorSearcher{matches: []domain.ChunkMatch{
		{NoteID: "other", Similarity: 0.7, Text: "related"},
	}}
	params := fixedParams(t, nil)
	sem := NewSemanticService(vectors, chunks, &stubEmbedder{})
	svc := NewHybridService(NewFullTextService(&mockLexicalIndex{}), sem, params)

	hits, err := svc.Related(context.Background(), "src", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "other", hits[0].NoteID)
}
