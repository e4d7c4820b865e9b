package domain

// LexicalQuery describes one ranked full-text query.
type LexicalQuery struct {
	// Text is the raw query string.
	Text string

	// Limit caps the number of hits.
	Limit int

	// TitleWeight and BodyWeight are the lexical weight classes.
	// Title must outrank body (default ratio 3:1).
	TitleWeight float64
	BodyWeight  float64

	// SnippetTokens bounds the generated highlight window.
	SnippetTokens int
}

// LexicalHit is one full-text match.
type LexicalHit struct {
	// NoteID is the matched note's external ID.
	NoteID string

	// Rank is the lexical rank score, higher is better.
	Rank float64

	// Snippet is a highlight window centred on the matched tokens,
	// degrading to the leading words of the body.
	Snippet string
}

// ChunkMatch is one raw nearest-neighbour row, before per-note dedup.
type ChunkMatch struct {
	NoteID     string
	ChunkID    string
	Similarity float64
	Text       string
	Origin     ChunkOrigin
}

// SemanticHit is one deduplicated semantic match: the best-scoring chunk
// of a note.
type SemanticHit struct {
	NoteID     string
	Similarity float64
	Snippet    string
	Origin     ChunkOrigin
}

// SignalScores records each engine's raw contribution to a fused result,
// for "why did this match" observability.
type SignalScores struct {
	// LexicalRank is the 1-based rank in the full-text list (0 = absent).
	LexicalRank int

	// LexicalScore is the raw lexical rank score.
	LexicalScore float64

	// SemanticRank is the 1-based rank in the semantic list (0 = absent).
	SemanticRank int

	// Similarity is the best-chunk cosine similarity.
	Similarity float64
}

// FusedResult is one item of the hybrid result list. Ephemeral, never
// persisted.
type FusedResult struct {
	NoteID string

	// Score is the fused score normalised to [0,1]: the raw RRF sum
	// divided by the best score any note could reach (both engines,
	// rank one).
	Score float64

	Snippet string
	Signals SignalScores

	// Origins are the chunk origin tags that contributed semantically.
	Origins []ChunkOrigin
}

// SearchOutcome is the hybrid engine's answer for one query.
type SearchOutcome struct {
	Results []FusedResult

	// Language is the detected query language used for weighting.
	Language QueryLanguage

	// FellBack is true when the adaptive judge rejected the fused list
	// and the pure full-text ordering was served instead.
	FellBack bool
}

// IndexStatus summarises an index run for one note.
type IndexStatus string

// Index statuses.
const (
	IndexComplete IndexStatus = "complete"
	IndexPartial  IndexStatus = "partial"
	IndexEmpty    IndexStatus = "empty"
	IndexFailed   IndexStatus = "failed"
)

// IndexResult reports what an index run wrote.
type IndexResult struct {
	ChunksWritten int
	ChunksSkipped int
	Status        IndexStatus
}

// BulkIndexResult aggregates a multi-note index run.
type BulkIndexResult struct {
	NotesIndexed  int
	NotesFailed   int
	ChunksWritten int
}
