package domain

import "time"

// SearchParams is the live-tunable configuration consumed by every
// retrieval component. Persisted overrides are merged over the hard-wired
// defaults by name; each query captures one consistent snapshot at start.
type SearchParams struct {
	// Fusion weights per detected language.
	FTSWeight            float64
	SemanticWeight       float64
	FTSWeightKorean      float64
	SemanticWeightKorean float64

	// RRFK is the reciprocal rank fusion smoothing constant.
	RRFK float64

	// Lexical weight classes: title must outrank body.
	TitleWeight float64
	BodyWeight  float64

	// MinSimilarity filters semantic hits below this cosine similarity.
	MinSimilarity float64

	// OverfetchFactor multiplies the semantic candidate row count before
	// per-note deduplication (dedup can only shrink the set).
	OverfetchFactor int

	// CandidateFactor multiplies the caller limit for each engine's
	// candidate list ahead of fusion.
	CandidateFactor int

	// Snippet word window.
	SnippetMinWords int
	SnippetMaxWords int

	// Chunking and index budget.
	ChunkMaxChars    int
	MaxChunksPerNote int

	// EngineTimeout bounds each retrieval engine within a query.
	EngineTimeout time.Duration

	// Adaptive judge.
	AdaptiveEnabled          bool
	JudgeTopK                int
	JudgeMinResults          int
	JudgeMinAvgScore         float64
	JudgeMinAvgScoreKorean   float64
	JudgeMinTermCoverage     float64
	JudgeConfidenceThreshold float64
}

// DefaultSearchParams returns the hard-wired defaults.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		FTSWeight:            0.6,
		SemanticWeight:       0.4,
		FTSWeightKorean:      0.7,
		SemanticWeightKorean: 0.3,

		RRFK: 60,

		TitleWeight: 3.0,
		BodyWeight:  1.0,

		MinSimilarity:   0.3,
		OverfetchFactor: 4,
		CandidateFactor: 3,

		SnippetMinWords: 15,
		SnippetMaxWords: 35,

		ChunkMaxChars:    1000,
		MaxChunksPerNote: 32,

		EngineTimeout: 3 * time.Second,

		AdaptiveEnabled:          true,
		JudgeTopK:                5,
		JudgeMinResults:          3,
		JudgeMinAvgScore:         0.15,
		JudgeMinAvgScoreKorean:   0.25,
		JudgeMinTermCoverage:     0.3,
		JudgeConfidenceThreshold: 0.45,
	}
}

// FusionWeights returns the (fts, semantic) weight pair for a language.
func (p SearchParams) FusionWeights(lang QueryLanguage) (fts, semantic float64) {
	if lang == LanguageKorean {
		return p.FTSWeightKorean, p.SemanticWeightKorean
	}
	return p.FTSWeight, p.SemanticWeight
}

// JudgeMinScore returns the minimum acceptable top-k average score
// for a language. Korean queries get the stricter minimum.
func (p SearchParams) JudgeMinScore(lang QueryLanguage) float64 {
	if lang == LanguageKorean {
		return p.JudgeMinAvgScoreKorean
	}
	return p.JudgeMinAvgScore
}

// Values returns the snapshot keyed by persisted name, the inverse of
// Apply. Booleans map to 0/1 and durations to milliseconds.
func (p SearchParams) Values() map[string]float64 {
	adaptive := 0.0
	if p.AdaptiveEnabled {
		adaptive = 1
	}
	return map[string]float64{
		"fts_weight":                 p.FTSWeight,
		"semantic_weight":            p.SemanticWeight,
		"fts_weight_korean":          p.FTSWeightKorean,
		"semantic_weight_korean":     p.SemanticWeightKorean,
		"rrf_k":                      p.RRFK,
		"title_weight":               p.TitleWeight,
		"body_weight":                p.BodyWeight,
		"min_similarity":             p.MinSimilarity,
		"overfetch_factor":           float64(p.OverfetchFactor),
		"candidate_factor":           float64(p.CandidateFactor),
		"snippet_min_words":          float64(p.SnippetMinWords),
		"snippet_max_words":          float64(p.SnippetMaxWords),
		"chunk_max_chars":            float64(p.ChunkMaxChars),
		"max_chunks_per_note":        float64(p.MaxChunksPerNote),
		"engine_timeout_ms":          float64(p.EngineTimeout / time.Millisecond),
		"adaptive_enabled":           adaptive,
		"judge_top_k":                float64(p.JudgeTopK),
		"judge_min_results":          float64(p.JudgeMinResults),
		"judge_min_avg_score":        p.JudgeMinAvgScore,
		"judge_min_avg_score_korean": p.JudgeMinAvgScoreKorean,
		"judge_min_term_coverage":    p.JudgeMinTermCoverage,
		"judge_confidence_threshold": p.JudgeConfidenceThreshold,
	}
}

// Apply sets a parameter by its persisted name. Returns false for an
// unknown name so callers can warn without failing the whole reload.
func (p *SearchParams) Apply(name string, value float64) bool {
	switch name {
	case "fts_weight":
		p.FTSWeight = value
	case "semantic_weight":
		p.SemanticWeight = value
	case "fts_weight_korean":
		p.FTSWeightKorean = value
	case "semantic_weight_korean":
		p.SemanticWeightKorean = value
	case "rrf_k":
		p.RRFK = value
	case "title_weight":
		p.TitleWeight = value
	case "body_weight":
		p.BodyWeight = value
	case "min_similarity":
		p.MinSimilarity = value
	case "overfetch_factor":
		p.OverfetchFactor = int(value)
	case "candidate_factor":
		p.CandidateFactor = int(value)
	case "snippet_min_words":
		p.SnippetMinWords = int(value)
	case "snippet_max_words":
		p.SnippetMaxWords = int(value)
	case "chunk_max_chars":
		p.ChunkMaxChars = int(value)
	case "max_chunks_per_note":
		p.MaxChunksPerNote = int(value)
	case "engine_timeout_ms":
		p.EngineTimeout = time.Duration(value) * time.Millisecond
	case "adaptive_enabled":
		p.AdaptiveEnabled = value != 0
	case "judge_top_k":
		p.JudgeTopK = int(value)
	case "judge_min_results":
		p.JudgeMinResults = int(value)
	case "judge_min_avg_score":
		p.JudgeMinAvgScore = value
	case "judge_min_avg_score_korean":
		p.JudgeMinAvgScoreKorean = value
	case "judge_min_term_coverage":
		p.JudgeMinTermCoverage = value
	case "judge_confidence_threshold":
		p.JudgeConfidenceThreshold = value
	default:
		return false
	}
	return true
}
