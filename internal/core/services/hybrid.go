package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/parchment-labs/noteseek/internal/core/domain"
	"github.com/parchment-labs/noteseek/internal/core/ports/driving"
	"github.com/parchment-labs/noteseek/internal/logger"
)

// Ensure HybridService implements the interface.
var _ driving.SearchService = (*HybridService)(nil)

// DefaultLimit is the result count when the caller does not set one.
const DefaultLimit = 10

// Judge deficiency weights. The confidence estimate is the sum of the
// weights of the failed checks; fallback triggers when it exceeds the
// configured threshold. Tunable policy, not a fixed algorithm.
const (
	judgeWeightResults  = 0.4
	judgeWeightAvgScore = 0.5
	judgeWeightCoverage = 0.2
)

// HybridService fuses the full-text and semantic engines into a single
// ranked list via weighted Reciprocal Rank Fusion, with language-aware
// weighting and an adaptive judge that falls back to the pure full-text
// ordering when the fused list looks untrustworthy.
type HybridService struct {
	fts    *FullTextService
	sem    *SemanticService
	params *ParamsService
}

// NewHybridService creates the hybrid engine.
func NewHybridService(fts *FullTextService, sem *SemanticService, params *ParamsService) *HybridService {
	return &HybridService{
		fts:    fts,
		sem:    sem,
		params: params,
	}
}

// Search runs both engines concurrently, fuses their rankings, and lets
// the adaptive judge accept the fused list or swap in the full-text
// ordering. A failed engine degrades to an empty contribution; a hard
// error is returned only when the query is invalid or both engines fail.
func (s *HybridService) Search(ctx context.Context, query string, limit int) (*domain.SearchOutcome, error) {
	logger.Section("Hybrid Search")

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidQuery
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	// One consistent snapshot per query; a concurrent reload does not
	// change weights mid-fusion.
	p := s.params.Snapshot()
	lang := domain.DetectLanguage(query)
	logger.Debug("Query %q: language=%s limit=%d", query, lang, limit)

	candidates := limit * p.CandidateFactor
	if candidates < limit {
		candidates = limit
	}

	var (
		ftsHits []domain.LexicalHit
		semHits []domain.SemanticHit
		ftsErr  error
		semErr  error
	)

	// The engines are independent read-only operations; dispatch both
	// and bound each with its own timeout so one slow branch cannot
	// cancel the other.
	var g errgroup.Group
	g.Go(func() error {
		branchCtx, cancel := context.WithTimeout(ctx, p.EngineTimeout)
		defer cancel()
		ftsHits, ftsErr = s.fts.Search(branchCtx, query, candidates, p)
		return nil
	})
	g.Go(func() error {
		branchCtx, cancel := context.WithTimeout(ctx, p.EngineTimeout)
		defer cancel()
		semHits, semErr = s.sem.Search(branchCtx, query, candidates, p)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ftsErr != nil && semErr != nil {
		logger.Warn("Both engines failed: fts=%v semantic=%v", ftsErr, semErr)
		return nil, fmt.Errorf("hybrid search: fts=%w, semantic=%w", ftsErr, semErr)
	}
	if ftsErr != nil {
		logger.Warn("Full-text engine degraded to empty: %v", ftsErr)
		ftsHits = nil
	}
	if semErr != nil {
		logger.Warn("Semantic engine degraded to empty: %v", semErr)
		semHits = nil
	}

	fused := fuse(ftsHits, semHits, p, lang)
	if len(fused) > limit {
		fused = fused[:limit]
	}

	outcome := &domain.SearchOutcome{
		Results:  fused,
		Language: lang,
	}

	if p.AdaptiveEnabled && ftsErr == nil && s.judgeRejects(query, fused, p, lang) {
		logger.Info("Adaptive judge rejected fused list, serving full-text ordering")
		outcome.Results = fullTextOnly(ftsHits, limit)
		outcome.FellBack = true
	}

	logger.Debug("Hybrid search: %d results (fellBack=%t)", len(outcome.Results), outcome.FellBack)
	return outcome, nil
}

// Related delegates to the semantic engine's centroid lookup.
func (s *HybridService) Related(ctx context.Context, noteID string, limit int) ([]domain.SemanticHit, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return s.sem.Related(ctx, noteID, limit, s.params.Snapshot())
}

// fuse merges the two ranked lists with weighted RRF. A document at
// 1-based rank r in an engine's list contributes weight/(k+r); absence
// contributes exactly zero. Scores are normalised so that a note at rank
// one in both lists scores 1.
func fuse(
	ftsHits []domain.LexicalHit,
	semHits []domain.SemanticHit,
	p domain.SearchParams,
	lang domain.QueryLanguage,
) []domain.FusedResult {
	wFTS, wSem := p.FusionWeights(lang)
	k := p.RRFK
	if k <= 0 {
		k = 60
	}
	maxRaw := (wFTS + wSem) / (k + 1)

	byNote := make(map[string]*domain.FusedResult)
	get := func(noteID string) *domain.FusedResult {
		r, ok := byNote[noteID]
		if !ok {
			r = &domain.FusedResult{NoteID: noteID}
			byNote[noteID] = r
		}
		return r
	}

	for i, hit := range ftsHits {
		rank := i + 1
		r := get(hit.NoteID)
		r.Score += wFTS / (k + float64(rank))
		r.Signals.LexicalRank = rank
		r.Signals.LexicalScore = hit.Rank
		if r.Snippet == "" {
			r.Snippet = hit.Snippet
		}
	}
	for i, hit := range semHits {
		rank := i + 1
		r := get(hit.NoteID)
		r.Score += wSem / (k + float64(rank))
		r.Signals.SemanticRank = rank
		r.Signals.Similarity = hit.Similarity
		if r.Snippet == "" {
			r.Snippet = hit.Snippet
		}
		r.Origins = append(r.Origins, hit.Origin)
	}

	results := make([]domain.FusedResult, 0, len(byNote))
	for _, r := range byNote {
		r.Score /= maxRaw
		results = append(results, *r)
	}

	// Deterministic order: fused score, then the raw score of the
	// higher-weighted engine (full-text in every weight pair), then id.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Signals.LexicalScore != results[j].Signals.LexicalScore {
			return results[i].Signals.LexicalScore > results[j].Signals.LexicalScore
		}
		return results[i].NoteID < results[j].NoteID
	})

	return results
}

// judgeRejects estimates whether the fused list is trustworthy. Each
// failed check contributes its weight to a confidence estimate; the
// fused list is rejected when the estimate exceeds the threshold.
func (s *HybridService) judgeRejects(
	query string, results []domain.FusedResult, p domain.SearchParams, lang domain.QueryLanguage,
) bool {
	topK := p.JudgeTopK
	if topK <= 0 || topK > len(results) {
		topK = len(results)
	}

	confidence := 0.0

	if len(results) < p.JudgeMinResults {
		confidence += judgeWeightResults
	}

	if topK > 0 {
		sum := 0.0
		for _, r := range results[:topK] {
			sum += r.Score
		}
		if sum/float64(topK) < p.JudgeMinScore(lang) {
			confidence += judgeWeightAvgScore
		}
	} else {
		confidence += judgeWeightAvgScore
	}

	if termCoverage(query, results[:topK]) < p.JudgeMinTermCoverage {
		confidence += judgeWeightCoverage
	}

	logger.Debug("Judge: confidence=%.2f threshold=%.2f", confidence, p.JudgeConfidenceThreshold)
	return confidence > p.JudgeConfidenceThreshold
}

// termCoverage is the fraction of query tokens that appear in the top
// results' snippet text.
func termCoverage(query string, results []domain.FusedResult) float64 {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return 1
	}

	var corpus strings.Builder
	for i := range results {
		corpus.WriteString(strings.ToLower(results[i].Snippet))
		corpus.WriteByte(' ')
	}
	text := corpus.String()

	covered := 0
	for _, tok := range tokens {
		if strings.Contains(text, tok) {
			covered++
		}
	}
	return float64(covered) / float64(len(tokens))
}

// fullTextOnly converts the lexical hits into the fallback result list.
// Rank scores are squashed to [0,1) with |x|/(1+|x|).
func fullTextOnly(ftsHits []domain.LexicalHit, limit int) []domain.FusedResult {
	if len(ftsHits) > limit {
		ftsHits = ftsHits[:limit]
	}
	results := make([]domain.FusedResult, 0, len(ftsHits))
	for i, hit := range ftsHits {
		score := hit.Rank
		if score < 0 {
			score = -score
		}
		results = append(results, domain.FusedResult{
			NoteID:  hit.NoteID,
			Score:   score / (1 + score),
			Snippet: hit.Snippet,
			Signals: domain.SignalScores{
				LexicalRank:  i + 1,
				LexicalScore: hit.Rank,
			},
		})
	}
	return results
}
