package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/parchment-labs/noteseek/internal/core/domain"
	"github.com/parchment-labs/noteseek/internal/core/ports/driven"
	"github.com/parchment-labs/noteseek/internal/logger"
)

// FullTextService runs ranked lexical queries against the weighted
// title+body index. Title is weighted higher than body; the ratio comes
// from the search parameters.
type FullTextService struct {
	index driven.LexicalIndex
}

// NewFullTextService creates the lexical engine.
func NewFullTextService(index driven.LexicalIndex) *FullTextService {
	return &FullTextService{index: index}
}

// Search returns ranked hits with snippets. Zero matches is an empty
// slice, not an error.
func (s *FullTextService) Search(
	ctx context.Context, query string, limit int, p domain.SearchParams,
) ([]domain.LexicalHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidQuery
	}
	if limit <= 0 {
		return []domain.LexicalHit{}, nil
	}

	hits, err := s.index.SearchLexical(ctx, domain.LexicalQuery{
		Text:          query,
		Limit:         limit,
		TitleWeight:   p.TitleWeight,
		BodyWeight:    p.BodyWeight,
		SnippetTokens: p.SnippetMaxWords,
	})
	if err != nil {
		logger.Warn("Lexical query failed: query=%q err=%v", query, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageQueryFailed, err)
	}

	logger.Debug("Lexical search: %d hits for %q", len(hits), query)
	return hits, nil
}
