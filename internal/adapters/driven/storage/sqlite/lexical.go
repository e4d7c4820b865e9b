package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/parchment-labs/noteseek/internal/core/domain"
	"github.com/parchment-labs/noteseek/internal/core/ports/driven"
)

// lexicalIndex implements driven.LexicalIndex on top of the notes_fts
// FTS5 table.
type lexicalIndex struct {
	store *Store
}

var _ driven.LexicalIndex = (*lexicalIndex)(nil)

// snippetEllipsis marks truncated snippet edges.
const snippetEllipsis = "…"

// SearchLexical runs a ranked MATCH query. bm25 returns more-negative
// values for better matches, so the rank is negated before it leaves
// the adapter: callers always see higher-is-better.
func (l *lexicalIndex) SearchLexical(ctx context.Context, q domain.LexicalQuery) ([]domain.LexicalHit, error) {
	match := buildMatchQuery(q.Text)
	if match == "" {
		return nil, nil
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	snippetTokens := q.SnippetTokens
	if snippetTokens <= 0 {
		snippetTokens = 32
	}

	rows, err := l.store.db.QueryContext(ctx, `
		SELECT n.ext_id,
		       -bm25(notes_fts, ?, ?),
		       snippet(notes_fts, 1, '', '', ?, ?),
		       n.body
		FROM notes_fts
		JOIN notes n ON n.id = notes_fts.rowid
		WHERE notes_fts MATCH ?
		ORDER BY bm25(notes_fts, ?, ?)
		LIMIT ?
	`, q.TitleWeight, q.BodyWeight, snippetEllipsis, snippetTokens,
		match, q.TitleWeight, q.BodyWeight, limit)
	if err != nil {
		return nil, fmt.Errorf("full-text query: %w", err)
	}
	defer rows.Close()

	var hits []domain.LexicalHit //nolint:prealloc // size unknown from query
	for rows.Next() {
		var hit domain.LexicalHit
		var body string
		if err := rows.Scan(&hit.NoteID, &hit.Rank, &hit.Snippet, &body); err != nil {
			return nil, fmt.Errorf("scanning full-text hit: %w", err)
		}
		// Title-only matches leave the body snippet empty; degrade to
		// the leading words of the body.
		if strings.TrimSpace(hit.Snippet) == "" || strings.TrimSpace(hit.Snippet) == snippetEllipsis {
			hit.Snippet = leadingWords(body, snippetTokens)
		}
		hits = append(hits, hit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating full-text hits: %w", err)
	}
	return hits, nil
}

// buildMatchQuery turns free text into a safe FTS5 MATCH expression.
// Each token is double-quoted so operators and punctuation in user
// input cannot change the query semantics; tokens are OR-joined for
// recall, with bm25 ranking handling precision.
func buildMatchQuery(text string) string {
	fields := strings.Fields(text)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, "")
		if f == "" {
			continue
		}
		terms = append(terms, `"`+f+`"`)
	}
	return strings.Join(terms, " OR ")
}

// leadingWords returns up to n leading whitespace-separated words of s.
func leadingWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	if len(fields) <= n {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[:n], " ") + snippetEllipsis
}
