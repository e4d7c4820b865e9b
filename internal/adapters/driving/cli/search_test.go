package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parchment-labs/noteseek/internal/core/domain"
)

// mockSearchService serves a canned outcome.
type mockSearchService struct {
	outcome *domain.SearchOutcome
	err     error
	queries []string
	limits  []int
}

func (m *mockSearchService) Search(_ context.Context, query string, limit int) (*domain.SearchOutcome, error) {
	m.queries = append(m.queries, query)
	m.limits = append(m.limits, limit)
	if m.err != nil {
		return nil, m.err
	}
	return m.outcome, nil
}

func (m *mockSearchService) Related(context.Context, string, int) ([]domain.SemanticHit, error) {
	return []domain.SemanticHit{{NoteID: "related-1", Similarity: 0.7, Snippet: "nearby"}}, nil
}

// mockIndexService accepts everything.
type mockIndexService struct{}

func (m *mockIndexService) IndexNote(context.Context, *domain.Note) (domain.IndexResult, error) {
	return domain.IndexResult{ChunksWritten: 1, Status: domain.IndexComplete}, nil
}

func (m *mockIndexService) IndexAll(_ context.Context, ids []string) (domain.BulkIndexResult, error) {
	return domain.BulkIndexResult{NotesIndexed: len(ids), ChunksWritten: len(ids)}, nil
}

// setupTestServices swaps the package services for mocks. The non-nil
// pair makes initServices a no-op, so commands never touch a real store.
func setupTestServices(search *mockSearchService) func() {
	oldSearch, oldIndex := searchService, indexService
	searchService = search
	indexService = &mockIndexService{}
	return func() {
		searchService = oldSearch
		indexService = oldIndex
	}
}

func defaultOutcome() *domain.SearchOutcome {
	return &domain.SearchOutcome{
		Results: []domain.FusedResult{
			{NoteID: "note-1", Score: 0.82, Snippet: "matched text here"},
			{NoteID: "note-2", Score: 0.41, Snippet: "weaker match"},
		},
		Language: domain.LanguageDefault,
	}
}

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)
}

func TestSearchCmd_PrintsResults(t *testing.T) {
	mock := &mockSearchService{outcome: defaultOutcome()}
	cleanup := setupTestServices(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "test query"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Results:")
	assert.Contains(t, buf.String(), "note-1")
	assert.Contains(t, buf.String(), "matched text here")
	require.Len(t, mock.queries, 1)
	assert.Equal(t, "test query", mock.queries[0])
}

func TestSearchCmd_LimitFlagForwarded(t *testing.T) {
	mock := &mockSearchService{outcome: defaultOutcome()}
	cleanup := setupTestServices(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "-n", "3", "test query"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchLimit = 10
	}()

	require.NoError(t, rootCmd.Execute())
	require.Len(t, mock.limits, 1)
	assert.Equal(t, 3, mock.limits[0])
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	mock := &mockSearchService{outcome: defaultOutcome()}
	cleanup := setupTestServices(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "--json", "test query"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchJSON = false
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), `"NoteID"`)
	assert.Contains(t, buf.String(), `"note-1"`)
}

func TestSearchCmd_FallbackNoted(t *testing.T) {
	outcome := defaultOutcome()
	outcome.FellBack = true
	cleanup := setupTestServices(&mockSearchService{outcome: outcome})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "test query"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "full-text ordering")
}

func TestSearchCmd_EmptyResults(t *testing.T) {
	cleanup := setupTestServices(&mockSearchService{outcome: &domain.SearchOutcome{}})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "test query"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "No results found.")
}

func TestSearchCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices(&mockSearchService{err: domain.ErrInvalidQuery})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search", "   "})
	defer rootCmd.SetArgs(nil)

	assert.Error(t, rootCmd.Execute())
}

func TestRelatedCmd_PrintsHits(t *testing.T) {
	cleanup := setupTestServices(&mockSearchService{outcome: defaultOutcome()})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"related", "note-1"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "related-1")
	assert.Contains(t, buf.String(), "nearby")
}
