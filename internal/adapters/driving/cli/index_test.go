package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parchment-labs/noteseek/internal/core/domain"
	"github.com/parchment-labs/noteseek/internal/core/services"
)

// tunableParamStore lets a test change overrides under a running command.
type tunableParamStore struct {
	mu        sync.Mutex
	overrides map[string]float64
}

func (s *tunableParamStore) LoadParams(context.Context) (map[string]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]float64, len(s.overrides))
	for k, v := range s.overrides {
		out[k] = v
	}
	return out, nil
}

func (s *tunableParamStore) SaveParam(_ context.Context, name string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.overrides == nil {
		s.overrides = make(map[string]float64)
	}
	s.overrides[name] = value
	return nil
}

// tuningIndexService plays the part of a bulk run during which another
// process tunes a parameter: it writes the override, touches the watched
// store file, and waits for the live snapshot to pick the change up.
type tuningIndexService struct {
	store *tunableParamStore
	path  string
	tuned bool
}

func (m *tuningIndexService) IndexNote(context.Context, *domain.Note) (domain.IndexResult, error) {
	return domain.IndexResult{ChunksWritten: 1, Status: domain.IndexComplete}, nil
}

func (m *tuningIndexService) IndexAll(_ context.Context, ids []string) (domain.BulkIndexResult, error) {
	if err := m.store.SaveParam(context.Background(), "fts_weight", 0.9); err != nil {
		return domain.BulkIndexResult{}, err
	}
	if err := os.WriteFile(m.path, []byte("tuned"), 0600); err != nil {
		return domain.BulkIndexResult{}, err
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if paramsService.Snapshot().FTSWeight == 0.9 {
			m.tuned = true
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	return domain.BulkIndexResult{NotesIndexed: len(ids), ChunksWritten: len(ids)}, nil
}

func TestIndexCmd_PicksUpTunedParamsWhileRunning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noteseek.db")
	require.NoError(t, os.WriteFile(path, []byte("seed"), 0600))

	store := &tunableParamStore{}
	mock := &tuningIndexService{store: store, path: path}

	oldSearch, oldIndex, oldNotes := searchService, indexService, noteStore
	oldParams, oldPath := paramsService, storePath
	searchService = &mockSearchService{outcome: defaultOutcome()}
	indexService = mock
	noteStore = &stubNoteStore{}
	paramsService = services.NewParamsService(store)
	storePath = path
	defer func() {
		searchService, indexService, noteStore = oldSearch, oldIndex, oldNotes
		paramsService, storePath = oldParams, oldPath
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", "note-1"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.True(t, mock.tuned,
		"running index command should observe the tuned parameter")
	assert.Contains(t, buf.String(), "Indexed 1 notes")
}

func TestIndexCmd_FailedNotesReported(t *testing.T) {
	cleanup := setupTestServices(&mockSearchService{outcome: defaultOutcome()})
	defer cleanup()
	indexService = &failingIndexService{}
	oldNotes := noteStore
	noteStore = &stubNoteStore{}
	defer func() { noteStore = oldNotes }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index", "note-1", "note-2"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "1 notes failed")
}

// failingIndexService reports one failed note out of every bulk run.
type failingIndexService struct{}

func (m *failingIndexService) IndexNote(context.Context, *domain.Note) (domain.IndexResult, error) {
	return domain.IndexResult{Status: domain.IndexComplete}, nil
}

func (m *failingIndexService) IndexAll(_ context.Context, ids []string) (domain.BulkIndexResult, error) {
	return domain.BulkIndexResult{NotesIndexed: len(ids) - 1, NotesFailed: 1}, nil
}
