package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/parchment-labs/noteseek/internal/chunker"
	"github.com/parchment-labs/noteseek/internal/core/domain"
	"github.com/parchment-labs/noteseek/internal/core/ports/driven"
	"github.com/parchment-labs/noteseek/internal/core/ports/driving"
	"github.com/parchment-labs/noteseek/internal/logger"
)

// Ensure IndexerService implements the interface.
var _ driving.IndexService = (*IndexerService)(nil)

// embedBatchSize bounds one embedding request so a single failing batch
// only skips its own chunks.
const embedBatchSize = 16

// DefaultIndexWorkers is the bulk reindex pool size.
const DefaultIndexWorkers = 4

// IndexerService chunks a note, embeds the chunks, and atomically
// replaces the note's previous chunk generation. The lexical index entry
// is re-derived in the same step. Re-indexing of one note is serialized;
// different notes index concurrently.
type IndexerService struct {
	notes    driven.NoteStore
	chunks   driven.ChunkStore
	embedder driven.EmbeddingService
	params   *ParamsService
	workers  int

	mu        sync.Mutex
	noteLocks map[string]*sync.Mutex
}

// NewIndexerService creates the indexer.
func NewIndexerService(
	notes driven.NoteStore,
	chunks driven.ChunkStore,
	embedder driven.EmbeddingService,
	params *ParamsService,
) *IndexerService {
	return &IndexerService{
		notes:     notes,
		chunks:    chunks,
		embedder:  embedder,
		params:    params,
		workers:   DefaultIndexWorkers,
		noteLocks: make(map[string]*sync.Mutex),
	}
}

// SetWorkers overrides the bulk reindex pool size.
func (s *IndexerService) SetWorkers(n int) {
	if n > 0 {
		s.workers = n
	}
}

// IndexNote persists the note, re-deriving its lexical entry, then
// chunks and embeds the content and swaps the chunk generation.
//
// Failure policy: if embedding fails for every chunk the previous
// generation is kept untouched; chunks whose embedding fails are skipped
// and the rest written (partial success, reported in the result).
func (s *IndexerService) IndexNote(ctx context.Context, note *domain.Note) (domain.IndexResult, error) {
	if err := note.Validate(); err != nil {
		return domain.IndexResult{Status: domain.IndexFailed}, err
	}

	unlock := s.lockNote(note.ID)
	defer unlock()

	p := s.params.Snapshot()

	if err := s.notes.SaveNote(ctx, note); err != nil {
		return domain.IndexResult{Status: domain.IndexFailed}, fmt.Errorf("save note %s: %w", note.ID, err)
	}

	pending := buildChunks(note, p)
	if len(pending) == 0 {
		// Nothing to index; clear any previous generation.
		if err := s.chunks.ReplaceChunks(ctx, note.ID, nil); err != nil {
			return domain.IndexResult{Status: domain.IndexFailed},
				fmt.Errorf("%w: %v", domain.ErrIndexReplaceFailed, err)
		}
		return domain.IndexResult{Status: domain.IndexEmpty}, nil
	}

	embedded, skipped, embedErr := s.embedChunks(ctx, pending)
	if len(embedded) == 0 {
		// Total embedding failure: never destroy the previous
		// generation for nothing.
		logger.Error("Indexing note %s: embedding failed for all %d chunks", note.ID, len(pending))
		return domain.IndexResult{ChunksSkipped: skipped, Status: domain.IndexFailed},
			fmt.Errorf("embed chunks for %s: %w", note.ID, embedErr)
	}

	resequence(embedded)
	if err := s.chunks.ReplaceChunks(ctx, note.ID, embedded); err != nil {
		return domain.IndexResult{ChunksSkipped: skipped, Status: domain.IndexFailed},
			fmt.Errorf("%w: note %s: %v", domain.ErrIndexReplaceFailed, note.ID, err)
	}

	result := domain.IndexResult{
		ChunksWritten: len(embedded),
		ChunksSkipped: skipped,
		Status:        domain.IndexComplete,
	}
	if skipped > 0 {
		result.Status = domain.IndexPartial
	}
	logger.Debug("Indexed note %s: %d chunks written, %d skipped", note.ID, len(embedded), skipped)
	return result, nil
}

// IndexAll re-indexes the given notes on a bounded worker pool. Per-note
// failures are isolated and counted, never aborting the run.
func (s *IndexerService) IndexAll(ctx context.Context, noteIDs []string) (domain.BulkIndexResult, error) {
	var result domain.BulkIndexResult
	if len(noteIDs) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return result, fmt.Errorf("create index pool: %w", err)
	}
	defer pool.Release()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, id := range noteIDs {
		noteID := id
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			note, err := s.notes.GetNote(ctx, noteID)
			if err != nil {
				logger.Warn("Bulk index: load note %s: %v", noteID, err)
				mu.Lock()
				result.NotesFailed++
				mu.Unlock()
				return
			}

			res, err := s.IndexNote(ctx, note)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Warn("Bulk index: note %s: %v", noteID, err)
				result.NotesFailed++
				return
			}
			result.NotesIndexed++
			result.ChunksWritten += res.ChunksWritten
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			result.NotesFailed++
			mu.Unlock()
		}
	}
	wg.Wait()

	logger.Info("Bulk index: %d notes indexed, %d failed, %d chunks",
		result.NotesIndexed, result.NotesFailed, result.ChunksWritten)
	return result, nil
}

// lockNote serializes index runs per note.
func (s *IndexerService) lockNote(noteID string) func() {
	s.mu.Lock()
	l, ok := s.noteLocks[noteID]
	if !ok {
		l = &sync.Mutex{}
		s.noteLocks[noteID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// buildChunks derives the pending chunk generation: budgeted content and
// extract chunks, plus the dedicated summary chunk when present.
func buildChunks(note *domain.Note, p domain.SearchParams) []domain.Chunk {
	var pending []domain.Chunk
	seq := 0
	add := func(text string, origin domain.ChunkOrigin) {
		pending = append(pending, domain.Chunk{
			ID:     uuid.New().String(),
			NoteID: note.ID,
			Seq:    seq,
			Text:   text,
			Origin: origin,
		})
		seq++
	}

	for _, segment := range chunker.Split(note.Body, p.ChunkMaxChars) {
		add(segment, domain.OriginContent)
	}
	for _, extract := range note.Extracts {
		for _, segment := range chunker.Split(extract.Text, p.ChunkMaxChars) {
			add(segment, extract.Origin)
		}
	}

	// Budget: leading chunks only. The summary chunk is exempt and
	// always included.
	if p.MaxChunksPerNote > 0 && len(pending) > p.MaxChunksPerNote {
		logger.Debug("Note %s: %d chunks over budget %d, keeping leading chunks",
			note.ID, len(pending), p.MaxChunksPerNote)
		pending = pending[:p.MaxChunksPerNote]
	}

	if summary := strings.TrimSpace(note.Summary); summary != "" {
		pending = append(pending, domain.Chunk{
			ID:     uuid.New().String(),
			NoteID: note.ID,
			Seq:    domain.SummarySeq,
			Text:   summary,
			Origin: domain.OriginSummary,
		})
	}

	return pending
}

// embedChunks embeds the pending chunks in bounded batches. A failed
// batch skips its chunks; the last error is returned for reporting.
func (s *IndexerService) embedChunks(
	ctx context.Context, pending []domain.Chunk,
) (embedded []domain.Chunk, skipped int, lastErr error) {
	if s.embedder == nil {
		return nil, len(pending), domain.ErrEmbeddingUnavailable
	}

	for start := 0; start < len(pending); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		texts := make([]string, len(batch))
		for i := range batch {
			texts[i] = batch[i].Text
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil || len(vectors) != len(batch) {
			if err == nil {
				err = fmt.Errorf("%w: expected %d vectors, got %d",
					domain.ErrEmbeddingInvalidInput, len(batch), len(vectors))
			}
			logger.Warn("Embedding batch failed (%d chunks skipped): %v", len(batch), err)
			skipped += len(batch)
			lastErr = err
			continue
		}

		for i := range batch {
			if len(vectors[i]) == 0 {
				skipped++
				lastErr = fmt.Errorf("%w: empty vector", domain.ErrEmbeddingInvalidInput)
				continue
			}
			c := batch[i]
			c.Embedding = vectors[i]
			embedded = append(embedded, c)
		}
	}

	return embedded, skipped, lastErr
}

// resequence restores the contiguous-from-zero invariant for content
// chunks after skips. Summary and extract chunks keep their slots.
func resequence(chunks []domain.Chunk) {
	next := 0
	for i := range chunks {
		if chunks[i].IsSummary() {
			continue
		}
		chunks[i].Seq = next
		next++
	}
}
