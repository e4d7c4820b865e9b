package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/parchment-labs/noteseek/internal/core/domain"
	"github.com/parchment-labs/noteseek/internal/core/ports/driven"
)

// noteStore implements driven.NoteStore.
type noteStore struct {
	store *Store
}

var _ driven.NoteStore = (*noteStore)(nil)

// SaveNote inserts or updates a note. The FTS triggers re-derive the
// lexical index entry in the same statement, so the note is never
// queryable with a stale entry.
func (s *noteStore) SaveNote(ctx context.Context, note *domain.Note) error {
	now := time.Now().UTC()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	note.UpdatedAt = now

	extractsJSON, err := json.Marshal(note.Extracts)
	if err != nil {
		return fmt.Errorf("marshalling extracts: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO notes (ext_id, title, body, summary, extracts, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ext_id) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			summary = excluded.summary,
			extracts = excluded.extracts,
			updated_at = excluded.updated_at
	`, note.ID, note.Title, note.Body, note.Summary, string(extractsJSON),
		note.CreatedAt, note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving note: %w", err)
	}

	row := s.store.db.QueryRowContext(ctx, "SELECT id FROM notes WHERE ext_id = ?", note.ID)
	if err := row.Scan(&note.RowID); err != nil {
		return fmt.Errorf("resolving note row id: %w", err)
	}
	return nil
}

// GetNote retrieves a note by external ID.
func (s *noteStore) GetNote(ctx context.Context, id string) (*domain.Note, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, ext_id, title, body, summary, extracts, created_at, updated_at
		FROM notes WHERE ext_id = ?
	`, id)

	var note domain.Note
	var extractsJSON string
	if err := row.Scan(&note.RowID, &note.ID, &note.Title, &note.Body, &note.Summary,
		&extractsJSON, &note.CreatedAt, &note.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning note: %w", err)
	}

	if extractsJSON != "" && extractsJSON != "null" {
		if err := json.Unmarshal([]byte(extractsJSON), &note.Extracts); err != nil {
			return nil, fmt.Errorf("unmarshaling extracts: %w", err)
		}
	}

	return &note, nil
}

// ListNoteIDs returns the external IDs of all notes.
func (s *noteStore) ListNoteIDs(ctx context.Context) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT ext_id FROM notes ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying note ids: %w", err)
	}
	defer rows.Close()

	var ids []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning note id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating note ids: %w", err)
	}
	return ids, nil
}

// DeleteNote removes a note; its chunks cascade.
func (s *noteStore) DeleteNote(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM notes WHERE ext_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}
	return nil
}

// chunkStore implements driven.ChunkStore.
type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

// ReplaceChunks swaps the note's chunk generation in one transaction:
// delete-old, insert-new. A rollback on any failure leaves the previous
// generation intact, and concurrent readers never observe an interim
// empty window.
func (s *chunkStore) ReplaceChunks(ctx context.Context, noteID string, chunks []domain.Chunk) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var rowID int64
	row := tx.QueryRowContext(ctx, "SELECT id FROM notes WHERE ext_id = ?", noteID)
	if err := row.Scan(&rowID); err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
		return fmt.Errorf("resolving note %s: %w", noteID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE note_id = ?", rowID); err != nil {
		return fmt.Errorf("deleting previous chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, note_id, seq, origin, content, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i := range chunks {
		c := &chunks[i]
		if _, err := stmt.ExecContext(ctx, c.ID, rowID, c.Seq, string(c.Origin),
			c.Text, float32SliceToBytes(c.Embedding)); err != nil {
			return fmt.Errorf("inserting chunk %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chunk replace: %w", err)
	}
	return nil
}

// GetChunks returns the note's current chunk generation in sequence
// order, summary chunk (seq -1) first.
func (s *chunkStore) GetChunks(ctx context.Context, noteID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT c.id, n.ext_id, c.seq, c.origin, c.content, c.embedding
		FROM chunks c
		JOIN notes n ON n.id = c.note_id
		WHERE n.ext_id = ?
		ORDER BY c.seq
	`, noteID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var c domain.Chunk
		var origin string
		var embedding []byte
		if err := rows.Scan(&c.ID, &c.NoteID, &c.Seq, &origin, &c.Text, &embedding); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		c.Origin = domain.ChunkOrigin(origin)
		c.Embedding = bytesToFloat32Slice(embedding)
		chunks = append(chunks, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}
