package domain

import (
	"strings"
	"time"
)

// Note is a research note. It carries a stable external ID (UUID) and,
// once persisted, an internal numeric row ID assigned by the store.
type Note struct {
	// ID is the stable external identifier.
	ID string

	// RowID is the internal numeric identifier (0 until persisted).
	RowID int64

	// Title is the note title. Ranked higher than body in lexical search.
	Title string

	// Body is the plaintext content.
	Body string

	// Summary is an optional generated whole-note summary. When present
	// it is indexed as the dedicated summary chunk (Seq -1).
	Summary string

	// Extracts holds text derived from attachments (PDF tables, OCR,
	// vision descriptions). Indexed as chunks with the matching origin.
	Extracts []Extract

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Extract is text derived from a note attachment by an external pipeline.
type Extract struct {
	Origin ChunkOrigin
	Text   string
}

// IsEmpty reports whether the note has nothing indexable.
func (n *Note) IsEmpty() bool {
	if strings.TrimSpace(n.Body) != "" || strings.TrimSpace(n.Summary) != "" {
		return false
	}
	for _, e := range n.Extracts {
		if strings.TrimSpace(e.Text) != "" {
			return false
		}
	}
	return true
}

// Validate checks the note is well-formed enough to persist.
func (n *Note) Validate() error {
	if strings.TrimSpace(n.ID) == "" {
		return ErrInvalidInput
	}
	for _, e := range n.Extracts {
		if !e.Origin.IsValid() || e.Origin == OriginContent {
			return ErrInvalidInput
		}
	}
	return nil
}
