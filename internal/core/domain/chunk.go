package domain

// ChunkOrigin tags where a chunk's text came from.
type ChunkOrigin string

// Recognised chunk origins.
const (
	// OriginContent is a segment of the note body.
	OriginContent ChunkOrigin = "content"

	// OriginPDF is text extracted from an attached PDF (tables included).
	OriginPDF ChunkOrigin = "pdf"

	// OriginOCR is text recognised from an attached image.
	OriginOCR ChunkOrigin = "ocr"

	// OriginVision is a generated description of an attached image.
	OriginVision ChunkOrigin = "vision"

	// OriginSummary is the generated whole-note summary.
	OriginSummary ChunkOrigin = "summary"
)

// IsValid returns true if the origin is recognised.
func (o ChunkOrigin) IsValid() bool {
	switch o {
	case OriginContent, OriginPDF, OriginOCR, OriginVision, OriginSummary:
		return true
	default:
		return false
	}
}

// SummarySeq is the sentinel sequence index of the summary chunk.
const SummarySeq = -1

// Chunk is a bounded text segment of a note, the unit of embedding and
// semantic retrieval. A note owns zero or more chunks; they are replaced
// as a whole generation whenever the source content changes.
type Chunk struct {
	// ID is a UUID assigned at creation.
	ID string

	// NoteID is the owning note's external ID.
	NoteID string

	// Seq orders content chunks (0-based, contiguous). SummarySeq (-1)
	// marks the single summary chunk.
	Seq int

	// Text is the chunk's text span.
	Text string

	// Origin tags the text source.
	Origin ChunkOrigin

	// Embedding is the fixed-dimension vector for this chunk.
	Embedding []float32
}

// IsSummary reports whether this is the note's summary chunk.
func (c *Chunk) IsSummary() bool {
	return c.Seq == SummarySeq
}

// ValidateChunkSet checks the invariants of a full chunk generation:
// content sequence indices contiguous from 0, at most one summary chunk.
func ValidateChunkSet(chunks []Chunk) error {
	next := 0
	summaries := 0
	for i := range chunks {
		c := &chunks[i]
		if !c.Origin.IsValid() {
			return ErrInvalidInput
		}
		switch {
		case c.IsSummary():
			summaries++
			if summaries > 1 || c.Origin != OriginSummary {
				return ErrInvalidInput
			}
		case c.Origin == OriginContent:
			if c.Seq != next {
				return ErrInvalidInput
			}
			next++
		default:
			if c.Seq < 0 {
				return ErrInvalidInput
			}
		}
	}
	return nil
}
