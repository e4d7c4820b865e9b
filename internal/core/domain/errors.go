package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidQuery indicates an empty or whitespace-only search query.
	// Rejected before any engine dispatch.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrEmbeddingUnavailable indicates the embedding capability is
	// unreachable or rate limited. Transient: retry at the call site
	// with backoff, never inside the engines.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrEmbeddingInvalidInput indicates the embedding capability rejected
	// the input text. Fatal for that item.
	ErrEmbeddingInvalidInput = errors.New("embedding input rejected")

	// ErrStorageQueryFailed indicates a retrieval query against the store
	// failed. The hybrid engine degrades that signal to an empty list.
	ErrStorageQueryFailed = errors.New("storage query failed")

	// ErrIndexReplaceFailed indicates the chunk replace for a note failed.
	// The note keeps its previous chunk generation.
	ErrIndexReplaceFailed = errors.New("index replace failed")
)
