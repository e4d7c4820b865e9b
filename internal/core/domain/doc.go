// Package domain contains the core business entities for noteseek:
// notes, chunks, search parameters, and the result types produced by
// the lexical, semantic, and hybrid retrieval engines.
package domain
