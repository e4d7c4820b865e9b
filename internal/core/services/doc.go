// Package services implements the core retrieval and indexing logic:
// the full-text and semantic engines, the hybrid fusion engine with its
// adaptive judge, the chunk indexer, and the search parameter provider.
package services
