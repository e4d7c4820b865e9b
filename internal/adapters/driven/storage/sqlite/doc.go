// Package sqlite provides the SQLite-backed storage collaborator:
// note and chunk persistence, the FTS5 lexical index with its derivation
// triggers, the nearest-neighbour chunk scan, and the search parameter
// snapshot table.
package sqlite
