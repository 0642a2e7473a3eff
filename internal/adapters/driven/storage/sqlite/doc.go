// Package sqlite implements the DocumentStore port on a single SQLite
// database file. It is the authoritative store for documents, chunks and
// their embeddings; the vector index is rebuilt from it on demand.
//
// Each document replacement runs inside one transaction (delete old
// chunks, upsert document, insert new chunks, bump revision), so a crash
// or failure never leaves a partially replaced document visible.
package sqlite
