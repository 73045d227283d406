// Package chunkstore defines the content-addressed chunk store contract:
// a bag of immutable byte blobs keyed by a 64-bit fingerprint, with
// insert-once (upsert) dedup semantics.
package chunkstore

import "context"

// Fingerprint is the 64-bit content address of a chunk.
type Fingerprint uint64

// Store is the abstract chunk-store contract every backend implements.
// Upsert is idempotent: a second call with a fingerprint already present
// is a no-op success, the dedup invariant at the heart of this pipeline.
type Store interface {
	// Get returns the chunk's bytes, or a cdcerr.NotFound error if the
	// fingerprint is absent.
	Get(ctx context.Context, fp Fingerprint) ([]byte, error)

	// Upsert stores data under fp. A duplicate fingerprint is a no-op
	// success; the existing blob is authoritative.
	Upsert(ctx context.Context, fp Fingerprint, data []byte) error

	// Remove deletes the chunk for fp, or returns a cdcerr.NotFound
	// error if it was already absent.
	Remove(ctx context.Context, fp Fingerprint) error
}
