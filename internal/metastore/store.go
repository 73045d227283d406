// Package metastore defines the meta-store contract: a keyed mapping
// from a caller-chosen identifier to a Manifest, with upsert (wholesale
// replacement) semantics and idempotent removal.
package metastore

import (
	"context"

	"github.com/dedupfs/cdcstore/internal/chunkstore"
)

// Manifest describes one stored blob: the ordered fingerprints whose
// concatenation reproduces it, and its original byte length.
type Manifest struct {
	Hashes []chunkstore.Fingerprint
	Size   int64
}

// Store is the abstract meta-store contract, parameterized over the
// caller's key type K.
type Store[K comparable] interface {
	// Get returns the Manifest for key, or a cdcerr.NotFound error.
	Get(ctx context.Context, key K) (Manifest, error)

	// Upsert wholesale-replaces the Manifest stored under key.
	Upsert(ctx context.Context, key K, manifest Manifest) error

	// Remove deletes the entry for key. Idempotent: removing an absent
	// key succeeds.
	Remove(ctx context.Context, key K) error
}
