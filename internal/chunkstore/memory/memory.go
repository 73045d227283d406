// Package memory provides an in-memory reference implementation of
// chunkstore.Store, adapted from the mutex-guarded map pattern in the
// teacher's internal/tiering.MemoryAccessTracker.
package memory

import (
	"context"
	"sync"

	"github.com/dedupfs/cdcstore/internal/cdcerr"
	"github.com/dedupfs/cdcstore/internal/chunkstore"
)

// Store is a direct fingerprint-to-bytes map guarded by a single
// RWMutex. The raw fingerprint is the map key, hashed only by Go's
// built-in map hashing; no custom hasher is involved.
type Store struct {
	mu     sync.RWMutex
	chunks map[chunkstore.Fingerprint][]byte
}

// New creates an empty in-memory chunk store.
func New() *Store {
	return &Store{chunks: make(map[chunkstore.Fingerprint][]byte)}
}

func (s *Store) Get(_ context.Context, fp chunkstore.Fingerprint) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.chunks[fp]
	if !ok {
		return nil, cdcerr.NotFoundf("chunk %d not found", fp)
	}
	// Return a copy so callers can't mutate the stored blob through the
	// slice they were handed.
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *Store) Upsert(_ context.Context, fp chunkstore.Fingerprint, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.chunks[fp]; exists {
		return nil
	}

	stored := make([]byte, len(data))
	copy(stored, data)
	s.chunks[fp] = stored
	return nil
}

func (s *Store) Remove(_ context.Context, fp chunkstore.Fingerprint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chunks[fp]; !ok {
		return cdcerr.NotFoundf("chunk %d not found", fp)
	}
	delete(s.chunks, fp)
	return nil
}

// Len returns the number of distinct fingerprints currently stored, used
// by tests to verify dedup cardinality.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

var _ chunkstore.Store = (*Store)(nil)
