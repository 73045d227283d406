// Package memory provides an in-memory reference implementation of
// metastore.Store.
package memory

import (
	"context"
	"sync"

	"github.com/dedupfs/cdcstore/internal/cdcerr"
	"github.com/dedupfs/cdcstore/internal/chunkstore"
	"github.com/dedupfs/cdcstore/internal/metastore"
)

// Store is a mutex-guarded map from K to metastore.Manifest.
type Store[K comparable] struct {
	mu        sync.RWMutex
	manifests map[K]metastore.Manifest
}

// New creates an empty in-memory meta store.
func New[K comparable]() *Store[K] {
	return &Store[K]{manifests: make(map[K]metastore.Manifest)}
}

func (s *Store[K]) Get(_ context.Context, key K) (metastore.Manifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.manifests[key]
	if !ok {
		return metastore.Manifest{}, cdcerr.NotFoundf("key %v not found", key)
	}
	return copyManifest(m), nil
}

func (s *Store[K]) Upsert(_ context.Context, key K, manifest metastore.Manifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.manifests[key] = copyManifest(manifest)
	return nil
}

func (s *Store[K]) Remove(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.manifests, key)
	return nil
}

// Len returns the number of keys currently stored.
func (s *Store[K]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.manifests)
}

func copyManifest(m metastore.Manifest) metastore.Manifest {
	hashes := make([]chunkstore.Fingerprint, len(m.Hashes))
	copy(hashes, m.Hashes)
	return metastore.Manifest{Hashes: hashes, Size: m.Size}
}

var _ metastore.Store[int] = (*Store[int])(nil)
