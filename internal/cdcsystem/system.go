// Package cdcsystem implements the write/read/delete/copy pipeline that
// orchestrates the chunker, hash-builder, chunk store, and meta store
// behind a single keyed blob interface.
package cdcsystem

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dedupfs/cdcstore/internal/cdcerr"
	"github.com/dedupfs/cdcstore/internal/chunker"
	"github.com/dedupfs/cdcstore/internal/chunkstore"
	"github.com/dedupfs/cdcstore/internal/hashbuilder"
	"github.com/dedupfs/cdcstore/internal/metastore"
)

// System is the keyed blob store façade, parameterized over the
// meta-store's key type K. It owns a chunk store, a meta store, and a
// hash-builder for the lifetime of the process, mirroring the teacher's
// service-layer constructors that take their repositories by interface.
type System[K comparable] struct {
	chunker *chunker.Chunker
	hasher  hashbuilder.Builder
	chunks  chunkstore.Store
	meta    metastore.Store[K]
	logger  zerolog.Logger

	statsMu sync.Mutex
	stats   Stats
	seen    map[chunkstore.Fingerprint]struct{}
}

// Config wires a System's three pluggable collaborators plus logger.
type Config[K comparable] struct {
	Chunker *chunker.Chunker // nil selects chunker.NewDefault()
	Hasher  hashbuilder.Builder
	Chunks  chunkstore.Store
	Meta    metastore.Store[K]
	Logger  zerolog.Logger
}

// New constructs a System from the given Config.
func New[K comparable](cfg Config[K]) *System[K] {
	c := cfg.Chunker
	if c == nil {
		c = chunker.NewDefault()
	}
	return &System[K]{
		chunker: c,
		hasher:  cfg.Hasher,
		chunks:  cfg.Chunks,
		meta:    cfg.Meta,
		logger:  cfg.Logger.With().Str("component", "cdcsystem").Logger(),
	}
}

// Write splits bytes with the slice chunker, upserts each chunk into the
// chunk store in emission order, then upserts the resulting manifest into
// the meta store last — the ordering that keeps a manifest visible only
// once every chunk it references already exists (invariant 2 of the
// manifest-completeness contract).
func (s *System[K]) Write(ctx context.Context, key K, data []byte) error {
	spans := s.chunker.Split(data)
	hashes := make([]chunkstore.Fingerprint, 0, len(spans))

	for _, span := range spans {
		chunkBytes := data[span.Offset : span.Offset+span.Length]
		fp := s.fingerprint(chunkBytes)

		if err := s.chunks.Upsert(ctx, fp, chunkBytes); err != nil {
			return cdcerr.Backendf(err, "upsert chunk %d", fp)
		}
		hashes = append(hashes, fp)
	}

	s.recordWrite(hashes, int64(len(data)))

	if err := s.meta.Upsert(ctx, key, metastore.Manifest{Hashes: hashes, Size: int64(len(data))}); err != nil {
		return cdcerr.Backendf(err, "upsert manifest for key %v", key)
	}
	s.logger.Debug().
		Interface("key", key).
		Int("chunks", len(hashes)).
		Int("bytes", len(data)).
		Msg("wrote manifest")
	return nil
}

// WriteStream is identical to Write but driven by the streaming chunker,
// so the input never needs to be held in memory as a single slice.
func (s *System[K]) WriteStream(ctx context.Context, key K, r io.Reader) error {
	splitter := chunker.NewStreamSplitter(r, s.chunker.Config())

	var hashes []chunkstore.Fingerprint
	var size int64

	for {
		rec, err := splitter.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		fp := s.fingerprint(rec.Data)
		if err := s.chunks.Upsert(ctx, fp, rec.Data); err != nil {
			return cdcerr.Backendf(err, "upsert chunk %d", fp)
		}
		hashes = append(hashes, fp)
		size += int64(rec.Length)
	}

	s.recordWrite(hashes, size)

	if err := s.meta.Upsert(ctx, key, metastore.Manifest{Hashes: hashes, Size: size}); err != nil {
		return cdcerr.Backendf(err, "upsert manifest for key %v", key)
	}
	s.logger.Debug().
		Interface("key", key).
		Int("chunks", len(hashes)).
		Int64("bytes", size).
		Msg("wrote manifest")
	return nil
}

// Read materializes the blob stored under key into a single buffer.
// A NotFound from the meta store is a user-visible outcome and is
// propagated unchanged; a NotFound from the chunk store indicates a
// manifest-completeness violation and is surfaced as a Backend error.
func (s *System[K]) Read(ctx context.Context, key K) ([]byte, error) {
	manifest, err := s.meta.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, manifest.Size)
	for _, fp := range manifest.Hashes {
		chunkBytes, err := s.chunks.Get(ctx, fp)
		if err != nil {
			if cdcerr.IsNotFound(err) {
				return nil, cdcerr.Backendf(err, "manifest for key %v references missing chunk %d", key, fp)
			}
			return nil, err
		}
		buf = append(buf, chunkBytes...)
	}
	return buf, nil
}

// ReadInto streams the blob stored under key to w one chunk at a time,
// without materializing the full blob in memory first.
func (s *System[K]) ReadInto(ctx context.Context, key K, w io.Writer) error {
	manifest, err := s.meta.Get(ctx, key)
	if err != nil {
		return err
	}

	for _, fp := range manifest.Hashes {
		chunkBytes, err := s.chunks.Get(ctx, fp)
		if err != nil {
			if cdcerr.IsNotFound(err) {
				return cdcerr.Backendf(err, "manifest for key %v references missing chunk %d", key, fp)
			}
			return err
		}
		if _, err := w.Write(chunkBytes); err != nil {
			return cdcerr.Iof(err, "write chunk %d to destination", fp)
		}
	}
	return nil
}

// ReadStream returns a pull-based io.Reader over the blob stored under
// key, materializing one chunk at a time as the caller reads.
func (s *System[K]) ReadStream(ctx context.Context, key K) (*Reader, error) {
	manifest, err := s.meta.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return newReader(ctx, manifest, s.chunks), nil
}

// Copy makes to_key reference the same manifest (and so the same
// underlying chunks) as from_key, without duplicating any chunk bytes:
// an O(1)-in-chunk-bytes operation over the fingerprint list alone.
func (s *System[K]) Copy(ctx context.Context, fromKey, toKey K) error {
	manifest, err := s.meta.Get(ctx, fromKey)
	if err != nil {
		return err
	}
	if err := s.meta.Upsert(ctx, toKey, manifest); err != nil {
		return cdcerr.Backendf(err, "upsert manifest for key %v", toKey)
	}
	return nil
}

// Delete removes the manifest for key. It does not touch the chunk
// store: this core performs no reference counting or garbage collection,
// so the key's chunks may remain referenced by other manifests or simply
// dangle, harmlessly, until a future GC pass.
func (s *System[K]) Delete(ctx context.Context, key K) error {
	if err := s.meta.Remove(ctx, key); err != nil {
		return cdcerr.Backendf(err, "remove manifest for key %v", key)
	}
	s.logger.Info().Interface("key", key).Msg("manifest removed")
	return nil
}

func (s *System[K]) fingerprint(data []byte) chunkstore.Fingerprint {
	h := s.hasher.New()
	_, _ = h.Write(data) // Hasher implementations never return an error.
	return chunkstore.Fingerprint(h.Sum64())
}
