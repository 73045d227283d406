package cdcsystem

import (
	"bytes"
	"context"
	"io"

	"github.com/dedupfs/cdcstore/internal/cdcerr"
	"github.com/dedupfs/cdcstore/internal/chunkstore"
	"github.com/dedupfs/cdcstore/internal/metastore"
)

// Reader is a pull-based io.Reader that walks a Manifest's fingerprint
// list, fetching one chunk at a time from the chunk store as the caller
// reads past the current chunk's bytes. It holds an implicit borrow of
// the chunk store for its lifetime: the store must not be mutated in a
// way that invalidates already-upserted chunks while a Reader is in use.
type Reader struct {
	ctx      context.Context
	chunks   chunkstore.Store
	pending  []chunkstore.Fingerprint
	current  *bytes.Reader
	manifest metastore.Manifest
}

func newReader(ctx context.Context, manifest metastore.Manifest, chunks chunkstore.Store) *Reader {
	pending := make([]chunkstore.Fingerprint, len(manifest.Hashes))
	copy(pending, manifest.Hashes)
	return &Reader{
		ctx:      ctx,
		chunks:   chunks,
		pending:  pending,
		manifest: manifest,
	}
}

// Manifest returns the manifest this Reader is walking.
func (r *Reader) Manifest() metastore.Manifest { return r.manifest }

// Read implements io.Reader. It returns (0, nil) only when called with a
// zero-length buffer; end of stream is signaled the idiomatic Go way,
// with io.EOF, once every chunk has been exhausted.
func (r *Reader) Read(p []byte) (int, error) {
	if r.current == nil || r.current.Len() == 0 {
		if len(r.pending) == 0 {
			return 0, io.EOF
		}

		fp := r.pending[0]
		r.pending = r.pending[1:]

		chunkBytes, err := r.chunks.Get(r.ctx, fp)
		if err != nil {
			if cdcerr.IsNotFound(err) {
				return 0, cdcerr.Iof(err, "corrupt manifest: missing chunk %d", fp)
			}
			return 0, err
		}
		r.current = bytes.NewReader(chunkBytes)
	}

	return r.current.Read(p)
}
