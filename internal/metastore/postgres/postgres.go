// Package postgres implements metastore.Store over PostgreSQL using
// jackc/pgx/v5, the teacher's own driver. Table "files" has columns
// id (int32 PK), hashes (bigint[]), size (bigint); upsert is an
// INSERT ... ON CONFLICT (id) DO UPDATE, per spec.md §6.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dedupfs/cdcstore/internal/cdcerr"
	"github.com/dedupfs/cdcstore/internal/chunkstore"
	"github.com/dedupfs/cdcstore/internal/metastore"
)

// Key is the relational meta store's key type: a 32-bit signed integer
// primary key, per spec.md §3.
type Key int32

// Store implements metastore.Store[Key] over a PostgreSQL "files" table.
type Store struct {
	pool *pgxpool.Pool
}

// Schema is the DDL this store expects to already exist (migrations are
// explicitly out of scope per spec.md §1; callers run this, or their own
// migration tool, once).
const Schema = `
CREATE TABLE IF NOT EXISTS files (
	id    INTEGER PRIMARY KEY,
	hashes BIGINT[] NOT NULL,
	size  BIGINT NOT NULL
)`

// Open connects to url and returns a Store. It does not run Schema;
// call EnsureSchema explicitly if the caller wants that.
func Open(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, cdcerr.Backendf(err, "connect to postgres")
	}
	return &Store{pool: pool}, nil
}

// EnsureSchema creates the files table if it does not already exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return cdcerr.Backendf(err, "ensure files schema")
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() { s.pool.Close() }

// hashesToDB reinterprets each fingerprint's bit pattern as a signed
// int64 for storage — a bitwise reinterpretation, never a numeric cast,
// so values above 2^63 survive the round trip (spec.md §4.5/§9).
func hashesToDB(hashes []chunkstore.Fingerprint) []int64 {
	out := make([]int64, len(hashes))
	for i, h := range hashes {
		out[i] = int64(h) //nolint:gosec // bit-preserving, not a numeric narrowing
	}
	return out
}

func hashesFromDB(rows []int64) []chunkstore.Fingerprint {
	out := make([]chunkstore.Fingerprint, len(rows))
	for i, v := range rows {
		out[i] = chunkstore.Fingerprint(uint64(v))
	}
	return out
}

func (s *Store) Get(ctx context.Context, key Key) (metastore.Manifest, error) {
	var hashes []int64
	var size int64

	err := s.pool.QueryRow(ctx,
		`SELECT hashes, size FROM files WHERE id = $1`, int32(key),
	).Scan(&hashes, &size)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return metastore.Manifest{}, cdcerr.NotFoundf("key %d not found", key)
		}
		return metastore.Manifest{}, cdcerr.Backendf(err, "select files id=%d", key)
	}

	return metastore.Manifest{Hashes: hashesFromDB(hashes), Size: size}, nil
}

func (s *Store) Upsert(ctx context.Context, key Key, manifest metastore.Manifest) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO files (id, hashes, size)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			hashes = EXCLUDED.hashes,
			size = EXCLUDED.size
	`, int32(key), hashesToDB(manifest.Hashes), manifest.Size)

	if err != nil {
		return cdcerr.Backendf(err, "upsert files id=%d", key)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key Key) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM files WHERE id = $1`, int32(key)); err != nil {
		return cdcerr.Backendf(err, "delete files id=%d", key)
	}
	return nil
}

var _ metastore.Store[Key] = (*Store)(nil)
