// Package sqlite implements metastore.Store over an embedded SQLite
// database using modernc.org/sqlite, the teacher's pure-Go (CGo-free)
// driver, for deployments that don't need a standing PostgreSQL
// instance. Same table shape as the PostgreSQL adapter; fingerprints are
// stored as their bit-preserving int64 reinterpretation, joined into a
// single TEXT column since SQLite has no native array/bigint[] type.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/dedupfs/cdcstore/internal/cdcerr"
	"github.com/dedupfs/cdcstore/internal/chunkstore"
	"github.com/dedupfs/cdcstore/internal/metastore"
)

// Key is the embedded meta store's key type.
type Key int64

// Store implements metastore.Store[Key] over SQLite.
type Store struct {
	db *sql.DB
}

// Schema is the DDL this store expects.
const Schema = `
CREATE TABLE IF NOT EXISTS files (
	id     INTEGER PRIMARY KEY,
	hashes TEXT NOT NULL,
	size   INTEGER NOT NULL
)`

// Open opens (creating if absent) the SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, cdcerr.Backendf(err, "open sqlite database")
	}
	return &Store{db: db}, nil
}

// EnsureSchema creates the files table if it does not already exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return cdcerr.Backendf(err, "ensure files schema")
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

func encodeHashes(hashes []chunkstore.Fingerprint) string {
	parts := make([]string, len(hashes))
	for i, h := range hashes {
		parts[i] = strconv.FormatInt(int64(h), 10) //nolint:gosec // bit-preserving, not a numeric narrowing
	}
	return strings.Join(parts, ",")
}

func decodeHashes(encoded string) ([]chunkstore.Fingerprint, error) {
	if encoded == "" {
		return nil, nil
	}
	parts := strings.Split(encoded, ",")
	hashes := make([]chunkstore.Fingerprint, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decode fingerprint %q: %w", p, err)
		}
		hashes[i] = chunkstore.Fingerprint(uint64(v))
	}
	return hashes, nil
}

func (s *Store) Get(ctx context.Context, key Key) (metastore.Manifest, error) {
	var encoded string
	var size int64

	err := s.db.QueryRowContext(ctx,
		`SELECT hashes, size FROM files WHERE id = ?`, int64(key),
	).Scan(&encoded, &size)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return metastore.Manifest{}, cdcerr.NotFoundf("key %d not found", key)
		}
		return metastore.Manifest{}, cdcerr.Backendf(err, "select files id=%d", key)
	}

	hashes, err := decodeHashes(encoded)
	if err != nil {
		return metastore.Manifest{}, cdcerr.Backendf(err, "decode hashes for id=%d", key)
	}
	return metastore.Manifest{Hashes: hashes, Size: size}, nil
}

func (s *Store) Upsert(ctx context.Context, key Key, manifest metastore.Manifest) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO files (id, hashes, size) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			hashes = excluded.hashes,
			size = excluded.size
	`, int64(key), encodeHashes(manifest.Hashes), manifest.Size)

	if err != nil {
		return cdcerr.Backendf(err, "upsert files id=%d", key)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key Key) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, int64(key)); err != nil {
		return cdcerr.Backendf(err, "delete files id=%d", key)
	}
	return nil
}

var _ metastore.Store[Key] = (*Store)(nil)
