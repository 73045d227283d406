//go:build cdcstore_external

// Exercised against a live PostgreSQL instance; gated behind the
// cdcstore_external build tag since none is available in this exercise.
// Run with:
//
//	go test -tags cdcstore_external ./internal/metastore/postgres/...
//
// against a database reachable at DATABASE_URL.
package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dedupfs/cdcstore/internal/cdcerr"
	"github.com/dedupfs/cdcstore/internal/chunkstore"
	"github.com/dedupfs/cdcstore/internal/metastore"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	s, err := Open(context.Background(), url)
	require.NoError(t, err)
	require.NoError(t, s.EnsureSchema(context.Background()))
	t.Cleanup(s.Close)
	return s
}

func TestPostgresUpsertThenGet(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	_, err := s.Get(ctx, 42)
	assert.True(t, cdcerr.IsNotFound(err))

	m := metastore.Manifest{Hashes: []chunkstore.Fingerprint{1, 1 << 63, 3}, Size: 1234}
	require.NoError(t, s.Upsert(ctx, 42, m))

	got, err := s.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, m, got, "fingerprint above 2^63 must round-trip bit-for-bit")
}

func TestPostgresUpsertReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	require.NoError(t, s.Upsert(ctx, 7, metastore.Manifest{Hashes: []chunkstore.Fingerprint{1}, Size: 1}))
	require.NoError(t, s.Upsert(ctx, 7, metastore.Manifest{Hashes: []chunkstore.Fingerprint{2, 3}, Size: 2}))

	got, err := s.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, metastore.Manifest{Hashes: []chunkstore.Fingerprint{2, 3}, Size: 2}, got)
}

func TestPostgresRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	require.NoError(t, s.Remove(ctx, 19))
	require.NoError(t, s.Upsert(ctx, 19, metastore.Manifest{Hashes: []chunkstore.Fingerprint{10}, Size: 1}))
	require.NoError(t, s.Remove(ctx, 19))
	require.NoError(t, s.Remove(ctx, 19))

	_, err := s.Get(ctx, 19)
	assert.True(t, cdcerr.IsNotFound(err))
}
