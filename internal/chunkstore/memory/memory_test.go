package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dedupfs/cdcstore/internal/cdcerr"
	"github.com/dedupfs/cdcstore/internal/chunkstore"
)

func TestGetMissingReturnsNotFound(t *testing.T) {
	s := New()
	_, err := s.Get(context.Background(), chunkstore.Fingerprint(1))
	assert.True(t, cdcerr.IsNotFound(err))
}

func TestUpsertThenGetRoundtrips(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Upsert(ctx, 42, []byte("hello")))
	data, err := s.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestUpsertDuplicateIsNoop(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Upsert(ctx, 42, []byte("first")))
	require.NoError(t, s.Upsert(ctx, 42, []byte("second")))

	data, err := s.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), data, "existing blob stays authoritative")
	assert.Equal(t, 1, s.Len())
}

func TestRemoveMissingReturnsNotFound(t *testing.T) {
	s := New()
	err := s.Remove(context.Background(), 99)
	assert.True(t, cdcerr.IsNotFound(err))
}

func TestRemoveExisting(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Upsert(ctx, 1, []byte("x")))
	require.NoError(t, s.Remove(ctx, 1))

	_, err := s.Get(ctx, 1)
	assert.True(t, cdcerr.IsNotFound(err))
	assert.Equal(t, 0, s.Len())
}

func TestGetReturnsIndependentCopy(t *testing.T) {
	ctx := context.Background()
	s := New()
	original := []byte("mutate me")
	require.NoError(t, s.Upsert(ctx, 1, original))

	data, err := s.Get(ctx, 1)
	require.NoError(t, err)
	data[0] = 'X'

	reread, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte("mutate me"), reread)
}
