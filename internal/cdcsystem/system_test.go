package cdcsystem

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dedupfs/cdcstore/internal/cdcerr"
	chunkmem "github.com/dedupfs/cdcstore/internal/chunkstore/memory"
	"github.com/dedupfs/cdcstore/internal/hashbuilder"
	metamem "github.com/dedupfs/cdcstore/internal/metastore/memory"
)

func newTestSystem(t *testing.T) (*System[int], *chunkmem.Store) {
	t.Helper()
	return newTestSystemOf[int](t)
}

func newTestSystemOf[K comparable](t *testing.T) (*System[K], *chunkmem.Store) {
	t.Helper()
	builder, err := hashbuilder.New(hashbuilder.DefaultFamily, hashbuilder.DefaultSeed)
	require.NoError(t, err)

	chunks := chunkmem.New()
	sys := New(Config[K]{
		Hasher: builder,
		Chunks: chunks,
		Meta:   metamem.New[K](),
		Logger: zerolog.Nop(),
	})
	return sys, chunks
}

// S1 — small roundtrip.
func TestS1SmallRoundtrip(t *testing.T) {
	ctx := context.Background()
	sys, chunks := newTestSystem(t)

	source := strings.Repeat("Hello World!", 10_000)
	require.NoError(t, sys.Write(ctx, 42, []byte(source)))

	got, err := sys.Read(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, source, string(got))
	assert.GreaterOrEqual(t, chunks.Len(), 1)
}

// S2 — update.
func TestS2Update(t *testing.T) {
	ctx := context.Background()
	sys, _ := newTestSystem(t)

	require.NoError(t, sys.Write(ctx, 42, []byte("Initial contents")))
	require.NoError(t, sys.Write(ctx, 42, []byte("Updated contents")))

	got, err := sys.Read(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Updated contents", string(got))
}

// S3 — missing key.
func TestS3MissingKey(t *testing.T) {
	ctx := context.Background()
	sys, _ := newTestSystem(t)

	_, err := sys.Read(ctx, 42)
	assert.True(t, cdcerr.IsNotFound(err))

	assert.NoError(t, sys.Delete(ctx, 42))
}

func fixture(n int, pattern byte) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = pattern + byte(i%251)
	}
	return data
}

// S4/S5 — fixture-shaped roundtrip, and streaming-write parity.
func TestS4AndS5FixtureRoundtripAndStreamingParity(t *testing.T) {
	ctx := context.Background()
	sizes := map[string]int{
		"jpg":  2*1024*1024 + 500*1024,
		"ogg":  5 * 1024 * 1024,
		"pdf":  1024 * 1024,
		"docx": 1024 * 1024,
	}

	for name, size := range sizes {
		t.Run(name, func(t *testing.T) {
			sys, _ := newTestSystem(t)
			data := fixture(size, byte(len(name)))

			require.NoError(t, sys.Write(ctx, name, data))
			got, err := sys.Read(ctx, name)
			require.NoError(t, err)
			assert.Equal(t, data, got)

			streamKey := name + "-stream"
			require.NoError(t, sys.WriteStream(ctx, streamKey, bytes.NewReader(data)))
			got, err = sys.Read(ctx, streamKey)
			require.NoError(t, err)
			assert.Equal(t, data, got)
		})
	}
}

// S6 — same content, two keys: chunk store cardinality unchanged.
func TestS6SameContentTwoKeys(t *testing.T) {
	ctx := context.Background()
	sys, chunks := newTestSystem(t)
	data := fixture(3*1024*1024, 7)

	require.NoError(t, sys.Write(ctx, 1, data))
	after1 := chunks.Len()

	require.NoError(t, sys.Write(ctx, 2, data))
	after2 := chunks.Len()

	assert.Equal(t, after1, after2, "writing identical content under a new key adds no new chunks")

	got1, err := sys.Read(ctx, 1)
	require.NoError(t, err)
	got2, err := sys.Read(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, got1, got2)
	assert.Equal(t, data, got1)
}

// Invariant 4 — streaming equals materialized.
func TestReadStreamEqualsRead(t *testing.T) {
	ctx := context.Background()
	sys, _ := newTestSystemOf[string](t)
	data := fixture(200*1024, 3)

	require.NoError(t, sys.Write(ctx, "k", data))

	materialized, err := sys.Read(ctx, "k")
	require.NoError(t, err)

	r, err := sys.ReadStream(ctx, "k")
	require.NoError(t, err)
	streamed, err := io.ReadAll(r)
	require.NoError(t, err)

	assert.Equal(t, materialized, streamed)
}

// Invariant 5 — ReadInto writes exactly the bytes.
func TestReadInto(t *testing.T) {
	ctx := context.Background()
	sys, _ := newTestSystemOf[string](t)
	data := fixture(150*1024, 9)

	require.NoError(t, sys.Write(ctx, "k", data))

	var buf bytes.Buffer
	require.NoError(t, sys.ReadInto(ctx, "k", &buf))
	assert.Equal(t, data, buf.Bytes())
}

// Invariant 6 — manifest size equals sum of chunk lengths, surfaced via
// Reader.Manifest().
func TestReaderManifestSizeMatchesChunkBytes(t *testing.T) {
	ctx := context.Background()
	sys, _ := newTestSystemOf[string](t)
	data := fixture(300*1024, 11)

	require.NoError(t, sys.Write(ctx, "k", data))
	r, err := sys.ReadStream(ctx, "k")
	require.NoError(t, err)

	all, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.EqualValues(t, len(all), r.Manifest().Size)
}

// Invariant 3 — delete then read is NotFound.
func TestDeleteThenReadIsNotFound(t *testing.T) {
	ctx := context.Background()
	sys, _ := newTestSystemOf[string](t)

	require.NoError(t, sys.Write(ctx, "k", []byte("data")))
	require.NoError(t, sys.Delete(ctx, "k"))

	_, err := sys.Read(ctx, "k")
	assert.True(t, cdcerr.IsNotFound(err))
}

// Invariant 10 — copy.
func TestCopy(t *testing.T) {
	ctx := context.Background()
	sys, chunks := newTestSystemOf[string](t)
	data := fixture(2*1024*1024, 13)

	require.NoError(t, sys.Write(ctx, "src", data))
	before := chunks.Len()

	require.NoError(t, sys.Copy(ctx, "src", "dst"))
	after := chunks.Len()

	assert.Equal(t, before, after, "copy must not duplicate chunk bytes")

	got, err := sys.Read(ctx, "dst")
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

// Chunk-store NotFound during Read surfaces as a Backend error, never a
// silent "blob absent."
func TestReadSurfacesChunkCorruptionAsBackendError(t *testing.T) {
	ctx := context.Background()
	sys, chunks := newTestSystemOf[string](t)

	require.NoError(t, sys.Write(ctx, "k", fixture(50*1024, 1)))

	r, err := sys.ReadStream(ctx, "k")
	require.NoError(t, err)
	for _, fp := range r.Manifest().Hashes {
		_ = chunks.Remove(ctx, fp)
	}

	_, err = sys.Read(ctx, "k")
	require.Error(t, err)
	assert.True(t, cdcerr.IsBackend(err))
}

func TestStatsTracksDedup(t *testing.T) {
	ctx := context.Background()
	sys, _ := newTestSystem(t)
	data := fixture(3*1024*1024, 21)

	require.NoError(t, sys.Write(ctx, 1, data))
	firstStats := sys.Stats()

	require.NoError(t, sys.Write(ctx, 2, data))
	secondStats := sys.Stats()

	assert.Equal(t, firstStats.UniqueFingerprintsSeen, secondStats.UniqueFingerprintsSeen,
		"writing identical content again must not add new unique fingerprints")
	assert.Greater(t, secondStats.BytesWritten, firstStats.BytesWritten)
}
