package hashbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allFamilies = []Family{Wyhash, XXH3, HighwayHash}

func TestNewRejectsUnknownFamily(t *testing.T) {
	_, err := New("not-a-family", 0)
	require.Error(t, err)
	var unknown *UnknownFamilyError
	require.ErrorAs(t, err, &unknown)
}

func TestNewDefaultsEmptyFamilyToWyhash(t *testing.T) {
	b, err := New("", 1)
	require.NoError(t, err)
	_, ok := b.(*WyhashBuilder)
	assert.True(t, ok)
}

func TestEqualContentProducesEqualFingerprints(t *testing.T) {
	for _, family := range allFamilies {
		t.Run(string(family), func(t *testing.T) {
			b, err := New(family, DefaultSeed)
			require.NoError(t, err)

			data := []byte("the quick brown fox jumps over the lazy dog")

			h1 := b.New()
			_, _ = h1.Write(data)

			h2 := b.New()
			_, _ = h2.Write(data)

			assert.Equal(t, h1.Sum64(), h2.Sum64())
		})
	}
}

func TestDifferentContentLikelyProducesDifferentFingerprints(t *testing.T) {
	for _, family := range allFamilies {
		t.Run(string(family), func(t *testing.T) {
			b, err := New(family, DefaultSeed)
			require.NoError(t, err)

			h1 := b.New()
			_, _ = h1.Write([]byte("alpha"))

			h2 := b.New()
			_, _ = h2.Write([]byte("beta"))

			assert.NotEqual(t, h1.Sum64(), h2.Sum64())
		})
	}
}

func TestDifferentSeedsProduceDifferentFingerprintsForSameFamily(t *testing.T) {
	for _, family := range allFamilies {
		t.Run(string(family), func(t *testing.T) {
			b1, err := New(family, 1)
			require.NoError(t, err)
			b2, err := New(family, 2)
			require.NoError(t, err)

			data := []byte("stable content")

			h1 := b1.New()
			_, _ = h1.Write(data)

			h2 := b2.New()
			_, _ = h2.Write(data)

			assert.NotEqual(t, h1.Sum64(), h2.Sum64())
		})
	}
}

func TestWriteInTwoPartsMatchesOneShot(t *testing.T) {
	for _, family := range allFamilies {
		t.Run(string(family), func(t *testing.T) {
			b, err := New(family, DefaultSeed)
			require.NoError(t, err)

			whole := b.New()
			_, _ = whole.Write([]byte("hello world"))

			split := b.New()
			_, _ = split.Write([]byte("hello"))
			_, _ = split.Write([]byte(" world"))

			assert.Equal(t, whole.Sum64(), split.Sum64())
		})
	}
}
