package hashbuilder

import (
	"encoding/binary"
	"hash"

	"github.com/minio/highwayhash"
)

// highwayKeyExpansionConstants spread a 64-bit seed across the 32-byte key
// HighwayHash requires, deterministically and without any cryptographic
// pretense (the fingerprint is explicitly non-cryptographic per spec).
var highwayKeyExpansionConstants = [4]uint64{
	0x9E3779B97F4A7C15,
	0xC2B2AE3D27D4EB4F,
	0x165667B19E3779F9,
	0x27D4EB2F165667C5,
}

func expandHighwayKey(seed uint64) []byte {
	key := make([]byte, 32)
	for i, c := range highwayKeyExpansionConstants {
		binary.LittleEndian.PutUint64(key[i*8:(i+1)*8], seed^c)
	}
	return key
}

// HighwayBuilder produces Hasher values backed by the HighwayHash family.
type HighwayBuilder struct {
	seed uint64
}

// NewHighwayBuilder returns a Builder for HighwayHash with the given seed.
func NewHighwayBuilder(seed uint64) *HighwayBuilder {
	return &HighwayBuilder{seed: seed}
}

func (b *HighwayBuilder) New() Hasher {
	h, err := highwayhash.New64(expandHighwayKey(b.seed))
	if err != nil {
		// New64 only fails on a key of the wrong length; expandHighwayKey
		// always emits exactly 32 bytes.
		panic(err)
	}
	return highwayHasher{h}
}

// highwayHasher adapts hash.Hash64 to the narrower Hasher interface.
type highwayHasher struct {
	hash.Hash64
}
