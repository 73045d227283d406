package hashbuilder

import "github.com/zeebo/xxh3"

// XXH3Builder produces Hasher values backed by the XXH3 family.
type XXH3Builder struct {
	seed uint64
}

// NewXXH3Builder returns a Builder for XXH3 with the given seed.
func NewXXH3Builder(seed uint64) *XXH3Builder {
	return &XXH3Builder{seed: seed}
}

func (b *XXH3Builder) New() Hasher {
	return xxh3.NewSeed(b.seed)
}
