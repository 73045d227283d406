// Package hashbuilder provides the pluggable 64-bit non-cryptographic
// fingerprint hasher required by the chunking pipeline. A Builder is a
// factory for a fresh streaming Hasher; callers get a new Hasher per
// chunk so state never leaks between fingerprints.
package hashbuilder

import "io"

// Hasher is a streaming 64-bit hasher: incremental Write followed by a
// terminal Sum64.
type Hasher interface {
	io.Writer
	Sum64() uint64
}

// Builder produces a fresh Hasher on demand.
type Builder interface {
	New() Hasher
}

// Family names the three required hash families plus the canonical
// default.
type Family string

const (
	// Wyhash selects the wyhash-family builder.
	Wyhash Family = "wyhash"
	// XXH3 selects the xxh3-family builder.
	XXH3 Family = "xxh3"
	// HighwayHash selects the HighwayHash-family builder.
	HighwayHash Family = "highwayhash"

	// DefaultFamily is the family used when none is configured.
	// Open Question 2 of the spec: source revisions disagree between a
	// hard-coded seed of 42 and a zero-value default builder. This
	// module fixes wyhash with seed 42 as the system default so that
	// dedup is stable across a corpus unless a caller opts into a
	// different family.
	DefaultFamily = Wyhash

	// DefaultSeed is the fixed seed paired with DefaultFamily.
	DefaultSeed uint64 = 42
)

// New constructs the Builder for the given family and seed.
func New(family Family, seed uint64) (Builder, error) {
	switch family {
	case Wyhash, "":
		return NewWyhashBuilder(seed), nil
	case XXH3:
		return NewXXH3Builder(seed), nil
	case HighwayHash:
		return NewHighwayBuilder(seed), nil
	default:
		return nil, &UnknownFamilyError{Family: family}
	}
}

// UnknownFamilyError is returned by New for an unrecognized Family.
type UnknownFamilyError struct {
	Family Family
}

func (e *UnknownFamilyError) Error() string {
	return "hashbuilder: unknown family " + string(e.Family)
}
