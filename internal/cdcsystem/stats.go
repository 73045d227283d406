package cdcsystem

import "github.com/dedupfs/cdcstore/internal/chunkstore"

// Stats is optional dedup-ratio telemetry accumulated across every Write
// and WriteStream call on a System. It is additive to the spec's
// operation list — read-only, derived purely from state Write/WriteStream
// already produce — in the vein of the teacher's
// internal/tiering.AccessStats.
type Stats struct {
	// BytesWritten is the sum of every Write/WriteStream call's input
	// size, including bytes that deduplicated against existing chunks.
	BytesWritten int64

	// ChunksEmitted is the number of (offset, length) spans the chunker
	// has cut across every Write/WriteStream call.
	ChunksEmitted int64

	// UniqueFingerprintsSeen is the number of distinct fingerprints this
	// System has ever upserted, counting a repeated fingerprint once.
	UniqueFingerprintsSeen int64
}

// DedupRatio returns BytesWritten divided by an estimate of unique bytes
// stored, or 0 if nothing has been written yet. It is a coarse average
// (it assumes a roughly uniform chunk size) rather than an exact figure,
// since Stats doesn't track per-chunk sizes.
func (st Stats) DedupRatio(avgChunkSize int64) float64 {
	if st.UniqueFingerprintsSeen == 0 || avgChunkSize <= 0 {
		return 0
	}
	uniqueBytes := st.UniqueFingerprintsSeen * avgChunkSize
	if uniqueBytes == 0 {
		return 0
	}
	return float64(st.BytesWritten) / float64(uniqueBytes)
}

// Stats returns a snapshot of the System's accumulated dedup telemetry.
func (s *System[K]) Stats() Stats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.stats
}

// recordWrite folds one Write/WriteStream call's chunk list into the
// running Stats, tracking which fingerprints have been seen before so
// UniqueFingerprintsSeen only grows on a genuinely new fingerprint.
func (s *System[K]) recordWrite(hashes []chunkstore.Fingerprint, size int64) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	if s.seen == nil {
		s.seen = make(map[chunkstore.Fingerprint]struct{})
	}

	s.stats.BytesWritten += size
	s.stats.ChunksEmitted += int64(len(hashes))

	for _, fp := range hashes {
		if _, ok := s.seen[fp]; !ok {
			s.seen[fp] = struct{}{}
			s.stats.UniqueFingerprintsSeen++
		}
	}
}
