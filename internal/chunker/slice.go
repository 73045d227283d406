package chunker

// Split splits data into content-defined chunks, returning the
// (offset, length) span of each in emission order. Split never copies
// chunk bytes; callers slice data themselves, matching the system
// façade's pipeline (slice, then fingerprint, then upsert).
//
// Split is deterministic: identical input yields an identical sequence
// of spans. Concatenating data[s.Offset:s.Offset+s.Length] for every
// returned span, in order, reproduces data exactly.
func (c *Chunker) Split(data []byte) []Span {
	if len(data) == 0 {
		return nil
	}

	var spans []Span
	offset := 0
	remaining := data

	for len(remaining) > 0 {
		length := c.findBoundary(remaining)
		spans = append(spans, Span{Offset: offset, Length: length})
		offset += length
		remaining = remaining[length:]
	}

	return spans
}
