package chunker

import (
	"io"

	"github.com/dedupfs/cdcstore/internal/cdcerr"
)

// ChunkRecord is one chunk emitted by the streaming variant: its bytes
// and their length (Length is redundant with len(Data) but mirrors the
// spec's ChunkRecord shape and lets callers avoid re-deriving it).
type ChunkRecord struct {
	Data   []byte
	Length int
}

// StreamSplitter pulls content-defined chunks from r one at a time,
// buffering at most roughly 2*MaxSize bytes internally so arbitrarily
// large inputs never need to be held in memory at once. This replaces
// the teacher's internal/delta.FastCDC.Chunk, which reads its whole
// reader into memory up front via io.ReadAll before chunking — adequate
// for the teacher's bounded uploads, but incompatible with the spec's
// "must work for inputs larger than available memory" requirement.
type StreamSplitter struct {
	r       io.Reader
	chunker *Chunker
	buf     []byte
	readBuf []byte
	eof     bool
}

// NewStreamSplitter creates a StreamSplitter pulling from r.
func NewStreamSplitter(r io.Reader, config Config) *StreamSplitter {
	return &StreamSplitter{
		r:       r,
		chunker: New(config),
		readBuf: make([]byte, config.MaxSize),
	}
}

// fill tops the internal buffer up to MaxSize bytes, or marks eof once
// the underlying reader is exhausted.
func (s *StreamSplitter) fill() error {
	max := s.chunker.config.MaxSize
	for !s.eof && len(s.buf) < max {
		n, err := s.r.Read(s.readBuf)
		if n > 0 {
			s.buf = append(s.buf, s.readBuf[:n]...)
		}
		if err != nil {
			if err == io.EOF {
				s.eof = true
				break
			}
			return cdcerr.Chunkingf(err, "streaming chunker read")
		}
	}
	return nil
}

// Next returns the next chunk, or io.EOF once the reader and internal
// buffer are both exhausted.
func (s *StreamSplitter) Next() (ChunkRecord, error) {
	if err := s.fill(); err != nil {
		return ChunkRecord{}, err
	}
	if len(s.buf) == 0 {
		return ChunkRecord{}, io.EOF
	}

	length := s.chunker.findBoundary(s.buf)
	data := make([]byte, length)
	copy(data, s.buf[:length])
	s.buf = s.buf[length:]

	return ChunkRecord{Data: data, Length: length}, nil
}
