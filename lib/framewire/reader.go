// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package framewire

import "io"

// readChunkSize is how many bytes Reader asks the source for at once.
const readChunkSize = 64 * 1024

// Reader reads frames from a byte stream, blocking until a complete
// frame is available.
type Reader struct {
	source  io.Reader
	parser  *Parser
	buffer  []byte
	pending []Frame
}

// NewReader creates a Reader over source. See NewParser for maxPayload.
func NewReader(source io.Reader, maxPayload int) *Reader {
	return &Reader{
		source: source,
		parser: NewParser(maxPayload),
		buffer: make([]byte, readChunkSize),
	}
}

// Next returns the next complete frame. Malformed input is skipped
// silently. Returns io.EOF when the source ends, including when it ends
// partway through a frame; other source errors are returned unchanged.
func (r *Reader) Next() (Frame, error) {
	for len(r.pending) == 0 {
		n, err := r.source.Read(r.buffer)
		if n > 0 {
			r.pending = append(r.pending, r.parser.Feed(r.buffer[:n])...)
		}
		if err != nil {
			if len(r.pending) > 0 {
				break
			}
			return Frame{}, err
		}
	}
	frame := r.pending[0]
	r.pending[0] = Frame{}
	r.pending = r.pending[1:]
	return frame, nil
}

// Skipped returns the number of garbage bytes discarded so far.
func (r *Reader) Skipped() uint64 {
	return r.parser.Skipped()
}
