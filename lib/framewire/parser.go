// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package framewire

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// State is the parser's position within the frame grammar.
type State int

const (
	// StateSeekingMagic discards bytes until the magic token lines up.
	StateSeekingMagic State = iota

	// StateReadingHeader collects the rest of the 16-byte header.
	StateReadingHeader

	// StateReadingPayload collects the cell payload.
	StateReadingPayload
)

// String returns the state name for logs and test failures.
func (s State) String() string {
	switch s {
	case StateSeekingMagic:
		return "seeking-magic"
	case StateReadingHeader:
		return "reading-header"
	case StateReadingPayload:
		return "reading-payload"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Parser turns a byte stream into frames. Feed it chunks with any
// boundaries; completed frames come back in stream order. Parser is not
// safe for concurrent use.
type Parser struct {
	maxPayload uint64
	state      State

	// header accumulates the magic and header bytes. filled counts the
	// valid prefix.
	header [HeaderSize]byte
	filled int

	// frame is the buffer for the frame being assembled, allocated once
	// the header is complete. received counts the bytes copied into it.
	frame    []byte
	received int

	skipped uint64
}

// NewParser creates a parser that rejects headers announcing more than
// maxPayload payload bytes. A non-positive maxPayload selects
// DefaultMaxPayload.
func NewParser(maxPayload int) *Parser {
	if maxPayload <= 0 {
		maxPayload = DefaultMaxPayload
	}
	return &Parser{maxPayload: uint64(maxPayload)}
}

// State returns the parser's current state.
func (p *Parser) State() State {
	return p.state
}

// Skipped returns the total number of bytes discarded while seeking a
// magic token.
func (p *Parser) Skipped() uint64 {
	return p.skipped
}

// Feed consumes chunk and returns every frame it completes. The
// returned frames own their data; chunk may be reused after Feed
// returns.
func (p *Parser) Feed(chunk []byte) []Frame {
	var frames []Frame
	for len(chunk) > 0 {
		switch p.state {
		case StateSeekingMagic:
			chunk = p.seek(chunk)

		case StateReadingHeader:
			n := copy(p.header[p.filled:], chunk)
			p.filled += n
			chunk = chunk[n:]
			if p.filled < HeaderSize {
				continue
			}
			frames = append(frames, p.beginPayload()...)

		case StateReadingPayload:
			n := copy(p.frame[p.received:], chunk)
			p.received += n
			chunk = chunk[n:]
			if p.received == len(p.frame) {
				frames = append(frames, p.finish())
			}
		}
	}
	return frames
}

// seek appends bytes to the header window, dropping leading bytes
// whenever the window stops being a prefix of the magic. Returns the
// unconsumed remainder of chunk.
func (p *Parser) seek(chunk []byte) []byte {
	for len(chunk) > 0 {
		p.header[p.filled] = chunk[0]
		p.filled++
		chunk = chunk[1:]

		for p.filled > 0 && !bytes.Equal(p.header[:p.filled], Magic[:p.filled]) {
			copy(p.header[:], p.header[1:p.filled])
			p.filled--
			p.skipped++
		}
		if p.filled == MagicSize {
			p.state = StateReadingHeader
			return chunk
		}
	}
	return chunk
}

// beginPayload validates a complete header and either starts payload
// collection or, for an oversized header, discards the first magic byte
// and rescans the rest of the header.
func (p *Parser) beginPayload() []Frame {
	width := binary.BigEndian.Uint32(p.header[8:12])
	height := binary.BigEndian.Uint32(p.header[12:16])
	size := PayloadSize(width, height)

	if size > p.maxPayload {
		rescan := make([]byte, HeaderSize-1)
		copy(rescan, p.header[1:])
		p.skipped++
		p.filled = 0
		p.state = StateSeekingMagic
		return p.Feed(rescan)
	}

	p.frame = make([]byte, HeaderSize+int(size))
	copy(p.frame, p.header[:])
	p.received = HeaderSize
	p.state = StateReadingPayload
	if size == 0 {
		return []Frame{p.finish()}
	}
	return nil
}

func (p *Parser) finish() Frame {
	frame := newFrame(p.frame)
	p.frame = nil
	p.received = 0
	p.filled = 0
	p.state = StateSeekingMagic
	return frame
}
