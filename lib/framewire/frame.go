// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package framewire

import (
	"encoding/binary"
	"errors"

	"github.com/zeebo/blake3"
)

const (
	// MagicSize is the length of the magic token.
	MagicSize = 4

	// HeaderSize is the length of the full frame header, magic included.
	HeaderSize = 16

	// CellSize is the number of payload bytes per canvas cell.
	CellSize = 8

	// DefaultMaxPayload bounds the payload a header may announce. The
	// stream comes from a local producer, but a corrupted size field must
	// not be able to request an arbitrary allocation.
	DefaultMaxPayload = 64 * 1024 * 1024
)

// Magic is the token that starts every frame.
var Magic = [MagicSize]byte{'C', 'A', 'C', 'A'}

// ErrPayloadTooLarge is returned by Encode when the payload length does
// not fit the header's 32-bit field.
var ErrPayloadTooLarge = errors.New("framewire: payload too large")

// Frame is one complete frame read from the stream.
type Frame struct {
	// Width and Height are the canvas dimensions in cells.
	Width  uint32
	Height uint32

	// Data holds the header followed by the payload, exactly as read.
	// This is the buffer the canvas decoder consumes.
	Data []byte

	// Digest is the BLAKE3 hash of the payload. Two frames with equal
	// digests render identically.
	Digest [32]byte
}

// Payload returns the cell payload following the header.
func (f Frame) Payload() []byte {
	return f.Data[HeaderSize:]
}

// PayloadSize returns the payload length implied by a width and height,
// computed in 64 bits so that oversized dimensions cannot wrap.
func PayloadSize(width, height uint32) uint64 {
	return uint64(width) * uint64(height) * CellSize
}

// Encode returns the wire form of a frame with the given dimensions and
// cell payload. The payload length is not checked against the
// dimensions; that is the decoder's job.
func Encode(width, height uint32, payload []byte) ([]byte, error) {
	if uint64(len(payload)) > uint64(^uint32(0)) {
		return nil, ErrPayloadTooLarge
	}
	data := make([]byte, HeaderSize+len(payload))
	copy(data, Magic[:])
	binary.BigEndian.PutUint32(data[4:8], uint32(len(payload)))
	binary.BigEndian.PutUint32(data[8:12], width)
	binary.BigEndian.PutUint32(data[12:16], height)
	copy(data[HeaderSize:], payload)
	return data, nil
}

func newFrame(data []byte) Frame {
	return Frame{
		Width:  binary.BigEndian.Uint32(data[8:12]),
		Height: binary.BigEndian.Uint32(data[12:16]),
		Data:   data,
		Digest: blake3.Sum256(data[HeaderSize:]),
	}
}
