// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package canvas

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bureau-foundation/canvascast/lib/framewire"
)

// ErrDecode is wrapped by every error Decode returns.
var ErrDecode = errors.New("canvas: cannot decode frame")

// Color is a cell colour: an ANSI palette index 0-15 or DefaultColor.
type Color uint8

// DefaultColor selects the terminal's own foreground or background.
const DefaultColor Color = 0x10

// Style is a set of text style flags.
type Style uint8

// Style flags, matching bits 16-23 of the attribute word.
const (
	Bold Style = 1 << iota
	Italic
	Underline
	Blink
)

// allStyles masks the defined style bits.
const allStyles = Bold | Italic | Underline | Blink

// Attr is the visual attribute of one cell.
type Attr struct {
	Foreground Color
	Background Color
	Style      Style
}

// DefaultAttr renders with the terminal's default colours and no style.
var DefaultAttr = Attr{Foreground: DefaultColor, Background: DefaultColor}

// Cell is one character position on the canvas.
type Cell struct {
	Rune rune
	Attr Attr
}

// Canvas is a decoded frame. Cells are stored row-major.
type Canvas struct {
	Width  int
	Height int
	Cells  []Cell
}

// New creates a canvas filled with spaces in DefaultAttr.
func New(width, height int) *Canvas {
	cells := make([]Cell, width*height)
	for i := range cells {
		cells[i] = Cell{Rune: ' ', Attr: DefaultAttr}
	}
	return &Canvas{Width: width, Height: height, Cells: cells}
}

// Set writes a cell. Out-of-range coordinates are ignored.
func (c *Canvas) Set(x, y int, r rune, attr Attr) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	c.Cells[y*c.Width+x] = Cell{Rune: r, Attr: attr}
}

// At returns the cell at x, y. The coordinates must be in range.
func (c *Canvas) At(x, y int) Cell {
	return c.Cells[y*c.Width+x]
}

// PutString writes s starting at x, y, one rune per cell, clipping at
// the right edge.
func (c *Canvas) PutString(x, y int, s string, attr Attr) {
	for _, r := range s {
		c.Set(x, y, r, attr)
		x++
	}
}

// Decode parses a complete frame (header and payload) into a Canvas.
func Decode(frame []byte) (*Canvas, error) {
	if len(frame) < framewire.HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrDecode, len(frame))
	}
	if !bytes.Equal(frame[:framewire.MagicSize], framewire.Magic[:]) {
		return nil, fmt.Errorf("%w: bad magic %q", ErrDecode, frame[:framewire.MagicSize])
	}
	width := binary.BigEndian.Uint32(frame[8:12])
	height := binary.BigEndian.Uint32(frame[12:16])
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: empty canvas %dx%d", ErrDecode, width, height)
	}
	want := framewire.PayloadSize(width, height)
	payload := frame[framewire.HeaderSize:]
	if uint64(len(payload)) != want {
		return nil, fmt.Errorf("%w: %dx%d canvas needs %d payload bytes, got %d",
			ErrDecode, width, height, want, len(payload))
	}

	canvas := &Canvas{
		Width:  int(width),
		Height: int(height),
		Cells:  make([]Cell, int(width)*int(height)),
	}
	for i := range canvas.Cells {
		offset := i * framewire.CellSize
		codepoint := binary.BigEndian.Uint32(payload[offset : offset+4])
		word := binary.BigEndian.Uint32(payload[offset+4 : offset+8])

		r := rune(codepoint)
		if codepoint > utf8.MaxRune || !utf8.ValidRune(r) {
			return nil, fmt.Errorf("%w: cell %d holds invalid code point %#x", ErrDecode, i, codepoint)
		}
		attr, err := decodeAttr(word)
		if err != nil {
			return nil, fmt.Errorf("%w: cell %d: %v", ErrDecode, i, err)
		}
		canvas.Cells[i] = Cell{Rune: r, Attr: attr}
	}
	return canvas, nil
}

// Encode returns the wire form of the canvas, header included.
func Encode(canvas *Canvas) ([]byte, error) {
	payload := make([]byte, len(canvas.Cells)*framewire.CellSize)
	for i, cell := range canvas.Cells {
		offset := i * framewire.CellSize
		binary.BigEndian.PutUint32(payload[offset:offset+4], uint32(cell.Rune))
		binary.BigEndian.PutUint32(payload[offset+4:offset+8], encodeAttr(cell.Attr))
	}
	return framewire.Encode(uint32(canvas.Width), uint32(canvas.Height), payload)
}

func decodeAttr(word uint32) (Attr, error) {
	if word>>24 != 0 {
		return Attr{}, fmt.Errorf("reserved attribute bits set in %#08x", word)
	}
	attr := Attr{
		Foreground: Color(word),
		Background: Color(word >> 8),
		Style:      Style(word >> 16),
	}
	if attr.Foreground > DefaultColor || attr.Background > DefaultColor {
		return Attr{}, fmt.Errorf("colour out of range in %#08x", word)
	}
	if attr.Style&^allStyles != 0 {
		return Attr{}, fmt.Errorf("unknown style flags in %#08x", word)
	}
	return attr, nil
}

func encodeAttr(attr Attr) uint32 {
	return uint32(attr.Foreground) | uint32(attr.Background)<<8 | uint32(attr.Style)<<16
}

// FromText lays text out on a new width x height canvas, one line per
// row, clipping lines and rows that do not fit.
func FromText(width, height int, text string, attr Attr) *Canvas {
	canvas := New(width, height)
	for y, line := range strings.Split(text, "\n") {
		if y >= height {
			break
		}
		canvas.PutString(0, y, strings.TrimSuffix(line, "\r"), attr)
	}
	return canvas
}
