// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package framewire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"testing/iotest"
)

// testFrame encodes a frame whose payload is a recognizable byte pattern.
func testFrame(t *testing.T, width, height uint32, fill byte) []byte {
	t.Helper()
	payload := bytes.Repeat([]byte{fill}, int(PayloadSize(width, height)))
	data, err := Encode(width, height, payload)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return data
}

func TestParserSingleFrame(t *testing.T) {
	t.Parallel()
	data := testFrame(t, 3, 2, 0xAB)

	parser := NewParser(0)
	frames := parser.Feed(data)

	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	frame := frames[0]
	if frame.Width != 3 || frame.Height != 2 {
		t.Errorf("dimensions: got %dx%d, want 3x2", frame.Width, frame.Height)
	}
	if !bytes.Equal(frame.Data, data) {
		t.Error("frame data differs from the encoded input")
	}
	if len(frame.Payload()) != 3*2*CellSize {
		t.Errorf("payload length: got %d, want %d", len(frame.Payload()), 3*2*CellSize)
	}
	if parser.State() != StateSeekingMagic {
		t.Errorf("state after frame: got %v, want %v", parser.State(), StateSeekingMagic)
	}
	if parser.Skipped() != 0 {
		t.Errorf("Skipped: got %d, want 0", parser.Skipped())
	}
}

func TestParserResynchronizesAfterGarbage(t *testing.T) {
	t.Parallel()
	garbage := []byte("xxCACxCA\x00\xffCAC garbage C")
	frame := testFrame(t, 2, 2, 0x11)

	parser := NewParser(0)
	frames := parser.Feed(append(append([]byte{}, garbage...), frame...))

	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	if !bytes.Equal(frames[0].Data, frame) {
		t.Error("decoded frame does not match the well-formed input")
	}
	if parser.Skipped() != uint64(len(garbage)) {
		t.Errorf("Skipped: got %d, want %d", parser.Skipped(), len(garbage))
	}
}

func TestParserOverlappingMagicPrefix(t *testing.T) {
	t.Parallel()
	// "CCACA..." must not lose the real magic that starts at offset 1.
	frame := testFrame(t, 1, 1, 0x22)
	input := append([]byte("C"), frame...)

	frames := NewParser(0).Feed(input)
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
}

func TestParserArbitraryChunkBoundaries(t *testing.T) {
	t.Parallel()
	var stream []byte
	stream = append(stream, "junk"...)
	stream = append(stream, testFrame(t, 4, 1, 0x01)...)
	stream = append(stream, "CX"...)
	stream = append(stream, testFrame(t, 1, 3, 0x02)...)
	stream = append(stream, testFrame(t, 2, 2, 0x03)...)

	for _, chunkSize := range []int{1, 2, 3, 5, 7, 16, 17, 1000} {
		parser := NewParser(0)
		var frames []Frame
		for offset := 0; offset < len(stream); offset += chunkSize {
			end := offset + chunkSize
			if end > len(stream) {
				end = len(stream)
			}
			frames = append(frames, parser.Feed(stream[offset:end])...)
		}

		if len(frames) != 3 {
			t.Fatalf("chunk size %d: got %d frames, want 3", chunkSize, len(frames))
		}
		wantFills := []byte{0x01, 0x02, 0x03}
		for i, frame := range frames {
			if frame.Payload()[0] != wantFills[i] {
				t.Errorf("chunk size %d frame %d: payload starts with %#x, want %#x",
					chunkSize, i, frame.Payload()[0], wantFills[i])
			}
		}
	}
}

func TestParserStatesAcrossChunks(t *testing.T) {
	t.Parallel()
	data := testFrame(t, 2, 1, 0x33)
	parser := NewParser(0)

	parser.Feed([]byte("CA"))
	if parser.State() != StateSeekingMagic {
		t.Errorf("after partial magic: got %v, want %v", parser.State(), StateSeekingMagic)
	}
	parser.Feed(data[2:6])
	if parser.State() != StateReadingHeader {
		t.Errorf("after magic: got %v, want %v", parser.State(), StateReadingHeader)
	}
	parser.Feed(data[6:HeaderSize])
	if parser.State() != StateReadingPayload {
		t.Errorf("after header: got %v, want %v", parser.State(), StateReadingPayload)
	}
	frames := parser.Feed(data[HeaderSize:])
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
}

func TestParserRejectsOversizedHeader(t *testing.T) {
	t.Parallel()
	// A header announcing a huge canvas, followed by a valid small frame.
	bogus := make([]byte, HeaderSize)
	copy(bogus, Magic[:])
	binary.BigEndian.PutUint32(bogus[8:12], 100000)
	binary.BigEndian.PutUint32(bogus[12:16], 100000)
	valid := testFrame(t, 2, 2, 0x44)

	parser := NewParser(1024)
	frames := parser.Feed(append(bogus, valid...))

	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	if !bytes.Equal(frames[0].Data, valid) {
		t.Error("expected the valid frame after the oversized header")
	}
	if parser.Skipped() != HeaderSize {
		t.Errorf("Skipped: got %d, want %d", parser.Skipped(), HeaderSize)
	}
}

func TestParserZeroSizedFrame(t *testing.T) {
	t.Parallel()
	data := testFrame(t, 0, 24, 0)

	frames := NewParser(0).Feed(data)
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	if len(frames[0].Payload()) != 0 {
		t.Errorf("payload length: got %d, want 0", len(frames[0].Payload()))
	}
}

func TestParserFramesOwnTheirData(t *testing.T) {
	t.Parallel()
	chunk := testFrame(t, 1, 1, 0x55)
	frames := NewParser(0).Feed(chunk)
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	for i := range chunk {
		chunk[i] = 0
	}
	if frames[0].Payload()[0] != 0x55 {
		t.Error("frame data aliases the caller's chunk")
	}
}

func TestFrameDigest(t *testing.T) {
	t.Parallel()
	first := NewParser(0).Feed(testFrame(t, 2, 2, 0x66))[0]
	same := NewParser(0).Feed(testFrame(t, 2, 2, 0x66))[0]
	different := NewParser(0).Feed(testFrame(t, 2, 2, 0x67))[0]

	if first.Digest != same.Digest {
		t.Error("identical payloads produced different digests")
	}
	if first.Digest == different.Digest {
		t.Error("different payloads produced the same digest")
	}
}

func TestReaderNext(t *testing.T) {
	t.Parallel()
	var stream bytes.Buffer
	stream.WriteString("noise")
	stream.Write(testFrame(t, 2, 1, 0x01))
	stream.Write(testFrame(t, 1, 1, 0x02))

	reader := NewReader(iotest.OneByteReader(&stream), 0)

	for i, want := range []byte{0x01, 0x02} {
		frame, err := reader.Next()
		if err != nil {
			t.Fatalf("Next #%d: %v", i, err)
		}
		if frame.Payload()[0] != want {
			t.Errorf("frame %d: payload starts with %#x, want %#x", i, frame.Payload()[0], want)
		}
	}

	if _, err := reader.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next at end of stream: got %v, want io.EOF", err)
	}
	if reader.Skipped() != 5 {
		t.Errorf("Skipped: got %d, want 5", reader.Skipped())
	}
}

func TestReaderTruncatedFrameIsEOF(t *testing.T) {
	t.Parallel()
	data := testFrame(t, 4, 4, 0x01)
	reader := NewReader(bytes.NewReader(data[:len(data)-3]), 0)

	if _, err := reader.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next on truncated frame: got %v, want io.EOF", err)
	}
}

func TestReaderReturnsFrameDeliveredWithError(t *testing.T) {
	t.Parallel()
	data := testFrame(t, 1, 1, 0x09)
	reader := NewReader(iotest.DataErrReader(bytes.NewReader(data)), 0)

	frame, err := reader.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if frame.Payload()[0] != 0x09 {
		t.Errorf("payload: got %#x, want 0x09", frame.Payload()[0])
	}
	if _, err := reader.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("second Next: got %v, want io.EOF", err)
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()
	if got := StateReadingPayload.String(); got != "reading-payload" {
		t.Errorf("String: got %q", got)
	}
	if got := State(9).String(); got != "State(9)" {
		t.Errorf("String for unknown state: got %q", got)
	}
}
