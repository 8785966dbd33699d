// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package broadcast

import (
	"bytes"
	"encoding/binary"

	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/canvascast/lib/telnet"
)

// DefaultTitle is the window title requested from every viewer.
const DefaultTitle = "caca for the network"

// FramePrefix precedes every frame sent to a viewer.
const FramePrefix = ansi.CursorHomePosition

// ResetSequence replaces a viewer's backlog when it overflows. It resets
// attributes and moves the viewer to a clean alternate screen, so the
// next frame draws over a blank terminal instead of a half-written one.
const ResetSequence = ansi.ResetStyle +
	ansi.SetAltScreenSaveCursorMode +
	ansi.EraseEntireScreen +
	ansi.CursorHomePosition

// Handshake returns the initialization bytes sent once to each viewer:
// telnet negotiation (server echoes, suppress go-ahead, negotiate window
// size), a window size subnegotiation carrying the canvas dimensions,
// the window title, and a screen clear. Dimensions above 65535 are
// clamped; 0xFF bytes inside the subnegotiation are doubled as telnet
// requires.
func Handshake(title string, width, height uint32) []byte {
	var buffer bytes.Buffer
	buffer.Write([]byte{telnet.IAC, telnet.WILL, telnet.OptionEcho})
	buffer.Write([]byte{telnet.IAC, telnet.WILL, telnet.OptionSuppressGoAhead})
	buffer.Write([]byte{telnet.IAC, telnet.DO, telnet.OptionNAWS})

	buffer.Write([]byte{telnet.IAC, telnet.SB, telnet.OptionNAWS})
	var size [4]byte
	binary.BigEndian.PutUint16(size[0:2], clamp16(width))
	binary.BigEndian.PutUint16(size[2:4], clamp16(height))
	for _, b := range size {
		buffer.WriteByte(b)
		if b == telnet.IAC {
			buffer.WriteByte(telnet.IAC)
		}
	}
	buffer.Write([]byte{telnet.IAC, telnet.SE})

	buffer.WriteString(ansi.SetWindowTitle(title))
	buffer.WriteString(ansi.CursorHomePosition)
	buffer.WriteString(ansi.EraseScreenBelow)
	return buffer.Bytes()
}

func clamp16(value uint32) uint16 {
	if value > 0xFFFF {
		return 0xFFFF
	}
	return uint16(value)
}
