// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package canvas decodes framed character canvases and renders them as
// ANSI terminal output.
//
// A canvas is a width x height grid of cells. On the wire (see package
// framewire for the header) each cell takes 8 bytes: a big-endian
// uint32 Unicode code point followed by a big-endian uint32 attribute
// word laid out as
//
//	bits 0-7    foreground colour (0-15 ANSI index, 0x10 default)
//	bits 8-15   background colour (same encoding)
//	bits 16-23  style flags (bold, italic, underline, blink)
//	bits 24-31  reserved, must be zero
//
// [Decode] validates a frame and returns a [Canvas]. [Render] produces
// the bytes a terminal viewer receives: one line per canvas row, SGR
// sequences emitted only when the attribute changes, and every line
// terminated by a style reset and "\r\n". Rendering is deterministic, so
// equal canvases always produce equal bytes. [Encode] is the inverse of
// Decode for producers.
package canvas
