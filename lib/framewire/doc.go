// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package framewire parses the upstream canvas frame stream.
//
// Producers write frames back to back on a byte stream (normally the
// server's standard input). Each frame is a 16-byte header followed by
// a cell payload:
//
//	offset  size  field
//	0       4     magic "CACA"
//	4       4     reserved (producers write the payload length; ignored)
//	8       4     width in cells, big-endian uint32
//	12      4     height in cells, big-endian uint32
//	16      w*h*8 cell payload
//
// The stream carries no checksum or framing beyond the magic, so the
// [Parser] resynchronizes by scanning: bytes that cannot begin a magic
// token are discarded one at a time until the magic lines up. Garbage
// before a frame, a truncated frame followed by a fresh one, or a
// header announcing an absurd payload size (larger than the configured
// maximum) all cost skipped bytes, never an error.
//
// [Parser] is a pure state machine fed arbitrary chunks. [Reader] wraps
// an io.Reader and blocks until the next complete frame is available.
// [Encode] produces the wire form for producers and tests.
package framewire
