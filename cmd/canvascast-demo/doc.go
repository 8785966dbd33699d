// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// canvascast-demo writes an animated test pattern to standard output as
// a stream of framed canvases, for feeding canvascast:
//
//	canvascast-demo --fps 15 | canvascast
//
// The pattern is scrolling colour bars in every foreground/background
// combination with a banner and frame counter in the middle. It refuses
// to write binary frames to a terminal.
package main
