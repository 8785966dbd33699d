// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// canvascast broadcasts a live stream of character-cell canvases to any
// number of telnet viewers.
//
// The canvas stream is read from standard input in the framed binary
// format of package framewire, typically piped from a producer:
//
//	canvascast-demo | canvascast --listen :51914
//	telnet localhost 51914
//
// Each frame is rendered to ANSI escape sequences once and pushed to
// every viewer without ever blocking on a slow one; see package
// broadcast for the delivery rules. The server exits when standard input
// ends or on SIGINT/SIGTERM.
//
// Settings come from built-in defaults, then an optional YAML file
// (--config, or $CANVASCAST_CONFIG), then command-line flags.
package main
