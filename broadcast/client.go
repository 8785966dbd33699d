// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package broadcast

import (
	"github.com/bureau-foundation/canvascast/lib/backlog"
	"github.com/bureau-foundation/canvascast/lib/telnet"
	"github.com/bureau-foundation/canvascast/transport"
)

// inboundChunk is how many bytes are read from a viewer per read call.
// Viewer input is discarded apart from telnet commands and ctrl-C, so
// a small buffer drained in a loop is enough.
const inboundChunk = 32

// client is one connected viewer. Owned by the server goroutine.
type client struct {
	id     uint64
	conn   transport.Conn
	remote string

	// ready is set once the whole handshake has been written. Frames
	// are only sent to ready clients.
	ready bool
	// handshake is the handshake being written and handshakeWritten how
	// much of it the kernel has accepted. The slice is taken from the
	// server when the first byte goes out, so a dimension change cannot
	// splice two different handshakes together.
	handshake        []byte
	handshakeWritten int

	filter  telnet.Filter
	inbound [inboundChunk]byte

	// inputClosed is set once the viewer half-closes its side. The
	// socket is not read again but frames keep flowing.
	inputClosed bool

	queue *backlog.Queue

	// queuedFrames counts frames with bytes still sitting in queue.
	queuedFrames int

	bytesSent     uint64
	frames        uint64
	framesSkipped uint64
}

func newClient(id uint64, conn transport.Conn, capacity int) *client {
	return &client{
		id:     id,
		conn:   conn,
		remote: conn.RemoteAddress(),
		queue:  backlog.New(capacity),
	}
}

// logAttrs returns the attributes identifying this client in log lines,
// followed by its lifetime counters.
func (c *client) logAttrs() []any {
	return []any{
		"client_id", c.id,
		"remote", c.remote,
		"bytes_sent", c.bytesSent,
		"frames", c.frames,
		"frames_skipped", c.framesSkipped,
		"overflows", c.queue.Overflows(),
	}
}
