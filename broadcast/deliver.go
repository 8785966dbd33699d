// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package broadcast

import (
	"errors"
	"fmt"
	"io"

	"github.com/bureau-foundation/canvascast/transport"
)

// errInterrupted retires a client that sent ctrl-C.
var errInterrupted = errors.New("client sent interrupt")

var resetSequence = []byte(ResetSequence)

// readInbound drains everything the client has sent, passing it through
// the telnet filter. Returns errInterrupted on ctrl-C, a wrapped error
// on socket failure, and nil once the socket would block. End of stream
// only stops reading: a viewer may shut down its write side and keep
// watching.
func (s *Server) readInbound(c *client) error {
	if c.inputClosed {
		return nil
	}
	for {
		n, err := c.conn.Read(c.inbound[:])
		if n > 0 {
			result := c.filter.Feed(c.inbound[:n])
			for _, command := range result.Commands {
				s.logger.Debug("telnet command",
					"client_id", c.id,
					"command", command.String(),
				)
			}
			if result.Interrupt {
				return errInterrupted
			}
		}
		if err != nil {
			if errors.Is(err, transport.ErrWouldBlock) {
				return nil
			}
			if errors.Is(err, io.EOF) {
				c.inputClosed = true
				s.logger.Debug("client closed its input", "client_id", c.id)
				return nil
			}
			return fmt.Errorf("reading client input: %w", err)
		}
	}
}

// deliver pushes pending output at the client without blocking: the
// rest of the handshake, then any backlog, then the current frame.
// Bytes the socket does not take are queued; a queue that cannot hold
// them is replaced with the reset sequence. Returns an error only for
// fatal socket failures.
func (s *Server) deliver(c *client) error {
	if !c.ready {
		if err := s.writeHandshake(c); err != nil {
			return err
		}
		if !c.ready {
			return nil
		}
	}
	if s.payload == nil {
		return nil
	}
	c.frames++

	if !c.queue.Empty() {
		n, err := c.conn.Write(c.queue.Pending())
		c.bytesSent += uint64(n)
		c.queue.Consume(n)
		if err != nil && !errors.Is(err, transport.ErrWouldBlock) {
			return fmt.Errorf("flushing backlog: %w", err)
		}
		if !c.queue.Empty() {
			s.enqueue(c, s.payload)
			return nil
		}
		c.queuedFrames = 0
	}

	n, err := c.conn.Write(s.payload)
	c.bytesSent += uint64(n)
	if err != nil && !errors.Is(err, transport.ErrWouldBlock) {
		return fmt.Errorf("writing frame: %w", err)
	}
	if n < len(s.payload) {
		s.enqueue(c, s.payload[n:])
	}
	return nil
}

// enqueue appends frame data to the client's backlog, or replaces the
// backlog with the reset sequence when it would not fit. On overflow the
// frame being queued and every frame still in the backlog are lost.
func (s *Server) enqueue(c *client, data []byte) {
	if err := c.queue.Append(data); err == nil {
		c.queuedFrames++
		return
	}
	c.framesSkipped += uint64(c.queuedFrames) + 1
	c.queuedFrames = 0
	c.queue.Overflow(resetSequence)
	s.logger.Debug("client backlog overflowed",
		"client_id", c.id,
		"overflows", c.queue.Overflows(),
		"frames_skipped", c.framesSkipped,
	)
}

func (s *Server) writeHandshake(c *client) error {
	if c.handshakeWritten == 0 {
		c.handshake = s.handshake
	}
	n, err := c.conn.Write(c.handshake[c.handshakeWritten:])
	c.handshakeWritten += n
	c.bytesSent += uint64(n)
	if err != nil && !errors.Is(err, transport.ErrWouldBlock) {
		return fmt.Errorf("writing handshake: %w", err)
	}
	if c.handshakeWritten == len(c.handshake) {
		c.ready = true
		c.handshake = nil
	}
	return nil
}
