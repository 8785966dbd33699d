// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package broadcast

import (
	"errors"

	"github.com/bureau-foundation/canvascast/transport"
)

// AcceptOne admits at most one pending connection without blocking. The
// new viewer gets an immediate delivery attempt (its handshake, and the
// current frame if there is one and the handshake went out whole). A
// connection whose first write fails is closed and never registered.
// Returns whether a viewer was added.
func (s *Server) AcceptOne() bool {
	conn, err := s.listener.Accept()
	if err != nil {
		if !errors.Is(err, transport.ErrWouldBlock) {
			s.logger.Warn("accept failed", "error", err)
		}
		return false
	}

	s.nextID++
	c := newClient(s.nextID, conn, s.config.OutputBuffer)
	s.logger.Info("client connected",
		"client_id", c.id,
		"remote", c.remote,
		"clients", len(s.clients)+1,
	)

	if err := s.deliver(c); err != nil {
		s.retire(c, err)
		return false
	}
	s.clients[c.id] = c
	s.order = append(s.order, c.id)
	return true
}
