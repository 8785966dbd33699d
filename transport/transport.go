// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"errors"
	"io"
)

// ErrWouldBlock is returned when a non-blocking socket operation cannot
// proceed without waiting. Write may return it together with a positive
// count of bytes that were accepted before the socket filled up.
var ErrWouldBlock = errors.New("transport: operation would block")

// Conn is a non-blocking stream connection to one viewer.
//
// Read returns ErrWouldBlock when no data is available and io.EOF when
// the peer closed its side. Write writes as much of p as the socket
// accepts: a short count comes with ErrWouldBlock, any other error means
// the connection is unusable.
type Conn interface {
	io.ReadWriteCloser

	// RemoteAddress returns the peer address for logs.
	RemoteAddress() string
}

// Listener accepts viewer connections without blocking.
type Listener interface {
	// Accept returns the next pending connection, or ErrWouldBlock if
	// none is queued.
	Accept() (Conn, error)

	// Address returns the bound address in "host:port" form.
	Address() string

	// Close stops listening. Connections already accepted stay open.
	Close() error
}
