// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil tells peers leaving apart from real socket failures.
package netutil

import (
	"errors"
	"io"
	"net"
	"syscall"
)

// departureErrnos maps the errno values a vanished peer leaves behind
// to the cause reported in logs.
var departureErrnos = map[syscall.Errno]string{
	syscall.EPIPE:      "broken_pipe",
	syscall.ECONNRESET: "reset",
	syscall.ETIMEDOUT:  "timeout",
}

// DepartureCause names why a peer went away when err is one of the
// ways a hung-up peer shows up on a socket: end of stream, a locally
// closed connection, or one of departureErrnos. It returns "" for nil
// and for anything that deserves a warning instead.
func DepartureCause(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, io.EOF):
		return "eof"
	case errors.Is(err, net.ErrClosed):
		return "closed"
	}
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return ""
	}
	return departureErrnos[errno]
}
