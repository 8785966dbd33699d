// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package transport provides the non-blocking stream sockets the
// broadcast server runs on.
//
// The broadcast loop is a single goroutine that services every viewer
// in turn, so no socket operation may ever park it. Go's net package
// hides readiness behind the runtime poller and blocks the calling
// goroutine instead, which is the wrong shape here. This package talks
// to the kernel directly through golang.org/x/sys/unix: listening and
// accepted sockets are created with SOCK_NONBLOCK, and an operation that
// cannot make progress returns [ErrWouldBlock] immediately. Would-block
// is the normal steady-state answer, not a failure; callers retry on the
// next tick.
//
// [Listener] and [Conn] are the interfaces the broadcast server depends
// on. [TCPListener] and [SocketConn] are the production implementations.
// [SocketPair] returns a connected pair of non-blocking Unix sockets for
// tests and in-process producers.
//
// Writes use MSG_NOSIGNAL, so a peer that vanished yields EPIPE rather
// than SIGPIPE. EINTR is retried internally and never surfaces.
package transport
