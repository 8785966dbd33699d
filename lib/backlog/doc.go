// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package backlog implements the bounded per-client send queue used by
// the broadcast server.
//
// A [Queue] owns a fixed-capacity byte array and a contiguous pending
// region [start, stop) within it. Bytes are consumed from the front as
// the socket accepts them and appended at the tail when a newer frame
// has to wait behind unsent data. The queue never grows: an append that
// would push the pending size past capacity fails with [ErrOverflow]
// and leaves the queue untouched, and the caller decides what to do.
// The broadcast server responds by calling [Queue.Overflow], which
// throws the pending bytes away and replaces them with a short terminal
// reset sequence, so a stalled viewer costs at most Cap bytes of memory
// and is fast-forwarded instead of replaying a long tail of stale
// frames.
//
// Queue has no socket dependency and is not safe for concurrent use; the
// broadcast loop touches each client's queue from a single goroutine.
package backlog
