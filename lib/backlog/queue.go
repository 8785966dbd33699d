// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package backlog

import (
	"errors"
	"fmt"
)

// DefaultCapacity is the default per-client queue capacity in bytes.
// 300 KB holds a few full-screen colour frames for a large terminal.
const DefaultCapacity = 300000

// ErrOverflow is returned by Append when the new bytes would not fit
// alongside the bytes already pending.
var ErrOverflow = errors.New("backlog: capacity exceeded")

// Queue is a fixed-capacity byte queue with a single contiguous pending
// region. The invariant 0 <= start <= stop <= Cap() holds after every
// method returns.
type Queue struct {
	data []byte
	// start and stop delimit the pending region within data.
	start int
	stop  int
	// overflows counts Overflow calls over the queue's lifetime.
	overflows uint64
}

// New creates a Queue holding at most capacity bytes. The capacity must
// be positive.
func New(capacity int) *Queue {
	if capacity <= 0 {
		panic(fmt.Sprintf("backlog: capacity must be positive, got %d", capacity))
	}
	return &Queue{data: make([]byte, capacity)}
}

// Cap returns the fixed capacity in bytes.
func (q *Queue) Cap() int {
	return len(q.data)
}

// Len returns the number of pending bytes.
func (q *Queue) Len() int {
	return q.stop - q.start
}

// Empty reports whether nothing is pending.
func (q *Queue) Empty() bool {
	return q.start == q.stop
}

// offsets returns the current pending region bounds.
func (q *Queue) offsets() (start, stop int) {
	return q.start, q.stop
}

// Pending returns the pending bytes. The slice aliases the queue's
// storage and is only valid until the next mutating call.
func (q *Queue) Pending() []byte {
	return q.data[q.start:q.stop]
}

// Consume drops n bytes from the front of the pending region, typically
// after a write accepted them. Draining the queue completely rewinds both
// offsets to zero so the next append starts at the front.
func (q *Queue) Consume(n int) {
	if n < 0 || n > q.Len() {
		panic(fmt.Sprintf("backlog: consume %d bytes with %d pending", n, q.Len()))
	}
	q.start += n
	if q.start == q.stop {
		q.start, q.stop = 0, 0
	}
}

// Fits reports whether n more bytes can be appended.
func (q *Queue) Fits(n int) bool {
	return q.Len()+n <= q.Cap()
}

// Append copies parts, in order, to the tail of the pending region. The
// pending bytes are moved to the front first when the tail lacks room.
// Returns ErrOverflow without modifying the queue when the combined size
// does not fit.
func (q *Queue) Append(parts ...[]byte) error {
	total := 0
	for _, part := range parts {
		total += len(part)
	}
	if !q.Fits(total) {
		return fmt.Errorf("%w: %d pending + %d new > %d", ErrOverflow, q.Len(), total, q.Cap())
	}
	if q.stop+total > q.Cap() {
		q.compact()
	}
	for _, part := range parts {
		q.stop += copy(q.data[q.stop:], part)
	}
	return nil
}

// Overflow discards everything pending and queues reset in its place.
// A reset longer than the capacity is truncated.
func (q *Queue) Overflow(reset []byte) {
	q.start = 0
	q.stop = copy(q.data, reset)
	q.overflows++
}

// Overflows returns how many times Overflow has been called.
func (q *Queue) Overflows() uint64 {
	return q.overflows
}

func (q *Queue) compact() {
	if q.start == 0 {
		return
	}
	q.stop = copy(q.data, q.data[q.start:q.stop])
	q.start = 0
}
