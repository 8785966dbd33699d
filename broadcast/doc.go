// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package broadcast implements the canvas broadcast server: one upstream
// frame stream fanned out to any number of telnet viewers.
//
// The package is organized around the per-tick data flow:
//
//   - server.go: the [Server] context and the Run loop
//   - accept.go: admits at most one new viewer per tick
//   - deliver.go: per-viewer inbound filtering and outbound delivery
//   - handshake.go: the telnet/terminal initialization bytes and the
//     fixed escape sequences sent around frames
//
// Everything runs on one goroutine. Each tick accepts at most one
// pending connection, waits for the next complete frame from the
// [FrameSource], publishes its rendering, and then services every live
// viewer in accept order: drain and filter its input (see package
// telnet), then push the newest frame at it without blocking. The wait
// for the next frame is the only suspension point, so the server runs
// exactly as fast as the producer. Frames are read by a pump goroutine
// that owns nothing but the parser and hands each frame over a channel.
//
// A viewer that cannot keep up accumulates a backlog in its bounded
// queue (package backlog). Backlog always drains before newer bytes, so
// each viewer sees frames in order. When the backlog plus the next frame
// would exceed the queue capacity, the backlog is thrown away and
// replaced with [ResetSequence]: the viewer skips ahead to live frames
// instead of replaying stale ones, and memory per viewer stays bounded.
//
// Would-block is never an error. Any other socket error, end of stream,
// or a ctrl-C from the viewer retires that viewer immediately without
// affecting anyone else.
package broadcast
