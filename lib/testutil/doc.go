// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for canvascast packages.
//
// [RequireReceive] and [RequireSend] encapsulate the timeout safety
// valve pattern (select with time.After fallback) so that individual
// tests do not need direct time.After calls.
//
// [ReadUntilClosed] collects everything a peer sends on a stream
// connection until it closes, bounded by a deadline.
//
// [WriteFile] writes a fixture into the test's temporary directory,
// typically a YAML config.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
