// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// ReadUntilClosed reads from conn until the peer closes it, failing the
// test if that takes longer than timeout.
func ReadUntilClosed(t testing.TB, conn net.Conn, timeout time.Duration) []byte {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		t.Fatalf("setting read deadline: %v", err)
	}
	data, err := io.ReadAll(conn)
	if err != nil {
		t.Fatalf("reading until close (%d bytes so far): %v", len(data), err)
	}
	return data
}

// WriteFile writes content to name inside a fresh temporary directory
// and returns the full path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}
