// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package broadcast

import (
	"bytes"
	"io"
	"log/slog"
	"net"
	"sync"
	"testing"

	"github.com/bureau-foundation/canvascast/lib/canvas"
	"github.com/bureau-foundation/canvascast/lib/framewire"
	"github.com/bureau-foundation/canvascast/transport"
)

// scriptedConn is a transport.Conn whose socket behaviour is set by the
// test: how many bytes writes may take, what reads return, and whether
// writes fail outright.
type scriptedConn struct {
	// window is how many more bytes writes may accept before they start
	// returning ErrWouldBlock. Negative means unlimited.
	window int
	// writeErr, when set, fails every write.
	writeErr error
	// inbound is returned by reads, then readErr (ErrWouldBlock if nil).
	inbound []byte
	readErr error

	written bytes.Buffer
	writes  int
	reads   int
	closed  bool
}

func newScriptedConn() *scriptedConn {
	return &scriptedConn{window: -1}
}

func (c *scriptedConn) Read(p []byte) (int, error) {
	c.reads++
	if c.closed {
		return 0, net.ErrClosed
	}
	if len(c.inbound) > 0 {
		n := copy(p, c.inbound)
		c.inbound = c.inbound[n:]
		return n, nil
	}
	if c.readErr != nil {
		return 0, c.readErr
	}
	return 0, transport.ErrWouldBlock
}

func (c *scriptedConn) Write(p []byte) (int, error) {
	c.writes++
	if c.closed {
		return 0, net.ErrClosed
	}
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	n := len(p)
	if c.window >= 0 && n > c.window {
		n = c.window
	}
	c.written.Write(p[:n])
	if c.window >= 0 {
		c.window -= n
	}
	if n < len(p) {
		return n, transport.ErrWouldBlock
	}
	return n, nil
}

func (c *scriptedConn) Close() error {
	c.closed = true
	return nil
}

func (c *scriptedConn) RemoteAddress() string {
	return "198.51.100.7:40000"
}

// takeWritten returns and clears everything written so far.
func (c *scriptedConn) takeWritten() []byte {
	data := bytes.Clone(c.written.Bytes())
	c.written.Reset()
	return data
}

// queueListener hands out queued connections, then reports would-block.
type queueListener struct {
	pending []transport.Conn
	err     error
	closed  bool
}

func (l *queueListener) Accept() (transport.Conn, error) {
	if l.err != nil {
		return nil, l.err
	}
	if len(l.pending) == 0 {
		return nil, transport.ErrWouldBlock
	}
	conn := l.pending[0]
	l.pending = l.pending[1:]
	return conn, nil
}

func (l *queueListener) Address() string { return "127.0.0.1:51914" }

func (l *queueListener) Close() error {
	l.closed = true
	return nil
}

// channelSource is a FrameSource fed by the test.
type channelSource struct {
	frames chan framewire.Frame
	once   sync.Once
}

func newChannelSource() *channelSource {
	return &channelSource{frames: make(chan framewire.Frame)}
}

func (s *channelSource) Next() (framewire.Frame, error) {
	frame, ok := <-s.frames
	if !ok {
		return framewire.Frame{}, io.EOF
	}
	return frame, nil
}

func (s *channelSource) end() {
	s.once.Do(func() { close(s.frames) })
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer returns a server over a queueListener with no frame
// source, for driving AcceptOne/Publish/Service by hand.
func newTestServer(t *testing.T, config Config) (*Server, *queueListener) {
	t.Helper()
	listener := &queueListener{}
	return New(config, listener, nil, testLogger()), listener
}

// textFrame builds a wire frame holding text in the default colours.
func textFrame(t *testing.T, width, height int, text string) framewire.Frame {
	t.Helper()
	data, err := canvas.Encode(canvas.FromText(width, height, text, canvas.DefaultAttr))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	frames := framewire.NewParser(0).Feed(data)
	if len(frames) != 1 {
		t.Fatalf("parsing encoded frame: got %d frames, want 1", len(frames))
	}
	return frames[0]
}

// expectedPayload is what a ready client with an empty backlog receives
// for frame.
func expectedPayload(t *testing.T, frame framewire.Frame) []byte {
	t.Helper()
	decoded, err := canvas.Decode(frame.Data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	rendered := canvas.Render(decoded)
	rendered = rendered[:len(rendered)-len(canvas.LineEnd)]
	return append([]byte(FramePrefix), rendered...)
}

// connect queues conn on the listener and accepts it.
func connect(t *testing.T, server *Server, listener *queueListener, conn transport.Conn) {
	t.Helper()
	listener.pending = append(listener.pending, conn)
	if !server.AcceptOne() {
		t.Fatal("AcceptOne did not admit the connection")
	}
}
