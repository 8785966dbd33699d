// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// Compile-time interface checks.
var (
	_ Conn     = (*SocketConn)(nil)
	_ Listener = (*TCPListener)(nil)
)

// SocketConn is a Conn over a raw non-blocking socket descriptor. It is
// not safe for concurrent use.
type SocketConn struct {
	fd     int
	remote string
}

// NewSocketConn wraps fd, which must already be in non-blocking mode.
// The SocketConn takes ownership of the descriptor.
func NewSocketConn(fd int, remote string) *SocketConn {
	return &SocketConn{fd: fd, remote: remote}
}

// Read reads available bytes into p.
func (c *SocketConn) Read(p []byte) (int, error) {
	if c.fd < 0 {
		return 0, net.ErrClosed
	}
	for {
		n, err := unix.Read(c.fd, p)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EAGAIN):
			return 0, ErrWouldBlock
		case err != nil:
			return 0, os.NewSyscallError("read", err)
		case n == 0 && len(p) > 0:
			return 0, io.EOF
		}
		return n, nil
	}
}

// Write writes as much of p as the socket buffer accepts.
func (c *SocketConn) Write(p []byte) (int, error) {
	if c.fd < 0 {
		return 0, net.ErrClosed
	}
	total := 0
	for total < len(p) {
		n, err := unix.SendmsgN(c.fd, p[total:], nil, nil, unix.MSG_NOSIGNAL)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EAGAIN):
			return total, ErrWouldBlock
		case err != nil:
			return total, os.NewSyscallError("sendmsg", err)
		case n == 0:
			return total, ErrWouldBlock
		}
		total += n
	}
	return total, nil
}

// Close closes the descriptor. Closing twice is a no-op.
func (c *SocketConn) Close() error {
	if c.fd < 0 {
		return nil
	}
	err := unix.Close(c.fd)
	c.fd = -1
	if err != nil {
		return os.NewSyscallError("close", err)
	}
	return nil
}

// RemoteAddress returns the peer address recorded at accept time.
func (c *SocketConn) RemoteAddress() string {
	return c.remote
}

// FD returns the underlying descriptor, or -1 after Close.
func (c *SocketConn) FD() int {
	return c.fd
}

// setSendBuffer sets SO_SNDBUF. The kernel may round the value.
func (c *SocketConn) setSendBuffer(size int) error {
	if err := unix.SetsockoptInt(c.fd, unix.SOL_SOCKET, unix.SO_SNDBUF, size); err != nil {
		return os.NewSyscallError("setsockopt SO_SNDBUF", err)
	}
	return nil
}

// SocketPair returns two connected non-blocking Unix stream sockets.
func SocketPair() (*SocketConn, *SocketConn, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, nil, os.NewSyscallError("socketpair", err)
	}
	return NewSocketConn(fds[0], "socketpair"), NewSocketConn(fds[1], "socketpair"), nil
}

// formatSockaddr renders an address returned by accept or getsockname.
func formatSockaddr(address unix.Sockaddr) string {
	switch address := address.(type) {
	case *unix.SockaddrInet4:
		return net.JoinHostPort(net.IP(address.Addr[:]).String(), fmt.Sprint(address.Port))
	case *unix.SockaddrInet6:
		return net.JoinHostPort(net.IP(address.Addr[:]).String(), fmt.Sprint(address.Port))
	case *unix.SockaddrUnix:
		return address.Name
	default:
		return "unknown"
	}
}
