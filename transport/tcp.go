// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"errors"
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// DefaultBacklog is the listen queue length for viewer connections.
const DefaultBacklog = 1337

// TCPListener is a non-blocking IPv4 TCP listener.
type TCPListener struct {
	fd      int
	address string
}

// ListenTCP binds a non-blocking listener to address (for example
// ":51914" for all interfaces, or "127.0.0.1:0" for a random loopback
// port) with SO_REUSEADDR set. A non-positive backlog selects
// DefaultBacklog.
func ListenTCP(address string, backlog int) (*TCPListener, error) {
	if backlog <= 0 {
		backlog = DefaultBacklog
	}
	resolved, err := net.ResolveTCPAddr("tcp4", address)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", address, err)
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, os.NewSyscallError("setsockopt SO_REUSEADDR", err)
	}

	bindAddress := &unix.SockaddrInet4{Port: resolved.Port}
	if ip := resolved.IP.To4(); ip != nil {
		copy(bindAddress.Addr[:], ip)
	}
	if err := unix.Bind(fd, bindAddress); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("binding %s: %w", address, os.NewSyscallError("bind", err))
	}
	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return nil, os.NewSyscallError("listen", err)
	}

	bound, err := unix.Getsockname(fd)
	if err != nil {
		unix.Close(fd)
		return nil, os.NewSyscallError("getsockname", err)
	}
	return &TCPListener{fd: fd, address: formatSockaddr(bound)}, nil
}

// Accept returns one pending connection in non-blocking mode, or
// ErrWouldBlock. Connections the peer aborted while queued are skipped.
func (l *TCPListener) Accept() (Conn, error) {
	if l.fd < 0 {
		return nil, net.ErrClosed
	}
	for {
		fd, remote, err := unix.Accept4(l.fd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
		switch {
		case err == nil:
			return NewSocketConn(fd, formatSockaddr(remote)), nil
		case errors.Is(err, unix.EINTR), errors.Is(err, unix.ECONNABORTED):
			continue
		case errors.Is(err, unix.EAGAIN):
			return nil, ErrWouldBlock
		default:
			return nil, os.NewSyscallError("accept4", err)
		}
	}
}

// Address returns the bound address, with the real port when the
// listener was created on port 0.
func (l *TCPListener) Address() string {
	return l.address
}

// Close stops listening. Closing twice is a no-op.
func (l *TCPListener) Close() error {
	if l.fd < 0 {
		return nil
	}
	err := unix.Close(l.fd)
	l.fd = -1
	if err != nil {
		return os.NewSyscallError("close", err)
	}
	return nil
}
