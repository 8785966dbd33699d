// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package broadcast

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/bureau-foundation/canvascast/lib/backlog"
	"github.com/bureau-foundation/canvascast/lib/canvas"
	"github.com/bureau-foundation/canvascast/lib/framewire"
	"github.com/bureau-foundation/canvascast/lib/netutil"
	"github.com/bureau-foundation/canvascast/transport"
)

// Default canvas dimensions advertised to viewers that connect before
// the first frame arrives.
const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// MinOutputBuffer is the smallest backlog that can hold the whole reset
// sequence. Smaller capacities are raised to it.
const MinOutputBuffer = len(ResetSequence)

// Config holds the server's tunables. Zero fields take their defaults.
type Config struct {
	// OutputBuffer is the per-viewer backlog capacity in bytes. Positive
	// values below MinOutputBuffer are raised to it.
	OutputBuffer int

	// Title is the window title sent in the handshake.
	Title string

	// Width and Height are advertised in the handshake until the first
	// frame supplies real dimensions.
	Width  uint32
	Height uint32
}

func (c Config) withDefaults() Config {
	if c.OutputBuffer <= 0 {
		c.OutputBuffer = backlog.DefaultCapacity
	} else if c.OutputBuffer < MinOutputBuffer {
		c.OutputBuffer = MinOutputBuffer
	}
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Height == 0 {
		c.Height = DefaultHeight
	}
	return c
}

// FrameSource yields complete frames in stream order. Next blocks until
// a frame is available and returns io.EOF when the stream ends.
// *framewire.Reader implements it.
type FrameSource interface {
	Next() (framewire.Frame, error)
}

// Server is the broadcast context: the listener, the frame source, the
// most recent rendered frame, and the live viewers. All methods except
// Run must be called from a single goroutine; Run calls them itself.
type Server struct {
	config   Config
	listener transport.Listener
	source   FrameSource
	logger   *slog.Logger

	width     uint32
	height    uint32
	handshake []byte

	// payload is the frame prefix followed by the newest rendering with
	// its final line ending removed. Nil until the first frame is
	// published.
	payload []byte
	digest  [32]byte

	published uint64
	unchanged uint64

	clients map[uint64]*client
	// order lists client IDs in accept order; servicing follows it.
	order  []uint64
	nextID uint64
	closed bool
}

// New creates a Server. The listener must already be bound and
// listening; the server owns it from here on and closes it in Close.
func New(config Config, listener transport.Listener, source FrameSource, logger *slog.Logger) *Server {
	if config.OutputBuffer > 0 && config.OutputBuffer < MinOutputBuffer {
		logger.Warn("output buffer raised to fit the reset sequence",
			"requested", config.OutputBuffer,
			"output_buffer", MinOutputBuffer,
		)
	}
	config = config.withDefaults()
	return &Server{
		config:    config,
		listener:  listener,
		source:    source,
		logger:    logger,
		width:     config.Width,
		height:    config.Height,
		handshake: Handshake(config.Title, config.Width, config.Height),
		clients:   make(map[uint64]*client),
	}
}

// Publish decodes and renders frame, making it the frame sent to every
// viewer on the next Service. A frame whose payload and dimensions match
// the previous one reuses the previous rendering. When decoding fails
// the previous frame stays current and the error wraps canvas.ErrDecode.
func (s *Server) Publish(frame framewire.Frame) error {
	if s.payload != nil && frame.Digest == s.digest &&
		frame.Width == s.width && frame.Height == s.height {
		s.published++
		s.unchanged++
		return nil
	}

	decoded, err := canvas.Decode(frame.Data)
	if err != nil {
		return fmt.Errorf("publishing %dx%d frame: %w", frame.Width, frame.Height, err)
	}
	rendered := bytes.TrimSuffix(canvas.Render(decoded), []byte(canvas.LineEnd))

	payload := make([]byte, 0, len(FramePrefix)+len(rendered))
	payload = append(payload, FramePrefix...)
	payload = append(payload, rendered...)
	s.payload = payload
	s.digest = frame.Digest
	s.published++

	if frame.Width != s.width || frame.Height != s.height {
		s.logger.Info("canvas dimensions changed",
			"width", frame.Width,
			"height", frame.Height,
		)
		s.width, s.height = frame.Width, frame.Height
		s.handshake = Handshake(s.config.Title, s.width, s.height)
	}
	return nil
}

// Tick publishes frame and services every viewer. An undecodable frame
// is logged and skips the fan-out.
func (s *Server) Tick(frame framewire.Frame) {
	if err := s.Publish(frame); err != nil {
		s.logger.Warn("dropping frame", "error", err)
		return
	}
	s.Service()
}

// Service runs one pass over every viewer in accept order: drain its
// input, then deliver. Viewers that fail either step are retired and
// never touched again.
func (s *Server) Service() {
	live := s.order[:0]
	for _, id := range s.order {
		c := s.clients[id]
		err := s.readInbound(c)
		if err == nil {
			err = s.deliver(c)
		}
		if err != nil {
			s.retire(c, err)
			continue
		}
		live = append(live, id)
	}
	s.order = live
}

// retire closes a client and forgets it. The caller removes it from the
// service order.
func (s *Server) retire(c *client, reason error) {
	delete(s.clients, c.id)
	if err := c.conn.Close(); err != nil {
		s.logger.Debug("closing client connection", "client_id", c.id, "error", err)
	}

	attrs := c.logAttrs()
	if errors.Is(reason, errInterrupted) {
		s.logger.Info("client pressed ctrl-c", attrs...)
		return
	}
	if cause := netutil.DepartureCause(reason); cause != "" {
		s.logger.Info("client disconnected", append(attrs, "cause", cause)...)
		return
	}
	s.logger.Warn("client failed", append(attrs, "error", reason)...)
}

// Clients returns the number of live viewers.
func (s *Server) Clients() int {
	return len(s.clients)
}

// Dimensions returns the canvas size currently advertised to viewers.
func (s *Server) Dimensions() (width, height uint32) {
	return s.width, s.height
}

// Close disconnects every viewer and closes the listener. Safe to call
// more than once.
func (s *Server) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	for _, id := range s.order {
		c := s.clients[id]
		if err := c.conn.Close(); err != nil {
			s.logger.Debug("closing client connection", "client_id", c.id, "error", err)
		}
		s.logger.Info("client closed at shutdown", c.logAttrs()...)
	}
	clear(s.clients)
	s.order = nil
	return s.listener.Close()
}

// Run drives the broadcast until the frame stream ends or ctx is
// cancelled, then closes every viewer and the listener. Each iteration
// accepts at most one viewer, waits for the next frame, publishes it,
// and services all viewers. Returns nil on end of stream or
// cancellation, and the source's error if reading frames fails.
//
// Frames are read on a separate goroutine. Cancellation does not
// interrupt a read already blocked in the source; that goroutine exits
// after its next read returns.
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()

	pumpContext, cancel := context.WithCancel(ctx)
	defer cancel()
	frames := make(chan framewire.Frame)
	pumpDone := make(chan error, 1)
	go func() {
		pumpDone <- s.pump(pumpContext, frames)
	}()

	s.logger.Info("broadcasting",
		"address", s.listener.Address(),
		"output_buffer", s.config.OutputBuffer,
	)

	for {
		s.AcceptOne()

		select {
		case <-ctx.Done():
			s.logger.Info("broadcast cancelled", "frames", s.published, "clients", len(s.clients))
			return nil

		case err := <-pumpDone:
			if errors.Is(err, io.EOF) {
				s.logger.Info("frame stream ended",
					"frames", s.published,
					"unchanged_frames", s.unchanged,
					"clients", len(s.clients),
				)
				return nil
			}
			return fmt.Errorf("reading frames: %w", err)

		case frame := <-frames:
			s.Tick(frame)
		}
	}
}

// skipCounter is implemented by sources that discard malformed input,
// such as *framewire.Reader.
type skipCounter interface {
	Skipped() uint64
}

func (s *Server) pump(ctx context.Context, frames chan<- framewire.Frame) error {
	counter, counts := s.source.(skipCounter)
	var skipped uint64
	for {
		frame, err := s.source.Next()
		if err != nil {
			return err
		}
		if counts && counter.Skipped() != skipped {
			s.logger.Debug("resynchronized frame stream",
				"skipped_bytes", counter.Skipped()-skipped,
				"width", frame.Width,
				"height", frame.Height,
			)
			skipped = counter.Skipped()
		}
		select {
		case frames <- frame:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
