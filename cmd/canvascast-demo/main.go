// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/canvascast/lib/canvas"
	"github.com/bureau-foundation/canvascast/lib/netutil"
	"github.com/bureau-foundation/canvascast/lib/version"
)

// maxFPS bounds --fps so the tick interval stays well above zero.
const maxFPS = 1000

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// producerOptions controls the generated stream.
type producerOptions struct {
	fps    float64
	width  int
	height int
	// frames is how many frames to write; zero means until interrupted.
	frames int
}

func run(args []string) error {
	var opts producerOptions
	var showVersion bool

	flagSet := pflag.NewFlagSet("canvascast-demo", pflag.ContinueOnError)
	flagSet.Float64Var(&opts.fps, "fps", 10, "frames per second")
	flagSet.IntVar(&opts.width, "width", 80, "canvas width in cells")
	flagSet.IntVar(&opts.height, "height", 24, "canvas height in cells")
	flagSet.IntVar(&opts.frames, "frames", 0, "number of frames to write (0: until interrupted)")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if showVersion {
		version.Print(os.Stdout, "canvascast-demo")
		return nil
	}
	if err := opts.validate(); err != nil {
		return err
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("refusing to write binary frames to a terminal; pipe into canvascast instead")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ignoreBrokenPipe()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	written, err := produce(ctx, os.Stdout, opts)
	if cause := netutil.DepartureCause(err); cause != "" {
		logger.Info("consumer went away", "frames", written, "cause", cause)
		return nil
	}
	return err
}

func (o producerOptions) validate() error {
	if !(o.fps > 0 && o.fps <= maxFPS) {
		return fmt.Errorf("--fps must be in (0, %d], got %v", maxFPS, o.fps)
	}
	if o.width <= 0 || o.height <= 0 {
		return fmt.Errorf("--width and --height must be positive, got %dx%d", o.width, o.height)
	}
	if o.frames < 0 {
		return fmt.Errorf("--frames must not be negative, got %d", o.frames)
	}
	return nil
}

// interval is the time between frames.
func (o producerOptions) interval() time.Duration {
	return time.Duration(float64(time.Second) / o.fps)
}

// ignoreBrokenPipe stops SIGPIPE from killing the process when the
// consumer closes stdout, so the write fails with EPIPE instead and
// the shutdown is logged.
func ignoreBrokenPipe() {
	signal.Ignore(syscall.SIGPIPE)
}

// produce writes pattern frames to output at opts.fps until opts.frames
// have been written or ctx is cancelled. Returns the number of frames
// written.
func produce(ctx context.Context, output io.Writer, opts producerOptions) (int, error) {
	ticker := time.NewTicker(opts.interval())
	defer ticker.Stop()

	for tick := 0; opts.frames == 0 || tick < opts.frames; tick++ {
		frame, err := canvas.Encode(pattern(opts.width, opts.height, tick))
		if err != nil {
			return tick, fmt.Errorf("encoding frame %d: %w", tick, err)
		}
		if _, err := output.Write(frame); err != nil {
			return tick, fmt.Errorf("writing frame %d: %w", tick, err)
		}
		if opts.frames != 0 && tick == opts.frames-1 {
			return tick + 1, nil
		}
		select {
		case <-ctx.Done():
			return tick + 1, nil
		case <-ticker.C:
		}
	}
	return opts.frames, nil
}
