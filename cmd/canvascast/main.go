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

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/canvascast/broadcast"
	"github.com/bureau-foundation/canvascast/lib/config"
	"github.com/bureau-foundation/canvascast/lib/framewire"
	"github.com/bureau-foundation/canvascast/lib/version"
	"github.com/bureau-foundation/canvascast/transport"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, err := parseOptions(args, os.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if opts.showVersion {
		version.Print(os.Stdout, "canvascast")
		return nil
	}

	logger, err := newLogger(opts.config, os.Stderr)
	if err != nil {
		return err
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		logger.Warn("standard input is a terminal, expecting a binary canvas stream",
			"example", "canvascast-demo | canvascast")
	}

	listener, err := transport.ListenTCP(opts.config.Listen, opts.config.Backlog)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", opts.config.Listen, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, opts.config, listener, os.Stdin, logger)
}

// serve broadcasts the frame stream read from frames to viewers on
// listener until the stream ends or ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, listener transport.Listener, frames io.Reader, logger *slog.Logger) error {
	server := broadcast.New(broadcast.Config{
		OutputBuffer: cfg.OutputBuffer,
		Title:        cfg.Title,
		Width:        cfg.InitialWidth,
		Height:       cfg.InitialHeight,
	}, listener, framewire.NewReader(frames, cfg.MaxPayload), logger)
	return server.Run(ctx)
}

type options struct {
	showVersion bool
	config      *config.Config
}

// parseOptions resolves the configuration: defaults, then the config
// file, then any flags given explicitly. Returns pflag.ErrHelp after
// printing usage for --help.
func parseOptions(args []string, output io.Writer) (*options, error) {
	defaults := config.Default()
	var flagValues config.Config
	var configPath string
	var opts options

	flagSet := pflag.NewFlagSet("canvascast", pflag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.StringVar(&configPath, "config", "", "YAML config file (default: $"+config.EnvironmentVariable+")")
	flagSet.StringVar(&flagValues.Listen, "listen", defaults.Listen, "TCP address viewers connect to")
	flagSet.IntVar(&flagValues.Backlog, "backlog", defaults.Backlog, "kernel accept queue length")
	flagSet.IntVar(&flagValues.OutputBuffer, "output-buffer", defaults.OutputBuffer, "per-viewer backlog in bytes before skipping to live frames")
	flagSet.IntVar(&flagValues.MaxPayload, "max-payload", defaults.MaxPayload, "largest accepted frame payload in bytes")
	flagSet.Uint32Var(&flagValues.InitialWidth, "width", defaults.InitialWidth, "canvas width advertised before the first frame")
	flagSet.Uint32Var(&flagValues.InitialHeight, "height", defaults.InitialHeight, "canvas height advertised before the first frame")
	flagSet.StringVar(&flagValues.Title, "title", defaults.Title, "terminal window title sent to viewers")
	flagSet.StringVar(&flagValues.LogLevel, "log-level", defaults.LogLevel, "log level: debug, info, warn, error")
	flagSet.StringVar(&flagValues.LogFormat, "log-format", defaults.LogFormat, "log format: text or json")
	flagSet.BoolVar(&opts.showVersion, "version", false, "print version information and exit")

	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	if flagSet.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}
	if opts.showVersion {
		return &opts, nil
	}

	cfg := defaults
	if configPath == "" {
		configPath = os.Getenv(config.EnvironmentVariable)
	}
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	overrides := []struct {
		flag  string
		apply func()
	}{
		{"listen", func() { cfg.Listen = flagValues.Listen }},
		{"backlog", func() { cfg.Backlog = flagValues.Backlog }},
		{"output-buffer", func() { cfg.OutputBuffer = flagValues.OutputBuffer }},
		{"max-payload", func() { cfg.MaxPayload = flagValues.MaxPayload }},
		{"width", func() { cfg.InitialWidth = flagValues.InitialWidth }},
		{"height", func() { cfg.InitialHeight = flagValues.InitialHeight }},
		{"title", func() { cfg.Title = flagValues.Title }},
		{"log-level", func() { cfg.LogLevel = flagValues.LogLevel }},
		{"log-format", func() { cfg.LogFormat = flagValues.LogFormat }},
	}
	for _, override := range overrides {
		if flagSet.Changed(override.flag) {
			override.apply()
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	opts.config = cfg
	return &opts, nil
}

// newLogger builds the process logger from the configured level and
// format.
func newLogger(cfg *config.Config, output io.Writer) (*slog.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	handlerOptions := &slog.HandlerOptions{Level: level}
	switch cfg.LogFormat {
	case config.FormatJSON:
		return slog.New(slog.NewJSONHandler(output, handlerOptions)), nil
	case config.FormatText:
		return slog.New(slog.NewTextHandler(output, handlerOptions)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}
}
