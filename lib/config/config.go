// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the config file read by Load.
const EnvironmentVariable = "CANVASCAST_CONFIG"

// Log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// MinOutputBuffer is the length of the reset sequence a viewer's
// backlog is replaced with on overflow.
const MinOutputBuffer = 18

// Config is the server configuration.
type Config struct {
	// Listen is the TCP address viewers connect to.
	// Default: :51914
	Listen string `yaml:"listen"`

	// Backlog is the kernel accept queue length.
	// Default: 1337
	Backlog int `yaml:"backlog"`

	// OutputBuffer is the per-viewer backlog capacity in bytes. A
	// viewer further behind than this skips ahead to live frames. It
	// must hold the 18-byte reset sequence sent on overflow.
	// Default: 300000
	OutputBuffer int `yaml:"output_buffer"`

	// MaxPayload is the largest frame payload accepted, in bytes.
	// Headers announcing more are treated as garbage.
	// Default: 64 MiB
	MaxPayload int `yaml:"max_payload"`

	// InitialWidth and InitialHeight are advertised to viewers that
	// connect before the first frame.
	// Default: 80x24
	InitialWidth  uint32 `yaml:"initial_width"`
	InitialHeight uint32 `yaml:"initial_height"`

	// Title is the terminal window title requested from viewers.
	Title string `yaml:"title"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// LogFormat is text or json.
	LogFormat string `yaml:"log_format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Listen:        ":" + strconv.Itoa(0xCACA),
		Backlog:       1337,
		OutputBuffer:  300000,
		MaxPayload:    64 << 20,
		InitialWidth:  80,
		InitialHeight: 24,
		Title:         "caca for the network",
		LogLevel:      "info",
		LogFormat:     FormatText,
	}
}

// Load loads configuration from the file named by CANVASCAST_CONFIG.
// Fails if the variable is not set.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of a canvascast.yaml file, or use --config", EnvironmentVariable)
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path, starting from Default. An
// empty file yields the defaults. Unknown
// keys are rejected so that a misspelled setting fails loudly instead of
// silently keeping its default.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors, reporting all of them.
func (c *Config) Validate() error {
	var errs []error

	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		errs = append(errs, fmt.Errorf("listen: %w", err))
	}
	if c.Backlog <= 0 {
		errs = append(errs, fmt.Errorf("backlog must be positive, got %d", c.Backlog))
	}
	if c.OutputBuffer < MinOutputBuffer {
		errs = append(errs, fmt.Errorf("output_buffer must be at least %d, got %d", MinOutputBuffer, c.OutputBuffer))
	}
	if c.MaxPayload <= 0 {
		errs = append(errs, fmt.Errorf("max_payload must be positive, got %d", c.MaxPayload))
	}
	if c.InitialWidth == 0 || c.InitialHeight == 0 {
		errs = append(errs, fmt.Errorf("initial_width and initial_height must be positive, got %dx%d",
			c.InitialWidth, c.InitialHeight))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != FormatText && c.LogFormat != FormatJSON {
		errs = append(errs, fmt.Errorf("log_format must be %q or %q, got %q", FormatText, FormatJSON, c.LogFormat))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
