// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the canvascast
// server.
//
// Configuration comes from at most one file, named either by the
// CANVASCAST_CONFIG environment variable (via [Load]) or by a --config
// flag (via [LoadFile]). There is no file discovery. Values absent from
// the file keep their [Default]; command-line flags are applied on top
// by the caller and [Config.Validate] runs last.
//
// Key exports:
//
//   - [Config] -- listen address, accept backlog, per-viewer output
//     buffer, frame size limit, initial canvas size, title, logging
//   - [Default] -- the built-in values
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other canvascast packages.
package config
