// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package telnet filters the inbound side of a broadcast viewer's
// telnet connection.
//
// The broadcast protocol is one-way: the only client input the server
// cares about is option negotiation replies (logged, then dropped) and
// ctrl-C (0x03), which asks the server to hang up. [Filter] is a small
// state machine that consumes arbitrary chunks of client input and
// reports completed negotiation commands and interrupts. It has no
// socket dependency.
package telnet
