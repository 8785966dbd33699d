// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package telnet

import "fmt"

// Telnet command bytes (RFC 854).
const (
	SE   byte = 240
	NOP  byte = 241
	SB   byte = 250
	WILL byte = 251
	WONT byte = 252
	DO   byte = 253
	DONT byte = 254
	IAC  byte = 255
)

// Telnet option bytes used by the broadcast handshake.
const (
	OptionEcho            byte = 1
	OptionSuppressGoAhead byte = 3
	OptionNAWS            byte = 31
)

// Interrupt is the byte a terminal sends for ctrl-C.
const Interrupt byte = 0x03

var commandNames = [16]string{
	"SE", "NOP", "DM", "BRK", "IP", "AO", "AYT", "EC",
	"EL", "GA", "SB", "WILL", "WONT", "DO", "DONT", "IAC",
}

var optionNames = map[byte]string{
	0:  "BINARY",
	1:  "ECHO",
	3:  "SGA",
	5:  "STATUS",
	6:  "TIMING-MARK",
	24: "TTYPE",
	31: "NAWS",
	32: "TSPEED",
	33: "LFLOW",
	34: "LINEMODE",
	36: "ENVIRON",
	39: "NEW-ENVIRON",
}

// CommandName returns the mnemonic for a command byte, or "????" for
// bytes below SE.
func CommandName(b byte) string {
	if b < SE {
		return "????"
	}
	return commandNames[b-SE]
}

// OptionName returns the mnemonic for an option byte, or "????" for
// options the server does not know.
func OptionName(b byte) string {
	if name, ok := optionNames[b]; ok {
		return name
	}
	return "????"
}

// Command is a complete three-byte negotiation command received from a
// client: IAC, a verb (WILL, WONT, DO, DONT), and an option.
type Command struct {
	Verb   byte
	Option byte
}

// String formats the command as hex bytes plus mnemonics, for logs.
func (c Command) String() string {
	return fmt.Sprintf("%02x %02x %02x (%s %s %s)",
		IAC, c.Verb, c.Option, CommandName(IAC), CommandName(c.Verb), OptionName(c.Option))
}

func isVerb(b byte) bool {
	return b == WILL || b == WONT || b == DO || b == DONT
}
