// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package telnet

// State is the filter's position within a negotiation sequence.
type State int

const (
	// StateIdle is outside any sequence.
	StateIdle State = iota

	// StateCommand has seen IAC and expects a verb.
	StateCommand

	// StateOption has seen IAC and a verb and expects the option byte.
	StateOption
)

// Result reports what one Feed call found.
type Result struct {
	// Commands lists the negotiation commands completed, in order.
	Commands []Command

	// Interrupt is set when the client sent ctrl-C outside a sequence.
	// Feed stops at the interrupt byte.
	Interrupt bool

	// Consumed is the number of input bytes processed. It is less than
	// the input length only when Interrupt is set.
	Consumed int
}

// Filter tracks negotiation state across chunks of client input. The
// zero value is ready to use.
type Filter struct {
	state State
	verb  byte
}

// State returns the filter's current state.
func (f *Filter) State() State {
	return f.state
}

// Feed consumes data and reports completed commands and interrupts.
// Malformed sequences (IAC followed by anything but a verb) are dropped
// silently, as are ordinary data bytes.
func (f *Filter) Feed(data []byte) Result {
	var result Result
	for i, b := range data {
		switch f.state {
		case StateIdle:
			switch b {
			case IAC:
				f.state = StateCommand
			case Interrupt:
				result.Interrupt = true
				result.Consumed = i + 1
				return result
			}

		case StateCommand:
			if isVerb(b) {
				f.verb = b
				f.state = StateOption
			} else {
				f.state = StateIdle
			}

		case StateOption:
			result.Commands = append(result.Commands, Command{Verb: f.verb, Option: b})
			f.state = StateIdle
		}
	}
	result.Consumed = len(data)
	return result
}
