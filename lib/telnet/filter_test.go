// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package telnet

import (
	"reflect"
	"testing"
)

func TestFilterNegotiationCommands(t *testing.T) {
	t.Parallel()
	var filter Filter

	result := filter.Feed([]byte{IAC, DO, OptionEcho, 'x', IAC, WONT, OptionNAWS})

	want := []Command{{Verb: DO, Option: OptionEcho}, {Verb: WONT, Option: OptionNAWS}}
	if !reflect.DeepEqual(result.Commands, want) {
		t.Errorf("Commands: got %+v, want %+v", result.Commands, want)
	}
	if result.Interrupt {
		t.Error("unexpected interrupt")
	}
	if result.Consumed != 7 {
		t.Errorf("Consumed: got %d, want 7", result.Consumed)
	}
	if filter.State() != StateIdle {
		t.Errorf("state: got %v, want idle", filter.State())
	}
}

func TestFilterCommandSplitAcrossChunks(t *testing.T) {
	t.Parallel()
	var filter Filter

	if result := filter.Feed([]byte{IAC}); len(result.Commands) != 0 {
		t.Fatalf("premature command: %+v", result.Commands)
	}
	if filter.State() != StateCommand {
		t.Errorf("after IAC: got state %v, want %v", filter.State(), StateCommand)
	}
	filter.Feed([]byte{WILL})
	if filter.State() != StateOption {
		t.Errorf("after verb: got state %v, want %v", filter.State(), StateOption)
	}
	result := filter.Feed([]byte{OptionSuppressGoAhead})

	want := []Command{{Verb: WILL, Option: OptionSuppressGoAhead}}
	if !reflect.DeepEqual(result.Commands, want) {
		t.Errorf("Commands: got %+v, want %+v", result.Commands, want)
	}
}

func TestFilterMalformedSequenceDropped(t *testing.T) {
	t.Parallel()
	var filter Filter

	// IAC NOP is not a negotiation verb; the sequence resets and the
	// following bytes are plain data.
	result := filter.Feed([]byte{IAC, NOP, 'a', 'b'})
	if len(result.Commands) != 0 {
		t.Errorf("Commands: got %+v, want none", result.Commands)
	}
	if filter.State() != StateIdle {
		t.Errorf("state: got %v, want idle", filter.State())
	}
}

func TestFilterInterrupt(t *testing.T) {
	t.Parallel()
	var filter Filter

	result := filter.Feed([]byte{'q', Interrupt, IAC, DO, OptionEcho})
	if !result.Interrupt {
		t.Fatal("expected interrupt")
	}
	if result.Consumed != 2 {
		t.Errorf("Consumed: got %d, want 2", result.Consumed)
	}
	if len(result.Commands) != 0 {
		t.Errorf("bytes after the interrupt must not be processed: %+v", result.Commands)
	}
}

func TestFilterInterruptInsideSequenceIsNotInterrupt(t *testing.T) {
	t.Parallel()
	var filter Filter

	// 0x03 as an option byte completes a command instead.
	result := filter.Feed([]byte{IAC, DO, Interrupt})
	if result.Interrupt {
		t.Error("0x03 inside a negotiation sequence must not interrupt")
	}
	want := []Command{{Verb: DO, Option: Interrupt}}
	if !reflect.DeepEqual(result.Commands, want) {
		t.Errorf("Commands: got %+v, want %+v", result.Commands, want)
	}

	// 0x03 right after IAC is a malformed sequence, dropped silently.
	result = filter.Feed([]byte{IAC, Interrupt})
	if result.Interrupt {
		t.Error("0x03 following IAC must not interrupt")
	}
}

func TestCommandString(t *testing.T) {
	t.Parallel()
	got := Command{Verb: DO, Option: OptionNAWS}.String()
	want := "ff fd 1f (IAC DO NAWS)"
	if got != want {
		t.Errorf("String: got %q, want %q", got, want)
	}
}

func TestNames(t *testing.T) {
	t.Parallel()
	tests := []struct {
		got, want string
	}{
		{CommandName(SE), "SE"},
		{CommandName(WILL), "WILL"},
		{CommandName(IAC), "IAC"},
		{CommandName(0x10), "????"},
		{OptionName(OptionEcho), "ECHO"},
		{OptionName(OptionSuppressGoAhead), "SGA"},
		{OptionName(200), "????"},
	}
	for _, test := range tests {
		if test.got != test.want {
			t.Errorf("got %q, want %q", test.got, test.want)
		}
	}
}
