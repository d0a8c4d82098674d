// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package linescope

import (
	"bytes"
	"strings"
	"testing"
)

var testEvents = []Event{
	{Op: OpStore, Level: true},
	{Op: OpStore, Level: false},
	{Op: OpLoad, Level: true},
	{Op: OpLoad, Level: false},
}

func TestScreen_draw(t *testing.T) {
	var buf bytes.Buffer
	s := NewScreen(&ScreenOpts{W: &buf})
	n, err := s.Draw(testEvents)
	if err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}
	if n != len(testEvents) {
		t.Errorf("Draw() = %d, want %d", n, len(testEvents))
	}
	out := buf.String()
	if !strings.HasPrefix(out, "\r\033[0m") {
		t.Errorf("output must start with a reset: %q", out)
	}
	if got := strings.Count(out, "\033["); got < len(testEvents) {
		t.Errorf("found %d escape sequences, want at least %d", got, len(testEvents))
	}
}

func TestScreen_halt(t *testing.T) {
	var buf bytes.Buffer
	s := NewScreen(&ScreenOpts{W: &buf})
	if err := s.Halt(); err != nil {
		t.Fatalf("Halt() failed: %v", err)
	}
	if got := buf.String(); got != "\n\033[0m" {
		t.Errorf("Halt() wrote %q", got)
	}
}

func TestScreen_string(t *testing.T) {
	if s := NewScreen(&ScreenOpts{}).String(); s != "LineScope" {
		t.Errorf("String() = %q", s)
	}
}
