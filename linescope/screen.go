// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package linescope

import (
	"bytes"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// ScreenOpts represents the options available for Screen.
type ScreenOpts struct {
	// W is the destination; nil means a colorable stdout.
	W io.Writer

	// Palette maps colors to ANSI codes; nil means ansi256.Default.
	Palette *ansi256.Palette

	_ struct{}
}

// Screen paints an event log as one colored cell per access on an ANSI
// terminal.
//
// Driven levels are green (bright for high, dim for low), sampled levels are
// gray, so a transmit/receive interleave is visible at a glance.
type Screen struct {
	w       io.Writer
	palette ansi256.Palette

	buf bytes.Buffer
}

// NewScreen returns a Screen that paints at the console.
func NewScreen(opts *ScreenOpts) *Screen {
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	return &Screen{w: w, palette: *p}
}

func (s *Screen) String() string {
	return "LineScope"
}

// Halt implements conn.Resource.
//
// It resets the terminal attributes so the shell is not corrupted.
func (s *Screen) Halt() error {
	_, err := s.w.Write([]byte("\n\033[0m"))
	return err
}

var cellColors = map[Event]color.NRGBA{
	{Op: OpStore, Level: true}:  {0, 255, 0, 255},
	{Op: OpStore, Level: false}: {0, 96, 0, 255},
	{Op: OpLoad, Level: true}:   {224, 224, 224, 255},
	{Op: OpLoad, Level: false}:  {64, 64, 64, 255},
}

// Draw writes one colored cell per event to the terminal.
func (s *Screen) Draw(events []Event) (int, error) {
	// Reuses the buffer to keep per-call allocations down.
	s.buf.Reset()
	_, _ = s.buf.WriteString("\r\033[0m")
	for _, e := range events {
		_, _ = io.WriteString(&s.buf, s.palette.Block(cellColors[e]))
	}
	_, _ = s.buf.WriteString("\033[0m ")
	_, err := s.buf.WriteTo(s.w)
	return len(events), err
}
