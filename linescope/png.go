// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package linescope

import (
	"errors"
	"fmt"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

const (
	pngPad  = 16 // margin around the waveform, pixels
	pngCell = 8  // horizontal pixels per recorded access
)

// PNGOpts represents the options available for EncodePNG.
type PNGOpts struct {
	// W, H are the image dimensions in pixels. Zero picks a size from the
	// event count.
	W, H int

	// Face is the label font; nil means basicfont.Face7x13.
	Face font.Face

	_ struct{}
}

// ParseFace parses TTF bytes into a font face usable in PNGOpts, e.g. from
// golang.org/x/image/font/gofont/goregular.
func ParseFace(ttf []byte, points float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("linescope: parsing font: %v", err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: points}), nil
}

// EncodePNG renders the event log as a step waveform and writes a PNG to w.
//
// The x axis is access order, not wall time; see Recorder. Driven accesses
// get a tick mark under the baseline so transmitted pulses stand out from
// sampling.
func EncodePNG(w io.Writer, events []Event, opts *PNGOpts) error {
	if len(events) == 0 {
		return errors.New("linescope: no events to render")
	}
	width := opts.W
	if width == 0 {
		width = 2*pngPad + pngCell*len(events)
	}
	height := opts.H
	if height == 0 {
		height = 120
	}
	face := opts.Face
	if face == nil {
		face = basicfont.Face7x13
	}

	yHigh := float64(pngPad)
	yLow := float64(height - 2*pngPad)
	step := float64(width-2*pngPad) / float64(len(events))
	y := func(l bool) float64 {
		if l {
			return yHigh
		}
		return yLow
	}

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// Level rails.
	dc.SetRGB(0.85, 0.85, 0.85)
	dc.SetLineWidth(1)
	dc.DrawLine(pngPad, yHigh, float64(width-pngPad), yHigh)
	dc.DrawLine(pngPad, yLow, float64(width-pngPad), yLow)
	dc.Stroke()

	// The waveform itself.
	dc.SetRGB(0.1, 0.3, 0.8)
	dc.SetLineWidth(2)
	x := float64(pngPad)
	prev := events[0].Level
	for _, e := range events {
		if e.Level != prev {
			dc.DrawLine(x, y(bool(prev)), x, y(bool(e.Level)))
			prev = e.Level
		}
		dc.DrawLine(x, y(bool(e.Level)), x+step, y(bool(e.Level)))
		x += step
	}
	dc.Stroke()

	// Tick marks under driven accesses.
	dc.SetRGB(0.8, 0.2, 0.1)
	dc.SetLineWidth(1)
	x = pngPad
	for _, e := range events {
		if e.Op == OpStore {
			dc.DrawLine(x+step/2, yLow+4, x+step/2, yLow+10)
		}
		x += step
	}
	dc.Stroke()

	dc.SetFontFace(face)
	dc.SetRGB(0, 0, 0)
	dc.DrawString("1", 4, yHigh+4)
	dc.DrawString("0", 4, yLow+4)
	dc.DrawString(fmt.Sprintf("%d accesses", len(events)), pngPad, float64(height)-4)

	return dc.EncodePNG(w)
}
