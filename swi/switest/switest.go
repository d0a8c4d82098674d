// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package switest provides in-memory swi.Port implementations to test driver
// code without hardware.
package switest

import "github.com/gpiolab/sha204swi/swi"

// Port is a scripted register.
//
// Like gpiotest.Pin, it is a plain struct with exported fields and no
// constructor. Store replaces Reg wholesale and logs the value; Load consumes
// the Reads script first and falls back to Reg once it is exhausted, so a
// test can replay an exact sample sequence seen on the wire.
type Port struct {
	// Reg is the current register value.
	Reg uint32

	// Reads is an optional script of Load results, consumed front to back.
	Reads []uint32

	// Writes logs every value passed to Store.
	Writes []uint32

	// Loads counts Load calls, scripted or not.
	Loads int
}

func (p *Port) Load() uint32 {
	p.Loads++
	if len(p.Reads) != 0 {
		v := p.Reads[0]
		p.Reads = p.Reads[1:]
		return v
	}
	return p.Reg
}

func (p *Port) Store(v uint32) {
	p.Reg = v
	p.Writes = append(p.Writes, v)
}

func (p *Port) String() string {
	return "switest.Port"
}

// Held returns a Reads script holding level for n samples.
func Held(level uint32, n int) []uint32 {
	s := make([]uint32, n)
	for i := range s {
		s[i] = level & 1
	}
	return s
}

var _ swi.Port = &Port{}
