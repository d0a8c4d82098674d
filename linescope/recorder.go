// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package linescope captures and renders what the single-wire driver does on
// the line.
//
// Recorder sits between the driver and a real (or test) port and logs every
// register access. Screen paints the log as a colored row on an ANSI
// terminal; EncodePNG renders it as a step waveform image. Useful while you
// are bringing up a board, or waiting for one to arrive.
package linescope

import (
	"periph.io/x/conn/v3/gpio"

	"github.com/gpiolab/sha204swi/swi"
)

// Op identifies the direction of a recorded port access.
type Op int

const (
	// OpLoad is a sample taken from the line.
	OpLoad Op = iota
	// OpStore is a level driven onto the line.
	OpStore
)

func (o Op) String() string {
	switch o {
	case OpLoad:
		return "load"
	case OpStore:
		return "store"
	default:
		return "unknown"
	}
}

// Event is one recorded access. Level is bit 0 of the value involved.
type Event struct {
	Op    Op
	Level gpio.Level
}

// Recorder wraps a swi.Port and logs every access in order.
//
// Events carry no timestamps: reading a clock inside the calibrated loops
// would perturb the timing being inspected. Access order is enough to render
// a waveform, since the driver's loops are the clock.
type Recorder struct {
	// Port is the port accesses are forwarded to.
	Port swi.Port

	// Events is the access log, in order.
	Events []Event
}

func (r *Recorder) Load() uint32 {
	v := r.Port.Load()
	r.Events = append(r.Events, Event{Op: OpLoad, Level: gpio.Level(v&1 == 1)})
	return v
}

func (r *Recorder) Store(v uint32) {
	r.Port.Store(v)
	r.Events = append(r.Events, Event{Op: OpStore, Level: gpio.Level(v&1 == 1)})
}

// Reset drops the recorded events, keeping the underlying port.
func (r *Recorder) Reset() {
	r.Events = r.Events[:0]
}

func (r *Recorder) String() string {
	return "linescope.Recorder"
}

var _ swi.Port = &Recorder{}
