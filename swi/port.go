// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package swi

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/host/v3/pmem"
)

// Port is the bit-addressable hardware register backing the data line.
//
// Bit 0 reads and drives the physical pin. All other bits belong to unrelated
// hardware state and must survive a read-modify-write bit-for-bit unchanged;
// SendToken only ever writes values derived from a fresh Load.
//
// The line is half-duplex and shared: whoever calls into this package owns
// the register for the duration of the call. Serializing whole bus
// transactions is the protocol layer's job.
type Port interface {
	Load() uint32
	Store(v uint32)
}

// PinPort adapts a gpio.PinIO to the Port interface.
//
// A GPIO pin has no neighbouring register bits to preserve, so Load reports
// bits 1..31 as zero and Store ignores them. The caller still configures the
// electrical direction: output before SendToken, input before LookForBit.
type PinPort struct {
	Pin gpio.PinIO
}

func (p *PinPort) Load() uint32 {
	if p.Pin.Read() == gpio.High {
		return 1
	}
	return 0
}

// Store drives the pin from bit 0. Out errors are discarded: the transmit
// path has no error channel and cannot branch mid-pulse.
func (p *PinPort) Store(v uint32) {
	_ = p.Pin.Out(gpio.Level(v&1 == 1))
}

func (p *PinPort) String() string {
	return "PinPort{" + p.Pin.Name() + "}"
}

// reg32 matches the layout of a single 32-bit hardware register.
type reg32 struct {
	v uint32
}

type memPort struct {
	r *reg32
}

// OpenMem maps the 32-bit register at physical address base and returns it as
// a Port.
//
// This is for targets where the line sits directly on a memory-mapped GPIO
// data register. It needs /dev/mem (or /dev/gpiomem) access, so typically
// root. base must be 32-bit aligned.
func OpenMem(base uint64) (Port, error) {
	if base%4 != 0 {
		return nil, errors.New("swi: register address must be 32-bit aligned")
	}
	p := &memPort{}
	if err := pmem.MapAsPOD(base, &p.r); err != nil {
		return nil, fmt.Errorf("swi: mapping register at %#x: %v", base, err)
	}
	return p, nil
}

func (m *memPort) Load() uint32 {
	return m.r.v
}

func (m *memPort) Store(v uint32) {
	m.r.v = v
}

var _ Port = &PinPort{}
var _ Port = &memPort{}
var _ fmt.Stringer = &PinPort{}
