// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package swi implements the single-wire physical layer used to talk to
// ATSHA204 family secure elements.
//
// It provides exactly two primitives: SendToken drives a bit sequence onto
// one GPIO line with calibrated pulse widths, and LookForBit waits for a
// sustained logic level on that line while rejecting short glitches. Framing,
// checksums and wake-up sequencing live in the protocol layer above; this
// package only moves bits.
//
// Both primitives are pure busy-wait loops. The protocol needs pulse widths
// within 5% of 4.34µs, which neither time.Sleep nor a ticker can hold, so
// the package never touches the scheduler. That puts three preconditions on
// the caller for the duration of each call: interrupts/preemption masked,
// deterministic instruction timing, and the pin's direction already set
// (output before SendToken, input before LookForBit). None of them are
// enforced here.
package swi

import "fmt"

// Link executes the two physical-layer primitives with a derived set of
// timing constants. It carries no state across calls; the same Link may be
// reused for any number of sequential transactions.
type Link struct {
	timings Timings
}

// New derives timing constants for the described CPU and returns a Link
// using them.
func New(opts *Opts) (*Link, error) {
	t, err := opts.timings()
	if err != nil {
		return nil, err
	}
	return &Link{timings: t}, nil
}

func (l *Link) String() string {
	return fmt.Sprintf("SWI{%d loops/bit, filter %d}", l.timings.BitLoops, l.timings.FilterLen)
}

// Timings returns the derived constants in use.
func (l *Link) Timings() Timings {
	return l.timings
}

// SendToken transmits bits of token onto bit 0 of p, least significant bit
// first, each held for one calibrated bit period. All other bits of the
// register are preserved across every write.
//
// bits must be in [1,32]; token bits at or above it are ignored. The loop
// writes a bit before checking the remaining count, so bits == 0 underflows
// into a huge count — it is a precondition, not a checked error. Once
// started, transmission always runs to completion.
func (l *Link) SendToken(p Port, token uint32, bits uint32) {
	for {
		reg := p.Load()
		p.Store(reg&^1 | token&1)
		spin(l.timings.BitLoops)
		token >>= 1
		bits--
		if bits == 0 {
			return
		}
	}
}

// LookForBit polls bit 0 of p until it has observed level for FilterLen
// consecutive samples, returning true, or until budget iterations have been
// spent, returning false.
//
// A single sample at the opposite level resets all accumulated progress,
// which is what rejects glitches instead of averaging them: no pulse shorter
// than FilterLen sampling iterations can ever be accepted. Only the least
// significant bit of level is meaningful. A false return is a protocol-level
// timeout, not an error; whether to retry is the caller's decision.
func (l *Link) LookForBit(p Port, level uint32, budget uint32) bool {
	level &= 1
	matched := uint32(0)
	for ; budget > 0; budget-- {
		if p.Load()&1 == level {
			matched++
			if matched == l.timings.FilterLen {
				return true
			}
		} else {
			matched = 0
		}
	}
	return false
}

// spin is a variable so tests can observe the calibrated waits.
var spin = busyWait

// busyWaitSink keeps the compiler from eliding the timing loop.
var busyWaitSink uint32

// busyWait burns n calibrated iterations. Its per-iteration cost is the
// TxLoopCycles input to Opts; it must be re-measured when porting to a new
// CPU or toolchain.
//
//go:noinline
func busyWait(n uint32) {
	for i := uint32(0); i < n; i++ {
		busyWaitSink = i
	}
}
