// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package swi

import (
	"errors"
	"fmt"
	"math"
	"time"

	"periph.io/x/conn/v3/physic"
)

// Protocol timing requirements. These are fixed by the device; everything
// derived from them must be recomputed whenever the host clock changes.
const (
	// BitPeriod is the nominal duration each transmitted bit is held on the
	// line. The realized period must stay within ±5% of it.
	BitPeriod = 4340 * time.Nanosecond

	// MinPulse is the shortest pulse the protocol guarantees on the wire.
	// The glitch filter must accept a pulse of this width with margin.
	MinPulse = 4600 * time.Nanosecond

	// tolerancePct is the allowed deviation of the realized bit period.
	tolerancePct = 5

	// filterMargin is the headroom between the filter's total sampling time
	// and MinPulse, so a real minimum-width pulse always satisfies the filter.
	filterMargin = 1.5
)

// Opts describes the host CPU to derive timing constants from.
//
// The cycle counts are measured properties of the compiled loops on the
// target CPU, not tunables: TxLoopCycles is the cost of one busy-wait
// iteration, TxOverheadCycles the fixed per-bit cost of the register
// read-modify-write plus loop bookkeeping, RxLoopCycles the cost of one
// LookForBit sampling iteration. Porting to a different CPU means measuring
// these again, not copying them.
type Opts struct {
	// Clock is the CPU core clock the calling code executes at.
	Clock physic.Frequency

	TxLoopCycles     uint32
	TxOverheadCycles uint32
	RxLoopCycles     uint32
}

// Timings are the derived constants driving both primitives. They are only
// obtainable through derivation, which is what keeps them in sync with the
// configured clock.
type Timings struct {
	// BitLoops is the number of busy-wait iterations per transmitted bit.
	BitLoops uint32

	// FilterLen is the number of consecutive matching samples LookForBit
	// requires before trusting a level.
	FilterLen uint32
}

func (t Timings) String() string {
	return fmt.Sprintf("Timings{%d loops/bit, filter %d}", t.BitLoops, t.FilterLen)
}

// timings derives the calibrated constants, or fails when the described CPU
// cannot hit the protocol's timing window at all.
func (o *Opts) timings() (Timings, error) {
	if o == nil {
		return Timings{}, errors.New("swi: opts are required")
	}
	if o.Clock < physic.Hertz {
		return Timings{}, errors.New("swi: clock frequency is required")
	}
	if o.TxLoopCycles == 0 || o.RxLoopCycles == 0 {
		return Timings{}, errors.New("swi: loop cycle costs are required")
	}

	hz := float64(o.Clock) / float64(physic.Hertz)

	// Transmit: pick the iteration count whose total per-bit time, fixed
	// overhead included, lands closest to BitPeriod, then verify it actually
	// falls inside the tolerance window.
	bitCycles := BitPeriod.Seconds() * hz
	loops := math.Round((bitCycles - float64(o.TxOverheadCycles)) / float64(o.TxLoopCycles))
	if loops < 1 {
		return Timings{}, errors.New("swi: clock too slow for the bit period (overhead alone exceeds it)")
	}
	realized := (loops*float64(o.TxLoopCycles) + float64(o.TxOverheadCycles)) / hz
	if dev := math.Abs(realized-BitPeriod.Seconds()) / BitPeriod.Seconds() * 100; dev > tolerancePct {
		return Timings{}, fmt.Errorf("swi: realized bit period off nominal by %.1f%% (max %d%%)", dev, tolerancePct)
	}

	// Receive: the filter must fill up within a minimum-width pulse with
	// filterMargin headroom, so FilterLen sampling iterations may take at
	// most MinPulse/filterMargin.
	sample := float64(o.RxLoopCycles) / hz
	filterLen := math.Floor(MinPulse.Seconds() / (filterMargin * sample))
	if filterLen < 1 {
		return Timings{}, errors.New("swi: sample loop too slow to fit the minimum pulse width")
	}

	return Timings{BitLoops: uint32(loops), FilterLen: uint32(filterLen)}, nil
}
