// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package calib loads per-platform busy-loop calibration profiles.
//
// The single-wire timing constants must be derived from the clock the timing
// loops actually execute at. A profile records the measured inputs for one
// platform — clock and per-iteration cycle costs — so constants are
// recomputed through swi.New, never copied between platforms.
//
// Profile files are YAML:
//
//	profiles:
//	  - name: rp2040-48mhz
//	    clock: 48MHz
//	    tx_loop_cycles: 4
//	    tx_overhead_cycles: 16
//	    rx_loop_cycles: 30
package calib

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"

	"github.com/gpiolab/sha204swi/swi"
)

// Profile describes one platform's measured timing inputs.
type Profile struct {
	Name string `yaml:"name"`

	// Clock is the CPU core clock, e.g. "48MHz" or "8MHz".
	Clock string `yaml:"clock"`

	TxLoopCycles     uint32 `yaml:"tx_loop_cycles"`
	TxOverheadCycles uint32 `yaml:"tx_overhead_cycles"`
	RxLoopCycles     uint32 `yaml:"rx_loop_cycles"`
}

// Opts converts the profile into derivation inputs for swi.New.
func (p *Profile) Opts() (*swi.Opts, error) {
	var f physic.Frequency
	if err := f.Set(p.Clock); err != nil {
		return nil, fmt.Errorf("calib: profile %q: bad clock %q: %v", p.Name, p.Clock, err)
	}
	return &swi.Opts{
		Clock:            f,
		TxLoopCycles:     p.TxLoopCycles,
		TxOverheadCycles: p.TxOverheadCycles,
		RxLoopCycles:     p.RxLoopCycles,
	}, nil
}

// Profiles is a named set of platforms.
type Profiles []Profile

// Load reads a YAML profile document.
func Load(r io.Reader) (Profiles, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("calib: %v", err)
	}
	var doc struct {
		Profiles []Profile `yaml:"profiles"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("calib: %v", err)
	}
	if len(doc.Profiles) == 0 {
		return nil, errors.New("calib: no profiles in document")
	}
	return doc.Profiles, nil
}

// ByName selects a profile. An empty name selects the profile when there is
// exactly one.
func (ps Profiles) ByName(name string) (*Profile, error) {
	if name == "" && len(ps) == 1 {
		return &ps[0], nil
	}
	for i := range ps {
		if ps[i].Name == name {
			return &ps[i], nil
		}
	}
	return nil, fmt.Errorf("calib: no profile named %q", name)
}
