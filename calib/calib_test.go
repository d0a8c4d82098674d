// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package calib

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/physic"

	"github.com/gpiolab/sha204swi/swi"
)

const doc = `
profiles:
  - name: ref-10mhz
    clock: 10MHz
    tx_loop_cycles: 4
    tx_overhead_cycles: 3
    rx_loop_cycles: 7
  - name: rp2040-48mhz
    clock: 48MHz
    tx_loop_cycles: 4
    tx_overhead_cycles: 16
    rx_loop_cycles: 30
`

func TestLoad(t *testing.T) {
	ps, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(ps) != 2 {
		t.Fatalf("loaded %d profiles, want 2", len(ps))
	}
	want := Profile{
		Name:             "ref-10mhz",
		Clock:            "10MHz",
		TxLoopCycles:     4,
		TxOverheadCycles: 3,
		RxLoopCycles:     7,
	}
	if diff := cmp.Diff(ps[0], want); diff != "" {
		t.Errorf("profile difference (-got +want):\n%s", diff)
	}
}

func TestLoad_fail(t *testing.T) {
	if _, err := Load(strings.NewReader("profiles: []")); err == nil {
		t.Error("Load() must reject an empty document")
	}
	if _, err := Load(strings.NewReader(":::")); err == nil {
		t.Error("Load() must reject malformed YAML")
	}
}

func TestByName(t *testing.T) {
	ps, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	p, err := ps.ByName("rp2040-48mhz")
	if err != nil {
		t.Fatalf("ByName() failed: %v", err)
	}
	if p.Clock != "48MHz" {
		t.Errorf("Clock = %q, want 48MHz", p.Clock)
	}
	if _, err := ps.ByName("unknown"); err == nil {
		t.Error("ByName() must fail for a missing profile")
	}
	// Empty name is ambiguous with two profiles.
	if _, err := ps.ByName(""); err == nil {
		t.Error("ByName(\"\") must fail when several profiles exist")
	}
	if _, err := (Profiles{*p}).ByName(""); err != nil {
		t.Errorf("ByName(\"\") with a sole profile failed: %v", err)
	}
}

// TestOpts checks a loaded profile feeds swi.New end to end.
func TestOpts(t *testing.T) {
	ps, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	p, err := ps.ByName("ref-10mhz")
	if err != nil {
		t.Fatal(err)
	}
	opts, err := p.Opts()
	if err != nil {
		t.Fatalf("Opts() failed: %v", err)
	}
	if opts.Clock != 10*physic.MegaHertz {
		t.Errorf("Clock = %s, want 10MHz", opts.Clock)
	}
	link, err := swi.New(opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if diff := cmp.Diff(link.Timings(), swi.Timings{BitLoops: 10, FilterLen: 4}); diff != "" {
		t.Errorf("Timings() difference (-got +want):\n%s", diff)
	}
}

func TestOpts_badClock(t *testing.T) {
	p := &Profile{Name: "x", Clock: "very fast"}
	if _, err := p.Opts(); err == nil {
		t.Fatal("Opts() must reject an unparseable clock")
	}
}
