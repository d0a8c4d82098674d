// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// swishell is an interactive console for poking at the single-wire link
// during board bring-up.
//
//	> send 0x88 8
//	> watch 0 1000
//	> trace wake.png
//
// Verbose diagnostics are available through glog's -v flag.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/gpiolab/sha204swi/calib"
	"github.com/gpiolab/sha204swi/linescope"
	"github.com/gpiolab/sha204swi/swi"
)

const probeKey = "$probe"

// probe is the shared session state: one link, one pin, one running trace.
type probe struct {
	link *swi.Link
	pin  gpio.PinIO
	rec  *linescope.Recorder
}

func probeFrom(c *ishell.Context) *probe {
	return c.Get(probeKey).(*probe)
}

var commands = []*ishell.Cmd{
	{
		Name: "send",
		Help: "send <token> <bits> — transmit bits of token, LSB first",
		Func: func(c *ishell.Context) {
			p := probeFrom(c)
			if len(c.Args) != 2 {
				c.Err(fmt.Errorf("usage: send <token> <bits>"))
				return
			}
			token, err := strconv.ParseUint(c.Args[0], 0, 32)
			if err != nil {
				c.Err(err)
				return
			}
			bits, err := strconv.ParseUint(c.Args[1], 0, 6)
			if err == nil && (bits < 1 || bits > 32) {
				err = fmt.Errorf("bits must be 1..32")
			}
			if err != nil {
				c.Err(err)
				return
			}
			if err := p.pin.Out(gpio.High); err != nil {
				c.Err(err)
				return
			}
			glog.V(1).Infof("TX %#x (%d bits)", token, bits)
			p.link.SendToken(p.rec, uint32(token), uint32(bits))
			c.Printf("sent %d bits\n", bits)
		},
	},
	{
		Name: "watch",
		Help: "watch <level> <budget> — wait for a sustained level",
		Func: func(c *ishell.Context) {
			p := probeFrom(c)
			if len(c.Args) != 2 {
				c.Err(fmt.Errorf("usage: watch <level> <budget>"))
				return
			}
			level, err := strconv.ParseUint(c.Args[0], 0, 32)
			if err != nil {
				c.Err(err)
				return
			}
			budget, err := strconv.ParseUint(c.Args[1], 0, 32)
			if err != nil {
				c.Err(err)
				return
			}
			if err := p.pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
				c.Err(err)
				return
			}
			glog.V(1).Infof("RX wait level %d, budget %d", level&1, budget)
			if p.link.LookForBit(p.rec, uint32(level), uint32(budget)) {
				c.Printf("level %d detected\n", level&1)
			} else {
				c.Printf("timeout after %d iterations\n", budget)
			}
		},
	},
	{
		Name: "trace",
		Help: "trace [file.png] — show the recorded waveform, then clear it",
		Func: func(c *ishell.Context) {
			p := probeFrom(c)
			if len(p.rec.Events) == 0 {
				c.Println("nothing recorded")
				return
			}
			if len(c.Args) == 0 {
				s := linescope.NewScreen(&linescope.ScreenOpts{})
				if _, err := s.Draw(p.rec.Events); err != nil {
					c.Err(err)
					return
				}
				if err := s.Halt(); err != nil {
					c.Err(err)
					return
				}
			} else {
				f, err := os.Create(c.Args[0])
				if err != nil {
					c.Err(err)
					return
				}
				err = linescope.EncodePNG(f, p.rec.Events, &linescope.PNGOpts{})
				if cerr := f.Close(); err == nil {
					err = cerr
				}
				if err != nil {
					c.Err(err)
					return
				}
				c.Printf("%d events written to %s\n", len(p.rec.Events), c.Args[0])
			}
			p.rec.Reset()
		},
	},
}

func main() {
	pinName := flag.String("pin", "", "GPIO pin wired to the secure element")
	profilePath := flag.String("profiles", "calib.yaml", "calibration profile file")
	profileName := flag.String("profile", "", "profile to use")
	flag.Parse()

	f, err := os.Open(*profilePath)
	if err != nil {
		log.Fatal(err)
	}
	profiles, err := calib.Load(f)
	f.Close()
	if err != nil {
		log.Fatal(err)
	}
	profile, err := profiles.ByName(*profileName)
	if err != nil {
		log.Fatal(err)
	}
	opts, err := profile.Opts()
	if err != nil {
		log.Fatal(err)
	}
	link, err := swi.New(opts)
	if err != nil {
		log.Fatal(err)
	}
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	pin := gpioreg.ByName(*pinName)
	if pin == nil {
		log.Fatalf("no such pin %q", *pinName)
	}

	sh := ishell.New()
	sh.Println("single-wire probe on", pin.Name(), "—", link.String())
	sh.SetPrompt(pin.Name() + " > ")
	sh.Set(probeKey, &probe{
		link: link,
		pin:  pin,
		rec:  &linescope.Recorder{Port: &swi.PinPort{Pin: pin}},
	})
	for _, cmd := range commands {
		sh.AddCmd(cmd)
	}
	sh.Run()
}
