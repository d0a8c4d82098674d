// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// swiprobe exercises the single-wire physical layer on a real pin: transmit a
// token, wait for a level, optionally dump the captured waveform.
//
// The driver core leaves pin direction to the caller; swiprobe switches the
// pin to output before transmitting and to input (pulled up, the line's idle
// state) before sampling.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/gpiolab/sha204swi/calib"
	"github.com/gpiolab/sha204swi/linescope"
	"github.com/gpiolab/sha204swi/swi"
)

func mainImpl() error {
	pinName := flag.String("pin", "", "GPIO pin wired to the secure element")
	profilePath := flag.String("profiles", "calib.yaml", "calibration profile file")
	profileName := flag.String("profile", "", "profile to use; may be empty when the file has only one")
	token := flag.Uint64("token", 0, "token to transmit, sent LSB first")
	bits := flag.Uint("bits", 0, "number of token bits (1..32); 0 skips the transmit")
	level := flag.Uint("level", 1, "level to wait for after transmitting")
	budget := flag.Uint("budget", 0, "sampling iterations before giving up; 0 skips the wait")
	tracePath := flag.String("trace", "", "write the waveform as a PNG to this file")
	term := flag.Bool("term", false, "dump the waveform to the terminal")
	flag.Parse()

	if *bits > 32 {
		return errors.New("-bits must be 1..32")
	}
	if *bits == 0 && *budget == 0 {
		flag.Usage()
		os.Exit(2)
	}

	f, err := os.Open(*profilePath)
	if err != nil {
		return err
	}
	profiles, err := calib.Load(f)
	f.Close()
	if err != nil {
		return err
	}
	profile, err := profiles.ByName(*profileName)
	if err != nil {
		return err
	}
	opts, err := profile.Opts()
	if err != nil {
		return err
	}
	link, err := swi.New(opts)
	if err != nil {
		return err
	}
	log.Printf("%s on profile %q", link, profile.Name)

	if _, err := host.Init(); err != nil {
		return err
	}
	pin := gpioreg.ByName(*pinName)
	if pin == nil {
		return fmt.Errorf("no such pin %q", *pinName)
	}

	rec := &linescope.Recorder{Port: &swi.PinPort{Pin: pin}}
	var port swi.Port = rec.Port
	if *tracePath != "" || *term {
		port = rec
	}

	if *bits > 0 {
		if err := pin.Out(gpio.High); err != nil {
			return err
		}
		link.SendToken(port, uint32(*token), uint32(*bits))
		log.Printf("sent %#x (%d bits)", *token, *bits)
	}
	if *budget > 0 {
		if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return err
		}
		if link.LookForBit(port, uint32(*level), uint32(*budget)) {
			log.Printf("level %d detected", *level&1)
		} else {
			log.Printf("timeout: level %d not seen in %d iterations", *level&1, *budget)
		}
	}

	if *term {
		s := linescope.NewScreen(&linescope.ScreenOpts{})
		if _, err := s.Draw(rec.Events); err != nil {
			return err
		}
		if err := s.Halt(); err != nil {
			return err
		}
	}
	if *tracePath != "" {
		out, err := os.Create(*tracePath)
		if err != nil {
			return err
		}
		if err := linescope.EncodePNG(out, rec.Events, &linescope.PNGOpts{}); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		log.Printf("trace written to %s", *tracePath)
	}
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		log.Fatal(err)
	}
}
