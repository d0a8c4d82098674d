// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sha204swi contains the single-wire physical layer for ATSHA204
// family secure elements, plus the host-side tooling used to calibrate and
// debug it.
//
// The swi package is the driver core: it moves bits over one GPIO line with
// cycle-calibrated busy-wait timing. Everything else in this repository
// (calib, linescope, the cmd tools) exists to configure that core for a given
// CPU clock or to look at what it does on the wire.
package sha204swi
