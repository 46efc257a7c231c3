// Copyright 2024 The go-naoj Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gbd

import "fmt"

// scaleOf derives the per-channel divisor that converts a raw decoded
// integer into a calibrated physical value.
//
// Channels with no declared amplifier entry carry no calibration and
// get a unit scale.  Temperature channels are recorded in fixed-point
// tenths of a degree, whatever their declared range.  For the rest the
// scale is composed from the leading digit of the range, the range's
// decade bucket and the declared unit.
func scaleOf(ch Channel) (float64, error) {
	if ch.Type == "" || ch.Range == "" {
		return 1, nil
	}

	if ch.Type == "TEMP" {
		return 10, nil
	}

	var scale float64
	switch ch.Range[0] {
	case '1':
		scale = 2
	case '2':
		scale = 1
	case '4':
		scale = 5
	case '5':
		scale = 4
	default:
		return 0, fmt.Errorf("gbd: invalid range %q for channel %q: %w", ch.Range, ch.Name, ErrUnknownRange)
	}

	switch ch.Range {
	case "10mV", "20mV":
		scale *= 1000
	case "50mV", "100mV", "200mV":
		scale *= 100
	case "500mV", "1V", "2V":
		scale *= 10
	case "5V", "10V", "20V":
		scale *= 1
	case "50V", "100V", "200V":
		scale *= 0.1
	case "500V", "1000V":
		scale *= 0.01
	default:
		return 0, fmt.Errorf("gbd: invalid range %q for channel %q: %w", ch.Range, ch.Name, ErrUnknownRange)
	}

	switch ch.Unit {
	case "V":
		scale *= 1000
	case "mV":
		// raw values are already in the recorded decade.
	default:
		return 0, fmt.Errorf("gbd: invalid unit %q for channel %q: %w", ch.Unit, ch.Name, ErrUnknownUnit)
	}

	return scale, nil
}
