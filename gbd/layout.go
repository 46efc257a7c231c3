// Copyright 2024 The go-naoj Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gbd

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Kind is the physical kind of a logger channel, derived once from the
// channel naming convention of the logger.  The convention is closed:
// a name matching no kind is a fatal error, not an extension point.
type Kind int

const (
	KindInvalid Kind = iota
	KindAnalog       // CHnn: analog input, signed 16-bit
	KindPulse        // Pulse: pulse counter, unsigned 32-bit
	KindLogic        // Logic: logic input, unsigned 16-bit
	KindAlarm        // Alarm: alarm input, unsigned 16-bit
	KindAlarmOut     // AlOut: alarm output, unsigned 16-bit
	KindStatus       // Status: status word, unsigned 16-bit
)

func (k Kind) String() string {
	switch k {
	case KindAnalog:
		return "analog"
	case KindPulse:
		return "pulse"
	case KindLogic:
		return "logic"
	case KindAlarm:
		return "alarm"
	case KindAlarmOut:
		return "alarm-out"
	case KindStatus:
		return "status"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func kindOf(name string) (Kind, error) {
	switch {
	case strings.Contains(name, "CH"):
		return KindAnalog, nil
	case strings.Contains(name, "Pulse"):
		return KindPulse, nil
	case strings.Contains(name, "Logic"):
		return KindLogic, nil
	case strings.Contains(name, "Alarm"):
		return KindAlarm, nil
	case strings.Contains(name, "AlOut"):
		return KindAlarmOut, nil
	case strings.Contains(name, "Status"):
		return KindStatus, nil
	}
	return KindInvalid, fmt.Errorf("gbd: invalid channel name %q: %w", name, ErrUnknownChannel)
}

// size returns the fixed byte width of the channel's binary field.
func (k Kind) size() int {
	switch k {
	case KindAnalog:
		return 2
	case KindPulse:
		return 4
	default:
		return 2
	}
}

// decode returns the raw integer value of the channel's big-endian
// binary field, sign-extended for analog channels.
func (k Kind) decode(p []byte) float64 {
	switch k {
	case KindAnalog:
		return float64(int16(binary.BigEndian.Uint16(p)))
	case KindPulse:
		return float64(binary.BigEndian.Uint32(p))
	default:
		return float64(binary.BigEndian.Uint16(p))
	}
}

// layout is the derived binary record format of the logger payload:
// one fixed-width big-endian field per channel, in channel order.
type layout struct {
	kinds []Kind
	size  int
}

func layoutOf(channels []Channel) layout {
	lay := layout{kinds: make([]Kind, len(channels))}
	for i, ch := range channels {
		lay.kinds[i] = ch.Kind
		lay.size += ch.Kind.size()
	}
	return lay
}

// decode unpacks one payload record into vals, one raw value per
// channel.
func (lay *layout) decode(p []byte, vals []float64) {
	for i, k := range lay.kinds {
		vals[i] = k.decode(p)
		p = p[k.size():]
	}
}
