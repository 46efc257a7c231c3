// Copyright 2024 The go-naoj Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdif

import (
	"time"

	"github.com/go-naoj/mao/internal/bits"
)

// Epoch quantities of the VDIF frame header: the reference epoch plus a
// half-year count packed into bits 24-29 of the second header word and
// a seconds-from-epoch count packed into bits 0-29 of the first.
// The sub-second part is not recorded in the header at all: it is the
// scan position within the current second, at 10 ms per scan.
const (
	refYear = 2000

	monthStart, monthBits   = 24, 6
	secondStart, secondBits = 0, 30

	scanPeriod = 10 * time.Millisecond
)

var refEpoch = time.Date(refYear, time.January, 1, 0, 0, 0, 0, time.UTC)

// Timestamp reconstructs the absolute time of the scan at position scan
// from the bit-packed fields of the VDIF frame header head.
//
// The scan position supplies the fractional second (scan modulo
// ScansPerSecond, 10 ms per scan): callers must derive it from the
// sequence index of the unit in the stream, not from the header.
func Timestamp(head [NumHeadWords]uint32, scan int) time.Time {
	var (
		months  = bits.U32(head[1], monthStart, monthBits)
		seconds = bits.U32(head[0], secondStart, secondBits)
		frac    = time.Duration(scan%ScansPerSecond) * scanPeriod
	)
	t := refEpoch.AddDate(0, 6*int(months), 0)
	return t.Add(time.Duration(seconds)*time.Second + frac)
}

// ScanOf returns the scan position of the unit at sequence index i.
func ScanOf(i int) int {
	return i / UnitsPerScan
}
