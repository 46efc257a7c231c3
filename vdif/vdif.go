// Copyright 2024 The go-naoj Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vdif describes and handles data in the correlator's packetized
// VDIF format.
//
// A VDIF stream is a sequence of fixed-size units, little-endian
// throughout.  Each unit carries a VDIF frame header (8 uint32 words), a
// correlator-specific header (64 uint32 words) and 512 int16 words of
// payload, interpreted pairwise as the (real, imaginary) components of
// 256 complex samples.
package vdif // import "github.com/go-naoj/mao/vdif"

import "errors"

const (
	NumHeadWords = 8   // uint32 words in the VDIF frame header
	NumCorrWords = 64  // uint32 words in the correlator header
	NumDataWords = 512 // int16 words in the sample payload

	HeadSize = NumHeadWords * 4
	CorrSize = NumCorrWords * 4
	DataSize = NumDataWords * 2

	// UnitSize is the byte size of one unit on the wire.
	UnitSize = HeadSize + CorrSize + DataSize

	UnitsPerScan   = 64   // units assembled into one scan
	ScansPerSecond = 100  // scans recorded per second
	UnitsPerSecond = 6400 // format constant: UnitsPerScan * ScansPerSecond

	// NumFormatChans is the number of leading frequency channels of a
	// scan that carry valid signal.
	NumFormatChans = 8192

	// LowerFreqMHz is the sky frequency of channel 0, in MHz.
	LowerFreqMHz = 16384
)

// ErrTruncated is returned when a VDIF stream's byte length is not an
// exact multiple of UnitSize.
var ErrTruncated = errors.New("vdif: truncated stream")

// Unit is one fixed-size correlator record.
type Unit struct {
	Head [NumHeadWords]uint32 // VDIF frame header
	Corr [NumCorrWords]uint32 // correlator header
	Data [NumDataWords]int16  // interleaved re/im sample pairs
}

// Samples returns the payload of u as 256 complex samples, pairing
// consecutive int16 values as (real, imaginary).
func (u *Unit) Samples() []complex64 {
	smp := make([]complex64, NumDataWords/2)
	for i := range smp {
		smp[i] = complex(float32(u.Data[2*i]), float32(u.Data[2*i+1]))
	}
	return smp
}
