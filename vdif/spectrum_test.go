// Copyright 2024 The go-naoj Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdif

import (
	"math"
	"testing"
)

func TestSamples(t *testing.T) {
	var u Unit
	u.Data[0] = 1
	u.Data[1] = -2
	u.Data[510] = -3
	u.Data[511] = 4

	smp := u.Samples()
	if got, want := len(smp), 256; got != want {
		t.Fatalf("invalid number of samples: got=%d, want=%d", got, want)
	}
	if got, want := smp[0], complex64(complex(1, -2)); got != want {
		t.Fatalf("invalid sample 0: got=%v, want=%v", got, want)
	}
	if got, want := smp[255], complex64(complex(-3, 4)); got != want {
		t.Fatalf("invalid sample 255: got=%v, want=%v", got, want)
	}
}

func TestSpectrum(t *testing.T) {
	units := make([]Unit, UnitsPerScan)
	for i := range units {
		for j := range units[i].Data {
			units[i].Data[j] = int16(i)
		}
	}

	spec, err := Spectrum(units)
	if err != nil {
		t.Fatalf("could not assemble spectrum: %+v", err)
	}
	if got, want := len(spec), NumFormatChans; got != want {
		t.Fatalf("invalid spectrum length: got=%d, want=%d", got, want)
	}

	// only the first 32 units contribute the 8192 retained channels.
	if got, want := spec[0], complex64(complex(0, 0)); got != want {
		t.Fatalf("invalid channel 0: got=%v, want=%v", got, want)
	}
	if got, want := spec[NumFormatChans-1], complex64(complex(31, 31)); got != want {
		t.Fatalf("invalid last channel: got=%v, want=%v", got, want)
	}

	if _, err := Spectrum(units[:1]); err == nil {
		t.Fatalf("expected an error for a short scan")
	}
}

func TestRebin(t *testing.T) {
	spec := []complex64{1, 3, 5, 7}

	out, err := Rebin(spec, 2)
	if err != nil {
		t.Fatalf("could not rebin: %+v", err)
	}
	if got, want := out, []complex64{2, 6}; len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("invalid rebin: got=%v, want=%v", got, want)
	}

	if _, err := Rebin(spec, 3); err == nil {
		t.Fatalf("expected an error for a non-dividing bin width")
	}
}

func TestFreqs(t *testing.T) {
	freqs, err := Freqs(NumFormatChans, 8)
	if err != nil {
		t.Fatalf("could not compute frequencies: %+v", err)
	}
	if got, want := len(freqs), NumFormatChans/8; got != want {
		t.Fatalf("invalid frequency axis length: got=%d, want=%d", got, want)
	}
	// mean of 16.384 ... 16.391 GHz
	if got, want := freqs[0], 1e-3*(16384+3.5); math.Abs(got-want) > 1e-9 {
		t.Fatalf("invalid first frequency: got=%v, want=%v", got, want)
	}

	if _, err := Freqs(10, 3); err == nil {
		t.Fatalf("expected an error for a non-dividing bin width")
	}
}
