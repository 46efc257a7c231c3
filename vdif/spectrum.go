// Copyright 2024 The go-naoj Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdif

import "fmt"

// Spectrum assembles one scan worth of units (UnitsPerScan consecutive
// units) into a frequency spectrum of complex samples, keeping only the
// NumFormatChans leading channels that carry valid signal.
func Spectrum(units []Unit) ([]complex64, error) {
	if len(units) != UnitsPerScan {
		return nil, fmt.Errorf("vdif: invalid scan length (got=%d, want=%d)", len(units), UnitsPerScan)
	}

	spec := make([]complex64, 0, NumFormatChans)
	for i := range units {
		smp := units[i].Samples()
		left := NumFormatChans - len(spec)
		if left <= 0 {
			break
		}
		if left < len(smp) {
			smp = smp[:left]
		}
		spec = append(spec, smp...)
	}
	return spec, nil
}

// Rebin averages spec over consecutive bins of the given width.
// The spectrum length must be an exact multiple of width.
func Rebin(spec []complex64, width int) ([]complex64, error) {
	if width <= 0 || len(spec)%width != 0 {
		return nil, fmt.Errorf("vdif: bin width %d does not divide %d channels", width, len(spec))
	}

	out := make([]complex64, len(spec)/width)
	for i := range out {
		var sum complex64
		for _, v := range spec[i*width : (i+1)*width] {
			sum += v
		}
		out[i] = sum / complex(float32(width), 0)
	}
	return out, nil
}

// Freqs returns the sky frequencies, in GHz, of a spectrum of n
// channels rebinned by the given width.
func Freqs(n, width int) ([]float64, error) {
	if width <= 0 || n%width != 0 {
		return nil, fmt.Errorf("vdif: bin width %d does not divide %d channels", width, n)
	}

	out := make([]float64, n/width)
	for i := range out {
		var sum float64
		for j := 0; j < width; j++ {
			sum += 1e-3 * float64(LowerFreqMHz+i*width+j)
		}
		out[i] = sum / float64(width)
	}
	return out, nil
}
