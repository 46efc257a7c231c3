// Copyright 2024 The go-naoj Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdif

import (
	"testing"
	"time"
)

func TestTimestamp(t *testing.T) {
	head := func(months, seconds uint32) [NumHeadWords]uint32 {
		var h [NumHeadWords]uint32
		h[0] = seconds // bits 0-29
		h[1] = months << 24
		return h
	}

	for _, tc := range []struct {
		name string
		head [NumHeadWords]uint32
		scan int
		want time.Time
	}{
		{
			name: "epoch",
			head: head(0, 0),
			scan: 0,
			want: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "one-half-year",
			head: head(1, 0),
			scan: 0,
			want: time.Date(2000, 7, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "forty-half-years",
			head: head(40, 0),
			scan: 0,
			want: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "seconds",
			head: head(40, 3*3600+25*60+45),
			scan: 0,
			want: time.Date(2020, 1, 1, 3, 25, 45, 0, time.UTC),
		},
		{
			name: "sub-second",
			head: head(40, 1),
			scan: 42,
			want: time.Date(2020, 1, 1, 0, 0, 1, 420e6, time.UTC),
		},
		{
			name: "scan-wraps-second",
			head: head(40, 2),
			scan: ScansPerSecond + 3,
			want: time.Date(2020, 1, 1, 0, 0, 2, 30e6, time.UTC),
		},
		{
			name: "noise-outside-fields",
			head: func() [NumHeadWords]uint32 {
				h := head(40, 12)
				h[0] |= 0xc0000000 // bits 30-31 are not part of the seconds field
				h[1] |= 0xc0ffffff // only bits 24-29 carry the months field
				return h
			}(),
			scan: 0,
			want: time.Date(2020, 1, 1, 0, 0, 12, 0, time.UTC),
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got, want := Timestamp(tc.head, tc.scan), tc.want; !got.Equal(want) {
				t.Fatalf("invalid timestamp: got=%v, want=%v", got, want)
			}
		})
	}
}

func TestTimestampConsecutiveScans(t *testing.T) {
	head := [NumHeadWords]uint32{5, 40 << 24}

	for scan := 0; scan < ScansPerSecond-1; scan++ {
		var (
			t0 = Timestamp(head, scan)
			t1 = Timestamp(head, scan+1)
		)
		if got, want := t1.Sub(t0), 10*time.Millisecond; got != want {
			t.Fatalf("scan %d: invalid scan period: got=%v, want=%v", scan, got, want)
		}
	}
}

func TestScanOf(t *testing.T) {
	for _, tc := range []struct {
		unit int
		want int
	}{
		{unit: 0, want: 0},
		{unit: UnitsPerScan - 1, want: 0},
		{unit: UnitsPerScan, want: 1},
		{unit: UnitsPerSecond, want: ScansPerSecond},
	} {
		if got, want := ScanOf(tc.unit), tc.want; got != want {
			t.Errorf("invalid scan for unit %d: got=%d, want=%d", tc.unit, got, want)
		}
	}
}
