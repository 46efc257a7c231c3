// Copyright 2024 The go-naoj Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gbd

import (
	"errors"
	"reflect"
	"testing"
)

func TestKindOf(t *testing.T) {
	for _, tc := range []struct {
		name string
		want Kind
	}{
		{name: "CH1", want: KindAnalog},
		{name: "CH12", want: KindAnalog},
		{name: "Pulse1", want: KindPulse},
		{name: "Logic1", want: KindLogic},
		{name: "Alarm1", want: KindAlarm},
		{name: "AlOut1", want: KindAlarmOut},
		{name: "Status", want: KindStatus},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := kindOf(tc.name)
			if err != nil {
				t.Fatalf("could not derive kind: %+v", err)
			}
			if got != tc.want {
				t.Fatalf("invalid kind: got=%v, want=%v", got, tc.want)
			}
		})
	}

	_, err := kindOf("Foo")
	if !errors.Is(err, ErrUnknownChannel) {
		t.Fatalf("invalid error: got=%+v, want=%+v", err, ErrUnknownChannel)
	}
}

func TestLayoutDecode(t *testing.T) {
	channels := []Channel{
		{Name: "CH1", Kind: KindAnalog},
		{Name: "Pulse1", Kind: KindPulse},
		{Name: "Logic1", Kind: KindLogic},
	}

	lay := layoutOf(channels)
	if got, want := lay.size, 2+4+2; got != want {
		t.Fatalf("invalid record size: got=%d, want=%d", got, want)
	}

	rec := []byte{
		0xff, 0xfe, // CH1: -2
		0x00, 0x01, 0x00, 0x00, // Pulse1: 65536
		0x80, 0x01, // Logic1: 32769
	}

	vals := make([]float64, len(channels))
	lay.decode(rec, vals)

	if got, want := vals, []float64{-2, 65536, 32769}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid record decode: got=%v, want=%v", got, want)
	}
}
