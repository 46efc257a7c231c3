// Copyright 2024 The go-naoj Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdif

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Encoder writes units to an output stream, VDIF frame header first,
// correlator header second, sample payload third, little-endian with
// no padding.
type Encoder struct {
	w   io.Writer
	buf []byte
	err error
}

// NewEncoder returns a new Encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		w:   w,
		buf: make([]byte, CorrSize),
	}
}

// Encode writes the wire representation of u to the stream.
func (enc *Encoder) Encode(u *Unit) error {
	if u == nil {
		return nil
	}

	enc.writeU32s(u.Head[:])
	if enc.err != nil {
		return fmt.Errorf("vdif: could not write VDIF frame header: %w", enc.err)
	}

	enc.writeU32s(u.Corr[:])
	if enc.err != nil {
		return fmt.Errorf("vdif: could not write correlator header: %w", enc.err)
	}

	enc.writeI16s(u.Data[:])
	if enc.err != nil {
		return fmt.Errorf("vdif: could not write correlator data: %w", enc.err)
	}

	return nil
}

func (enc *Encoder) writeU32s(vs []uint32) {
	n := 4 * len(vs)
	enc.reserve(n)
	for i, v := range vs {
		binary.LittleEndian.PutUint32(enc.buf[4*i:], v)
	}
	enc.write(enc.buf[:n])
}

func (enc *Encoder) writeI16s(vs []int16) {
	n := 2 * len(vs)
	enc.reserve(n)
	for i, v := range vs {
		binary.LittleEndian.PutUint16(enc.buf[2*i:], uint16(v))
	}
	enc.write(enc.buf[:n])
}

func (enc *Encoder) write(p []byte) {
	if enc.err != nil {
		return
	}
	_, enc.err = enc.w.Write(p)
}

func (enc *Encoder) reserve(n int) {
	if cap(enc.buf) < n {
		enc.buf = append(enc.buf[:len(enc.buf)], make([]byte, n-cap(enc.buf))...)
	}
	enc.buf = enc.buf[:n]
}
