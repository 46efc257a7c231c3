// Copyright 2024 The go-naoj Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdif

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Decoder reads units from an underlying data source.
//
// Each of the three sub-records of a unit is read as one atomic
// operation: a short read is a truncation error, never padded.
type Decoder struct {
	r   io.Reader
	buf []byte
	err error
}

// NewDecoder creates a decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:   r,
		buf: make([]byte, CorrSize),
	}
}

// Decode reads the next unit from the stream into u.
//
// Decode returns io.EOF if the stream ends on a unit boundary and
// io.ErrUnexpectedEOF (wrapped) if it ends inside a unit.
func (dec *Decoder) Decode(u *Unit) error {
	dec.readU32s(u.Head[:])
	if dec.err != nil {
		return fmt.Errorf("vdif: could not read VDIF frame header: %w", dec.err)
	}

	dec.readU32s(u.Corr[:])
	if dec.err != nil {
		return fmt.Errorf("vdif: could not read correlator header: %w", dec.err)
	}

	dec.readI16s(u.Data[:])
	if dec.err != nil {
		return fmt.Errorf("vdif: could not read correlator data: %w", dec.err)
	}

	return nil
}

func (dec *Decoder) readU32s(vs []uint32) {
	dec.load(4 * len(vs))
	if dec.err != nil {
		return
	}
	for i := range vs {
		vs[i] = binary.LittleEndian.Uint32(dec.buf[4*i:])
	}
}

func (dec *Decoder) readI16s(vs []int16) {
	dec.load(2 * len(vs))
	if dec.err != nil {
		return
	}
	for i := range vs {
		vs[i] = int16(binary.LittleEndian.Uint16(dec.buf[2*i:]))
	}
}

func (dec *Decoder) load(n int) {
	if dec.err != nil {
		return
	}
	if cap(dec.buf) < n {
		dec.buf = append(dec.buf[:len(dec.buf)], make([]byte, n-cap(dec.buf))...)
	}
	dec.buf = dec.buf[:n]
	_, dec.err = io.ReadFull(dec.r, dec.buf[:n])
}
