// Copyright 2024 The go-naoj Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gbd decodes the data-logger's GBD files.
//
// A GBD file is a self-describing binary format: a Shift-JIS text
// header of variable size (a multiple of 2048 bytes, the exact size
// declared inside the header itself as "HeaderSiz = n") immediately
// followed by a payload of fixed-width big-endian records, one per
// sample.  The header declares the channel order, the sample count,
// the start time and sample interval, and the per-channel amplifier
// settings from which the calibration scale is computed.
package gbd // import "github.com/go-naoj/mao/gbd"

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

var (
	// ErrHeaderSize is returned when the declared header size token is
	// absent from the first page of a GBD file.
	ErrHeaderSize = errors.New("gbd: header size not found")

	// ErrHeaderSyntax is returned when a header row matches neither
	// the section-marker nor the assignment grammar.
	ErrHeaderSyntax = errors.New("gbd: unrecognized header syntax")

	// ErrUnknownChannel is returned when a channel name matches none
	// of the known naming conventions.
	ErrUnknownChannel = errors.New("gbd: unrecognized channel")

	// ErrUnknownRange is returned when a declared measurement range
	// has no known scale.
	ErrUnknownRange = errors.New("gbd: unrecognized range")

	// ErrUnknownUnit is returned when a declared unit is neither V
	// nor mV on a non-temperature channel.
	ErrUnknownUnit = errors.New("gbd: unrecognized unit")
)

// Channel describes one logger channel, as declared by the header.
type Channel struct {
	Name  string
	Kind  Kind
	Unit  string  // declared physical unit ("V", "mV", ...), if any
	Range string  // declared measurement range ("20mV", ...), if any
	Type  string  // declared physical type tag ("VOLT", "TEMP", ...), if any
	Scale float64 // divisor from raw integer to calibrated value
}

// Label returns the channel name suffixed by its physical unit, where
// one is known.
func (ch Channel) Label() string {
	if ch.Unit == "" {
		return ch.Name
	}
	return fmt.Sprintf("%s (%s)", ch.Name, ch.Unit)
}

// Table is the decoded, time-indexed content of a GBD file: one
// calibrated column per channel.
type Table struct {
	Start    time.Time
	Interval time.Duration
	Channels []Channel
	Data     [][]float64 // Data[i] is the column of Channels[i]
}

// Time returns the timestamp of sample index i.
func (t *Table) Time(i int) time.Time {
	return t.Start.Add(time.Duration(i) * t.Interval)
}

// Len returns the number of samples of the table.
func (t *Table) Len() int {
	if len(t.Data) == 0 {
		return 0
	}
	return len(t.Data[0])
}

// ReadTable decodes the named GBD file into a calibrated table.
//
// The conversion is a single sequential pass: header parse, channel
// descriptor and scale derivation, then one fixed-width record per
// sample, each raw integer divided by its channel scale at read time.
// Any failure aborts the whole conversion.
func ReadTable(fname string) (*Table, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("gbd: could not open %q: %w", fname, err)
	}
	defer f.Close()

	hdr, err := readHeader(f, fname)
	if err != nil {
		return nil, err
	}

	channels, err := channelsFrom(hdr)
	if err != nil {
		return nil, err
	}

	tbl, err := tableFrom(hdr, channels)
	if err != nil {
		return nil, err
	}

	_, err = f.Seek(int64(hdr.Size), io.SeekStart)
	if err != nil {
		return nil, fmt.Errorf("gbd: could not seek to payload of %q: %w", fname, err)
	}

	err = readRecords(bufio.NewReader(f), tbl)
	if err != nil {
		return nil, fmt.Errorf("gbd: could not read payload of %q: %w", fname, err)
	}

	return tbl, nil
}

// channelsFrom derives the ordered channel descriptors from the
// header: names from Common.Data.Order, units from the Measure.Scale
// entries, type tags and ranges from the Amp entries.
func channelsFrom(hdr *Header) ([]Channel, error) {
	order, ok := hdr.Lookup("Common", "Data", "Order")
	if !ok {
		return nil, fmt.Errorf("gbd: missing Common.Data.Order: %w", ErrHeaderSyntax)
	}

	channels := make([]Channel, 0, len(order))
	for _, name := range order.Strings() {
		ch := Channel{Name: name}

		kind, err := kindOf(name)
		if err != nil {
			return nil, err
		}
		ch.Kind = kind

		if v, ok := hdr.Lookup("Measure", "Scale", name); ok && len(v) > 6 {
			ch.Unit = v[6].Str
		}
		if v, ok := hdr.Lookup("Amp", name); ok && len(v) > 2 {
			ch.Type = v[1].Str
			ch.Range = v[2].Str
		}

		scale, err := scaleOf(ch)
		if err != nil {
			return nil, err
		}
		ch.Scale = scale

		channels = append(channels, ch)
	}
	return channels, nil
}

func tableFrom(hdr *Header, channels []Channel) (*Table, error) {
	counts, ok := hdr.Lookup("Common", "Data", "Counts")
	if !ok || len(counts) == 0 || !counts[0].IsInt || counts[0].Int < 0 {
		return nil, fmt.Errorf("gbd: missing or invalid Common.Data.Counts: %w", ErrHeaderSyntax)
	}

	start, err := startTime(hdr)
	if err != nil {
		return nil, err
	}

	sample, ok := hdr.Lookup("Common", "Data", "Sample")
	if !ok || len(sample) == 0 {
		return nil, fmt.Errorf("gbd: missing Common.Data.Sample: %w", ErrHeaderSyntax)
	}
	interval, err := sampleInterval(sample[0].Str)
	if err != nil {
		return nil, err
	}

	tbl := &Table{
		Start:    start,
		Interval: interval,
		Channels: channels,
		Data:     make([][]float64, len(channels)),
	}
	for i := range tbl.Data {
		tbl.Data[i] = make([]float64, 0, counts[0].Int)
	}
	return tbl, nil
}

func readRecords(r io.Reader, tbl *Table) error {
	if len(tbl.Channels) == 0 {
		return nil
	}

	var (
		lay  = layoutOf(tbl.Channels)
		rec  = make([]byte, lay.size)
		vals = make([]float64, len(tbl.Channels))
		n    = cap(tbl.Data[0])
	)

	for i := 0; i < n; i++ {
		_, err := io.ReadFull(r, rec)
		if err != nil {
			return fmt.Errorf("could not read record %d/%d: %w", i+1, n, err)
		}

		lay.decode(rec, vals)
		for j, v := range vals {
			tbl.Data[j] = append(tbl.Data[j], v/tbl.Channels[j].Scale)
		}
	}
	return nil
}

func startTime(hdr *Header) (time.Time, error) {
	v, ok := hdr.Lookup("Common", "Time", "Start")
	if !ok || len(v) < 2 {
		return time.Time{}, fmt.Errorf("gbd: missing or invalid Common.Time.Start: %w", ErrHeaderSyntax)
	}

	stamp := v[0].Str + "T" + v[1].Str
	for _, layout := range []string{
		"2006-01-02T15:04:05",
		"2006/01/02T15:04:05",
	} {
		if t, err := time.Parse(layout, stamp); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("gbd: invalid start time %q: %w", stamp, ErrHeaderSyntax)
}

// sampleInterval parses the logger's sample interval notation: an
// integer count followed by a unit code (U for microseconds, L for
// milliseconds, S, T and H for seconds, minutes and hours).
func sampleInterval(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("gbd: invalid sample interval %q: %w", s, ErrHeaderSyntax)
	}

	count, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return 0, fmt.Errorf("gbd: invalid sample interval %q: %w", s, ErrHeaderSyntax)
	}

	var unit time.Duration
	switch s[len(s)-1] {
	case 'U':
		unit = time.Microsecond
	case 'L':
		unit = time.Millisecond
	case 'S':
		unit = time.Second
	case 'T':
		unit = time.Minute
	case 'H':
		unit = time.Hour
	default:
		return 0, fmt.Errorf("gbd: invalid sample interval %q: %w", s, ErrHeaderSyntax)
	}

	return time.Duration(count) * unit, nil
}
