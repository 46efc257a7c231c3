// Copyright 2024 The go-naoj Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gbd

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// PageSize is the allocation granularity of a GBD header: the header
// byte size is always a multiple of PageSize and the true size is
// declared, in plain text, inside the first page.
const PageSize = 2048

var (
	secRe  = regexp.MustCompile(`^(\$+)(.+)$`)
	asgRe  = regexp.MustCompile(`^(\w+)=(.+)$`)
	sizeRe = regexp.MustCompile(`HeaderSiz\s+=\s+(\d+)`)
)

// Field is one comma-separated field of a header assignment.
type Field struct {
	Str   string
	Int   int64
	IsInt bool
}

// Value is the right-hand side of a header assignment: one or more
// comma-separated fields.
type Value []Field

// Strings returns the string form of every field of v.
func (v Value) Strings() []string {
	ss := make([]string, len(v))
	for i, f := range v {
		ss[i] = f.Str
	}
	return ss
}

// Section is one node of the parsed header tree.
type Section struct {
	Name     string
	Sections map[string]*Section
	Keys     map[string]Value
}

func newSection(name string) *Section {
	return &Section{
		Name:     name,
		Sections: make(map[string]*Section),
		Keys:     make(map[string]Value),
	}
}

// Header is the parsed text header of a GBD file.
type Header struct {
	// Size is the byte size of the header on disk, i.e. the offset of
	// the binary payload.
	Size int

	root *Section
}

// Lookup returns the value at the given path, the last element being
// the key and the leading ones section names.
func (h *Header) Lookup(path ...string) (Value, bool) {
	if len(path) == 0 {
		return nil, false
	}
	sec := h.root
	for _, name := range path[:len(path)-1] {
		sub, ok := sec.Sections[name]
		if !ok {
			return nil, false
		}
		sec = sub
	}
	v, ok := sec.Keys[path[len(path)-1]]
	return v, ok
}

// ReadHeader parses the header of the named GBD file.
//
// GBD headers are Shift-JIS encoded; NUL bytes and spaces are
// insignificant and stripped before parsing.
func ReadHeader(fname string) (*Header, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("gbd: could not open %q: %w", fname, err)
	}
	defer f.Close()

	return readHeader(f, fname)
}

func readHeader(f io.Reader, fname string) (*Header, error) {
	page := make([]byte, PageSize)
	_, err := io.ReadFull(f, page)
	if err != nil {
		return nil, fmt.Errorf("gbd: could not read header page of %q: %w", fname, err)
	}

	size, err := headerSize(page)
	if err != nil {
		return nil, fmt.Errorf("gbd: could not find header size in %q: %w", fname, err)
	}
	if size < PageSize {
		return nil, fmt.Errorf("gbd: invalid header size %d in %q: %w", size, fname, ErrHeaderSize)
	}

	raw := make([]byte, size)
	copy(raw, page)
	_, err = io.ReadFull(f, raw[PageSize:])
	if err != nil {
		return nil, fmt.Errorf("gbd: could not read %d-byte header of %q: %w", size, fname, err)
	}

	hdr, err := parseHeader(raw)
	if err != nil {
		return nil, fmt.Errorf("gbd: could not parse header of %q: %w", fname, err)
	}
	hdr.Size = size
	return hdr, nil
}

func headerSize(page []byte) (int, error) {
	text, err := decodeText(page)
	if err != nil {
		return 0, err
	}

	m := sizeRe.FindStringSubmatch(text)
	if m == nil {
		return 0, ErrHeaderSize
	}

	size, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid header size %q: %w", m[1], err)
	}
	return size, nil
}

func parseHeader(raw []byte) (*Header, error) {
	text, err := decodeText(raw)
	if err != nil {
		return nil, err
	}

	// NUL padding and spaces carry no meaning anywhere in the header.
	text = strings.Map(func(r rune) rune {
		if r == 0 || r == ' ' {
			return -1
		}
		return r
	}, text)

	var (
		hdr  = &Header{root: newSection("")}
		path [3]string
	)
	for _, row := range strings.Fields(text) {
		next, err := parseRow(row, path)
		if err != nil {
			return nil, err
		}
		path = next.path

		if next.key != "" {
			hdr.section(path).Keys[next.key] = next.val
		}
	}
	return hdr, nil
}

// section returns the section at path, creating nodes on first use and
// skipping empty path elements (a depth-2 marker with no enclosing
// depth-1 marker yields a top-level section, as in the field format).
func (h *Header) section(path [3]string) *Section {
	sec := h.root
	for _, name := range path {
		if name == "" {
			continue
		}
		sub, ok := sec.Sections[name]
		if !ok {
			sub = newSection(name)
			sec.Sections[name] = sub
		}
		sec = sub
	}
	return sec
}

// row is one parsed header row: either a section marker, which yields
// a new section path, or a key assignment into the current path.
type row struct {
	path [3]string
	key  string
	val  Value
}

func parseRow(text string, path [3]string) (row, error) {
	if m := secRe.FindStringSubmatch(text); m != nil {
		name := m[2]
		switch depth := len(m[1]); depth {
		case 1:
			path = [3]string{name, "", ""}
		case 2:
			path[1], path[2] = name, ""
		case 3:
			path[2] = name
		default:
			return row{}, fmt.Errorf("invalid section depth %d in row %q: %w", depth, text, ErrHeaderSyntax)
		}
		return row{path: path}, nil
	}

	if m := asgRe.FindStringSubmatch(text); m != nil {
		var val Value
		for _, field := range strings.Split(m[2], ",") {
			val = append(val, fieldOf(field))
		}
		return row{path: path, key: m[1], val: val}, nil
	}

	return row{}, fmt.Errorf("invalid row %q: %w", text, ErrHeaderSyntax)
}

func fieldOf(s string) Field {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Field{Str: s, Int: v, IsInt: true}
	}
	return Field{Str: strings.Trim(s, `"`)}
}

func decodeText(raw []byte) (string, error) {
	text, _, err := transform.String(japanese.ShiftJIS.NewDecoder(), string(raw))
	if err != nil {
		return "", fmt.Errorf("could not decode Shift-JIS header text: %w", err)
	}
	return text, nil
}
