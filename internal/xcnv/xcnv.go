// Copyright 2024 The go-naoj Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xcnv provides tools to convert raw instrument telemetry
// to/from long-term storage formats: VDIF streams to/from the chunked
// unit store, and GBD logger files to CSV tables.
package xcnv // import "github.com/go-naoj/mao/internal/xcnv"

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

var (
	// ErrExists is returned when a conversion destination pre-exists
	// and overwriting was not requested.  The check runs before any
	// I/O: no partial output is ever left behind for this failure.
	ErrExists = errors.New("xcnv: destination already exists")

	// ErrChunkAlign is returned when the configured chunk length does
	// not evenly divide the total unit count of a VDIF stream.
	ErrChunkAlign = errors.New("xcnv: chunk length does not divide total units")
)

// Progress is invoked once per processed chunk, as a side channel for
// the caller: it never alters conversion order or output bytes.
type Progress func(done, total int)

// ensureDst enforces the destination policy before any conversion
// I/O: a pre-existing path is fatal unless overwriting was requested,
// in which case it is removed outright.
func ensureDst(path string, overwrite bool) error {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		if !overwrite {
			return fmt.Errorf("xcnv: %q: %w", path, ErrExists)
		}
		err = os.RemoveAll(path)
		if err != nil {
			return fmt.Errorf("xcnv: could not remove %q: %w", path, err)
		}
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("xcnv: could not stat %q: %w", path, err)
	}
}
