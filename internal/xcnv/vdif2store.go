// Copyright 2024 The go-naoj Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcnv

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/go-naoj/mao/internal/mmap"
	"github.com/go-naoj/mao/internal/unitstore"
	"github.com/go-naoj/mao/vdif"
)

// StoreConfig tunes the VDIF-to-store conversion.
type StoreConfig struct {
	// SecondsPerChunk is the time length per chunk of the output
	// store, trading memory for I/O-call count.  Default: 60.
	SecondsPerChunk int

	// Overwrite allows replacing a pre-existing destination.
	Overwrite bool

	// Workers bounds the number of chunks converted concurrently.
	// Chunks are unit-aligned and committed atomically, so the output
	// is identical for any worker count.  Default: 1 (sequential).
	Workers int

	// Progress, if non-nil, is invoked once per committed chunk.
	Progress Progress
}

// VDIF2Store losslessly converts the VDIF file fname into a chunked
// unit store at oname.
//
// The stream is validated up front: its byte length must be an exact
// multiple of the unit size and its unit count an exact multiple of
// the chunk length.  Decoding then streams through the file in unit
// order, committing one chunk per store transaction; the output unit
// index equals the input unit index.
func VDIF2Store(oname, fname string, cfg StoreConfig) error {
	if cfg.SecondsPerChunk <= 0 {
		cfg.SecondsPerChunk = 60
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	err := ensureDst(oname, cfg.Overwrite)
	if err != nil {
		return err
	}

	fi, err := os.Stat(fname)
	if err != nil {
		return fmt.Errorf("xcnv: could not stat %q: %w", fname, err)
	}

	if fi.Size()%vdif.UnitSize != 0 {
		return fmt.Errorf("xcnv: %q may be truncated (size=%d): %w", fname, fi.Size(), vdif.ErrTruncated)
	}
	units := int(fi.Size() / vdif.UnitSize)

	chunkUnits := vdif.UnitsPerSecond * cfg.SecondsPerChunk
	if units%chunkUnits != 0 {
		return fmt.Errorf(
			"xcnv: %q holds %d units, not a multiple of %d units/chunk: %w",
			fname, units, chunkUnits, ErrChunkAlign,
		)
	}
	chunks := units / chunkUnits

	mm, err := mmap.Open(fname)
	if err != nil {
		return fmt.Errorf("xcnv: could not mmap %q: %w", fname, err)
	}
	defer mm.Close()

	st, err := unitstore.Create(oname, units, chunkUnits)
	if err != nil {
		return fmt.Errorf("xcnv: could not create store %q: %w", oname, err)
	}

	var (
		grp  errgroup.Group
		mu   sync.Mutex
		done int
	)
	grp.SetLimit(cfg.Workers)

	for i := 0; i < chunks; i++ {
		i := i
		grp.Go(func() error {
			var (
				off = int64(i) * int64(chunkUnits) * vdif.UnitSize
				dec = vdif.NewDecoder(io.NewSectionReader(mm, off, int64(chunkUnits)*vdif.UnitSize))
			)

			buf := make([]vdif.Unit, chunkUnits)
			for j := range buf {
				err := dec.Decode(&buf[j])
				if err != nil {
					return fmt.Errorf("xcnv: could not decode unit %d of %q: %w", i*chunkUnits+j, fname, err)
				}
			}

			err := st.WriteChunk(i, buf)
			if err != nil {
				return fmt.Errorf("xcnv: could not write chunk %d: %w", i, err)
			}

			if cfg.Progress != nil {
				mu.Lock()
				done++
				cfg.Progress(done, chunks)
				mu.Unlock()
			}
			return nil
		})
	}

	err = grp.Wait()
	if err != nil {
		_ = st.Close()
		return err
	}

	err = st.Close()
	if err != nil {
		return fmt.Errorf("xcnv: could not close store %q: %w", oname, err)
	}
	return nil
}
