// Copyright 2024 The go-naoj Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcnv

import (
	"bufio"
	"fmt"
	"os"

	"github.com/go-naoj/mao/internal/unitstore"
	"github.com/go-naoj/mao/vdif"
)

// StreamConfig tunes the store-to-VDIF conversion.
type StreamConfig struct {
	// Overwrite allows replacing a pre-existing destination.
	Overwrite bool

	// Progress, if non-nil, is invoked once per streamed chunk.
	Progress Progress
}

// Store2VDIF losslessly converts the chunked unit store at sname back
// into a VDIF file at oname, the exact inverse of VDIF2Store: units
// are streamed in unit-index order, each written VDIF frame header
// first, correlator header second, samples third, with no padding.
func Store2VDIF(oname, sname string, cfg StreamConfig) error {
	err := ensureDst(oname, cfg.Overwrite)
	if err != nil {
		return err
	}

	st, err := unitstore.Open(sname)
	if err != nil {
		return fmt.Errorf("xcnv: could not open store %q: %w", sname, err)
	}
	defer st.Close()

	f, err := os.Create(oname)
	if err != nil {
		return fmt.Errorf("xcnv: could not create %q: %w", oname, err)
	}
	defer f.Close()

	var (
		w   = bufio.NewWriter(f)
		enc = vdif.NewEncoder(w)
		buf = make([]vdif.Unit, st.ChunkUnits())
	)
	for i := 0; i < st.Chunks(); i++ {
		err := st.ReadChunk(i, buf)
		if err != nil {
			return fmt.Errorf("xcnv: could not read chunk %d of %q: %w", i, sname, err)
		}

		for j := range buf {
			err := enc.Encode(&buf[j])
			if err != nil {
				return fmt.Errorf("xcnv: could not encode unit %d: %w", i*st.ChunkUnits()+j, err)
			}
		}

		if cfg.Progress != nil {
			cfg.Progress(i+1, st.Chunks())
		}
	}

	err = w.Flush()
	if err != nil {
		return fmt.Errorf("xcnv: could not flush %q: %w", oname, err)
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("xcnv: could not close %q: %w", oname, err)
	}
	return nil
}
