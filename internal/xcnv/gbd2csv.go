// Copyright 2024 The go-naoj Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcnv

import (
	"fmt"
	"strings"
	"time"

	"go-hep.org/x/hep/csvutil"

	"github.com/go-naoj/mao/gbd"
)

// jstOffset is the offset of the logger clocks, which run on JST.
const jstOffset = 9 * time.Hour

const timeFormat = "2006-01-02T15:04:05.000"

// TableConfig tunes the GBD-to-CSV conversion.
type TableConfig struct {
	// Overwrite allows replacing a pre-existing destination.
	Overwrite bool

	// UTC shifts the logger's JST timestamps to UTC.
	UTC bool
}

// GBD2CSV decodes the GBD file fname into a calibrated CSV table at
// oname, one row per sample, one column per channel, column names
// suffixed by the physical unit where one is known.
func GBD2CSV(oname, fname string, cfg TableConfig) error {
	err := ensureDst(oname, cfg.Overwrite)
	if err != nil {
		return err
	}

	tbl, err := gbd.ReadTable(fname)
	if err != nil {
		return err
	}

	out, err := csvutil.Create(oname)
	if err != nil {
		return fmt.Errorf("xcnv: could not create %q: %w", oname, err)
	}
	defer out.Close()

	cols := make([]string, 0, len(tbl.Channels)+1)
	cols = append(cols, "time")
	for _, ch := range tbl.Channels {
		cols = append(cols, ch.Label())
	}
	err = out.WriteHeader(strings.Join(cols, ","))
	if err != nil {
		return fmt.Errorf("xcnv: could not write header of %q: %w", oname, err)
	}

	row := make([]interface{}, len(tbl.Channels)+1)
	for i := 0; i < tbl.Len(); i++ {
		stamp := tbl.Time(i)
		if cfg.UTC {
			stamp = stamp.Add(-jstOffset)
		}
		row[0] = stamp.Format(timeFormat)
		for j := range tbl.Channels {
			row[j+1] = tbl.Data[j][i]
		}
		err := out.WriteRow(row...)
		if err != nil {
			return fmt.Errorf("xcnv: could not write row %d of %q: %w", i, oname, err)
		}
	}

	err = out.Close()
	if err != nil {
		return fmt.Errorf("xcnv: could not close %q: %w", oname, err)
	}
	return nil
}
