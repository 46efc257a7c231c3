// Copyright 2024 The go-naoj Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gbd2csv decodes a GBD data-logger file into a calibrated
// CSV table, one row per sample, one column per channel.
package main // import "github.com/go-naoj/mao/cmd/gbd2csv"

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-naoj/mao/internal/xcnv"
)

var (
	msg = log.New(os.Stdout, "gbd2csv: ", 0)
)

func main() {
	var (
		oname = flag.String("o", "out.csv", "path to output CSV file")
		force = flag.Bool("f", false, "overwrite existing output file")
		utc   = flag.Bool("utc", false, "shift the logger's JST timestamps to UTC")
	)

	flag.Usage = func() {
		fmt.Printf(`Usage: gbd2csv [OPTIONS] file.gbd

ex:
 $> gbd2csv -utc -o 20210317.csv ./20210317.gbd

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		msg.Fatalf("missing input GBD file")
	}

	if *oname == "" {
		flag.Usage()
		msg.Fatalf("invalid output CSV file name")
	}

	err := process(*oname, flag.Arg(0), *force, *utc)
	if err != nil {
		msg.Fatalf("could not convert GBD file: %+v", err)
	}
}

func process(oname, fname string, force, utc bool) error {
	return xcnv.GBD2CSV(oname, fname, xcnv.TableConfig{
		Overwrite: force,
		UTC:       utc,
	})
}
