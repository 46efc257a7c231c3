// Copyright 2024 The go-naoj Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command store2vdif converts a chunked unit store back to the raw
// VDIF correlator file it was built from, byte for byte.
package main // import "github.com/go-naoj/mao/cmd/store2vdif"

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-naoj/mao/internal/xcnv"
)

var (
	msg = log.New(os.Stdout, "store2vdif: ", 0)
)

func main() {
	var (
		oname = flag.String("o", "out.vdif", "path to output VDIF file")
		force = flag.Bool("f", false, "overwrite existing output file")
		quiet = flag.Bool("q", false, "disable progress reporting")
	)

	flag.Usage = func() {
		fmt.Printf(`Usage: store2vdif [OPTIONS] file.store

ex:
 $> store2vdif -o 2021076082000.vdif ./2021076082000.store

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		msg.Fatalf("missing input unit store")
	}

	if *oname == "" {
		flag.Usage()
		msg.Fatalf("invalid output VDIF file name")
	}

	err := process(*oname, flag.Arg(0), *force, *quiet)
	if err != nil {
		msg.Fatalf("could not convert unit store: %+v", err)
	}
}

func process(oname, sname string, force, quiet bool) error {
	cfg := xcnv.StreamConfig{Overwrite: force}
	if !quiet {
		cfg.Progress = func(done, total int) {
			msg.Printf("chunk %d/%d", done, total)
		}
	}
	return xcnv.Store2VDIF(oname, sname, cfg)
}
