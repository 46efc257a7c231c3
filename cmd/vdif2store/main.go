// Copyright 2024 The go-naoj Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command vdif2store converts a raw VDIF correlator file to a chunked
// unit store, losslessly and chunk-parallel.
package main // import "github.com/go-naoj/mao/cmd/vdif2store"

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/go-naoj/mao/internal/xcnv"
)

var (
	msg = log.New(os.Stdout, "vdif2store: ", 0)
)

func main() {
	var (
		oname = flag.String("o", "out.store", "path to output unit store")
		chunk = flag.Int("chunk", 60, "seconds of data per output chunk")
		jobs  = flag.Int("j", runtime.NumCPU(), "number of chunks to convert concurrently")
		force = flag.Bool("f", false, "overwrite existing output store")
		quiet = flag.Bool("q", false, "disable progress reporting")
	)

	flag.Usage = func() {
		fmt.Printf(`Usage: vdif2store [OPTIONS] file.vdif

ex:
 $> vdif2store -o 2021076082000.store -chunk=60 ./2021076082000.vdif

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		msg.Fatalf("missing input VDIF file")
	}

	if *oname == "" {
		flag.Usage()
		msg.Fatalf("invalid output store name")
	}

	err := process(*oname, flag.Arg(0), *chunk, *jobs, *force, *quiet)
	if err != nil {
		msg.Fatalf("could not convert VDIF file: %+v", err)
	}
}

func process(oname, fname string, chunk, jobs int, force, quiet bool) error {
	cfg := xcnv.StoreConfig{
		SecondsPerChunk: chunk,
		Workers:         jobs,
		Overwrite:       force,
	}
	if !quiet {
		cfg.Progress = func(done, total int) {
			msg.Printf("chunk %d/%d", done, total)
		}
	}
	return xcnv.VDIF2Store(oname, fname, cfg)
}
