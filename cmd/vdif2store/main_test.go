// Copyright 2024 The go-naoj Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-naoj/mao/internal/unitstore"
	"github.com/go-naoj/mao/vdif"
)

func TestProcess(t *testing.T) {
	tmp, err := os.MkdirTemp("", "mao-vdif2store-")
	if err != nil {
		t.Fatalf("could not create tmp dir: %+v", err)
	}
	defer os.RemoveAll(tmp)

	fname := filepath.Join(tmp, "data.vdif")
	f, err := os.Create(fname)
	if err != nil {
		t.Fatalf("could not create VDIF file: %+v", err)
	}
	defer f.Close()

	var (
		rnd = rand.New(rand.NewSource(1234))
		w   = bufio.NewWriter(f)
		enc = vdif.NewEncoder(w)
	)
	for i := 0; i < vdif.UnitsPerSecond; i++ {
		var u vdif.Unit
		for j := range u.Head {
			u.Head[j] = rnd.Uint32()
		}
		err := enc.Encode(&u)
		if err != nil {
			t.Fatalf("could not encode unit %d: %+v", i, err)
		}
	}
	err = w.Flush()
	if err != nil {
		t.Fatalf("could not flush VDIF file: %+v", err)
	}
	err = f.Close()
	if err != nil {
		t.Fatalf("could not close VDIF file: %+v", err)
	}

	oname := filepath.Join(tmp, "data.store")
	err = process(oname, fname, 1, 2, false, true)
	if err != nil {
		t.Fatalf("could not convert VDIF file: %+v", err)
	}

	st, err := unitstore.Open(oname)
	if err != nil {
		t.Fatalf("could not open store: %+v", err)
	}
	defer st.Close()

	if got, want := st.Units(), vdif.UnitsPerSecond; got != want {
		t.Fatalf("invalid unit count: got=%d, want=%d", got, want)
	}
	if got, want := st.Chunks(), 1; got != want {
		t.Fatalf("invalid chunk count: got=%d, want=%d", got, want)
	}

	err = process(oname, fname, 1, 2, false, true)
	if err == nil {
		t.Fatalf("expected an error for existing output")
	}
}
