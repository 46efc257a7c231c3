// Copyright 2024 The go-naoj Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package unitstore implements the chunked, randomly-accessible store
// holding decoded correlator units.
//
// A store keeps three co-indexed arrays (vdif_head, corr_head,
// corr_data) chunked along the shared unit axis.  One chunk commit is
// one synced batch: a crash leaves only fully-committed chunks behind.
package unitstore // import "github.com/go-naoj/mao/internal/unitstore"

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/go-naoj/mao/vdif"
)

const (
	metaKey = "meta"

	keyHead = "vdif_head"
	keyCorr = "corr_head"
	keyData = "corr_data"
)

type meta struct {
	Units      int `json:"units"`
	ChunkUnits int `json:"chunk_units"`
}

// Store is an on-disk container of decoded correlator units.
type Store struct {
	db  *pebble.DB
	cfg meta
}

// Create creates an empty store at path, shaped for the given total
// unit count and chunk size along the unit axis.
func Create(path string, units, chunkUnits int) (*Store, error) {
	if chunkUnits <= 0 || units%chunkUnits != 0 {
		return nil, fmt.Errorf("unitstore: chunk size %d does not divide %d units", chunkUnits, units)
	}

	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("unitstore: could not create store %q: %w", path, err)
	}

	st := &Store{db: db, cfg: meta{Units: units, ChunkUnits: chunkUnits}}

	raw, err := json.Marshal(st.cfg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unitstore: could not marshal store shape: %w", err)
	}
	err = db.Set([]byte(metaKey), raw, pebble.Sync)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unitstore: could not write store shape: %w", err)
	}

	return st, nil
}

// Open opens an existing store read-only.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("unitstore: could not open store %q: %w", path, err)
	}

	raw, closer, err := db.Get([]byte(metaKey))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unitstore: could not read store shape: %w", err)
	}
	defer closer.Close()

	st := &Store{db: db}
	err = json.Unmarshal(raw, &st.cfg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unitstore: could not unmarshal store shape: %w", err)
	}

	return st, nil
}

// Units returns the total unit count of the store.
func (st *Store) Units() int { return st.cfg.Units }

// ChunkUnits returns the number of units per chunk.
func (st *Store) ChunkUnits() int { return st.cfg.ChunkUnits }

// Chunks returns the number of chunks along the unit axis.
func (st *Store) Chunks() int { return st.cfg.Units / st.cfg.ChunkUnits }

// Close closes the store.
func (st *Store) Close() error {
	return st.db.Close()
}

// WriteChunk commits the units of chunk i to the store as one
// synced transaction.
func (st *Store) WriteChunk(i int, units []vdif.Unit) error {
	if i < 0 || i >= st.Chunks() {
		return fmt.Errorf("unitstore: chunk index %d out of range [0, %d)", i, st.Chunks())
	}
	if len(units) != st.cfg.ChunkUnits {
		return fmt.Errorf("unitstore: invalid chunk length (got=%d, want=%d)", len(units), st.cfg.ChunkUnits)
	}

	var (
		n    = st.cfg.ChunkUnits
		head = make([]byte, n*vdif.HeadSize)
		corr = make([]byte, n*vdif.CorrSize)
		data = make([]byte, n*vdif.DataSize)
	)
	for j := range units {
		u := &units[j]
		packU32s(head[j*vdif.HeadSize:], u.Head[:])
		packU32s(corr[j*vdif.CorrSize:], u.Corr[:])
		packI16s(data[j*vdif.DataSize:], u.Data[:])
	}

	batch := st.db.NewBatch()
	defer batch.Close()

	for _, kv := range []struct {
		name string
		raw  []byte
	}{
		{keyHead, head},
		{keyCorr, corr},
		{keyData, data},
	} {
		err := batch.Set(chunkKey(kv.name, i), kv.raw, nil)
		if err != nil {
			return fmt.Errorf("unitstore: could not stage %s chunk %d: %w", kv.name, i, err)
		}
	}

	err := batch.Commit(pebble.Sync)
	if err != nil {
		return fmt.Errorf("unitstore: could not commit chunk %d: %w", i, err)
	}
	return nil
}

// ReadChunk reads the units of chunk i from the store into units,
// which must hold exactly one chunk.
func (st *Store) ReadChunk(i int, units []vdif.Unit) error {
	if i < 0 || i >= st.Chunks() {
		return fmt.Errorf("unitstore: chunk index %d out of range [0, %d)", i, st.Chunks())
	}
	if len(units) != st.cfg.ChunkUnits {
		return fmt.Errorf("unitstore: invalid chunk length (got=%d, want=%d)", len(units), st.cfg.ChunkUnits)
	}

	for _, kv := range []struct {
		name string
		size int
		get  func(j int, raw []byte)
	}{
		{keyHead, vdif.HeadSize, func(j int, raw []byte) { unpackU32s(units[j].Head[:], raw) }},
		{keyCorr, vdif.CorrSize, func(j int, raw []byte) { unpackU32s(units[j].Corr[:], raw) }},
		{keyData, vdif.DataSize, func(j int, raw []byte) { unpackI16s(units[j].Data[:], raw) }},
	} {
		raw, closer, err := st.db.Get(chunkKey(kv.name, i))
		if err != nil {
			return fmt.Errorf("unitstore: could not read %s chunk %d: %w", kv.name, i, err)
		}
		if len(raw) != st.cfg.ChunkUnits*kv.size {
			closer.Close()
			return fmt.Errorf(
				"unitstore: invalid %s chunk %d size (got=%d, want=%d)",
				kv.name, i, len(raw), st.cfg.ChunkUnits*kv.size,
			)
		}
		for j := range units {
			kv.get(j, raw[j*kv.size:])
		}
		closer.Close()
	}

	return nil
}

func chunkKey(name string, i int) []byte {
	return []byte(fmt.Sprintf("%s/%08d", name, i))
}

func packU32s(p []byte, vs []uint32) {
	for i, v := range vs {
		binary.LittleEndian.PutUint32(p[4*i:], v)
	}
}

func packI16s(p []byte, vs []int16) {
	for i, v := range vs {
		binary.LittleEndian.PutUint16(p[2*i:], uint16(v))
	}
}

func unpackU32s(vs []uint32, p []byte) {
	for i := range vs {
		vs[i] = binary.LittleEndian.Uint32(p[4*i:])
	}
}

func unpackI16s(vs []int16, p []byte) {
	for i := range vs {
		vs[i] = int16(binary.LittleEndian.Uint16(p[2*i:]))
	}
}
