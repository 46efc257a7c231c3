// Copyright 2024 The go-naoj Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bits extracts unsigned integer fields from 32-bit words.
package bits // import "github.com/go-naoj/mao/internal/bits"

import "fmt"

// U32 returns the n-bit unsigned value starting at bit start of word,
// bit 0 being the least-significant bit.
//
// U32 panics if the bit range is malformed: all call sites use
// compile-time constant ranges, so a bad range is a programmer error.
func U32(word uint32, start, n uint) uint32 {
	if n == 0 || start+n > 32 {
		panic(fmt.Errorf("bits: invalid bit range [%d, %d)", start, start+n))
	}
	if n == 32 {
		return word >> start
	}
	return (word >> start) & (1<<n - 1)
}
