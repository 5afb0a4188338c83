// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package math

// deBruijnMultiplier is a De Bruijn sequence whose 5-bit windows, once a
// value has been smeared into a bit mask of the form 2^n - 1, enumerate
// every possible most significant bit position.
const deBruijnMultiplier = 0x07C4ACDD

// deBruijnTable maps the top 5 bits of (mask * deBruijnMultiplier) to the
// index of the mask's most significant set bit.
var deBruijnTable = [32]uint8{
	0, 9, 1, 10, 13, 21, 2, 29,
	11, 14, 16, 18, 22, 25, 3, 30,
	8, 12, 20, 28, 15, 17, 24, 7,
	19, 27, 23, 6, 26, 5, 4, 31,
}

// Msb32 returns the index (0-31) of the most significant set bit of [v]
// using a constant-time De Bruijn multiply and table lookup instead of a
// loop. Msb32(0) is 0: callers must guard the zero case themselves.
func Msb32(v uint32) uint8 {
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	return deBruijnTable[(v*deBruijnMultiplier)>>27]
}
