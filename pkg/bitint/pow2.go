// Package bitint holds the power-of-two helpers used to size FFT workspaces.
// Both functions are branch-light, allocation free and safe to call from a
// real-time audio callback.
package bitint

import "math/bits"

// NextPowerOfTwo returns the smallest power of two >= size. Sizes <= 0 map
// to 1. Subtracting one first keeps exact powers of two unchanged:
//
//	Input  Output
//	8      8
//	9      16
//	0      1
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}
	return 1 << bits.Len(uint(size-1))
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
