// Package hash contains some common hash functions suitable for use in hash
// maps and in ordered-sequence hash codes.
package hash

import "math"

const DJBInit uint32 = 5381

func DJBCombine(acc, h uint32) uint32 {
	return mul33(acc) + h
}

// FoldInit is the seed of the ordered fold used for sequence hash codes.
const FoldInit uint32 = 1

// FoldCombine folds one element hash into an ordered sequence hash. The
// arithmetic wraps at 32 bits.
func FoldCombine(acc, h uint32) uint32 {
	return 31*acc + h
}

// Fold folds the element hashes in order, starting from FoldInit.
func Fold(hs ...uint32) uint32 {
	acc := FoldInit
	for _, h := range hs {
		acc = FoldCombine(acc, h)
	}
	return acc
}

func UInt32(u uint32) uint32 {
	return u
}

// Int32 hashes a signed 32-bit integer to its own bit pattern.
func Int32(i int32) uint32 {
	return uint32(i)
}

// Int64 hashes a signed 64-bit integer by xor-ing its high and low words.
func Int64(i int64) uint32 {
	return UInt64(uint64(i))
}

// UInt64 hashes an unsigned 64-bit integer by xor-ing its high and low words.
func UInt64(u uint64) uint32 {
	return uint32(u ^ u>>32)
}

// Float64 hashes the canonical bit pattern of f. All NaNs hash the same.
func Float64(f float64) uint32 {
	return UInt64(CanonicalBits(f))
}

// CanonicalBits returns the IEEE-754 bits of f, with every NaN mapped to the
// same quiet NaN.
func CanonicalBits(f float64) uint64 {
	if f != f {
		return 0x7ff8000000000000
	}
	return math.Float64bits(f)
}

// Bool hashes a bool to one of two fixed primes.
func Bool(b bool) uint32 {
	if b {
		return 1231
	}
	return 1237
}

func String(s string) uint32 {
	h := DJBInit
	for i := 0; i < len(s); i++ {
		h = DJBCombine(h, uint32(s[i]))
	}
	return h
}

func mul33(u uint32) uint32 {
	return u<<5 + u
}
