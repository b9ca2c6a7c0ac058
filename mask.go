package dds

import "math/bits"

// applyMask extracts the field selected by mask from value and rescales it
// to 0..255. A zero mask yields 0.
//
// Masks must be contiguous. For a non-contiguous mask only the lowest run of
// set bits defines the field width and the result is unspecified.
func applyMask(value, mask uint32) uint8 {
	if mask == 0 {
		return 0
	}

	shift := bits.TrailingZeros32(mask)
	v := uint64((value & mask) >> shift)
	width := bits.TrailingZeros32(^(mask >> shift))
	maxValue := uint64(1)<<width - 1

	return uint8(v * 0xff / maxValue)
}
