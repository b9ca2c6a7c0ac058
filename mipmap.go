package dds

import (
	"math/bits"

	"github.com/woozymasta/bcn"
)

// fullChainLength is the number of levels down to 1x1 for the given size.
func fullChainLength(width, height uint32) int {
	return bits.Len32(max(width, height, 1))
}

// levelCount returns the number of surfaces stored for the top image,
// trusting MipMapCount only when the mipmap caps bit is set and capping it
// at the full chain length.
func levelCount(header *bcn.DDSHeader) int {
	count := 1
	if (header.Caps&bcn.DDSCapsMipmap) != 0 && header.MipMapCount > 0 {
		count = min(int(min(header.MipMapCount, 64)), fullChainLength(header.Width, header.Height))
	}

	return count
}

// mipDimension calculates the dimension of a mipmap level.
func mipDimension(base, level int) int {
	result := base >> level
	if result < 1 {
		return 1
	}

	return result
}
