// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dds

package dds

const (
	maxInt = int(^uint(0) >> 1)
)

// pixelBufferLen returns width*height*4 for an RGBA8 buffer.
func pixelBufferLen(width, height, maxPixels int) (int, error) {
	if width < 0 || height < 0 {
		return 0, ErrSizeOverflow
	}
	pixels := uint64(width) * uint64(height)
	if pixels > uint64(maxInt/4) {
		return 0, ErrSizeOverflow
	}
	if maxPixels > 0 && pixels > uint64(maxPixels) {
		return 0, ErrSizeOverflow
	}

	// #nosec G115 -- bounds checked above.
	return int(pixels) * 4, nil
}

// intFromU32 converts a header word to an int.
func intFromU32(n uint32) (int, error) {
	if uint64(n) > uint64(maxInt) {
		return 0, ErrSizeOverflow
	}

	return int(n), nil
}
