package dds

import (
	"encoding/binary"
	"fmt"
)

// PixelFormat describes an uncompressed masked pixel layout.
type PixelFormat struct {
	// BitCount is the pixel size in bits, 1..32.
	BitCount uint32
	RMask    uint32
	GMask    uint32
	BMask    uint32
	// AMask is zero when the format carries no alpha; alpha then reads 255.
	AMask uint32
}

// Validate checks the bit count and that every mask fits inside it.
func (pf PixelFormat) Validate() error {
	if pf.BitCount == 0 || pf.BitCount > 32 {
		return fmt.Errorf("%w: %d", ErrInvalidBitCount, pf.BitCount)
	}
	if pf.BitCount == 32 {
		return nil
	}

	limit := uint32(1) << pf.BitCount
	for _, m := range [...]uint32{pf.RMask, pf.GMask, pf.BMask, pf.AMask} {
		if m >= limit {
			return fmt.Errorf("%w: mask 0x%08x for %d bits", ErrMaskOutOfRange, m, pf.BitCount)
		}
	}

	return nil
}

// rowBytes is the unpadded size of one row.
func (pf PixelFormat) rowBytes(width int) (int, error) {
	n := (uint64(width)*uint64(pf.BitCount) + 7) / 8
	if n > uint64(maxInt) {
		return 0, ErrSizeOverflow
	}

	return int(n), nil
}

// bitWindow yields consecutive little-endian bit fields from a byte row,
// refilling a 64-bit accumulator one 32-bit word at a time.
type bitWindow struct {
	src   []byte
	acc   uint64
	avail uint
}

func (w *bitWindow) reset(src []byte) {
	w.src = src
	w.acc = 0
	w.avail = 0
}

// word pulls the next 32-bit word, zero-filling past the end of the row.
func (w *bitWindow) word() uint32 {
	if len(w.src) >= 4 {
		v := binary.LittleEndian.Uint32(w.src)
		w.src = w.src[4:]
		return v
	}

	var v uint32
	for i, b := range w.src {
		v |= uint32(b) << (8 * i)
	}
	w.src = nil

	return v
}

// next returns the following n-bit field, 1 <= n <= 32. Fields that straddle
// two words carry the low bits of the older word.
func (w *bitWindow) next(n uint) uint32 {
	for w.avail < n {
		w.acc |= uint64(w.word()) << w.avail
		w.avail += 32
	}

	v := uint32(w.acc & (uint64(1)<<n - 1))
	w.acc >>= n
	w.avail -= n

	return v
}

// unpackMasked decodes height rows of masked pixels into dst. padding bytes
// are skipped between rows, never before the first one.
func unpackMasked(r *Reader, dst []byte, width, height int, pf PixelFormat, padding int) error {
	if err := pf.Validate(); err != nil {
		return err
	}
	stride, err := pf.rowBytes(width)
	if err != nil {
		return err
	}

	bitCount := uint(pf.BitCount)
	var win bitWindow
	for y := 0; y < height; y++ {
		if y > 0 && padding > 0 {
			if err := r.Skip(padding); err != nil {
				return fmt.Errorf("row %d padding: %w", y, err)
			}
		}

		row, err := r.Read(stride)
		if err != nil {
			return fmt.Errorf("row %d: %w", y, err)
		}
		win.reset(row)

		out := dst[y*width*4 : (y+1)*width*4]
		for x := 0; x < width; x++ {
			value := win.next(bitCount)
			px := out[x*4 : x*4+4 : x*4+4]
			px[0] = applyMask(value, pf.RMask)
			px[1] = applyMask(value, pf.GMask)
			px[2] = applyMask(value, pf.BMask)
			if pf.AMask == 0 {
				px[3] = 0xff
			} else {
				px[3] = applyMask(value, pf.AMask)
			}
		}
	}

	return nil
}
