package dds

import (
	"fmt"

	"github.com/woozymasta/bcn"
)

// Codec identifies the decode path selected from the header.
type Codec int

const (
	// CodecUnknown is an unrecognized FourCC.
	CodecUnknown Codec = iota
	// CodecMasked is the uncompressed bitmask path.
	CodecMasked
	// CodecDXT1 is BC1 color, opaque.
	CodecDXT1
	// CodecDXT2 is DXT3 with premultiplied color.
	CodecDXT2
	// CodecDXT3 is BC2: BC1 color plus explicit 4-bit alpha.
	CodecDXT3
	// CodecDXT4 is DXT5 with premultiplied color.
	CodecDXT4
	// CodecDXT5 is BC3: BC1 color plus interpolated alpha.
	CodecDXT5
	// CodecBC4 is a single interpolated channel (ATI1).
	CodecBC4
	// CodecBC5 is two interpolated channels (ATI2).
	CodecBC5
)

var codecNames = [...]string{
	CodecUnknown: "unknown",
	CodecMasked:  "masked",
	CodecDXT1:    "DXT1",
	CodecDXT2:    "DXT2",
	CodecDXT3:    "DXT3",
	CodecDXT4:    "DXT4",
	CodecDXT5:    "DXT5",
	CodecBC4:     "BC4",
	CodecBC5:     "BC5",
}

func (c Codec) String() string {
	if c >= 0 && int(c) < len(codecNames) {
		return codecNames[c]
	}
	return fmt.Sprintf("Codec(%d)", int(c))
}

// blockCodec decodes one compressed tile of size bytes.
type blockCodec struct {
	size   int
	decode func(dst *texelBlock, src []byte)
}

var blockCodecs = map[Codec]blockCodec{
	CodecDXT1: {size: 8, decode: decodeDXT1},
	CodecDXT2: {size: 16, decode: decodeDXT2},
	CodecDXT3: {size: 16, decode: decodeDXT3},
	CodecDXT4: {size: 16, decode: decodeDXT4},
	CodecDXT5: {size: 16, decode: decodeDXT5},
	CodecBC4:  {size: 8, decode: decodeBC4},
	CodecBC5:  {size: 16, decode: decodeBC5},
}

// detectCodec picks the decode path and returns the raw FourCC text for
// compressed formats.
func detectCodec(header *bcn.DDSHeader) (Codec, string) {
	pf := header.PixelFormat
	if (pf.Flags & bcn.DDSPFFourCC) == 0 {
		return CodecMasked, ""
	}

	fourCCStr := FourCCString(pf.FourCC)
	switch fourCCStr {
	case "DXT1":
		return CodecDXT1, fourCCStr
	case "DXT2":
		return CodecDXT2, fourCCStr
	case "DXT3":
		return CodecDXT3, fourCCStr
	case "DXT4":
		return CodecDXT4, fourCCStr
	case "DXT5":
		return CodecDXT5, fourCCStr
	case "ATI1", "BC4U":
		return CodecBC4, fourCCStr
	case "ATI2", "BC5U":
		return CodecBC5, fourCCStr
	default:
		return CodecUnknown, fourCCStr
	}
}

// maskedPixelFormat builds the descriptor for the uncompressed path.
func maskedPixelFormat(header *bcn.DDSHeader) PixelFormat {
	pf := header.PixelFormat
	out := PixelFormat{
		BitCount: pf.RGBBitCount,
		RMask:    pf.RBitMask,
		GMask:    pf.GBitMask,
		BMask:    pf.BBitMask,
	}
	if pf.Flags&bcn.DDSPFLuminance != 0 {
		out.GMask = out.RMask
		out.BMask = out.RMask
	}
	if pf.Flags&(bcn.DDSPFAlphaPixels|bcn.DDSPFAlpha) != 0 {
		out.AMask = pf.ABitMask
	}

	return out
}

// FourCCString decodes a little-endian FourCC word as ASCII.
func FourCCString(value uint32) string {
	return string([]byte{
		byte(value & 0xff),
		byte((value >> 8) & 0xff),
		byte((value >> 16) & 0xff),
		byte((value >> 24) & 0xff),
	})
}

// MakeFourCC packs four characters into a little-endian word.
func MakeFourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

// expectedDataLength returns the payload size of one level, or -1.
func expectedDataLength(codec Codec, pf PixelFormat, width, height int) int {
	blocksW := (width + 3) / 4
	blocksH := (height + 3) / 4
	if bc, ok := blockCodecs[codec]; ok {
		return blocksW * blocksH * bc.size
	}
	if codec == CodecMasked {
		stride, err := pf.rowBytes(width)
		if err != nil {
			return -1
		}
		return stride * height
	}

	return -1
}
