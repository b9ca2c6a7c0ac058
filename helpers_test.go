package dds

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"testing"

	"github.com/woozymasta/bcn"
)

// header word indices, magic excluded
const (
	headerWords = bcn.DDSHeaderSize / 4

	hwSize      = 0
	hwFlags     = 1
	hwHeight    = 2
	hwWidth     = 3
	hwPitch     = 4
	hwMipCount  = 6
	hwReserved1 = 7
	hwPFSize    = 18
	hwPFFlags   = 19
	hwFourCC    = 20
	hwBitCount  = 21
	hwRMask     = 22
	hwGMask     = 23
	hwBMask     = 24
	hwAMask     = 25
	hwCaps      = 26
	hwCaps2     = 27
	hwCaps3     = 28
	hwCaps4     = 29
	hwReserved2 = 30
)

// baseHeader returns header words with valid size fields and dimensions.
func baseHeader(width, height uint32) [headerWords]uint32 {
	var h [headerWords]uint32
	h[hwSize] = 124
	h[hwFlags] = 0x1 | 0x2 | 0x4 | 0x1000
	h[hwHeight] = height
	h[hwWidth] = width
	h[hwPFSize] = 32
	h[hwCaps] = 0x1000

	return h
}

// fourCCHeader returns header words for a compressed surface.
func fourCCHeader(fourCC string, width, height uint32) [headerWords]uint32 {
	h := baseHeader(width, height)
	h[hwPFFlags] = 0x4
	h[hwFourCC] = MakeFourCC(fourCC[0], fourCC[1], fourCC[2], fourCC[3])

	return h
}

// maskedHeader returns header words for an uncompressed masked surface.
func maskedHeader(width, height, bitCount uint32, r, g, b, a uint32) [headerWords]uint32 {
	h := baseHeader(width, height)
	h[hwPFFlags] = 0x40
	if a != 0 {
		h[hwPFFlags] |= 0x1
	}
	h[hwBitCount] = bitCount
	h[hwRMask] = r
	h[hwGMask] = g
	h[hwBMask] = b
	h[hwAMask] = a

	return h
}

// buildDDS serializes magic, header words and payload.
func buildDDS(tb testing.TB, header [headerWords]uint32, payload ...[]byte) []byte {
	tb.Helper()

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, uint32(bcn.DDSMagic)); err != nil {
		tb.Fatalf("write magic: %v", err)
	}
	if err := binary.Write(&buf, binary.LittleEndian, header); err != nil {
		tb.Fatalf("write header: %v", err)
	}
	for _, p := range payload {
		buf.Write(p)
	}

	return buf.Bytes()
}

// chunkedFetch serves data in the given chunk sizes, then the remainder,
// then EOF.
func chunkedFetch(data []byte, sizes ...int) FetchFunc {
	return func(int) ([]byte, error) {
		if len(data) == 0 {
			return nil, nil
		}
		n := len(data)
		if len(sizes) > 0 {
			n = min(sizes[0], n)
			sizes = sizes[1:]
		}
		out := data[:n:n]
		data = data[n:]
		return out, nil
	}
}

// testPatternImage builds a deterministic opaque image.
func testPatternImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8((x*7 + y*3) & 0xff),  //nolint:gosec // bounded by mask
				G: uint8((x*13 + y*5) & 0xff), //nolint:gosec // bounded by mask
				B: uint8((x ^ y) & 0xff),      //nolint:gosec // bounded by mask
				A: 255,
			})
		}
	}

	return img
}

// solidImage builds an image filled with c.
func solidImage(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}

	return img
}

// bcnHeader builds a single-level bcn.DDSHeader for an encoded payload.
func bcnHeader(tb testing.TB, width, height int, format bcn.Format) *bcn.DDSHeader {
	tb.Helper()

	hdr := &bcn.DDSHeader{
		Size:   bcn.DDSHeaderSize,
		Flags:  uint32(bcn.DDSFlagCaps | bcn.DDSFlagHeight | bcn.DDSFlagWidth | bcn.DDSFlagPixelFormat),
		Height: uint32(height), //nolint:gosec // test sizes are small
		Width:  uint32(width),  //nolint:gosec // test sizes are small
		Depth:  1,
		Caps:   uint32(bcn.DDSCapsTexture),
	}
	hdr.PixelFormat.Size = bcn.DDSPixelFormatSize

	switch format {
	case bcn.FormatDXT1:
		hdr.PixelFormat.Flags = bcn.DDSPFFourCC
		hdr.PixelFormat.FourCC = MakeFourCC('D', 'X', 'T', '1')
	case bcn.FormatDXT5:
		hdr.PixelFormat.Flags = bcn.DDSPFFourCC
		hdr.PixelFormat.FourCC = MakeFourCC('D', 'X', 'T', '5')
	case bcn.FormatBGRA8:
		hdr.Flags |= bcn.DDSFlagPitch
		hdr.PixelFormat.Flags = bcn.DDSPFRGB | bcn.DDSPFAlphaPixels
		hdr.PixelFormat.RGBBitCount = 32
		hdr.PixelFormat.RBitMask = 0x00ff0000
		hdr.PixelFormat.GBitMask = 0x0000ff00
		hdr.PixelFormat.BBitMask = 0x000000ff
		hdr.PixelFormat.ABitMask = 0xff000000
		hdr.PitchOrLinearSize = uint32(width) * 4 //nolint:gosec // test sizes are small
	default:
		tb.Fatalf("bcnHeader: unsupported format %v", format)
	}

	return hdr
}

// encodeBCN encodes img with bcn and wraps it in a DDS container.
func encodeBCN(tb testing.TB, img *image.NRGBA, format bcn.Format) []byte {
	tb.Helper()

	data, _, _, err := bcn.EncodeImageWithOptions(img, format, nil)
	if err != nil {
		tb.Fatalf("bcn encode: %v", err)
	}

	var buf bytes.Buffer
	if err := bcn.WriteDDSMagic(&buf); err != nil {
		tb.Fatalf("write DDS magic: %v", err)
	}
	if err := bcn.WriteDDSHeader(&buf, bcnHeader(tb, img.Bounds().Dx(), img.Bounds().Dy(), format)); err != nil {
		tb.Fatalf("write DDS header: %v", err)
	}
	buf.Write(data)

	return buf.Bytes()
}
