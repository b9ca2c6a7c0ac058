package dds

import "encoding/binary"

const (
	blockDim    = 4
	blockTexels = blockDim * blockDim
)

// texelBlock is one decoded 4x4 tile, RGBA8 row-major.
type texelBlock [blockTexels * 4]byte

// fill sets channel ch of every texel to v.
func (b *texelBlock) fill(ch int, v uint8) {
	for i := 0; i < blockTexels; i++ {
		b[i*4+ch] = v
	}
}

// copyChannel duplicates channel from into channel to.
func (b *texelBlock) copyChannel(from, to int) {
	for i := 0; i < blockTexels; i++ {
		b[i*4+to] = b[i*4+from]
	}
}

// expand565 widens a packed 5:6:5 color to 8 bits per channel.
func expand565(c uint16) (r, g, b uint8) {
	r = uint8(uint32(c>>11&0x1f) * 255 / 31)
	g = uint8(uint32(c>>5&0x3f) * 255 / 63)
	b = uint8(uint32(c&0x1f) * 255 / 31)
	return r, g, b
}

// colorPalette returns the four BC1 palette entries of one channel.
func colorPalette(c0, c1 uint8) [4]uint8 {
	a, b := uint32(c0), uint32(c1)
	return [4]uint8{
		c0,
		c1,
		uint8((2*a + b) / 3),
		uint8((a + 2*b) / 3),
	}
}

// decodeColorBlock decodes the 8-byte BC1 color part into the RGB channels
// of dst. Alpha is left to the caller.
func decodeColorBlock(dst *texelBlock, src []byte) {
	_ = src[7]
	r0, g0, b0 := expand565(binary.LittleEndian.Uint16(src[0:]))
	r1, g1, b1 := expand565(binary.LittleEndian.Uint16(src[2:]))
	pr := colorPalette(r0, r1)
	pg := colorPalette(g0, g1)
	pb := colorPalette(b0, b1)

	indices := binary.LittleEndian.Uint32(src[4:])
	for i := 0; i < blockTexels; i++ {
		idx := indices >> (2 * i) & 3
		dst[i*4+0] = pr[idx]
		dst[i*4+1] = pg[idx]
		dst[i*4+2] = pb[idx]
	}
}

// decodeExplicitAlpha decodes 16 4-bit alpha values, low nibble first.
func decodeExplicitAlpha(dst *texelBlock, src []byte) {
	_ = src[7]
	for i := 0; i < blockTexels; i++ {
		nibble := src[i/2] >> (4 * (i & 1)) & 0x0f
		dst[i*4+3] = nibble * 17
	}
}

// alphaPalette returns the eight-entry interpolated gradient.
func alphaPalette(a0, a1 uint8) [8]uint8 {
	a, b := uint32(a0), uint32(a1)
	return [8]uint8{
		a0,
		a1,
		uint8((6*a + b) / 7),
		uint8((5*a + 2*b) / 7),
		uint8((4*a + 3*b) / 7),
		uint8((3*a + 4*b) / 7),
		uint8((2*a + 5*b) / 7),
		uint8((a + 6*b) / 7),
	}
}

// alphaIndex locates the 3-bit palette index of one texel. Indices start at
// byte 2; spans marks fields that take their high bits from the next byte.
type alphaIndex struct {
	offset uint8
	shift  uint8
	spans  bool
}

var alphaIndexTable = [blockTexels]alphaIndex{
	{2, 0, false}, {2, 3, false}, {2, 6, true}, {3, 1, false},
	{3, 4, false}, {3, 7, true}, {4, 2, false}, {4, 5, false},
	{5, 0, false}, {5, 3, false}, {5, 6, true}, {6, 1, false},
	{6, 4, false}, {6, 7, true}, {7, 2, false}, {7, 5, false},
}

// decodeInterpolated decodes an 8-byte interpolated block into channel ch.
func decodeInterpolated(dst *texelBlock, src []byte, ch int) {
	_ = src[7]
	palette := alphaPalette(src[0], src[1])
	for i, e := range alphaIndexTable {
		v := uint16(src[e.offset]) >> e.shift
		if e.spans {
			v |= uint16(src[e.offset+1]) << (8 - e.shift)
		}
		dst[i*4+ch] = palette[v&7]
	}
}

// unmultiply converts premultiplied color back to straight alpha.
func unmultiply(dst *texelBlock) {
	for i := 0; i < blockTexels; i++ {
		px := dst[i*4 : i*4+4]
		a := uint32(px[3])
		if a == 0 {
			continue
		}
		for c := 0; c < 3; c++ {
			v := uint32(px[c]) * 255 / a
			if v > 255 {
				v = 255
			}
			px[c] = uint8(v)
		}
	}
}

func decodeDXT1(dst *texelBlock, src []byte) {
	decodeColorBlock(dst, src)
	dst.fill(3, 0xff)
}

func decodeDXT3(dst *texelBlock, src []byte) {
	decodeColorBlock(dst, src[8:16])
	decodeExplicitAlpha(dst, src[0:8])
}

func decodeDXT2(dst *texelBlock, src []byte) {
	decodeDXT3(dst, src)
	unmultiply(dst)
}

func decodeDXT5(dst *texelBlock, src []byte) {
	decodeColorBlock(dst, src[8:16])
	decodeInterpolated(dst, src[0:8], 3)
}

func decodeDXT4(dst *texelBlock, src []byte) {
	decodeDXT5(dst, src)
	unmultiply(dst)
}

func decodeBC4(dst *texelBlock, src []byte) {
	decodeInterpolated(dst, src[0:8], 0)
	dst.copyChannel(0, 1)
	dst.copyChannel(0, 2)
	dst.fill(3, 0xff)
}

func decodeBC5(dst *texelBlock, src []byte) {
	decodeInterpolated(dst, src[0:8], 0)
	decodeInterpolated(dst, src[8:16], 1)
	dst.fill(2, 0)
	dst.fill(3, 0xff)
}
