package dds

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"

	"github.com/woozymasta/bcn"
)

// Options configures decoding. A nil *Options selects the defaults.
type Options struct {
	// CompressedOnly rejects uncompressed masked formats with ErrUnsupportedFormat.
	CompressedOnly bool
	// MinFetchSize is the smallest request passed to the FetchFunc.
	// Zero selects DefaultMinFetchSize.
	MinFetchSize int
	// MaxPixels fails images with more pixels than this with ErrSizeOverflow
	// before the output buffer is allocated. Zero means unlimited.
	MaxPixels int
}

// Decoder decodes one DDS stream. It is not safe for concurrent use;
// independent streams need independent decoders.
type Decoder struct {
	r    *Reader
	opts Options

	header    *bcn.DDSHeader
	headerErr error
	codec     Codec
	fourCC    string
	levels    int
	level     int
	// failed is the error of a level that stopped mid-stream; the read
	// position is undefined after it.
	failed error
}

// NewDecoder returns a decoder pulling its input from fetch.
func NewDecoder(fetch FetchFunc, opts *Options) *Decoder {
	d := &Decoder{}
	if opts != nil {
		d.opts = *opts
	}
	d.r = NewReader(fetch, d.opts.MinFetchSize)

	return d
}

// Header reads and validates the file header on first use.
func (d *Decoder) Header() (*bcn.DDSHeader, error) {
	if d.header == nil && d.headerErr == nil {
		d.header, d.headerErr = readHeader(d.r)
		if d.headerErr == nil {
			d.codec, d.fourCC = detectCodec(d.header)
			d.levels = levelCount(d.header)
		}
	}

	return d.header, d.headerErr
}

// Codec returns the decode path chosen for the stream.
func (d *Decoder) Codec() (Codec, error) {
	if _, err := d.Header(); err != nil {
		return CodecUnknown, err
	}

	return d.codec, nil
}

// Levels returns the number of surfaces in the mipmap chain, 1 without mipmaps.
func (d *Decoder) Levels() (int, error) {
	if _, err := d.Header(); err != nil {
		return 0, err
	}

	return d.levels, nil
}

// SurfaceSize returns the payload bytes stored for a mipmap level, row
// padding excluded.
func (d *Decoder) SurfaceSize(level int) (int, error) {
	header, err := d.Header()
	if err != nil {
		return 0, err
	}
	if level < 0 || level >= d.levels {
		return 0, fmt.Errorf("%w: no mipmap level %d", ErrInvalidFormat, level)
	}

	n := expectedDataLength(d.codec, maskedPixelFormat(header),
		mipDimension(int(header.Width), level), mipDimension(int(header.Height), level))
	if n < 0 {
		return 0, &UnsupportedFormatError{FourCC: d.fourCC}
	}

	return n, nil
}

// Decode decodes the next surface of the stream: the full-size image on the
// first call, then successive mipmap levels.
func (d *Decoder) Decode() (*image.NRGBA, error) {
	header, err := d.Header()
	if err != nil {
		return nil, err
	}
	if d.failed != nil {
		return nil, d.failed
	}
	if d.level >= d.levels {
		return nil, fmt.Errorf("%w: no mipmap level %d", ErrInsufficientData, d.level)
	}

	switch d.codec {
	case CodecUnknown:
		return nil, &UnsupportedFormatError{FourCC: d.fourCC}
	case CodecMasked:
		if d.opts.CompressedOnly {
			return nil, ErrUncompressedDisabled
		}
	}

	level := d.level
	width := mipDimension(int(header.Width), level)
	height := mipDimension(int(header.Height), level)
	size, err := pixelBufferLen(width, height, d.opts.MaxPixels)
	if err != nil {
		return nil, fmt.Errorf("%w: %dx%d", err, width, height)
	}
	pix := make([]byte, size)

	if d.codec == CodecMasked {
		pf := maskedPixelFormat(header)
		padding := 0
		if level == 0 {
			padding, err = rowPadding(header, pf, width)
			if err != nil {
				return nil, err
			}
		}
		err = unpackMasked(d.r, pix, width, height, pf, padding)
	} else {
		err = decodeBlocks(d.r, pix, width, height, blockCodecs[d.codec])
	}
	if err != nil {
		d.failed = fmt.Errorf("%s level %d: %w", d.codec, level, err)
		return nil, d.failed
	}
	d.level++

	return &image.NRGBA{
		Pix:    pix,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

// DecodeMipmaps decodes every remaining surface, largest first. Nothing is
// returned unless all of them decode.
func (d *Decoder) DecodeMipmaps() ([]*image.NRGBA, error) {
	if _, err := d.Header(); err != nil {
		return nil, err
	}

	out := make([]*image.NRGBA, 0, d.levels-d.level)
	for d.level < d.levels {
		img, err := d.Decode()
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}

	return out, nil
}

// pixelFormatOffset is the DDS_PIXELFORMAT position in the raw header,
// magic included.
const pixelFormatOffset = 4 + 72

// readHeader reads the magic and the 124-byte header and checks the fixed
// size fields.
func readHeader(r *Reader) (*bcn.DDSHeader, error) {
	var raw [4 + bcn.DDSHeaderSize]byte

	magic, err := r.Read(4)
	if err != nil {
		return nil, fmt.Errorf("magic: %w", err)
	}
	copy(raw[:4], magic)
	if v := binary.LittleEndian.Uint32(raw[:4]); v != bcn.DDSMagic {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMagic, FourCCString(v))
	}

	body, err := r.Read(bcn.DDSHeaderSize)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	copy(raw[4:], body)

	header, err := bcn.ReadDDSHeader(bytes.NewReader(raw[:]))
	switch {
	case errors.Is(err, bcn.ErrInvalidDDSHeaderSize):
		return nil, fmt.Errorf("%w: %d", ErrInvalidHeaderSize, binary.LittleEndian.Uint32(raw[4:]))
	case errors.Is(err, bcn.ErrInvalidDDSPixelFormatSize):
		return nil, fmt.Errorf("%w: %d", ErrInvalidPixelFormatSize, binary.LittleEndian.Uint32(raw[pixelFormatOffset:]))
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	if header.Width == 0 || header.Height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, header.Width, header.Height)
	}
	if _, err := intFromU32(header.Width); err != nil {
		return nil, err
	}
	if _, err := intFromU32(header.Height); err != nil {
		return nil, err
	}

	return header, nil
}

// rowPadding returns the bytes to skip between rows when the header
// declares an explicit pitch.
func rowPadding(header *bcn.DDSHeader, pf PixelFormat, width int) (int, error) {
	if (header.Flags & bcn.DDSFlagPitch) == 0 {
		return 0, nil
	}
	stride, err := pf.rowBytes(width)
	if err != nil {
		return 0, err
	}
	pitch, err := intFromU32(header.PitchOrLinearSize)
	if err != nil {
		return 0, err
	}

	return max(pitch-stride, 0), nil
}

// DecodeFrom decodes the full-size image from fetch.
func DecodeFrom(fetch FetchFunc, opts *Options) (*image.NRGBA, error) {
	return NewDecoder(fetch, opts).Decode()
}
