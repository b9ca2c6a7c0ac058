package dds

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData indicates the byte source ran dry before a read was satisfied.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidFormat indicates a malformed DDS header or pixel format.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrUnsupportedFormat indicates a well-formed but undecodable pixel format.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrSizeOverflow indicates a size or dimension exceeds supported limits.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrInvalidMagic indicates the stream does not start with "DDS ".
	ErrInvalidMagic = fmt.Errorf("%w: invalid DDS magic", ErrInvalidFormat)
	// ErrInvalidHeaderSize indicates the header size field is not 124.
	ErrInvalidHeaderSize = fmt.Errorf("%w: invalid header size", ErrInvalidFormat)
	// ErrInvalidPixelFormatSize indicates the pixel format size field is not 32.
	ErrInvalidPixelFormatSize = fmt.Errorf("%w: invalid pixel format size", ErrInvalidFormat)
	// ErrInvalidDimensions indicates a zero width or height.
	ErrInvalidDimensions = fmt.Errorf("%w: invalid dimensions", ErrInvalidFormat)
	// ErrInvalidBitCount indicates a masked bit count outside 1..32.
	ErrInvalidBitCount = fmt.Errorf("%w: invalid bit count", ErrInvalidFormat)
	// ErrMaskOutOfRange indicates a channel mask wider than the pixel bit count.
	ErrMaskOutOfRange = fmt.Errorf("%w: channel mask exceeds bit count", ErrInvalidFormat)
	// ErrUncompressedDisabled indicates the masked path was turned off by options.
	ErrUncompressedDisabled = fmt.Errorf("%w: uncompressed pixel formats disabled", ErrUnsupportedFormat)
	// ErrUnknownCompression indicates a source wrapper could not be opened.
	ErrUnknownCompression = errors.New("unknown stream compression")
	// ErrOpenFile indicates DDS file open failed.
	ErrOpenFile = errors.New("open file failed")
	// ErrReadHeader indicates the DDS header could not be read.
	ErrReadHeader = errors.New("reading DDS header failed")
	// ErrDecodeImage indicates image decode failed.
	ErrDecodeImage = errors.New("decode image failed")
)

// UnsupportedFormatError reports a FourCC code with no decoder.
type UnsupportedFormatError struct {
	// FourCC is the raw code decoded as ASCII from its little-endian word.
	FourCC string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: FourCC %q", ErrUnsupportedFormat, e.FourCC)
}

// Unwrap lets errors.Is match ErrUnsupportedFormat.
func (e *UnsupportedFormatError) Unwrap() error {
	return ErrUnsupportedFormat
}
