package dds

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/woozymasta/bcn"
)

func init() {
	image.RegisterFormat("dds", "DDS ", Decode, DecodeConfig)
}

// Decode reads a DDS image from r. It is registered with the image package.
func Decode(r io.Reader) (image.Image, error) {
	img, err := DecodeFrom(FromReader(r), nil)
	if err != nil {
		return nil, err
	}

	return img, nil
}

// DecodeConfig returns the dimensions of a DDS image without decoding the
// pixel data. Formats without a decoder are reported as errors.
func DecodeConfig(r io.Reader) (image.Config, error) {
	return decodeConfig(NewDecoder(FromReader(r), &Options{MinFetchSize: 4 + bcn.DDSHeaderSize}))
}

func decodeConfig(d *Decoder) (image.Config, error) {
	header, err := d.Header()
	if err != nil {
		return image.Config{}, err
	}
	switch codec, _ := d.Codec(); codec {
	case CodecUnknown:
		return image.Config{}, &UnsupportedFormatError{FourCC: d.fourCC}
	case CodecMasked:
		if err := maskedPixelFormat(header).Validate(); err != nil {
			return image.Config{}, err
		}
	}

	return image.Config{
		Width:      int(header.Width),
		Height:     int(header.Height),
		ColorModel: color.NRGBAModel,
	}, nil
}

// ReadConfig reads DDS file configuration without decoding image data.
// LZ4, Zstandard and gzip wrapped files are unpacked transparently.
func ReadConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	src, err := OpenSource(f)
	if err != nil {
		return image.Config{}, err
	}
	defer src.Close()

	cfg, err := decodeConfig(NewDecoder(src.Fetch, &Options{MinFetchSize: 4 + bcn.DDSHeaderSize}))
	if err != nil {
		return image.Config{}, fmt.Errorf("%w: %q: %w", ErrReadHeader, path, err)
	}

	return cfg, nil
}

// Read reads and decodes a DDS file into an image.
func Read(path string) (*image.NRGBA, error) {
	return ReadWithOptions(path, nil)
}

// ReadWithOptions reads and decodes a DDS file with the given options.
func ReadWithOptions(path string, opts *Options) (*image.NRGBA, error) {
	levels, err := readLevels(path, opts, false)
	if err != nil {
		return nil, err
	}

	return levels[0], nil
}

// ReadMipmaps reads and decodes every surface of a DDS file, largest first.
func ReadMipmaps(path string, opts *Options) ([]*image.NRGBA, error) {
	return readLevels(path, opts, true)
}

// readLevels decodes the top surface, or the whole chain when all is set.
func readLevels(path string, opts *Options, all bool) ([]*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	src, err := OpenSource(f)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	d := NewDecoder(src.Fetch, opts)
	if all {
		levels, err := d.DecodeMipmaps()
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrDecodeImage, path, err)
		}
		return levels, nil
	}

	img, err := d.Decode()
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrDecodeImage, path, err)
	}

	return []*image.NRGBA{img}, nil
}
