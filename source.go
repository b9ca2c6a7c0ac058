package dds

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the wrapper around a DDS stream.
type Compression int

const (
	// CompressionNone is a plain DDS stream.
	CompressionNone Compression = iota
	// CompressionLZ4 is an LZ4 frame.
	CompressionLZ4
	// CompressionZstd is a Zstandard frame.
	CompressionZstd
	// CompressionGzip is a gzip member.
	CompressionGzip
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	case CompressionGzip:
		return "gzip"
	default:
		return fmt.Sprintf("Compression(%d)", int(c))
	}
}

var (
	lz4FrameMagic  = []byte{0x04, 0x22, 0x4d, 0x18}
	zstdFrameMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	gzipMagic      = []byte{0x1f, 0x8b}
)

// FromBytes serves data as a single chunk.
func FromBytes(data []byte) FetchFunc {
	done := false
	return func(int) ([]byte, error) {
		if done {
			return nil, io.EOF
		}
		done = true
		return data, nil
	}
}

// FromReader pulls chunks of at least minSize bytes from r until it is drained.
// Every chunk is freshly allocated, so slices handed out earlier stay intact.
func FromReader(r io.Reader) FetchFunc {
	return func(minSize int) ([]byte, error) {
		buf := make([]byte, minSize)
		n, err := io.ReadFull(r, buf)
		switch {
		case err == nil:
			return buf, nil
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			return buf[:n], io.EOF
		default:
			return nil, err
		}
	}
}

// FromLZ4 decompresses an LZ4 frame stream.
func FromLZ4(r io.Reader) FetchFunc {
	return FromReader(lz4.NewReader(r))
}

// FromZstd decompresses a Zstandard stream. The returned func releases the
// decoder and must be called when decoding is done.
func FromZstd(r io.Reader) (FetchFunc, func(), error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: zstd: %v", ErrUnknownCompression, err)
	}

	return FromReader(dec), dec.Close, nil
}

// FromGzip decompresses a gzip stream.
func FromGzip(r io.Reader) (FetchFunc, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %v", ErrUnknownCompression, err)
	}

	return FromReader(zr), nil
}

// Source is a FetchFunc over a possibly compressed stream.
type Source struct {
	// Compression is the wrapper detected by OpenSource.
	Compression Compression

	fetch FetchFunc
	close func()
}

// OpenSource sniffs r for an LZ4, Zstandard or gzip wrapper and returns a
// source yielding the plain DDS bytes.
func OpenSource(r io.Reader) (*Source, error) {
	br := bufio.NewReader(r)
	magic, _ := br.Peek(4)

	switch {
	case bytes.HasPrefix(magic, lz4FrameMagic):
		return &Source{Compression: CompressionLZ4, fetch: FromLZ4(br)}, nil
	case bytes.HasPrefix(magic, zstdFrameMagic):
		fetch, closeFn, err := FromZstd(br)
		if err != nil {
			return nil, err
		}
		return &Source{Compression: CompressionZstd, fetch: fetch, close: closeFn}, nil
	case bytes.HasPrefix(magic, gzipMagic):
		fetch, err := FromGzip(br)
		if err != nil {
			return nil, err
		}
		return &Source{Compression: CompressionGzip, fetch: fetch}, nil
	default:
		return &Source{Compression: CompressionNone, fetch: FromReader(br)}, nil
	}
}

// Fetch implements FetchFunc.
func (s *Source) Fetch(minSize int) ([]byte, error) {
	return s.fetch(minSize)
}

// Close releases decompressor state. It does not close the underlying reader.
func (s *Source) Close() {
	if s.close != nil {
		s.close()
	}
}
