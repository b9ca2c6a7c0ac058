package dds

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// DefaultMinFetchSize is the smallest request passed to a FetchFunc.
const DefaultMinFetchSize = 64 * 1024

// FetchFunc pulls the next chunk of input. minSize is a hint: the function
// should return at least that many bytes unless the input is exhausted.
// Shorter chunks are accepted and merged; an empty chunk or io.EOF marks
// the end of input.
type FetchFunc func(minSize int) ([]byte, error)

// Reader hands out exact-size byte runs from an incremental source.
// The zero value is not usable; create one with NewReader.
type Reader struct {
	fetch    FetchFunc
	pending  []byte
	minFetch int
	eof      bool
	consumed int64
}

// NewReader wraps fetch. minFetch <= 0 selects DefaultMinFetchSize.
func NewReader(fetch FetchFunc, minFetch int) *Reader {
	if minFetch <= 0 {
		minFetch = DefaultMinFetchSize
	}

	return &Reader{fetch: fetch, minFetch: minFetch}
}

// Consumed returns the number of bytes handed out so far.
func (r *Reader) Consumed() int64 {
	return r.consumed
}

// Read returns exactly n bytes. The slice may alias the pending window and
// is only valid until the next call.
func (r *Reader) Read(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative read %d", ErrInvalidFormat, n)
	}
	if n == 0 {
		return nil, nil
	}

	if len(r.pending) == 0 {
		if err := r.refill(n); err != nil {
			return nil, err
		}
	}
	if len(r.pending) >= n {
		out := r.pending[:n:n]
		r.pending = r.pending[n:]
		r.consumed += int64(n)
		return out, nil
	}

	// spill: keep what we hold, then top up from fresh chunks
	out := make([]byte, n)
	filled := copy(out, r.pending)
	r.pending = nil
	for filled < n {
		if err := r.refill(n - filled); err != nil {
			return nil, fmt.Errorf("need %d bytes, got %d: %w", n, filled, err)
		}
		c := copy(out[filled:], r.pending)
		r.pending = r.pending[c:]
		filled += c
	}
	r.consumed += int64(n)

	return out, nil
}

// Skip discards n bytes.
func (r *Reader) Skip(n int) error {
	_, err := r.Read(n)
	return err
}

// ReadWord reads one little-endian 32-bit word.
func (r *Reader) ReadWord() (uint32, error) {
	b, err := r.Read(4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

// ReadWords reads count little-endian 32-bit words.
func (r *Reader) ReadWords(count int) ([]uint32, error) {
	if count > maxInt/4 {
		return nil, ErrSizeOverflow
	}
	b, err := r.Read(count * 4)
	if err != nil {
		return nil, err
	}

	words := make([]uint32, count)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[i*4:])
	}

	return words, nil
}

// refill replaces the empty pending window with the next non-empty chunk.
func (r *Reader) refill(need int) error {
	if r.eof {
		return fmt.Errorf("%w: source exhausted", ErrInsufficientData)
	}

	size := need
	if size < r.minFetch {
		size = r.minFetch
	}

	chunk, err := r.fetch(size)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", ErrInsufficientData, err)
	}
	if len(chunk) == 0 {
		r.eof = true
		return fmt.Errorf("%w: source exhausted", ErrInsufficientData)
	}
	if err != nil {
		// data with EOF: use it, stop asking afterwards
		r.eof = true
	}
	r.pending = chunk

	return nil
}
