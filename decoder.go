package lzss

import (
	"errors"
	"fmt"
	"io"
)

// Errors returned by the Decoder.
var (
	ErrInvalidDistance = errors.New("lzss: match distance out of range")
	errMatchLen        = errors.New("lzss: match length out of range")
)

// Decoder reconstructs the byte stream from the tokens written to it and
// writes it to the underlying writer. The decoded data is kept in a buffer of
// twice the dictionary size; if the buffer is full, it is written out and
// all but the last dictionary size bytes are removed.
type Decoder struct {
	w io.Writer

	// data is the buffer; its end is the head of the dictionary window
	data []byte
	// r tracks the bytes of data that have already been written to w
	r int

	dictSize int
	// n counts the bytes decoded
	n int64

	err error
}

// NewDecoder creates a decoder for the given dictionary size.
func NewDecoder(w io.Writer, dictSize int) (*Decoder, error) {
	if !(1 <= dictSize && dictSize <= maxDictSize) {
		return nil, fmt.Errorf("%w: DictionarySize=%d; must be in range [1,%d]",
			ErrConfig, dictSize, maxDictSize)
	}
	d := &Decoder{
		w:        w,
		data:     make([]byte, 0, 2*dictSize),
		dictSize: dictSize,
	}
	return d, nil
}

// Reset puts the decoder in its initial state writing to w.
func (d *Decoder) Reset(w io.Writer) {
	*d = Decoder{
		w:        w,
		data:     d.data[:0],
		dictSize: d.dictSize,
	}
}

// Len returns the number of bytes decoded.
func (d *Decoder) Len() int64 { return d.n }

// prune writes the pending data out and removes the data that is not part of
// the dictionary window anymore. It returns the space available.
func (d *Decoder) prune() (int, error) {
	if err := d.Flush(); err != nil {
		return 0, err
	}
	if n := len(d.data) - d.dictSize; n > 0 {
		k := copy(d.data, d.data[n:])
		d.data = d.data[:k]
		d.r = k
	}
	return cap(d.data) - len(d.data), nil
}

// Flush writes all decoded data to the underlying writer.
func (d *Decoder) Flush() error {
	if d.err != nil {
		return d.err
	}
	k, err := d.w.Write(d.data[d.r:])
	d.r += k
	if err != nil {
		d.err = err
		return err
	}
	return nil
}

func (d *Decoder) WriteLiteral(c byte) error {
	if d.err != nil {
		return d.err
	}
	if len(d.data) == cap(d.data) {
		if _, err := d.prune(); err != nil {
			return err
		}
	}
	d.data = append(d.data, c)
	d.n++
	return nil
}

// WriteMatch copies length bytes starting distance+1 bytes before the end of
// the decoded data.
func (d *Decoder) WriteMatch(length, distance int) error {
	if d.err != nil {
		return d.err
	}
	if !(1 <= length && length <= d.dictSize) {
		return fmt.Errorf("%w: %d", errMatchLen, length)
	}
	o := distance + 1
	if distance < 0 || int64(o) > min(d.n, int64(d.dictSize)) {
		return fmt.Errorf("%w: distance %d with %d bytes decoded",
			ErrInvalidDistance, distance, d.n)
	}
	if length > cap(d.data)-len(d.data) {
		if _, err := d.prune(); err != nil {
			return err
		}
	}
	m := length
	for m > o {
		d.data = append(d.data, d.data[len(d.data)-o:]...)
		m -= o
		if m <= o {
			break
		}
		o <<= 1
	}
	i := len(d.data) - o
	d.data = append(d.data, d.data[i:i+m]...)
	d.n += int64(length)
	return nil
}

// Close flushes the decoded data. It doesn't close the underlying writer.
// Further tokens are rejected with ErrClosed.
func (d *Decoder) Close() error {
	if d.err != nil {
		if d.err == ErrClosed {
			return nil
		}
		return d.err
	}
	if err := d.Flush(); err != nil {
		return err
	}
	d.err = ErrClosed
	return nil
}

var _ TokenWriter = (*Decoder)(nil)
