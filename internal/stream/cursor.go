// Package stream provides a sequential big-endian cursor over an in-memory
// byte buffer.
package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"golang.org/x/text/encoding/unicode"
)

// ErrOutOfBounds is returned when a read or seek would leave the buffer.
var ErrOutOfBounds = errors.New("stream: out of bounds")

// utf16be decodes the format's wide strings. Descriptor strings never carry a BOM.
var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// Cursor reads fixed-width values from a byte buffer.
// All multi-byte values are big-endian.
//
// A failed read leaves the offset where it was.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor creates a cursor positioned at the start of buf.
// The cursor does not copy buf; callers must not modify it while parsing.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Len returns the total buffer length.
func (c *Cursor) Len() int { return len(c.buf) }

// Tell returns the current offset.
func (c *Cursor) Tell() int { return c.off }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.off }

// Seek moves the cursor to an absolute offset.
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > len(c.buf) {
		return fmt.Errorf("%w: seek to %d in %d-byte buffer", ErrOutOfBounds, pos, len(c.buf))
	}
	c.off = pos
	return nil
}

// take returns the next n bytes and advances past them.
func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || n > len(c.buf)-c.off {
		return nil, fmt.Errorf("%w: read %d bytes at offset %d of %d", ErrOutOfBounds, n, c.off, len(c.buf))
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

// ReadUint8 reads one byte.
func (c *Cursor) ReadUint8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads a 16-bit unsigned integer.
func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadUint32 reads a 32-bit unsigned integer.
func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadInt32 reads a 32-bit signed integer.
func (c *Cursor) ReadInt32() (int32, error) {
	v, err := c.ReadUint32()
	return int32(v), err //nolint:gosec // two's complement reinterpretation
}

// ReadFloat64 reads an IEEE 754 double.
func (c *Cursor) ReadFloat64() (float64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

// ReadBytes reads n raw bytes. The result is a copy.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	b, err := c.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// ReadString reads n single-byte characters.
func (c *Cursor) ReadString(n int) (string, error) {
	b, err := c.take(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadWideString reads n UTF-16 code units (2n bytes).
// A trailing NUL terminator, if present, is dropped.
func (c *Cursor) ReadWideString(n int) (string, error) {
	if n < 0 || n > (len(c.buf)-c.off)/2 {
		return "", fmt.Errorf("%w: read %d UTF-16 units at offset %d of %d", ErrOutOfBounds, n, c.off, len(c.buf))
	}
	start := c.off
	b, _ := c.take(2 * n)
	if n > 0 && b[2*n-2] == 0 && b[2*n-1] == 0 {
		b = b[:2*n-2]
	}
	s, err := utf16be.NewDecoder().Bytes(b)
	if err != nil {
		c.off = start
		return "", fmt.Errorf("stream: decode UTF-16 at offset %d: %w", start, err)
	}
	return string(s), nil
}

// EncodeWide returns s as UTF-16BE code units followed by a NUL terminator,
// and the number of code units written (terminator included).
func EncodeWide(s string) ([]byte, int, error) {
	b, err := utf16be.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, 0, fmt.Errorf("stream: encode UTF-16: %w", err)
	}
	b = append(b, 0, 0)
	return b, len(b) / 2, nil
}
