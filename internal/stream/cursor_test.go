package stream

import (
	"errors"
	"testing"
)

func TestCursorFixedWidth(t *testing.T) {
	buf := []byte{
		0x7F,                         // uint8
		0x01, 0x02,                   // uint16
		0xFF, 0xFF, 0xFF, 0xFE,       // int32 -2
		0x3F, 0xF8, 0, 0, 0, 0, 0, 0, // 1.5
	}
	c := NewCursor(buf)

	u8, err := c.ReadUint8()
	if err != nil || u8 != 0x7F {
		t.Fatalf("ReadUint8() = %d, %v; want 127", u8, err)
	}
	u16, err := c.ReadUint16()
	if err != nil || u16 != 0x0102 {
		t.Fatalf("ReadUint16() = %#x, %v; want 0x0102", u16, err)
	}
	i32, err := c.ReadInt32()
	if err != nil || i32 != -2 {
		t.Fatalf("ReadInt32() = %d, %v; want -2", i32, err)
	}
	f, err := c.ReadFloat64()
	if err != nil || f != 1.5 {
		t.Fatalf("ReadFloat64() = %v, %v; want 1.5", f, err)
	}
	if c.Tell() != len(buf) {
		t.Errorf("Tell() = %d, want %d", c.Tell(), len(buf))
	}
	if c.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", c.Remaining())
	}
}

func TestCursorOutOfBounds(t *testing.T) {
	tests := []struct {
		name string
		at   int
		read func(c *Cursor) error
	}{
		{"uint8", 5, func(c *Cursor) error { _, err := c.ReadUint8(); return err }},
		{"uint16", 4, func(c *Cursor) error { _, err := c.ReadUint16(); return err }},
		{"int32", 3, func(c *Cursor) error { _, err := c.ReadInt32(); return err }},
		{"float64", 3, func(c *Cursor) error { _, err := c.ReadFloat64(); return err }},
		{"string", 3, func(c *Cursor) error { _, err := c.ReadString(5); return err }},
		{"wide", 3, func(c *Cursor) error { _, err := c.ReadWideString(3); return err }},
		{"bytes", 3, func(c *Cursor) error { _, err := c.ReadBytes(-1); return err }},
		{"seek", 3, func(c *Cursor) error { return c.Seek(10) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCursor([]byte{0, 0, 0, 0, 0})
			if err := c.Seek(tt.at); err != nil {
				t.Fatal(err)
			}
			err := tt.read(c)
			if !errors.Is(err, ErrOutOfBounds) {
				t.Fatalf("err = %v, want ErrOutOfBounds", err)
			}
			if c.Tell() != tt.at {
				t.Errorf("offset moved to %d after failed read", c.Tell())
			}
		})
	}
}

func TestCursorStrings(t *testing.T) {
	buf := []byte("Objc")
	buf = append(buf, 0, 'H', 0, 'i', 0, 0)   // "Hi" + NUL
	buf = append(buf, 0xD8, 0x3D, 0xDE, 0x00) // U+1F600 as a surrogate pair

	c := NewCursor(buf)
	s, err := c.ReadString(4)
	if err != nil || s != "Objc" {
		t.Fatalf("ReadString(4) = %q, %v", s, err)
	}
	w, err := c.ReadWideString(3)
	if err != nil || w != "Hi" {
		t.Fatalf("ReadWideString(3) = %q, %v; want \"Hi\"", w, err)
	}
	e, err := c.ReadWideString(2)
	if err != nil || e != "\U0001F600" {
		t.Fatalf("ReadWideString(2) = %q, %v", e, err)
	}
}

func TestEncodeWide(t *testing.T) {
	b, n, err := EncodeWide("Ab")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("units = %d, want 3", n)
	}
	got, err := NewCursor(b).ReadWideString(n)
	if err != nil || got != "Ab" {
		t.Errorf("decoded %q, %v; want \"Ab\"", got, err)
	}
}

func TestCursorSeek(t *testing.T) {
	c := NewCursor(make([]byte, 40))
	if err := c.Seek(32); err != nil {
		t.Fatal(err)
	}
	if c.Tell() != 32 || c.Remaining() != 8 {
		t.Errorf("Tell()=%d Remaining()=%d", c.Tell(), c.Remaining())
	}
	if err := c.Seek(40); err != nil {
		t.Errorf("seek to end: %v", err)
	}
	if _, err := c.ReadFloat64(); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("read at end: %v", err)
	}
}
