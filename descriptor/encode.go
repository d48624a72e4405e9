package descriptor

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/grd/internal/stream"
)

// Append appends the wire encoding of r to dst.
//
// KeyValue is written as its raw key followed by its value; the key's length
// prefix belongs to the enclosing Object. String is written without a prefix.
// IDs of exactly DefaultIDLength characters get a zero length prefix.
func Append(dst []byte, r Record) ([]byte, error) {
	if r == nil {
		return dst, fmt.Errorf("%w: nil record", ErrUnsupportedType)
	}
	switch v := r.(type) {
	case *Bool:
		if v.Value {
			return append(dst, 1), nil
		}
		return append(dst, 0), nil
	case *Int32:
		return binary.BigEndian.AppendUint32(dst, uint32(v.Value)), nil //nolint:gosec // two's complement
	case *Float64:
		return appendFloat64(dst, v.Value), nil
	case *UnitFloat:
		if len(v.Unit) != 4 {
			return dst, fmt.Errorf("%w: unit %q is not 4 characters", ErrBadID, v.Unit)
		}
		dst = append(dst, v.Unit...)
		return appendFloat64(dst, v.Value), nil
	case *Text:
		return appendWide(dst, v.Value)
	case *String:
		return append(dst, v.Value...), nil
	case *Enum:
		dst, err := appendID(dst, v.Type)
		if err != nil {
			return dst, err
		}
		return appendID(dst, v.Value)
	case *Blob:
		dst = appendCount(dst, len(v.Data))
		return append(dst, v.Data...), nil
	case *KeyValue:
		dst = append(dst, v.Key...)
		value, ok := v.Value.(*Discriminated)
		if !ok {
			return dst, fmt.Errorf("%w: key %q holds %T, want *Discriminated", ErrUnsupportedType, v.Key, v.Value)
		}
		return Append(dst, value)
	case *Object:
		dst, err := appendWide(dst, v.Name)
		if err != nil {
			return dst, err
		}
		if dst, err = appendID(dst, v.Class); err != nil {
			return dst, err
		}
		dst = appendCount(dst, len(v.Children))
		for _, kv := range v.Children {
			if kv == nil {
				return dst, fmt.Errorf("%w: nil property in object %q", ErrUnsupportedType, v.Class)
			}
			if kv.Key == "" {
				return dst, fmt.Errorf("%w: empty key in object %q", ErrBadID, v.Class)
			}
			dst = appendIDLength(dst, kv.Key)
			if dst, err = Append(dst, kv); err != nil {
				return dst, err
			}
		}
		return dst, nil
	case *List:
		dst = appendCount(dst, len(v.Items))
		for i, item := range v.Items {
			var err error
			if dst, err = Append(dst, item); err != nil {
				return dst, fmt.Errorf("item %d: %w", i, err)
			}
		}
		return dst, nil
	case *Discriminated:
		if v == nil || v.Value == nil {
			return dst, fmt.Errorf("%w: empty tagged value", ErrUnsupportedType)
		}
		if kind, ok := tagKinds[v.Tag]; !ok {
			return dst, fmt.Errorf("%w %q", ErrUnknownTag, v.Tag)
		} else if kind != v.Value.Kind() {
			return dst, fmt.Errorf("%w: tag %q holds %v", ErrUnsupportedType, v.Tag, v.Value.Kind())
		}
		dst = append(dst, v.Tag...)
		return Append(dst, v.Value)
	}
	return dst, fmt.Errorf("%w: %T", ErrUnsupportedType, r)
}

// Marshal returns the encoding of a single tagged value.
func Marshal(d *Discriminated) ([]byte, error) {
	return Append(nil, d)
}

func appendFloat64(dst []byte, v float64) []byte {
	return binary.BigEndian.AppendUint64(dst, math.Float64bits(v))
}

func appendCount(dst []byte, n int) []byte {
	return binary.BigEndian.AppendUint32(dst, uint32(n)) //nolint:gosec // lengths fit in 32 bits
}

func appendIDLength(dst []byte, id string) []byte {
	if len(id) == DefaultIDLength {
		return appendCount(dst, 0)
	}
	return appendCount(dst, len(id))
}

func appendID(dst []byte, id string) ([]byte, error) {
	if id == "" {
		return dst, fmt.Errorf("%w: empty id", ErrBadID)
	}
	dst = appendIDLength(dst, id)
	return append(dst, id...), nil
}

// appendWide writes a NUL-terminated UTF-16 string with its unit count.
func appendWide(dst []byte, s string) ([]byte, error) {
	b, n, err := stream.EncodeWide(s)
	if err != nil {
		return dst, err
	}
	dst = appendCount(dst, n)
	return append(dst, b...), nil
}
