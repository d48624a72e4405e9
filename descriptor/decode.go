package descriptor

import (
	"fmt"

	"github.com/gogpu/grd/internal/stream"
)

// DefaultIDLength is the length used for an ID whose length prefix is zero.
// Four-character IDs ("Objc", "Clrs", "Rd  ") are stored that way.
const DefaultIDLength = 4

type decodeFunc func(d *Decoder) (Record, error)

// decoders maps each value tag to its decoder. Filled once by init and
// read-only afterwards.
var decoders map[string]decodeFunc

func init() {
	decoders = map[string]decodeFunc{
		TagObject:    decodeObject,
		TagList:      decodeList,
		TagFloat64:   decodeFloat64,
		TagUnitFloat: decodeUnitFloat,
		TagText:      decodeText,
		TagEnum:      decodeEnum,
		TagInt32:     decodeInt32,
		TagBool:      decodeBool,
		TagBlob:      decodeBlob,
	}
}

// Decoder reads descriptor records from a byte buffer.
type Decoder struct {
	cur   *stream.Cursor
	depth int
}

// NewDecoder creates a decoder positioned at the start of buf.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{cur: stream.NewCursor(buf)}
}

// Seek moves the decoder to an absolute offset.
func (d *Decoder) Seek(pos int) error { return d.cur.Seek(pos) }

// Tell returns the current offset.
func (d *Decoder) Tell() int { return d.cur.Tell() }

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int { return d.cur.Remaining() }

// ReadTag reads a 4-byte tag without dispatching on it.
func (d *Decoder) ReadTag() (string, error) {
	return d.cur.ReadString(4)
}

// ReadCount reads a 4-byte element count.
func (d *Decoder) ReadCount() (int, error) {
	off := d.cur.Tell()
	n, err := d.cur.ReadInt32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		d.cur.Seek(off) //nolint:errcheck // off was valid
		return 0, fmt.Errorf("%w: %d at offset %d", ErrBadCount, n, off)
	}
	return int(n), nil
}

// ReadIDLength reads an ID length prefix. Zero means DefaultIDLength.
func (d *Decoder) ReadIDLength() (int, error) {
	n, err := d.ReadCount()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		n = DefaultIDLength
	}
	return n, nil
}

// ReadString reads an ASCII string of n characters.
func (d *Decoder) ReadString(n int) (*String, error) {
	start := d.cur.Tell()
	s, err := d.cur.ReadString(n)
	if err != nil {
		return nil, err
	}
	return &String{Span: Span{Offset: start, Length: n}, Value: s}, nil
}

// Decode reads one tagged value: a 4-byte tag followed by its payload.
// An unknown tag fails with ErrUnknownTag.
func (d *Decoder) Decode() (*Discriminated, error) {
	start := d.cur.Tell()
	tag, err := d.ReadTag()
	if err != nil {
		return nil, err
	}
	decode, ok := decoders[tag]
	if !ok {
		return nil, fmt.Errorf("%w %q at offset %d", ErrUnknownTag, tag, start)
	}

	d.depth++
	defer func() { d.depth-- }()
	if d.depth > MaxDepth {
		return nil, fmt.Errorf("%w: %d levels at offset %d", ErrTooDeep, d.depth, start)
	}

	valueStart := d.cur.Tell()
	value, err := decode(d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tag, err)
	}
	value.(interface{ setExtent(Span) }).setExtent(Span{Offset: valueStart, Length: d.cur.Tell() - valueStart})

	return &Discriminated{
		Span:  Span{Offset: start, Length: d.cur.Tell() - start},
		Tag:   tag,
		Value: value,
	}, nil
}

// DecodeKeyValue reads a key of keyLen characters followed by a tagged value.
func (d *Decoder) DecodeKeyValue(keyLen int) (*KeyValue, error) {
	start := d.cur.Tell()
	key, err := d.cur.ReadString(keyLen)
	if err != nil {
		return nil, err
	}
	value, err := d.Decode()
	if err != nil {
		return nil, fmt.Errorf("key %q: %w", key, err)
	}
	return &KeyValue{
		Span:  Span{Offset: start, Length: d.cur.Tell() - start},
		Key:   key,
		Value: value,
	}, nil
}

// DecodeList reads a list payload: a count followed by that many tagged values.
func (d *Decoder) DecodeList() (*List, error) {
	start := d.cur.Tell()
	r, err := decodeList(d)
	if err != nil {
		return nil, err
	}
	l := r.(*List)
	l.Span = Span{Offset: start, Length: d.cur.Tell() - start}
	return l, nil
}

// Unmarshal decodes a single tagged value from the start of buf.
func Unmarshal(buf []byte) (*Discriminated, error) {
	return NewDecoder(buf).Decode()
}

// capacity bounds a preallocation by what the remaining input could hold.
func (d *Decoder) capacity(count, minSize int) int {
	return min(count, d.cur.Remaining()/minSize)
}

func decodeBool(d *Decoder) (Record, error) {
	b, err := d.cur.ReadUint8()
	if err != nil {
		return nil, err
	}
	return &Bool{Value: b != 0}, nil
}

func decodeInt32(d *Decoder) (Record, error) {
	v, err := d.cur.ReadInt32()
	if err != nil {
		return nil, err
	}
	return &Int32{Value: v}, nil
}

func decodeFloat64(d *Decoder) (Record, error) {
	v, err := d.cur.ReadFloat64()
	if err != nil {
		return nil, err
	}
	return &Float64{Value: v}, nil
}

func decodeUnitFloat(d *Decoder) (Record, error) {
	unit, err := d.cur.ReadString(4)
	if err != nil {
		return nil, err
	}
	v, err := d.cur.ReadFloat64()
	if err != nil {
		return nil, err
	}
	return &UnitFloat{Unit: unit, Value: v}, nil
}

func decodeText(d *Decoder) (Record, error) {
	n, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	s, err := d.cur.ReadWideString(n)
	if err != nil {
		return nil, err
	}
	return &Text{Value: s}, nil
}

func decodeEnum(d *Decoder) (Record, error) {
	typ, err := d.readID()
	if err != nil {
		return nil, fmt.Errorf("enum type: %w", err)
	}
	val, err := d.readID()
	if err != nil {
		return nil, fmt.Errorf("enum value: %w", err)
	}
	return &Enum{Type: typ, Value: val}, nil
}

func decodeBlob(d *Decoder) (Record, error) {
	n, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	data, err := d.cur.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	return &Blob{Data: data}, nil
}

func decodeObject(d *Decoder) (Record, error) {
	nameLen, err := d.ReadIDLength()
	if err != nil {
		return nil, fmt.Errorf("object name: %w", err)
	}
	name, err := d.cur.ReadWideString(nameLen)
	if err != nil {
		return nil, fmt.Errorf("object name: %w", err)
	}
	class, err := d.readID()
	if err != nil {
		return nil, fmt.Errorf("object class: %w", err)
	}
	count, err := d.ReadCount()
	if err != nil {
		return nil, fmt.Errorf("object %q: %w", class, err)
	}

	obj := &Object{
		Name:     name,
		Class:    class,
		Children: make([]*KeyValue, 0, d.capacity(count, 12)),
	}
	for i := 0; i < count; i++ {
		keyLen, err := d.ReadIDLength()
		if err != nil {
			return nil, fmt.Errorf("object %q property %d: %w", class, i, err)
		}
		kv, err := d.DecodeKeyValue(keyLen)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", class, err)
		}
		obj.Children = append(obj.Children, kv)
	}
	return obj, nil
}

func decodeList(d *Decoder) (Record, error) {
	count, err := d.ReadCount()
	if err != nil {
		return nil, fmt.Errorf("list count: %w", err)
	}
	l := &List{Items: make([]*Discriminated, 0, d.capacity(count, 5))}
	for i := 0; i < count; i++ {
		item, err := d.Decode()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		l.Items = append(l.Items, item)
	}
	return l, nil
}

// readID reads a length-prefixed ASCII ID.
func (d *Decoder) readID() (string, error) {
	n, err := d.ReadIDLength()
	if err != nil {
		return "", err
	}
	return d.cur.ReadString(n)
}
