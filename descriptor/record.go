// Package descriptor decodes the tagged binary descriptor format used by
// Photoshop-family resource files such as gradient (.grd) libraries.
//
// A descriptor is a tree of typed records. Every value on the wire is
// introduced by a 4-byte tag such as "Objc" or "long" that selects its
// decoder; objects and lists nest further tagged values. [Decoder] reads the tree, [Walk]
// flattens it into plain maps and slices, and [Append] writes it back.
package descriptor

import (
	"errors"
	"strconv"
)

// Errors returned by the decoder and by Walk. All of them are fatal: the
// tree is unusable after any of them.
var (
	// ErrUnknownTag is returned when a value tag is not one of the nine known tags.
	ErrUnknownTag = errors.New("descriptor: unknown tag")

	// ErrUnsupportedType is returned by Walk and Append for records they cannot handle.
	ErrUnsupportedType = errors.New("descriptor: unsupported type")

	// ErrBadCount is returned for negative lengths and element counts.
	ErrBadCount = errors.New("descriptor: bad count")

	// ErrTooDeep is returned when records nest deeper than MaxDepth.
	ErrTooDeep = errors.New("descriptor: nesting too deep")

	// ErrBadID is returned by Append for IDs that cannot round-trip.
	ErrBadID = errors.New("descriptor: bad id")
)

// MaxDepth bounds the nesting of objects and lists.
const MaxDepth = 64

// Value tags.
const (
	TagObject    = "Objc"
	TagList      = "VlLs"
	TagFloat64   = "doub"
	TagUnitFloat = "UntF"
	TagText      = "TEXT"
	TagEnum      = "enum"
	TagInt32     = "long"
	TagBool      = "bool"
	TagBlob      = "tdtd"
)

// Kind discriminates Record variants.
type Kind uint8

const (
	KindBool Kind = iota + 1
	KindInt32
	KindFloat64
	KindUnitFloat
	KindText
	KindString
	KindEnum
	KindBlob
	KindKeyValue
	KindObject
	KindList
	KindDiscriminated
)

var kindNames = [...]string{
	KindBool:          "Bool",
	KindInt32:         "Int32",
	KindFloat64:       "Float64",
	KindUnitFloat:     "UnitFloat",
	KindText:          "Text",
	KindString:        "String",
	KindEnum:          "Enum",
	KindBlob:          "Blob",
	KindKeyValue:      "KeyValue",
	KindObject:        "Object",
	KindList:          "List",
	KindDiscriminated: "Discriminated",
}

// String returns the variant name.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// tagKinds maps each value tag to the variant it decodes to.
var tagKinds = map[string]Kind{
	TagObject:    KindObject,
	TagList:      KindList,
	TagFloat64:   KindFloat64,
	TagUnitFloat: KindUnitFloat,
	TagText:      KindText,
	TagEnum:      KindEnum,
	TagInt32:     KindInt32,
	TagBool:      KindBool,
	TagBlob:      KindBlob,
}

// Span locates a decoded record in the input. It is informational only.
type Span struct {
	Offset int // offset of the first byte
	Length int // bytes consumed
}

// Extent returns the span.
func (s Span) Extent() Span { return s }

func (s *Span) setExtent(x Span) { *s = x }

// Record is one decoded node of a descriptor tree.
type Record interface {
	Kind() Kind
	Extent() Span
}

// Bool is a one-byte boolean.
type Bool struct {
	Span
	Value bool
}

// Int32 is a signed 32-bit integer ("long").
type Int32 struct {
	Span
	Value int32
}

// Float64 is an IEEE double ("doub").
type Float64 struct {
	Span
	Value float64
}

// UnitFloat is a double tagged with a unit such as "#Ang", "#Prc" or "#Pxl".
type UnitFloat struct {
	Span
	Unit  string
	Value float64
}

// Text is a length-prefixed UTF-16 string.
type Text struct {
	Span
	Value string
}

// String is an ASCII string whose length is known from context.
type String struct {
	Span
	Value string
}

// Enum is an enumerated value: a type ID and a value ID.
type Enum struct {
	Span
	Type  string
	Value string
}

// Blob is an opaque length-prefixed byte block ("tdtd").
type Blob struct {
	Span
	Data []byte
}

// KeyValue is a named property. Value is a *Discriminated when decoded.
type KeyValue struct {
	Span
	Key   string
	Value Record
}

// Object is a named, classed record with ordered properties.
type Object struct {
	Span
	Name     string
	Class    string
	Children []*KeyValue
}

// List is an ordered, possibly heterogeneous sequence of tagged values.
type List struct {
	Span
	Items []*Discriminated
}

// Discriminated is a tagged value: the tag selects the variant of Value.
type Discriminated struct {
	Span
	Tag   string
	Value Record
}

func (*Bool) Kind() Kind          { return KindBool }
func (*Int32) Kind() Kind         { return KindInt32 }
func (*Float64) Kind() Kind       { return KindFloat64 }
func (*UnitFloat) Kind() Kind     { return KindUnitFloat }
func (*Text) Kind() Kind          { return KindText }
func (*String) Kind() Kind        { return KindString }
func (*Enum) Kind() Kind          { return KindEnum }
func (*Blob) Kind() Kind          { return KindBlob }
func (*KeyValue) Kind() Kind      { return KindKeyValue }
func (*Object) Kind() Kind        { return KindObject }
func (*List) Kind() Kind          { return KindList }
func (*Discriminated) Kind() Kind { return KindDiscriminated }

// Property returns the value of the child with the given key. When a key
// repeats, the last occurrence wins, matching Walk.
func (o *Object) Property(key string) (Record, bool) {
	for i := len(o.Children) - 1; i >= 0; i-- {
		if o.Children[i].Key == key {
			return o.Children[i].Value, true
		}
	}
	return nil, false
}
