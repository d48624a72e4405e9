package grd

import (
	"errors"
	"fmt"

	"github.com/gogpu/grd/descriptor"
	"github.com/gogpu/grd/internal/stream"
)

const (
	// HeaderSize is the number of leading bytes skipped before the outer key.
	HeaderSize = 32

	// Magic identifies gradient files.
	Magic = "8BGR"

	// listKey is the outer key written by Encode.
	listKey = "GrdL"
)

// Header holds the identification fields at the start of a gradient file.
// They are reported, not validated.
type Header struct {
	Magic             string
	Version           uint16
	DescriptorVersion uint32
}

// Reader reads gradients from a gradient file one record at a time.
//
// Call Setup once, then Next while HasNext reports true:
//
//	r := grd.NewReader(data)
//	if err := r.Setup(); err != nil {
//	    return err
//	}
//	for r.HasNext() {
//	    g, err := r.Next()
//	    if errors.Is(err, grd.ErrBuild) {
//	        continue // this record only
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    use(g)
//	}
//
// A Reader is not safe for concurrent use.
type Reader struct {
	data   []byte
	dec    *descriptor.Decoder
	header Header
	key    string
	count  int
	index  int
	ready  bool
	err    error
}

// NewReader creates a reader over data. The reader does not copy data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data, dec: descriptor.NewDecoder(data)}
}

// Setup skips the file header and reads the outer key, list tag and record
// count. No gradient record is decoded. Calling Setup again is a no-op.
func (r *Reader) Setup() error {
	if r.err != nil {
		return r.err
	}
	if r.ready {
		return nil
	}

	r.header = readHeader(r.data)
	if r.header.Magic != Magic {
		Logger().Warn("grd: unexpected file magic", "magic", r.header.Magic)
	}

	if err := r.setup(); err != nil {
		r.err = err
		return err
	}
	r.ready = true

	Logger().Debug("grd: setup",
		"magic", r.header.Magic,
		"version", r.header.Version,
		"key", r.key,
		"count", r.count)
	return nil
}

func (r *Reader) setup() error {
	if err := r.dec.Seek(HeaderSize); err != nil {
		return fmt.Errorf("grd: skip header: %w", err)
	}
	key, err := r.dec.ReadString(descriptor.DefaultIDLength)
	if err != nil {
		return fmt.Errorf("grd: outer key: %w", err)
	}
	r.key = key.Value

	tag, err := r.dec.ReadTag()
	if err != nil {
		return fmt.Errorf("grd: outer tag: %w", err)
	}
	if tag != descriptor.TagList {
		return fmt.Errorf("%w: key %q holds %q", ErrNoList, r.key, tag)
	}

	if r.count, err = r.dec.ReadCount(); err != nil {
		return fmt.Errorf("grd: record count: %w", err)
	}
	return nil
}

// readHeader reads the identification fields of the header, as far as
// the data allows.
func readHeader(data []byte) Header {
	var h Header
	cur := stream.NewCursor(data)
	if s, err := cur.ReadString(len(Magic)); err == nil {
		h.Magic = s
	}
	if v, err := cur.ReadUint16(); err == nil {
		h.Version = v
	}
	if v, err := cur.ReadUint32(); err == nil {
		h.DescriptorVersion = v
	}
	return h
}

// HasNext reports whether another record can be read.
func (r *Reader) HasNext() bool {
	return r.ready && r.err == nil && r.index < r.count
}

// Next decodes, flattens and builds the next gradient record.
//
// If the record decodes but is not a valid gradient, Next returns an error
// wrapping ErrBuild and the reader moves on to the following record. Any
// other error is structural: it is returned by every later call, and
// HasNext reports false.
func (r *Reader) Next() (*Gradient, error) {
	if r.err != nil {
		return nil, r.err
	}
	if !r.ready {
		return nil, ErrNotSetUp
	}
	if r.index >= r.count {
		return nil, ErrDone
	}

	idx := r.index
	rec, err := r.dec.Decode()
	if err != nil {
		r.err = fmt.Errorf("grd: record %d: %w", idx, err)
		return nil, r.err
	}
	flat, err := descriptor.Walk(rec)
	if err != nil {
		r.err = fmt.Errorf("grd: record %d: %w", idx, err)
		return nil, r.err
	}
	r.index++

	m, _ := flat.(map[string]any)
	g, err := Build(m)
	if err != nil {
		Logger().Warn("grd: skipping record", "index", idx, "err", err)
		return nil, fmt.Errorf("%w: record %d: %w", ErrBuild, idx, err)
	}

	Logger().Debug("grd: record",
		"index", idx,
		"offset", rec.Offset,
		"length", rec.Length,
		"name", g.Name,
		"stops", len(g.Stops))
	return g, nil
}

// Len returns the record count read by Setup.
func (r *Reader) Len() int { return r.count }

// Index returns the index of the next record.
func (r *Reader) Index() int { return r.index }

// Key returns the outer key read by Setup, normally "GrdL".
func (r *Reader) Key() string { return r.key }

// Header returns the file header fields read by Setup.
func (r *Reader) Header() Header { return r.header }

// Err returns the structural error that stopped the reader, if any.
func (r *Reader) Err() error { return r.err }

// Callback receives each record read by ParseAll. g is nil when err is a
// build error for that record. Returning false stops the batch.
type Callback func(g *Gradient, err error, index, total int) bool

// ParseAll reads every record of data and passes each to fn.
//
// Per-record build errors are passed to fn and the batch continues.
// Structural errors stop the batch and are returned.
func ParseAll(data []byte, fn Callback) error {
	r := NewReader(data)
	if err := r.Setup(); err != nil {
		return err
	}
	for r.HasNext() {
		idx := r.Index()
		g, err := r.Next()
		if err != nil && !errors.Is(err, ErrBuild) {
			return err
		}
		if !fn(g, err, idx, r.Len()) {
			return nil
		}
	}
	return nil
}

// ReadAll reads every gradient of data. It fails on the first error of
// any kind.
func ReadAll(data []byte) ([]*Gradient, error) {
	var (
		out      []*Gradient
		buildErr error
	)
	err := ParseAll(data, func(g *Gradient, err error, _, total int) bool {
		if err != nil {
			buildErr = err
			return false
		}
		if out == nil {
			out = make([]*Gradient, 0, total)
		}
		out = append(out, g)
		return true
	})
	if err == nil {
		err = buildErr
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
