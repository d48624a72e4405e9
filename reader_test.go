package grd

import (
	"encoding/binary"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/gogpu/grd/descriptor"
	"github.com/gogpu/grd/internal/stream"
)

func sampleGradient(name string) *Gradient {
	return &Gradient{
		Name:       name,
		Smoothness: 4096,
		Stops: []Stop{
			{Location: 0, Midpoint: 50, Color: RGBColor(255, 0, 0), Opacity: 100},
			{Location: 2048, Midpoint: 25, Color: HSBColor(120, 100, 50), Opacity: 75},
			{Location: 4096, Midpoint: 50, Kind: StopBackground, Color: RGBColor(255, 255, 255), Opacity: 50},
		},
		Transparency: []TransparencyStop{
			{Location: 0, Midpoint: 50, Opacity: 100},
			{Location: 4096, Midpoint: 50, Opacity: 50},
		},
	}
}

func mustEncode(t testing.TB, gradients ...*Gradient) []byte {
	t.Helper()
	data, err := Encode(gradients)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	return data
}

// withoutGrad returns a record that decodes but has no "Grad" key.
func withoutGrad() *descriptor.Discriminated {
	return object("", "null",
		prop("Othr", tagged(descriptor.TagInt32, &descriptor.Int32{Value: 1})))
}

// fileWithRecords assembles a gradient file around raw records.
func fileWithRecords(t testing.TB, records ...*descriptor.Discriminated) []byte {
	t.Helper()
	data := mustEncode(t)
	data = data[:HeaderSize+len(listKey)+len(descriptor.TagList)]
	data = binary.BigEndian.AppendUint32(data, uint32(len(records))) //nolint:gosec // small test count
	for _, rec := range records {
		var err error
		if data, err = descriptor.Append(data, rec); err != nil {
			t.Fatal(err)
		}
	}
	return data
}

func TestReaderRoundTrip(t *testing.T) {
	want := []*Gradient{sampleGradient("First"), sampleGradient("Second")}
	want[1].Stops = want[1].Stops[:1]

	data := mustEncode(t, want...)
	r := NewReader(data)
	if err := r.Setup(); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
	if r.Key() != "GrdL" {
		t.Errorf("Key() = %q", r.Key())
	}
	if h := r.Header(); h.Magic != Magic || h.Version != 5 || h.DescriptorVersion != 16 {
		t.Errorf("Header() = %+v", h)
	}

	var got []*Gradient
	for r.HasNext() {
		g, err := r.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		got = append(got, g)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("read back %+v\nwant %+v", got, want)
	}
}

func TestEncodeRejectsNilGradient(t *testing.T) {
	data, err := Encode([]*Gradient{sampleGradient("a"), nil})
	if err == nil {
		t.Fatal("Encode() with a nil gradient succeeded")
	}
	if !strings.Contains(err.Error(), "gradient 1 is nil") {
		t.Errorf("Encode() error = %v", err)
	}
	if data != nil {
		t.Errorf("Encode() returned %d bytes alongside the error", len(data))
	}
}

func TestReaderHasNextCount(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		gradients := make([]*Gradient, n)
		for i := range gradients {
			gradients[i] = sampleGradient("g")
		}
		r := NewReader(mustEncode(t, gradients...))
		if r.HasNext() {
			t.Fatal("HasNext() = true before Setup")
		}
		if err := r.Setup(); err != nil {
			t.Fatal(err)
		}
		calls := 0
		for r.HasNext() {
			if calls == n {
				t.Fatalf("HasNext() still true after %d calls", calls)
			}
			if _, err := r.Next(); err != nil {
				t.Fatal(err)
			}
			calls++
		}
		if calls != n {
			t.Errorf("Next() called %d times, want %d", calls, n)
		}
		if _, err := r.Next(); !errors.Is(err, ErrDone) {
			t.Errorf("Next() after end = %v, want ErrDone", err)
		}
	}
}

func TestReaderNextBeforeSetup(t *testing.T) {
	r := NewReader(mustEncode(t, sampleGradient("g")))
	if _, err := r.Next(); !errors.Is(err, ErrNotSetUp) {
		t.Errorf("Next() = %v, want ErrNotSetUp", err)
	}
}

func TestReaderSetupErrors(t *testing.T) {
	valid := mustEncode(t, sampleGradient("g"))

	notList := append([]byte(nil), valid[:HeaderSize+4]...)
	notList = append(notList, "long"...)
	notList = binary.BigEndian.AppendUint32(notList, 1)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, stream.ErrOutOfBounds},
		{"header only", valid[:HeaderSize], stream.ErrOutOfBounds},
		{"no count", valid[:HeaderSize+8], stream.ErrOutOfBounds},
		{"not a list", notList, ErrNoList},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.data)
			err := r.Setup()
			if !errors.Is(err, tt.want) {
				t.Fatalf("Setup() = %v, want %v", err, tt.want)
			}
			if r.HasNext() {
				t.Error("HasNext() = true after failed Setup")
			}
			if !errors.Is(r.Err(), tt.want) {
				t.Errorf("Err() = %v", r.Err())
			}
		})
	}
}

func TestReaderUnknownTagIsFatal(t *testing.T) {
	// Claim two records, then follow the first with an unknown tag.
	data := fileWithRecords(t, gradientRecord(sampleGradient("ok")))
	binary.BigEndian.PutUint32(data[HeaderSize+8:], 2)
	data = append(data, "XXXX"...)

	r := NewReader(data)
	if err := r.Setup(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Next(); err != nil {
		t.Fatalf("first record: %v", err)
	}
	_, err := r.Next()
	if !errors.Is(err, descriptor.ErrUnknownTag) {
		t.Fatalf("second record: %v, want ErrUnknownTag", err)
	}
	if errors.Is(err, ErrBuild) {
		t.Error("unknown tag reported as a build error")
	}
	if r.HasNext() {
		t.Error("HasNext() = true after fatal error")
	}
	if _, again := r.Next(); !errors.Is(again, descriptor.ErrUnknownTag) {
		t.Errorf("Next() after fatal = %v", again)
	}
}

func TestParseAllReportsBuildErrorPerRecord(t *testing.T) {
	data := fileWithRecords(t,
		gradientRecord(sampleGradient("zero")),
		withoutGrad(),
		gradientRecord(sampleGradient("two")),
	)

	type result struct {
		name  string
		err   error
		index int
		total int
	}
	var results []result
	err := ParseAll(data, func(g *Gradient, err error, index, total int) bool {
		r := result{err: err, index: index, total: total}
		if g != nil {
			r.name = g.Name
		}
		results = append(results, r)
		return true
	})
	if err != nil {
		t.Fatalf("ParseAll() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("callback called %d times, want 3", len(results))
	}
	for i, r := range results {
		if r.index != i || r.total != 3 {
			t.Errorf("result %d: index=%d total=%d", i, r.index, r.total)
		}
	}
	if results[0].name != "zero" || results[0].err != nil {
		t.Errorf("record 0 = %+v", results[0])
	}
	if results[1].name != "" || !errors.Is(results[1].err, ErrBuild) || !errors.Is(results[1].err, ErrMissingKey) {
		t.Errorf("record 1 = %+v, want missing-key build error", results[1])
	}
	if results[2].name != "two" || results[2].err != nil {
		t.Errorf("record 2 = %+v", results[2])
	}
}

func TestParseAllStopsOnFalse(t *testing.T) {
	data := mustEncode(t, sampleGradient("a"), sampleGradient("b"), sampleGradient("c"))
	calls := 0
	err := ParseAll(data, func(*Gradient, error, int, int) bool {
		calls++
		return calls < 2
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("callback called %d times, want 2", calls)
	}
}

func TestReadAll(t *testing.T) {
	got, err := ReadAll(mustEncode(t, sampleGradient("a"), sampleGradient("b")))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "b" {
		t.Errorf("ReadAll() = %+v", got)
	}

	bad := fileWithRecords(t, gradientRecord(sampleGradient("a")), withoutGrad())
	if _, err := ReadAll(bad); !errors.Is(err, ErrBuild) {
		t.Errorf("ReadAll(bad) = %v, want ErrBuild", err)
	}
}

func TestReaderIgnoresHeaderContents(t *testing.T) {
	data := mustEncode(t, sampleGradient("a"))
	copy(data, "JUNK")
	r := NewReader(data)
	if err := r.Setup(); err != nil {
		t.Fatalf("Setup() with foreign magic: %v", err)
	}
	if r.Header().Magic != "JUNK" {
		t.Errorf("Header().Magic = %q", r.Header().Magic)
	}
	if _, err := r.Next(); err != nil {
		t.Fatal(err)
	}
}
