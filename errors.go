package grd

import "errors"

// Build errors. They concern one gradient record; the records around it
// are unaffected.
var (
	// ErrBuild wraps every per-record build failure reported by Reader.Next
	// and ParseAll.
	ErrBuild = errors.New("grd: cannot build gradient")

	// ErrMissingKey is returned when an expected descriptor key is absent.
	ErrMissingKey = errors.New("grd: missing key")

	// ErrBadValue is returned when a descriptor key holds an unexpected type.
	ErrBadValue = errors.New("grd: bad value")

	// ErrUnsupportedColor is returned for stop colors that are neither RGB nor HSB.
	ErrUnsupportedColor = errors.New("grd: unsupported color model")
)

// Structural errors. After one of these the reader is unusable.
var (
	// ErrNotSetUp is returned by Reader.Next before a successful Setup.
	ErrNotSetUp = errors.New("grd: reader not set up")

	// ErrNoList is returned when the outer value of the file is not a list.
	ErrNoList = errors.New("grd: outer value is not a list")

	// ErrDone is returned by Reader.Next when every record has been read.
	ErrDone = errors.New("grd: no more records")
)
