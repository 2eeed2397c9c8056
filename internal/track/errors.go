package track

import "errors"

// Programmer-error conditions: these indicate a bug in the calling driver,
// not a transient condition, and are never retried.
var (
	// ErrRunOpen is returned by StartRun while another run is still open.
	ErrRunOpen = errors.New("track: a run is already open")
	// ErrNoOpenRun is returned when reporting or completing without an open run.
	ErrNoOpenRun = errors.New("track: no run is open")
	// ErrEmptyTestID is returned for an outcome with an empty test identity.
	ErrEmptyTestID = errors.New("track: empty test id")
	// ErrBadTotals is returned when reported counts exceed the total.
	ErrBadTotals = errors.New("track: passed+failed+skipped exceeds total tests")
	// ErrClosed is returned for any call after Close.
	ErrClosed = errors.New("track: tracker is closed")
)
