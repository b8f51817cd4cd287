package region

import "errors"

var (
	// ErrExhausted indicates the region cannot grow by the requested amount.
	ErrExhausted = errors.New("region: out of memory")

	// ErrBadIncrement indicates a negative Sbrk increment; the break never shrinks.
	ErrBadIncrement = errors.New("region: negative increment")

	// ErrClosed indicates use of a region after Close.
	ErrClosed = errors.New("region: closed")
)
