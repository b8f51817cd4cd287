package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a block.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrMisaligned indicates a payload offset or block size off the alignment unit.
	ErrMisaligned = errors.New("format: misaligned block")
)
