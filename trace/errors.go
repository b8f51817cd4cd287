package trace

import "errors"

var (
	// ErrSyntax indicates a malformed trace file.
	ErrSyntax = errors.New("trace: syntax error")

	// ErrUnknownID indicates an operation on an id with no live block.
	ErrUnknownID = errors.New("trace: unknown block id")

	// ErrOverlap indicates the allocator returned a block overlapping a live block.
	ErrOverlap = errors.New("trace: overlapping blocks")

	// ErrMisaligned indicates the allocator returned a misaligned block.
	ErrMisaligned = errors.New("trace: misaligned block")

	// ErrCorrupted indicates live payload bytes changed behind the client's back.
	ErrCorrupted = errors.New("trace: payload corrupted")
)
