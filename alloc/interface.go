package alloc

import "github.com/joshuapare/heapkit/dirty"

// DirtyTracker is a type alias for the canonical interface defined in dirty.
type DirtyTracker = dirty.DirtyTracker

// Allocator is the client-facing allocation API.
//
// Implementations:
//   - ImplicitAllocator: boundary-tagged implicit free list, first fit
//
// The trace replayer and the CLI only depend on this interface.
type Allocator interface {
	// Alloc returns an 8-byte aligned block with at least size payload bytes.
	// A zero size returns Null and no error.
	Alloc(size uint32) (Ptr, error)

	// Free releases a block. Freeing Null is a no-op.
	Free(p Ptr) error

	// Realloc resizes a block, moving it if needed. The payload is preserved
	// up to the smaller of the old and new sizes.
	Realloc(p Ptr, size uint32) (Ptr, error)

	// Payload returns the usable bytes of an allocated block.
	Payload(p Ptr) []byte
}

// Compile-time interface check
var _ Allocator = (*ImplicitAllocator)(nil)
