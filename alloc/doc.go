// Package alloc implements a boundary-tagged heap allocator over a growable
// byte region.
//
// # Overview
//
// The heap is one contiguous run of blocks obtained from a region.Region via
// Sbrk. Every block carries a one-word header and a one-word footer holding
// its size and an allocated bit, so both neighbors of any block can be found
// in constant time. There is no separate free list: allocation scans every
// block from the start of the heap and takes the first free block that fits.
//
// # Heap Layout
//
//	base+0   padding word
//	base+4   prologue header  (8 | allocated)
//	base+8   prologue footer  (8 | allocated)
//	base+12  first block header
//	base+16  first block payload    ← first-fit scans start here
//	...
//	break-4  epilogue header  (0 | allocated)
//
// The prologue and epilogue are permanently allocated, which lets coalescing
// look at both neighbors without bounds checks.
//
// # Block Sizes
//
// A request of n bytes becomes a block of 16 bytes when n ≤ 8, otherwise
// n + 8 rounded up to a multiple of 8. Payloads are 8-byte aligned.
//
//	request   block   payload capacity
//	1..8      16      8
//	9..16     24      16
//	100       112     104
//
// # Usage Example
//
//	r := region.NewMemory(64 << 20)
//	a, err := alloc.New(r, nil, nil)
//	if err != nil {
//	    return err
//	}
//	if err := a.Init(); err != nil {
//	    return err
//	}
//
//	p, err := a.Alloc(100)
//	if err != nil {
//	    return err
//	}
//	copy(a.Payload(p), data)
//
//	p, err = a.Realloc(p, 400)
//	...
//	err = a.Free(p)
//
// # Growth
//
// When no free block fits, the heap grows by max(block size, ChunkSize)
// bytes. The new space becomes a free block that is merged with a free last
// block before the allocation is placed in it. The heap never shrinks.
//
// Growth requires Sbrk to return the current break. A region that returns
// any other offset leaves the allocator unable to grow for the rest of its
// life; allocations that fit in the existing heap still succeed.
//
// # Splitting
//
// Placing a request in a larger free block splits off the remainder as a new
// free block when the remainder is at least Config.SplitThreshold bytes.
// DefaultConfig uses 8, so an 8-byte remainder becomes a payload-less free
// block that only becomes useful once a neighbor is freed. ConfigStrictSplit
// uses 16.
//
// # Dirty Tracking
//
// Every tag written is reported to the DirtyTracker passed to New, so a
// file-backed region can be flushed with dirty.Tracker.Flush.
//
// # Logging
//
// Set HEAPKIT_LOG_ALLOC=1 to log heap extensions ([EXTEND]) and allocation
// failures ([ALLOC]) to stderr.
//
// # Thread Safety
//
// ImplicitAllocator is not thread-safe. Callers must synchronize externally.
package alloc
