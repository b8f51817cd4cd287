// Package region provides the heap-growth primitive consumed by the allocator.
//
// # Overview
//
// A Region is one contiguous byte range with a movable break, the Go analogue
// of sbrk(2). Sbrk(n) extends the break by n bytes and returns the offset of
// the first new byte. Growth is append-only: the break never moves backward,
// and every successful Sbrk returns exactly the previous break, so the new
// bytes are address-adjacent to everything handed out before.
//
// # Implementations
//
// Memory: slice-backed, grows with append, fails past a fixed limit.
//
//   - Bytes() may move after Sbrk; callers must re-read it
//   - Cheap to create, ideal for tests
//
// Mapped: a virtual-memory reservation made once with mmap(2)
//
//   - Reserve: anonymous private mapping
//   - MapFile: shared file mapping; Close truncates the file to the break,
//     leaving a heap image that heapctl can inspect
//   - Bytes() never moves, so payload slices stay valid across growth
//
// # Usage Example
//
//	r, err := region.Reserve(64 << 20)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	start, err := r.Sbrk(4096)
//	if errors.Is(err, region.ErrExhausted) {
//	    // reservation used up
//	}
//	page := r.Bytes()[start : start+4096]
//
// # Thread Safety
//
// Regions are not thread-safe. They have a single writer: the allocator that
// owns them.
package region
