// Package dirty tracks the byte ranges of a heap region that the allocator
// has rewritten and flushes them to the region's backing store.
//
// # Overview
//
// Every boundary tag the allocator writes (headers, footers, the epilogue)
// is reported through Add. Ranges are recorded as-is and only page-aligned,
// sorted and merged when Flush runs, so Add stays a slice append.
//
// # Usage
//
//	r, _ := region.MapFile("heap.img", 1<<20)
//	tracker := dirty.NewTracker(r)
//	a, _ := alloc.New(r, tracker, nil)
//	_ = a.Init()
//	p, _ := a.Alloc(100)
//	_ = tracker.Flush(ctx)
//
// # Range Coalescing
//
// Ranges are widened to 4KB page boundaries and merged when they overlap or
// touch:
//
//	Add(100, 8), Add(4090, 8), Add(20480, 4) → [0x0-0x2000, 0x5000-0x6000]
//
// Payload bytes written by clients are not tracked; a client that needs its
// data durable adds those ranges itself.
//
// # Thread Safety
//
// Tracker instances are not thread-safe.
package dirty
