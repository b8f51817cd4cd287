package alloc

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Stats holds allocator counters.
type Stats struct {
	ExtendCalls int   // Heap extensions, including the one in Init
	ExtendBytes int64 // Bytes added by extensions

	AllocCalls    int // Total Alloc() calls
	AllocFastPath int // Satisfied by the first-fit scan
	AllocSlowPath int // Required an extension
	AllocFailures int // Returned ErrNoSpace

	FreeCalls int // Free() calls that released a block

	ReallocCalls       int // Realloc() calls on a live block with non-zero size
	ReallocSame        int // Block size unchanged
	ReallocShrink      int // Shrunk in place
	ReallocGrowInPlace int // Grew into a free follower
	ReallocMoved       int // Copied to a new block

	Splits       int // Remainders carved off by place
	CoalesceNext int // Merged with the following block
	CoalescePrev int // Merged into the preceding block
	CoalesceBoth int // Merged with both neighbors

	FitScans int64 // Blocks visited by first-fit searches
}

// Stats returns a snapshot of the allocator counters.
func (a *ImplicitAllocator) Stats() Stats {
	return a.stats
}

// PrintStats writes allocator statistics and current heap usage to w.
func (a *ImplicitAllocator) PrintStats(w io.Writer) {
	p := message.NewPrinter(language.English)
	s := a.stats

	p.Fprintf(w, "\n=== ALLOCATOR STATISTICS (%s) ===\n", a.cfg.Name)
	p.Fprintf(w, "Extend calls:       %d (%d bytes added)\n", s.ExtendCalls, s.ExtendBytes)
	p.Fprintf(w, "Alloc calls:        %d (fast: %d, slow: %d, failed: %d)\n",
		s.AllocCalls, s.AllocFastPath, s.AllocSlowPath, s.AllocFailures)
	p.Fprintf(w, "Free calls:         %d\n", s.FreeCalls)
	p.Fprintf(w, "Realloc calls:      %d (same: %d, shrink: %d, grow in place: %d, moved: %d)\n",
		s.ReallocCalls, s.ReallocSame, s.ReallocShrink, s.ReallocGrowInPlace, s.ReallocMoved)
	p.Fprintf(w, "Block splits:       %d\n", s.Splits)
	p.Fprintf(w, "Coalesce:           next %d, prev %d, both %d\n",
		s.CoalesceNext, s.CoalescePrev, s.CoalesceBoth)
	if s.AllocCalls > 0 {
		p.Fprintf(w, "Fit scan length:    %.1f blocks/alloc\n", float64(s.FitScans)/float64(s.AllocCalls))
	}

	if u, err := a.Usage(); err == nil {
		p.Fprintf(w, "\nHeap:\n")
		p.Fprintf(w, "  Size:             %d bytes\n", u.HeapBytes)
		p.Fprintf(w, "  Allocated:        %d blocks, %d bytes\n", u.AllocatedBlocks, u.AllocatedBytes)
		p.Fprintf(w, "  Free:             %d blocks, %d bytes (largest %d)\n",
			u.FreeBlocks, u.FreeBytes, u.LargestFree)
		p.Fprintf(w, "  Utilization:      %.1f%%\n", 100*u.Utilization())
	}
	p.Fprintf(w, "============================\n\n")
}

// debugLogf prints debug messages if debugAlloc is enabled.
func debugLogf(format string, args ...any) {
	if debugAlloc {
		fmt.Fprintf(os.Stderr, "[ALLOC] "+format+"\n", args...)
	}
}

// dumpHeap lists every block to stderr when debugAlloc is enabled.
func (a *ImplicitAllocator) dumpHeap(need uint32) {
	if !debugAlloc {
		return
	}
	fmt.Fprintf(os.Stderr, "\n=== HEAP DUMP (need=%d) ===\n", need)
	_ = a.Walk(func(b BlockInfo) error {
		state := "free"
		if b.Allocated {
			state = "used"
		}
		fmt.Fprintf(os.Stderr, "  0x%08X %8d %s\n", b.Ptr, b.Size, state)
		return nil
	})
	if err := a.Check(); err != nil {
		debugLogf("heap check failed: %v", err)
	}
	fmt.Fprintf(os.Stderr, "===========================\n\n")
}
