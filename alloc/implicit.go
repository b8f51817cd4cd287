package alloc

import (
	"fmt"
	"os"

	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/region"
)

// Debug flag - set to true to enable verbose heap dumps (compile-time toggle).
const debugAlloc = false

// Runtime flag for allocation logging - controlled by HEAPKIT_LOG_ALLOC env var.
var logAlloc = os.Getenv("HEAPKIT_LOG_ALLOC") != ""

const (
	wsize    = format.WordSize
	overhead = format.Overhead
)

type initState uint8

const (
	stateNew initState = iota
	stateReady
	stateFailed
)

// ImplicitAllocator manages a single heap laid out as a sequence of
// boundary-tagged blocks between a prologue and an epilogue.
//   - every block carries its size and allocated bit in a header and a footer
//   - free blocks are found by scanning all blocks from the first (first fit)
//   - freed and newly grown blocks are merged with free neighbors immediately
//
// NOT thread-safe.
type ImplicitAllocator struct {
	r   region.Region
	dt  DirtyTracker // nil disables tracking
	cfg Config

	state initState
	base  int // offset of the padding word
	listp int // payload offset of the first real block
	end   int // break; the epilogue header sits at end-4

	// Statistics for testing and instrumentation
	stats Stats

	// Test hook: called with the byte count before every heap extension (nil in production)
	onGrow func(uint32)
}

// New creates an allocator over r. The heap is laid out by Init.
// dt may be nil; cfg nil selects DefaultConfig.
func New(r region.Region, dt DirtyTracker, cfg *Config) (*ImplicitAllocator, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil region", ErrInitFail)
	}
	c := DefaultConfig
	if cfg != nil {
		c = *cfg
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &ImplicitAllocator{r: r, dt: dt, cfg: c}, nil
}

// Init lays out the padding word, the prologue and the epilogue, then grows
// the heap by one chunk. The heap base is wherever the region's break is.
func (a *ImplicitAllocator) Init() error {
	switch a.state {
	case stateReady:
		return ErrAlreadyInitialized
	case stateFailed:
		return fmt.Errorf("%w: previous attempt failed", ErrInitFail)
	}

	if err := a.layout(); err != nil {
		a.state = stateFailed
		return err
	}
	a.state = stateReady
	return nil
}

func (a *ImplicitAllocator) layout() error {
	base, err := a.r.Sbrk(format.InitialSize)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInitFail, err)
	}
	if !format.IsAligned(base) {
		return fmt.Errorf("%w: heap base 0x%X not %d-byte aligned", ErrInitFail, base, format.Alignment)
	}
	if base+format.InitialSize > format.MaxHeapSize {
		return fmt.Errorf("%w: heap base 0x%X beyond addressable range", ErrInitFail, base)
	}

	a.base = base
	a.end = base + format.InitialSize
	a.putWord(base, 0)
	a.putWord(base+format.PrologueHeaderOffset, format.Pack(format.PrologueSize, true))
	a.putWord(base+format.PrologueFooterOffset, format.Pack(format.PrologueSize, true))
	a.putWord(a.end-wsize, format.Pack(0, true))
	a.listp = base + format.FirstBlockOffset

	if _, err := a.extendHeap(a.cfg.ChunkSize / wsize); err != nil {
		return fmt.Errorf("%w: %w", ErrInitFail, err)
	}
	return nil
}

// Alloc implements Allocator.
//
// The request is rounded to a block size, the heap is scanned first fit, and
// on a miss the heap grows by at least one chunk. Errors wrap ErrNoSpace.
func (a *ImplicitAllocator) Alloc(size uint32) (Ptr, error) {
	if err := a.ready(); err != nil {
		return Null, err
	}
	a.stats.AllocCalls++

	if debugAlloc && a.stats.AllocCalls%25000 == 0 {
		a.PrintStats(os.Stderr)
	}

	if size == 0 {
		return Null, nil
	}
	asize, ok := format.AdjustSize(size)
	if !ok {
		a.stats.AllocFailures++
		return Null, fmt.Errorf("%w: request of %d bytes exceeds the heap limit", ErrNoSpace, size)
	}

	if bp := a.findFit(asize); bp != 0 {
		a.stats.AllocFastPath++
		a.place(bp, asize)
		return Ptr(bp), nil
	}

	bp, err := a.extendHeap(max(asize, a.cfg.ChunkSize) / wsize)
	if err != nil {
		a.stats.AllocFailures++
		if logAlloc {
			fmt.Fprintf(os.Stderr, "[ALLOC] FAILED: request=%d block=%d heap=%d: %v\n",
				size, asize, a.end-a.base, err)
		}
		a.dumpHeap(asize)
		return Null, fmt.Errorf("%w: %w", ErrNoSpace, err)
	}
	a.stats.AllocSlowPath++
	a.place(bp, asize)
	return Ptr(bp), nil
}

// Free implements Allocator. The block is marked free and merged with free
// neighbors. Pointers outside the heap or not 8-byte aligned return ErrBadRef.
func (a *ImplicitAllocator) Free(p Ptr) error {
	if err := a.ready(); err != nil {
		return err
	}
	if p == Null {
		return nil
	}
	bp, err := a.block(p)
	if err != nil {
		return err
	}
	a.stats.FreeCalls++
	a.release(bp)
	return nil
}

// Payload implements Allocator. It returns nil for Null and bad pointers.
// The slice aliases the region: with a slice-backed region it is invalidated
// by the next heap extension.
func (a *ImplicitAllocator) Payload(p Ptr) []byte {
	if a.state != stateReady || p == Null {
		return nil
	}
	bp, err := a.block(p)
	if err != nil {
		return nil
	}
	end := bp + int(format.BlockSize(a.data(), bp)) - overhead
	return a.data()[bp:end:end]
}

// UsableSize returns the payload capacity of an allocated block, or 0 for
// Null and bad pointers.
func (a *ImplicitAllocator) UsableSize(p Ptr) uint32 {
	return uint32(len(a.Payload(p)))
}

// Config returns the active configuration.
func (a *ImplicitAllocator) Config() Config { return a.cfg }

// findFit scans from the first block to the epilogue and returns the first
// free block of at least asize bytes, or 0.
func (a *ImplicitAllocator) findFit(asize uint32) int {
	data := a.data()
	for bp := a.listp; ; bp = format.NextBlock(data, bp) {
		hdr := format.Header(data, bp)
		size := format.SizeOf(hdr)
		if size == 0 {
			return 0
		}
		a.stats.FitScans++
		if !format.IsAllocated(hdr) && asize <= size {
			return bp
		}
	}
}

// place marks the free (or shrinking) block at bp allocated with asize bytes,
// splitting off the remainder when it reaches the split threshold. It returns
// the remainder's payload offset, or 0 if the block was not split.
func (a *ImplicitAllocator) place(bp int, asize uint32) int {
	csize := format.BlockSize(a.data(), bp)
	rem := csize - asize
	if rem < a.cfg.SplitThreshold {
		a.putBlock(bp, csize, true)
		return 0
	}
	a.putBlock(bp, asize, true)
	next := bp + int(asize)
	a.putBlock(next, rem, false)
	a.stats.Splits++
	return next
}

// release marks the block at bp free and coalesces it.
func (a *ImplicitAllocator) release(bp int) int {
	a.putBlock(bp, format.BlockSize(a.data(), bp), false)
	return a.coalesce(bp)
}

// block validates a client pointer and returns its payload offset.
// Only cheap checks are made: alignment, bounds, and an allocated header.
func (a *ImplicitAllocator) block(p Ptr) (int, error) {
	bp := int(p)
	if !format.IsAligned(bp) || bp < a.listp || bp >= a.end {
		return 0, fmt.Errorf("%w: 0x%X outside heap [0x%X, 0x%X)", ErrBadRef, bp, a.listp, a.end)
	}
	hdr := format.Header(a.data(), bp)
	size := format.SizeOf(hdr)
	if size < overhead || bp+int(size) > a.end {
		return 0, fmt.Errorf("%w: 0x%X has corrupt header 0x%08X", ErrBadRef, bp, hdr)
	}
	if !format.IsAllocated(hdr) {
		return 0, fmt.Errorf("%w: 0x%X is not allocated", ErrBadRef, bp)
	}
	return bp, nil
}

func (a *ImplicitAllocator) ready() error {
	if a.state != stateReady {
		return ErrNotInitialized
	}
	return nil
}

// data returns the region bytes. Re-read after every extension: a
// slice-backed region may move.
func (a *ImplicitAllocator) data() []byte { return a.r.Bytes() }
