package alloc

import (
	"fmt"
	"os"

	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/verify"
)

// extendHeap grows the heap by words (rounded up to an even count) and returns
// the payload offset of the resulting free block after coalescing with a free
// last block. The new block's header replaces the old epilogue.
//
// The region must hand out contiguous space. If Sbrk returns anything other
// than the current break, the bytes it reserved are abandoned and every later
// extension fails the same check: the allocator keeps serving requests from
// the existing heap but can no longer grow.
func (a *ImplicitAllocator) extendHeap(words uint32) (int, error) {
	size := format.WordsToBytes(words)
	if uint64(a.end)+uint64(size) > format.MaxHeapSize {
		return 0, fmt.Errorf("%w: %d more bytes would exceed the %d byte heap limit",
			ErrGrowFail, size, uint64(format.MaxHeapSize))
	}

	if a.onGrow != nil {
		a.onGrow(size)
	}

	bp, err := a.r.Sbrk(int(size))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrGrowFail, err)
	}
	if bp != a.end {
		return 0, fmt.Errorf("%w: region returned 0x%X, expected contiguous break 0x%X",
			ErrGrowFail, bp, a.end)
	}
	a.end += int(size)

	a.putBlock(bp, size, false)
	a.putWord(a.end-wsize, format.Pack(0, true))

	a.stats.ExtendCalls++
	a.stats.ExtendBytes += int64(size)
	if logAlloc {
		fmt.Fprintf(os.Stderr, "[EXTEND] #%d: +%d bytes at 0x%X | heap=%d bytes\n",
			a.stats.ExtendCalls, size, bp, a.end-a.base)
	}

	return a.coalesce(bp), nil
}

// putBlock writes matching header and footer tags and marks both dirty.
func (a *ImplicitAllocator) putBlock(bp int, size uint32, allocated bool) {
	format.PutBlock(a.data(), bp, size, allocated)
	a.mark(format.HeaderOff(bp), wsize)
	a.mark(bp+int(size)-format.DoubleWordSize, wsize)
}

// putHeader rewrites only the header of the block at bp.
func (a *ImplicitAllocator) putHeader(bp int, size uint32, allocated bool) {
	format.PutHeader(a.data(), bp, size, allocated)
	a.mark(format.HeaderOff(bp), wsize)
}

func (a *ImplicitAllocator) putWord(off int, w uint32) {
	format.PutU32(a.data(), off, w)
	a.mark(off, wsize)
}

func (a *ImplicitAllocator) mark(off, length int) {
	if a.dt != nil {
		a.dt.Add(off, length)
	}
}

// Image returns the heap from its base to the break. Offsets in the image are
// relative to the base; the slice aliases the region.
func (a *ImplicitAllocator) Image() []byte {
	if a.state != stateReady {
		return nil
	}
	return a.data()[a.base:a.end]
}

// Base returns the region offset of the heap base.
func (a *ImplicitAllocator) Base() int { return a.base }

// Walk calls fn for every block between the prologue and the epilogue, in
// address order. Returning an error from fn stops the walk.
func (a *ImplicitAllocator) Walk(fn func(BlockInfo) error) error {
	if err := a.ready(); err != nil {
		return err
	}
	return verify.Walk(a.Image(), func(blk verify.Block) error {
		if blk.Ptr < format.FirstBlockOffset || blk.Size == 0 {
			return nil
		}
		return fn(BlockInfo{
			Ptr:       Ptr(a.base + blk.Ptr),
			Size:      blk.Size,
			Allocated: blk.Allocated,
		})
	})
}

// Usage walks the heap and summarizes occupancy.
func (a *ImplicitAllocator) Usage() (Usage, error) {
	var u Usage
	err := a.Walk(func(b BlockInfo) error {
		if b.Allocated {
			u.AllocatedBlocks++
			u.AllocatedBytes += int64(b.Size)
			return nil
		}
		u.FreeBlocks++
		u.FreeBytes += int64(b.Size)
		u.LargestFree = max(u.LargestFree, b.Size)
		return nil
	})
	if err != nil {
		return Usage{}, err
	}
	u.HeapBytes = int64(a.end - a.base)
	return u, nil
}

// Check validates every heap invariant. It returns a *verify.ValidationError
// describing the first violation found.
func (a *ImplicitAllocator) Check() error {
	if err := a.ready(); err != nil {
		return err
	}
	return verify.AllInvariants(a.Image())
}
