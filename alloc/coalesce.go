package alloc

import "github.com/joshuapare/heapkit/internal/format"

// coalesce merges the free block at bp with any free neighbors and returns
// the payload offset of the merged block. The prologue and epilogue are
// allocated, so neither neighbor lookup leaves the heap.
//
//	prev  next   result
//	alloc alloc  bp unchanged
//	alloc free   bp absorbs next
//	free  alloc  prev absorbs bp
//	free  free   prev absorbs bp and next
func (a *ImplicitAllocator) coalesce(bp int) int {
	data := a.data()
	prevAlloc := format.PrevAllocated(data, bp)
	next := format.NextBlock(data, bp)
	nextAlloc := format.BlockAllocated(data, next)
	size := format.BlockSize(data, bp)

	switch {
	case prevAlloc && nextAlloc:
		return bp

	case prevAlloc && !nextAlloc:
		size += format.BlockSize(data, next)
		a.putBlock(bp, size, false)
		a.stats.CoalesceNext++

	case !prevAlloc && nextAlloc:
		prev := format.PrevBlock(data, bp)
		size += format.BlockSize(data, prev)
		a.putBlock(prev, size, false)
		bp = prev
		a.stats.CoalescePrev++

	default:
		prev := format.PrevBlock(data, bp)
		size += format.BlockSize(data, prev) + format.BlockSize(data, next)
		a.putBlock(prev, size, false)
		bp = prev
		a.stats.CoalesceBoth++
	}
	return bp
}
