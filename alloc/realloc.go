package alloc

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// Realloc implements Allocator.
//
//   - Null pointer: same as Alloc(size)
//   - zero size: same as Free(p), returns Null
//   - same block size: p unchanged
//   - smaller: shrinks in place; a split-off remainder is merged with a free follower
//   - larger: absorbs a free follower if that is enough, otherwise moves
//
// Moving copies the old payload and frees the old block. If the move fails
// the original block is left allocated and untouched.
func (a *ImplicitAllocator) Realloc(p Ptr, size uint32) (Ptr, error) {
	if err := a.ready(); err != nil {
		return Null, err
	}
	if p == Null {
		return a.Alloc(size)
	}
	if size == 0 {
		return Null, a.Free(p)
	}

	bp, err := a.block(p)
	if err != nil {
		return Null, err
	}
	a.stats.ReallocCalls++

	asize, ok := format.AdjustSize(size)
	if !ok {
		return Null, fmt.Errorf("%w: request of %d bytes exceeds the heap limit", ErrNoSpace, size)
	}

	data := a.data()
	csize := format.BlockSize(data, bp)

	switch {
	case asize == csize:
		a.stats.ReallocSame++
		return p, nil

	case asize < csize:
		a.stats.ReallocShrink++
		if rem := a.place(bp, asize); rem != 0 {
			a.coalesce(rem)
		}
		return p, nil
	}

	next := format.NextBlock(data, bp)
	if !format.BlockAllocated(data, next) {
		if sum := csize + format.BlockSize(data, next); sum >= asize {
			// The follower's tags become interior; place rewrites the footer.
			a.putHeader(bp, sum, true)
			a.place(bp, asize)
			a.stats.ReallocGrowInPlace++
			return p, nil
		}
	}

	nbp := a.findFit(asize)
	if nbp == 0 {
		nbp, err = a.extendHeap(max(asize, a.cfg.ChunkSize) / wsize)
		if err != nil {
			return Null, fmt.Errorf("%w: %w", ErrNoSpace, err)
		}
	}
	a.place(nbp, asize)

	data = a.data()
	n := int(csize) - overhead
	copy(data[nbp:nbp+n], data[bp:bp+n])
	a.release(bp)
	a.stats.ReallocMoved++
	return Ptr(nbp), nil
}
