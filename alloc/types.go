package alloc

// Ptr is a block pointer: the offset of a block's payload in the region.
type Ptr uint32

// Null is the null pointer. Offset 0 is never a payload.
const Null Ptr = 0

// BlockInfo describes one block seen by Walk.
type BlockInfo struct {
	Ptr       Ptr
	Size      uint32 // including header and footer
	Allocated bool
}

// PayloadSize returns the usable bytes of the block.
func (b BlockInfo) PayloadSize() uint32 {
	if b.Size < overhead {
		return 0
	}
	return b.Size - overhead
}

// Usage summarizes heap occupancy.
type Usage struct {
	HeapBytes       int64 // base to break
	AllocatedBlocks int
	AllocatedBytes  int64 // block sizes, tags included
	FreeBlocks      int
	FreeBytes       int64
	LargestFree     uint32
}

// Utilization returns the share of the heap held by allocated blocks.
func (u Usage) Utilization() float64 {
	if u.HeapBytes == 0 {
		return 0
	}
	return float64(u.AllocatedBytes) / float64(u.HeapBytes)
}
