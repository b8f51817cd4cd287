package format

// Alignment utilities for the boundary-tag block layout.

// IsAligned reports whether off is a multiple of the alignment unit.
func IsAligned(off int) bool {
	return off&AlignmentMask == 0
}

// WordsToBytes rounds a word count up to an even number of words and returns
// the corresponding byte count, which keeps every extension double-word aligned.
//
// Example:
//
//	WordsToBytes(1)    = 8
//	WordsToBytes(2)    = 8
//	WordsToBytes(1024) = 4096
//	WordsToBytes(1025) = 4104
func WordsToBytes(words uint32) uint32 {
	if words%2 != 0 {
		words++
	}
	return words * WordSize
}

// AdjustSize converts a requested payload size in bytes into a block size:
// requests up to one double word get the minimum block, larger requests are
// rounded up to a double word after adding the header/footer overhead.
// ok is false when the result would not fit in a heap.
//
// Example:
//
//	AdjustSize(1)   = 16
//	AdjustSize(8)   = 16
//	AdjustSize(9)   = 24
//	AdjustSize(100) = 112
func AdjustSize(size uint32) (uint32, bool) {
	if size <= DoubleWordSize {
		return MinBlockSize, true
	}
	if uint64(size)+Overhead+AlignmentMask > MaxHeapSize {
		return 0, false
	}
	return DoubleWordSize * ((size + Overhead + AlignmentMask) / DoubleWordSize), true
}
