package alloc

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// Config tunes heap growth and block splitting.
type Config struct {
	// Name for this configuration (for benchmarking and reports)
	Name string

	// ChunkSize is the minimum number of bytes requested from the region
	// when the heap grows. Must be a positive multiple of 8.
	ChunkSize uint32

	// SplitThreshold is the smallest remainder place carves off as a separate
	// free block. Smaller remainders stay inside the allocated block.
	// Must be a multiple of 8 and at least 8.
	SplitThreshold uint32
}

// Predefined configurations.
var (
	// DefaultConfig grows in 4KB chunks and splits any remainder of two words
	// or more. An 8-byte remainder becomes a free block with no payload.
	DefaultConfig = Config{
		Name:           "Default",
		ChunkSize:      format.ChunkSize,
		SplitThreshold: 2 * format.WordSize,
	}

	// ConfigStrictSplit never leaves a free block smaller than the minimum
	// block size; short remainders are absorbed by the allocation instead.
	ConfigStrictSplit = Config{
		Name:           "StrictSplit",
		ChunkSize:      format.ChunkSize,
		SplitThreshold: format.MinBlockSize,
	}
)

func (c Config) validate() error {
	switch {
	case c.ChunkSize == 0 || c.ChunkSize&format.AlignmentMask != 0:
		return fmt.Errorf("%w: chunk size %d must be a positive multiple of %d",
			ErrBadConfig, c.ChunkSize, format.Alignment)
	case c.ChunkSize > format.MaxHeapSize/2:
		return fmt.Errorf("%w: chunk size %d too large", ErrBadConfig, c.ChunkSize)
	case c.SplitThreshold < format.Overhead || c.SplitThreshold&format.AlignmentMask != 0:
		return fmt.Errorf("%w: split threshold %d must be a multiple of %d and at least %d",
			ErrBadConfig, c.SplitThreshold, format.Alignment, format.Overhead)
	}
	return nil
}
