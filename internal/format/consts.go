// Package format houses the boundary-tag block layout shared by the allocator,
// the heap verifier and the heap image tools. It is deliberately free of any
// allocator state: every helper takes the heap bytes and a payload offset, so
// callers can apply it to a live region or to a heap image read from disk.
package format

const (
	// WordSize is the width of a header or footer word in bytes.
	WordSize = 4

	// DoubleWordSize is the alignment unit. Every block size and every payload
	// offset is a multiple of it.
	DoubleWordSize = 8

	// Alignment is the payload alignment guaranteed to clients.
	Alignment = DoubleWordSize

	// AlignmentMask masks the low bits that must be zero in an aligned value.
	AlignmentMask = Alignment - 1

	// Overhead is the per-block bookkeeping cost: one header and one footer.
	Overhead = 2 * WordSize

	// MinBlockSize is the smallest block AdjustSize ever produces
	// (header + footer + one double word of payload).
	MinBlockSize = 2 * DoubleWordSize

	// ChunkSize is the default heap extension granularity.
	ChunkSize = 1 << 12

	// PrologueSize is the size recorded in the prologue header and footer.
	PrologueSize = DoubleWordSize

	// InitialSize is the size of the first region request: padding word,
	// prologue header, prologue footer and epilogue header.
	InitialSize = 4 * WordSize

	// FirstBlockOffset is the payload offset of the first real block relative
	// to the heap base. The allocator cursor is fixed here.
	FirstBlockOffset = InitialSize

	// PrologueHeaderOffset and PrologueFooterOffset locate the prologue tags
	// relative to the heap base.
	PrologueHeaderOffset = WordSize
	PrologueFooterOffset = 2 * WordSize

	// MaxHeapSize bounds the heap so block sizes and offsets always fit a word
	// with room to add two of them.
	MaxHeapSize = 1 << 31

	// allocBit marks a block as allocated in its header/footer word.
	allocBit = 0x1

	// sizeMask strips the flag bits from a header/footer word.
	sizeMask = ^uint32(AlignmentMask)

	// reservedBits are the low tag bits other than the allocated flag. They are
	// always zero in a well-formed tag.
	reservedBits = uint32(AlignmentMask &^ allocBit)
)
