package format

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
)

// Block is a decoded view of one boundary-tagged block.
//
// Block layout (little-endian words):
//
//	Offset        Size  Description
//	bp-4          4     Header: size | allocated bit.
//	bp            ...   Payload (only meaningful while allocated).
//	bp+size-8     4     Footer: copy of the header.
//
// Size counts header, payload, padding and footer. The epilogue is a lone
// header with size 0.
type Block struct {
	Ptr       int    // Payload offset
	Size      uint32 // Total block size including header and footer
	Allocated bool
	Footer    uint32 // Raw footer word (zero for the epilogue)
}

// Pack encodes a size and allocated flag into a header/footer word.
func Pack(size uint32, allocated bool) uint32 {
	if allocated {
		return size | allocBit
	}
	return size
}

// SizeOf returns the size field of a header/footer word.
func SizeOf(word uint32) uint32 { return word & sizeMask }

// IsAllocated returns the allocated flag of a header/footer word.
func IsAllocated(word uint32) bool { return word&allocBit != 0 }

// HeaderOff returns the offset of the header of the block whose payload is at bp.
func HeaderOff(bp int) int { return bp - WordSize }

// FooterOff returns the offset of the footer of the block at bp, derived from
// the size currently recorded in its header.
func FooterOff(b []byte, bp int) int {
	return bp + int(BlockSize(b, bp)) - DoubleWordSize
}

// Header returns the raw header word of the block at bp.
func Header(b []byte, bp int) uint32 { return ReadU32(b, HeaderOff(bp)) }

// BlockSize returns the size recorded in the header of the block at bp.
func BlockSize(b []byte, bp int) uint32 { return SizeOf(Header(b, bp)) }

// BlockAllocated returns the allocated flag recorded in the header of the block at bp.
func BlockAllocated(b []byte, bp int) bool { return IsAllocated(Header(b, bp)) }

// NextBlock returns the payload offset of the block following bp.
func NextBlock(b []byte, bp int) int {
	return bp + int(BlockSize(b, bp))
}

// PrevBlock returns the payload offset of the block preceding bp, read from
// the previous block's footer.
func PrevBlock(b []byte, bp int) int {
	return bp - int(SizeOf(ReadU32(b, bp-DoubleWordSize)))
}

// PrevAllocated returns the allocated flag of the previous block's footer.
func PrevAllocated(b []byte, bp int) bool {
	return IsAllocated(ReadU32(b, bp-DoubleWordSize))
}

// PutHeader writes only the header of the block at bp.
func PutHeader(b []byte, bp int, size uint32, allocated bool) {
	PutU32(b, HeaderOff(bp), Pack(size, allocated))
}

// PutBlock writes the header and then the footer of the block at bp. The
// footer position follows from the new size.
func PutBlock(b []byte, bp int, size uint32, allocated bool) {
	w := Pack(size, allocated)
	PutU32(b, HeaderOff(bp), w)
	PutU32(b, bp+int(size)-DoubleWordSize, w)
}

// PutEpilogue writes a zero-size allocated header at off.
func PutEpilogue(b []byte, off int) {
	PutU32(b, off, Pack(0, true))
}

// DecodeBlock decodes the block whose payload starts at bp and returns it
// together with the payload offset of the following block. The epilogue is
// returned with Size 0 and next == bp.
func DecodeBlock(b []byte, bp int) (Block, int, error) {
	if !buf.Has(b, HeaderOff(bp), WordSize) {
		return Block{}, 0, fmt.Errorf("block at 0x%X: %w", bp, ErrTruncated)
	}
	hdr := Header(b, bp)
	if hdr&reservedBits != 0 {
		return Block{}, 0, fmt.Errorf("block at 0x%X (header 0x%08X): %w", bp, hdr, ErrMisaligned)
	}
	size := SizeOf(hdr)
	if size == 0 {
		return Block{Ptr: bp, Allocated: IsAllocated(hdr)}, bp, nil
	}
	if !IsAligned(bp) {
		return Block{}, 0, fmt.Errorf("block at 0x%X (size %d): %w", bp, size, ErrMisaligned)
	}
	if size < Overhead {
		return Block{}, 0, fmt.Errorf("block at 0x%X: declared size too small (%d)", bp, size)
	}
	end, ok := buf.AddOverflowSafe(bp, int(size))
	if !ok || !buf.Has(b, end-DoubleWordSize, WordSize) {
		return Block{}, 0, fmt.Errorf("block at 0x%X (size %d): %w", bp, size, ErrTruncated)
	}
	ftr := ReadU32(b, end-DoubleWordSize)
	if ftr&reservedBits != 0 {
		return Block{}, 0, fmt.Errorf("block at 0x%X (footer 0x%08X): %w", bp, ftr, ErrMisaligned)
	}
	return Block{
		Ptr:       bp,
		Size:      size,
		Allocated: IsAllocated(hdr),
		Footer:    ftr,
	}, end, nil
}

// Consistent reports whether the block's footer matches its header.
func (blk Block) Consistent() bool {
	return blk.Size == 0 || blk.Footer == Pack(blk.Size, blk.Allocated)
}

// PayloadSize returns the usable payload bytes of the block.
func (blk Block) PayloadSize() uint32 {
	if blk.Size < Overhead {
		return 0
	}
	return blk.Size - Overhead
}
