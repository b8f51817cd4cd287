// Package verify checks the structural invariants of a boundary-tagged heap
// image.
//
// # Overview
//
// A heap image is the byte range from the heap base to the break. Offsets in
// an image are relative to the heap base, so an image saved to disk and one
// taken from a live allocator are checked the same way. The layout is:
//
//	0x00  padding word (zero)
//	0x04  prologue header  (8 | allocated)
//	0x08  prologue footer  (8 | allocated)
//	0x0C  first block header ...
//	...
//	len-4 epilogue header  (0 | allocated)
//
// Validation categories:
//   - Prologue: image length and the prologue tags
//   - Blocks: alignment, minimum size, header/footer agreement, bounds, the
//     epilogue sitting exactly at the end of the image
//   - Coalesced: no two free blocks are adjacent
//
// # Quick Start
//
//	data, _ := os.ReadFile("heap.img")
//	if err := verify.AllInvariants(data); err != nil {
//	    fmt.Printf("Validation failed: %v\n", err)
//	}
//
// Coalesced only holds between operations; it is the property free and heap
// extension restore, so tests call it after each step.
//
// # ValidationError
//
// All checks return *ValidationError on failure:
//
//	var verr *verify.ValidationError
//	if errors.As(err, &verr) {
//	    fmt.Printf("%s at 0x%X: %s\n", verr.Type, verr.Offset, verr.Message)
//	}
//
// # Walking Blocks
//
// Walk decodes every block from the prologue to the epilogue and is what the
// allocator's Walk and the heapctl dump command are built on.
package verify
