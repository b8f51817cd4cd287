package verify

import (
	"errors"
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
	Details map[string]any
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// prologuePtr is the payload offset of the prologue block.
const prologuePtr = format.PrologueFooterOffset

// AllInvariants validates all heap invariants in one call.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(data []byte) error {
	if err := Prologue(data); err != nil {
		return err
	}
	if err := Blocks(data); err != nil {
		return err
	}
	return Coalesced(data)
}

// Prologue validates the padding word and the prologue tags.
func Prologue(data []byte) error {
	if len(data) < format.InitialSize {
		return &ValidationError{
			Type:    "Prologue",
			Message: fmt.Sprintf("image too small: %d bytes (need %d)", len(data), format.InitialSize),
			Offset:  -1,
		}
	}
	if pad := format.ReadU32(data, 0); pad != 0 {
		return &ValidationError{
			Type:    "Prologue",
			Message: fmt.Sprintf("padding word not zero: 0x%08X", pad),
			Offset:  0,
		}
	}

	want := format.Pack(format.PrologueSize, true)
	hdr := format.ReadU32(data, format.PrologueHeaderOffset)
	ftr := format.ReadU32(data, format.PrologueFooterOffset)
	if hdr != want {
		return &ValidationError{
			Type:    "Prologue",
			Message: fmt.Sprintf("bad prologue header: 0x%08X (expected 0x%08X)", hdr, want),
			Offset:  format.PrologueHeaderOffset,
		}
	}
	if ftr != want {
		return &ValidationError{
			Type:    "Prologue",
			Message: fmt.Sprintf("bad prologue footer: 0x%08X (expected 0x%08X)", ftr, want),
			Offset:  format.PrologueFooterOffset,
		}
	}
	return nil
}

// Walk decodes every block from the prologue to the epilogue, inclusive, and
// calls fn for each. A decode failure is reported as a *ValidationError; an
// error returned by fn stops the walk and is returned unchanged.
func Walk(data []byte, fn func(Block) error) error {
	if len(data) < format.InitialSize {
		return &ValidationError{
			Type:    "Blocks",
			Message: fmt.Sprintf("image too small: %d bytes", len(data)),
			Offset:  -1,
		}
	}

	bp := prologuePtr
	for {
		blk, next, err := format.DecodeBlock(data, bp)
		if err != nil {
			return &ValidationError{
				Type:    "Blocks",
				Message: err.Error(),
				Offset:  bp,
				Details: map[string]any{"cause": err},
			}
		}
		if err := fn(blk); err != nil {
			return err
		}
		if blk.Size == 0 {
			return nil
		}
		bp = next
	}
}

// Blocks validates every block between the prologue and the epilogue.
func Blocks(data []byte) error {
	var (
		count    int
		epilogue = -1
	)
	err := Walk(data, func(blk format.Block) error {
		if blk.Size == 0 {
			epilogue = blk.Ptr
			if !blk.Allocated {
				return &ValidationError{
					Type:    "Blocks",
					Message: "epilogue not marked allocated",
					Offset:  format.HeaderOff(blk.Ptr),
				}
			}
			return nil
		}
		if !blk.Consistent() {
			return &ValidationError{
				Type: "Blocks",
				Message: fmt.Sprintf("header/footer mismatch: header=0x%08X footer=0x%08X",
					format.Pack(blk.Size, blk.Allocated), blk.Footer),
				Offset: format.HeaderOff(blk.Ptr),
				Details: map[string]any{
					"size":      blk.Size,
					"allocated": blk.Allocated,
					"footer":    blk.Footer,
				},
			}
		}
		count++
		return nil
	})
	if err != nil {
		return err
	}

	if end := format.HeaderOff(epilogue) + format.WordSize; end != len(data) {
		return &ValidationError{
			Type:    "Blocks",
			Message: fmt.Sprintf("epilogue ends at 0x%X but image ends at 0x%X", end, len(data)),
			Offset:  format.HeaderOff(epilogue),
			Details: map[string]any{
				"blocks": count,
				"trail":  len(data) - end,
			},
		}
	}
	return nil
}

// Coalesced validates that no two free blocks are adjacent.
func Coalesced(data []byte) error {
	prevFree := -1
	return Walk(data, func(blk format.Block) error {
		if blk.Size == 0 || blk.Allocated {
			prevFree = -1
			return nil
		}
		if prevFree >= 0 {
			return &ValidationError{
				Type:    "Coalesced",
				Message: fmt.Sprintf("adjacent free blocks at 0x%X and 0x%X", prevFree, blk.Ptr),
				Offset:  format.HeaderOff(blk.Ptr),
				Details: map[string]any{
					"first":  prevFree,
					"second": blk.Ptr,
				},
			}
		}
		prevFree = blk.Ptr
		return nil
	})
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// Block is a decoded block as passed to Walk callbacks.
type Block = format.Block
