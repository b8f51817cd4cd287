package trace

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/joshuapare/heapkit/alloc"
)

// alignment is the payload alignment every allocator must honor.
const alignment = 8

// Result summarizes a replay.
type Result struct {
	Name     string
	Ops      int // operations executed
	Allocs   int
	Reallocs int
	Frees    int

	LivePayload int64 // requested bytes still live at the end
	PeakPayload int64 // maximum of requested live bytes over the run

	Failures []Failure // operations the allocator refused
}

// Failure is an operation that returned an error without breaking a check.
type Failure struct {
	Op  Op
	Err error
}

func (f Failure) Error() string { return fmt.Sprintf("%s: %v", f.Op, f.Err) }

// OK reports whether every operation succeeded.
func (r *Result) OK() bool { return len(r.Failures) == 0 }

type liveBlock struct {
	p    alloc.Ptr
	size uint32
}

// replayer holds the state of one replay.
type replayer struct {
	a     alloc.Allocator
	live  map[int]liveBlock
	spans []span // live payload ranges sorted by start
	res   *Result
}

type span struct{ start, end uint64 }

func byStart(e span, start uint64) int { return cmp.Compare(e.start, start) }

// Replay executes tr against a. Checks that fail stop the replay and are
// returned together with the partial Result; allocator errors are recorded
// as Failures.
func Replay(ctx context.Context, a alloc.Allocator, tr *Trace) (*Result, error) {
	rp := &replayer{
		a:    a,
		live: make(map[int]liveBlock, tr.NumIDs),
		res:  &Result{Name: tr.Name},
	}

	for _, op := range tr.Ops {
		if err := ctx.Err(); err != nil {
			return rp.res, err
		}
		if err := rp.step(op); err != nil {
			return rp.res, fmt.Errorf("%s: %w", op, err)
		}
		rp.res.Ops++
	}
	return rp.res, nil
}

func (rp *replayer) step(op Op) error {
	switch op.Kind {
	case OpAlloc:
		rp.res.Allocs++
		if _, ok := rp.live[op.ID]; ok {
			rp.fail(op, fmt.Errorf("%w: id %d is already live", ErrSyntax, op.ID))
			return nil
		}
		p, err := rp.a.Alloc(op.Size)
		if err != nil {
			rp.fail(op, err)
			return nil
		}
		return rp.bind(op, p, 0)

	case OpRealloc:
		rp.res.Reallocs++
		old, ok := rp.live[op.ID]
		if !ok {
			rp.fail(op, fmt.Errorf("%w: %d", ErrUnknownID, op.ID))
			return nil
		}
		if err := rp.checkPattern(op.ID, old); err != nil {
			return err
		}
		p, err := rp.a.Realloc(old.p, op.Size)
		if err != nil {
			rp.fail(op, err)
			return nil
		}
		rp.unbind(op.ID)
		if op.Size == 0 {
			return nil
		}
		// The surviving prefix must have moved with the block.
		keep := min(old.size, op.Size)
		if err := rp.checkPattern(op.ID, liveBlock{p: p, size: keep}); err != nil {
			return err
		}
		return rp.bind(op, p, keep)

	case OpFree:
		rp.res.Frees++
		old, ok := rp.live[op.ID]
		if !ok {
			rp.fail(op, fmt.Errorf("%w: %d", ErrUnknownID, op.ID))
			return nil
		}
		if err := rp.checkPattern(op.ID, old); err != nil {
			return err
		}
		if err := rp.a.Free(old.p); err != nil {
			rp.fail(op, err)
			return nil
		}
		rp.unbind(op.ID)
		return nil
	}
	return fmt.Errorf("%w: unknown operation %q", ErrSyntax, byte(op.Kind))
}

// bind checks a freshly returned block, records it live and writes the id
// pattern from byte keep onward.
func (rp *replayer) bind(op Op, p alloc.Ptr, keep uint32) error {
	if op.Size == 0 {
		// Zero-byte requests yield Null and bind nothing.
		rp.live[op.ID] = liveBlock{p: p}
		return nil
	}
	if p == alloc.Null {
		return fmt.Errorf("%w: null block for %d bytes", ErrCorrupted, op.Size)
	}
	if p%alignment != 0 {
		return fmt.Errorf("%w: 0x%X", ErrMisaligned, p)
	}
	payload := rp.a.Payload(p)
	if uint32(len(payload)) < op.Size {
		return fmt.Errorf("%w: block 0x%X holds %d bytes, %d requested", ErrCorrupted, p, len(payload), op.Size)
	}

	s := span{start: uint64(p), end: uint64(p) + uint64(op.Size)}
	i, _ := slices.BinarySearchFunc(rp.spans, s.start, byStart)
	if i > 0 && rp.spans[i-1].end > s.start {
		return fmt.Errorf("%w: [0x%X, 0x%X) overlaps [0x%X, 0x%X)",
			ErrOverlap, s.start, s.end, rp.spans[i-1].start, rp.spans[i-1].end)
	}
	if i < len(rp.spans) && rp.spans[i].start < s.end {
		return fmt.Errorf("%w: [0x%X, 0x%X) overlaps [0x%X, 0x%X)",
			ErrOverlap, s.start, s.end, rp.spans[i].start, rp.spans[i].end)
	}
	rp.spans = slices.Insert(rp.spans, i, s)

	for j := keep; j < op.Size; j++ {
		payload[j] = pattern(op.ID, j)
	}

	rp.live[op.ID] = liveBlock{p: p, size: op.Size}
	rp.res.LivePayload += int64(op.Size)
	rp.res.PeakPayload = max(rp.res.PeakPayload, rp.res.LivePayload)
	return nil
}

// unbind forgets the block bound to id.
func (rp *replayer) unbind(id int) {
	b := rp.live[id]
	delete(rp.live, id)
	if b.size == 0 {
		return
	}
	rp.res.LivePayload -= int64(b.size)
	if i, ok := slices.BinarySearchFunc(rp.spans, uint64(b.p), byStart); ok {
		rp.spans = slices.Delete(rp.spans, i, i+1)
	}
}

func (rp *replayer) checkPattern(id int, b liveBlock) error {
	if b.size == 0 {
		return nil
	}
	payload := rp.a.Payload(b.p)
	if uint32(len(payload)) < b.size {
		return fmt.Errorf("%w: block 0x%X for id %d shrank to %d bytes", ErrCorrupted, b.p, id, len(payload))
	}
	for j := range b.size {
		if payload[j] != pattern(id, j) {
			return fmt.Errorf("%w: id %d byte %d at 0x%X: got 0x%02X want 0x%02X",
				ErrCorrupted, id, j, b.p, payload[j], pattern(id, j))
		}
	}
	return nil
}

func (rp *replayer) fail(op Op, err error) {
	rp.res.Failures = append(rp.res.Failures, Failure{Op: op, Err: err})
}

// pattern is the byte written at offset i of the block bound to id.
func pattern(id int, i uint32) byte {
	return byte(uint32(id)*131 + i*7 + 1)
}

// IsCheckFailure reports whether err is a correctness violation rather than
// an allocator refusal or a malformed trace.
func IsCheckFailure(err error) bool {
	return errors.Is(err, ErrOverlap) || errors.Is(err, ErrMisaligned) || errors.Is(err, ErrCorrupted)
}
