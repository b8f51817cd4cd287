package dirty

import (
	"context"
	"fmt"
	"slices"
)

const (
	// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
	defaultRangeCapacity = 64

	// standardPageSize is the flush granularity.
	standardPageSize = 4096
)

// Range is a dirty byte range in region offsets.
type Range struct {
	Off int64
	Len int64
}

// End returns the offset one past the range.
func (r Range) End() int64 { return r.Off + r.Len }

// Tracker accumulates dirty ranges and flushes them through a Syncer.
//
// NOT thread-safe.
type Tracker struct {
	s        Syncer
	ranges   []Range // raw, coalesced at flush time
	pageSize int64
}

// NewTracker creates a tracker that flushes through s. A nil Syncer makes
// Flush only clear the recorded ranges.
func NewTracker(s Syncer) *Tracker {
	return &Tracker{
		s:        s,
		ranges:   make([]Range, 0, defaultRangeCapacity),
		pageSize: standardPageSize,
	}
}

// Add records a dirty range. Empty and negative ranges are ignored.
func (t *Tracker) Add(off, length int) {
	if length <= 0 || off < 0 {
		return
	}
	t.ranges = append(t.ranges, Range{Off: int64(off), Len: int64(length)})
}

// Len returns the number of raw ranges recorded since the last flush.
func (t *Tracker) Len() int { return len(t.ranges) }

// Flush syncs every coalesced range and clears the tracker.
//
// On error or cancellation the ranges are kept so a later Flush can retry;
// some pages may already have been written.
func (t *Tracker) Flush(ctx context.Context) error {
	if len(t.ranges) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.s != nil {
		for _, r := range t.coalesce() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := t.s.Sync(int(r.Off), int(r.Len)); err != nil {
				return fmt.Errorf("dirty: sync [%#x, %#x): %w", r.Off, r.End(), err)
			}
		}
	}

	t.ranges = t.ranges[:0]
	return nil
}

// Reset drops all recorded ranges without flushing.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// DebugRanges returns a copy of the raw, uncoalesced ranges.
func (t *Tracker) DebugRanges() []Range {
	return slices.Clone(t.ranges)
}

// DebugCoalescedRanges returns the page-aligned ranges Flush would sync.
func (t *Tracker) DebugCoalescedRanges() []Range {
	return t.coalesce()
}

// coalesce page-aligns all ranges, sorts them and merges overlapping or
// adjacent ones.
func (t *Tracker) coalesce() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		start := (r.Off / t.pageSize) * t.pageSize
		end := r.End()
		if end%t.pageSize != 0 {
			end = (end/t.pageSize + 1) * t.pageSize
		}
		aligned[i] = Range{Off: start, Len: end - start}
	}

	slices.SortFunc(aligned, func(a, b Range) int {
		switch {
		case a.Off < b.Off:
			return -1
		case a.Off > b.Off:
			return 1
		}
		return 0
	})

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]
	for _, next := range aligned[1:] {
		if next.Off <= current.End() {
			current.Len = max(current.End(), next.End()) - current.Off
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

var _ DirtyTracker = (*Tracker)(nil)
