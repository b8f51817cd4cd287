package alloc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/dirty"
)

func TestDirtyTracking_Init(t *testing.T) {
	_, dt := newTrackedAllocator(t)

	ranges := dt.DebugRanges()
	for _, want := range []dirty.Range{
		{Off: 0, Len: 4},    // padding
		{Off: 4, Len: 4},    // prologue header
		{Off: 8, Len: 4},    // prologue footer
		{Off: 12, Len: 4},   // first block header (was the epilogue)
		{Off: 4104, Len: 4}, // first block footer
		{Off: 4108, Len: 4}, // new epilogue
	} {
		assert.Contains(t, ranges, want)
	}
}

func TestDirtyTracking_AllocMarksTags(t *testing.T) {
	a, dt := newTrackedAllocator(t)
	dt.Reset()

	p, err := a.Alloc(100)
	require.NoError(t, err)
	require.Equal(t, firstBlock, p)

	assert.ElementsMatch(t, []dirty.Range{
		{Off: 12, Len: 4},   // header
		{Off: 120, Len: 4},  // footer
		{Off: 124, Len: 4},  // remainder header
		{Off: 4104, Len: 4}, // remainder footer
	}, dt.DebugRanges())
}

func TestDirtyTracking_FreeAndFlush(t *testing.T) {
	a, dt := newTrackedAllocator(t)
	p, err := a.Alloc(100)
	require.NoError(t, err)
	dt.Reset()

	require.NoError(t, a.Free(p))
	require.NotEmpty(t, dt.DebugRanges())
	// Tags at 12, 120 and 4104 cover two touching pages.
	assert.Equal(t, []dirty.Range{{Off: 0, Len: 8192}}, dt.DebugCoalescedRanges())

	require.NoError(t, dt.Flush(context.Background()))
	assert.Empty(t, dt.DebugRanges())
}

func TestDirtyTracking_NilTracker(t *testing.T) {
	a := newTestAllocator(t, nil)
	p, err := a.Alloc(64)
	require.NoError(t, err)
	require.NoError(t, a.Free(p))
	assertInvariants(t, a)
}
