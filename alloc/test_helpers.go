package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/dirty"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/region"
)

// defaultTestLimit is the region limit used when a test does not care.
const defaultTestLimit = 16 << 20

// newTestAllocator creates an initialized allocator over a Memory region.
func newTestAllocator(t testing.TB, cfg *Config) *ImplicitAllocator {
	t.Helper()
	a, _ := newTestAllocatorWithLimit(t, cfg, defaultTestLimit)
	return a
}

// newTestAllocatorWithLimit creates an initialized allocator over a Memory
// region capped at limit bytes.
func newTestAllocatorWithLimit(t testing.TB, cfg *Config, limit int) (*ImplicitAllocator, *region.Memory) {
	t.Helper()
	r := region.NewMemory(limit)
	a, err := New(r, nil, cfg)
	require.NoError(t, err)
	require.NoError(t, a.Init())
	return a, r
}

// newTrackedAllocator creates an initialized allocator with a dirty tracker.
func newTrackedAllocator(t testing.TB) (*ImplicitAllocator, *dirty.Tracker) {
	t.Helper()
	r := region.NewMemory(defaultTestLimit)
	dt := dirty.NewTracker(r)
	a, err := New(r, dt, nil)
	require.NoError(t, err)
	require.NoError(t, a.Init())
	return a, dt
}

// assertInvariants checks every heap invariant, including full coalescing.
func assertInvariants(t testing.TB, a *ImplicitAllocator) {
	t.Helper()
	require.NoError(t, a.Check(), "heap invariants violated")
}

// blocks returns every block between the prologue and the epilogue.
func blocks(t testing.TB, a *ImplicitAllocator) []BlockInfo {
	t.Helper()
	var out []BlockInfo
	require.NoError(t, a.Walk(func(b BlockInfo) error {
		out = append(out, b)
		return nil
	}))
	return out
}

// blockSize returns the size recorded in the header of p.
func blockSize(a *ImplicitAllocator, p Ptr) uint32 {
	return format.BlockSize(a.data(), int(p))
}

// isAllocated returns the allocated bit recorded in the header of p.
func isAllocated(a *ImplicitAllocator, p Ptr) bool {
	return format.BlockAllocated(a.data(), int(p))
}

// firstBlock is the payload offset of the first real block of a heap whose
// base is 0.
const firstBlock = Ptr(format.FirstBlockOffset)

// fill writes a byte pattern derived from seed into the payload of p.
func fill(a *ImplicitAllocator, p Ptr, seed byte) {
	payload := a.Payload(p)
	for i := range payload {
		payload[i] = seed + byte(i)
	}
}

// requirePattern checks the first n payload bytes of p against fill's pattern.
func requirePattern(t testing.TB, a *ImplicitAllocator, p Ptr, seed byte, n int) {
	t.Helper()
	payload := a.Payload(p)
	require.GreaterOrEqual(t, len(payload), n)
	for i := range n {
		require.Equal(t, seed+byte(i), payload[i], "payload byte %d of 0x%X", i, p)
	}
}
