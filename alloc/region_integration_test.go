package alloc

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/dirty"
	"github.com/joshuapare/heapkit/region"
	"github.com/joshuapare/heapkit/verify"
)

func TestMappedRegion_PayloadsStayValid(t *testing.T) {
	r, err := region.Reserve(1 << 20)
	require.NoError(t, err)
	defer r.Close()

	a, err := New(r, nil, nil)
	require.NoError(t, err)
	require.NoError(t, a.Init())

	first, err := a.Alloc(64)
	require.NoError(t, err)
	payload := a.Payload(first)
	copy(payload, "stable")

	// Force several extensions.
	for range 8 {
		_, err := a.Alloc(8000)
		require.NoError(t, err)
	}
	assert.Greater(t, a.Stats().ExtendCalls, 1)

	assert.Equal(t, "stable", string(payload[:6]), "payload slice survives growth")
	assertInvariants(t, a)
}

func TestMappedRegion_Exhausted(t *testing.T) {
	r, err := region.Reserve(8192)
	require.NoError(t, err)
	defer r.Close()

	a, err := New(r, nil, nil)
	require.NoError(t, err)
	require.NoError(t, a.Init())

	_, err = a.Alloc(8192)
	require.ErrorIs(t, err, ErrNoSpace)
	require.ErrorIs(t, err, region.ErrExhausted)
	assertInvariants(t, a)
}

func TestMappedRegion_FileImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heap.img")
	r, err := region.MapFile(path, 1<<20)
	require.NoError(t, err)

	dt := dirty.NewTracker(r)
	a, err := New(r, dt, nil)
	require.NoError(t, err)
	require.NoError(t, a.Init())

	var live []Ptr
	for i := range 50 {
		p, err := a.Alloc(uint32(16 + i*40))
		require.NoError(t, err)
		live = append(live, p)
	}
	for i := 0; i < len(live); i += 3 {
		require.NoError(t, a.Free(live[i]))
	}
	require.NoError(t, dt.Flush(context.Background()))

	want, err := a.Usage()
	require.NoError(t, err)
	require.NoError(t, r.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, verify.AllInvariants(data))

	var got Usage
	require.NoError(t, verify.Walk(data, func(b verify.Block) error {
		if b.Ptr < 16 || b.Size == 0 {
			return nil
		}
		if b.Allocated {
			got.AllocatedBlocks++
		} else {
			got.FreeBlocks++
		}
		return nil
	}))
	assert.Equal(t, want.AllocatedBlocks, got.AllocatedBlocks)
	assert.Equal(t, want.FreeBlocks, got.FreeBlocks)
	assert.Equal(t, int(want.HeapBytes), len(data))
}
