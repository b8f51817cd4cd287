package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/alloc"
)

func TestTraceCommand(t *testing.T) {
	tests := []struct {
		name        string
		files       []string
		check       bool
		strict      bool
		wantContain []string
	}{
		{
			name:        "short trace",
			files:       []string{"short.rep"},
			wantContain: []string{"TRACE", "short.rep", "ok"},
		},
		{
			name:        "realloc trace with check",
			files:       []string{"realloc.rep"},
			check:       true,
			wantContain: []string{"realloc.rep", "ok"},
		},
		{
			name:        "strict split",
			files:       []string{"short.rep", "realloc.rep"},
			strict:      true,
			wantContain: []string{"short.rep", "realloc.rep"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			traceCheck = tt.check
			traceStrict = tt.strict

			var paths []string
			for _, f := range tt.files {
				paths = append(paths, testTracePath(t, f))
			}
			out, err := captureOutput(t, func() error {
				return runTrace(t.Context(), paths)
			})
			require.NoError(t, err)
			assertContains(t, out, tt.wantContain)
			assertNotContains(t, out, []string{"ERROR", "failed ops"})
		})
	}
}

func TestTraceCommand_JSON(t *testing.T) {
	resetFlags(t)
	jsonOut = true

	out, err := captureOutput(t, func() error {
		return runTrace(t.Context(), []string{testTracePath(t, "short.rep")})
	})
	require.NoError(t, err)
	assertJSON(t, out)

	var reports []traceReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 1)
	rep := reports[0]
	assert.Equal(t, 10, rep.Ops)
	assert.Equal(t, 5, rep.Allocs)
	assert.Equal(t, 1, rep.Reallocs)
	assert.Equal(t, 4, rep.Frees)
	assert.Positive(t, rep.HeapBytes)
	assert.Positive(t, rep.Utilization)
	assert.Empty(t, rep.Failures)
	assert.Empty(t, rep.Error)
}

func TestTraceCommand_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		resetFlags(t)
		_, err := captureOutput(t, func() error {
			return runTrace(t.Context(), []string{filepath.Join(t.TempDir(), "nope.rep")})
		})
		require.Error(t, err)
	})

	t.Run("malformed trace", func(t *testing.T) {
		resetFlags(t)
		bad := filepath.Join(t.TempDir(), "bad.rep")
		require.NoError(t, os.WriteFile(bad, []byte("100 1 1 1\nx 0 8\n"), 0o644))

		out, err := captureOutput(t, func() error {
			return runTrace(t.Context(), []string{bad})
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 1 traces failed")
		assertContains(t, out, []string{"bad.rep", "ERROR"})
	})

	t.Run("image with several traces", func(t *testing.T) {
		resetFlags(t)
		traceImage = filepath.Join(t.TempDir(), "heap.img")
		err := runTrace(t.Context(), []string{
			testTracePath(t, "short.rep"),
			testTracePath(t, "realloc.rep"),
		})
		require.Error(t, err)
	})

	t.Run("heap limit too small", func(t *testing.T) {
		resetFlags(t)
		traceLimit = 1 << 12

		out, err := captureOutput(t, func() error {
			return runTrace(t.Context(), []string{testTracePath(t, "short.rep")})
		})
		require.Error(t, err)
		assertContains(t, out, []string{"short.rep"})
	})
}

func TestTraceConfig(t *testing.T) {
	resetFlags(t)
	cfg := traceConfig()
	assert.Equal(t, alloc.DefaultConfig.SplitThreshold, cfg.SplitThreshold)
	assert.Equal(t, alloc.DefaultConfig.ChunkSize, cfg.ChunkSize)

	traceStrict = true
	traceChunk = 1 << 16
	cfg = traceConfig()
	assert.Equal(t, alloc.ConfigStrictSplit.SplitThreshold, cfg.SplitThreshold)
	assert.Equal(t, uint32(1<<16), cfg.ChunkSize)
}

func TestTraceCommand_Image(t *testing.T) {
	resetFlags(t)
	img := writeImage(t, "short.rep")

	info, err := os.Stat(img)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
	assert.Zero(t, info.Size()%8, "image ends on the epilogue word after the heap")
}
