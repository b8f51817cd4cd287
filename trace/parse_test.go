package trace

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tr, err := Parse(strings.NewReader(`
# comment
100 2 3 1

a 0 64
r 0 128
f 0
`))
	require.NoError(t, err)
	assert.Equal(t, 100, tr.SuggestedHeap)
	assert.Equal(t, 2, tr.NumIDs)
	assert.Equal(t, 3, tr.NumOps)
	assert.Equal(t, 1, tr.Weight)
	assert.Equal(t, []Op{
		{Kind: OpAlloc, ID: 0, Size: 64, Line: 5},
		{Kind: OpRealloc, ID: 0, Size: 128, Line: 6},
		{Kind: OpFree, ID: 0, Line: 7},
	}, tr.Ops)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "truncated header"},
		{"short header", "1 2 3\n", "truncated header"},
		{"bad header", "1 x 3 4\n", "bad header value"},
		{"negative header", "1 -2 3 4\n", "bad header value"},
		{"op on header line", "1 1 1 1 a\n", "operation on a header line"},
		{"unknown op", "1 1 1 1\nx 0 8\n", "unknown operation"},
		{"long op", "1 1 1 1\nalloc 0 8\n", "unknown operation"},
		{"missing size", "1 1 1 1\na 0\n", "alloc takes 2 arguments"},
		{"extra free arg", "1 1 1 1\nf 0 8\n", "free takes 1 arguments"},
		{"id out of range", "1 1 1 1\na 1 8\n", "bad block id"},
		{"bad size", "1 1 1 1\na 0 -8\n", "bad size"},
		{"op count", "1 1 2 1\na 0 8\n", "declares 2 operations, found 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.ErrorIs(t, err, ErrSyntax)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseFile(t *testing.T) {
	tr, err := ParseFile(filepath.Join("testdata", "short.rep"))
	require.NoError(t, err)
	assert.Equal(t, "short.rep", tr.Name)
	assert.Len(t, tr.Ops, 10)

	tr, err = ParseFile(filepath.Join("testdata", "realloc.rep"))
	require.NoError(t, err)
	assert.Equal(t, 3, tr.NumIDs)
	assert.Len(t, tr.Ops, 12)
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.rep"))
	require.Error(t, err)
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "line 3: a 1 64", Op{Kind: OpAlloc, ID: 1, Size: 64, Line: 3}.String())
	assert.Equal(t, "line 4: f 1", Op{Kind: OpFree, ID: 1, Line: 4}.String())
	assert.Equal(t, "realloc", OpRealloc.String())
}
