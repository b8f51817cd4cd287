package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuapare/heapkit/alloc"
	"github.com/joshuapare/heapkit/internal/format"
)

// testTracePath returns the path to a trace file shipped with the trace package.
func testTracePath(t *testing.T, name string) string {
	t.Helper()
	// Go up two directories from cmd/heapctl to repo root
	path := filepath.Join("..", "..", "trace", "testdata", name)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("test file not found: %s", path)
	}
	return path
}

// resetFlags restores every command flag to its default.
func resetFlags(t *testing.T) {
	t.Helper()
	reset := func() {
		verbose, quiet, jsonOut = false, false, false
		traceChunk = format.ChunkSize
		traceSplit = alloc.DefaultConfig.SplitThreshold
		traceLimit = 256 << 20
		traceImage = ""
		traceCheck, traceStrict = false, false
		dumpFreeOnly = false
	}
	reset()
	t.Cleanup(reset)
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		_, _ = buf.ReadFrom(r)
		close(done)
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	<-done

	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}

// writeImage replays name into a heap image under a temp dir and returns its path.
func writeImage(t *testing.T, name string) string {
	t.Helper()
	img := filepath.Join(t.TempDir(), "heap.img")
	traceImage = img
	traceCheck = true
	defer func() { traceImage, traceCheck = "", false }()

	quiet = true
	defer func() { quiet = false }()
	if err := runTrace(t.Context(), []string{testTracePath(t, name)}); err != nil {
		t.Fatalf("trace %s: %v", name, err)
	}
	return img
}
