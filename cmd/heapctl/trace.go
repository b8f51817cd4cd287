package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/alloc"
	"github.com/joshuapare/heapkit/dirty"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/region"
	"github.com/joshuapare/heapkit/trace"
)

var (
	traceChunk  uint32
	traceSplit  uint32
	traceLimit  int
	traceImage  string
	traceCheck  bool
	traceStrict bool
)

func init() {
	cmd := newTraceCmd()
	cmd.Flags().Uint32Var(&traceChunk, "chunk", format.ChunkSize, "Minimum heap extension in bytes")
	cmd.Flags().Uint32Var(&traceSplit, "split", alloc.DefaultConfig.SplitThreshold, "Smallest remainder split off a free block")
	cmd.Flags().BoolVar(&traceStrict, "strict-split", false, "Use the strict split preset (overrides --split)")
	cmd.Flags().IntVar(&traceLimit, "limit", 256<<20, "Maximum heap size in bytes")
	cmd.Flags().StringVar(&traceImage, "image", "", "Save the final heap to this file (single trace only)")
	cmd.Flags().BoolVar(&traceCheck, "check", false, "Verify heap invariants after the replay")
	rootCmd.AddCommand(cmd)
}

func newTraceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trace <file>...",
		Short: "Replay allocation traces",
		Long: `The trace command replays one or more allocation trace files, each
against a fresh heap, checking alignment, overlap and payload integrity.

Trace format: four header integers (suggested heap size, id count, op count,
weight) followed by "a <id> <size>", "r <id> <size>" or "f <id>" lines.

Example:
  heapctl trace traces/*.rep
  heapctl trace short.rep --check --image short.img
  heapctl trace big.rep --chunk 65536 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd.Context(), args)
		},
	}
}

// traceReport is the per-trace summary printed by the trace command.
type traceReport struct {
	File        string   `json:"file"`
	Ops         int      `json:"ops"`
	Allocs      int      `json:"allocs"`
	Reallocs    int      `json:"reallocs"`
	Frees       int      `json:"frees"`
	PeakPayload int64    `json:"peak_payload"`
	HeapBytes   int64    `json:"heap_bytes"`
	Utilization float64  `json:"utilization"`
	Extends     int      `json:"extends"`
	FitScans    int64    `json:"fit_scans"`
	Failures    []string `json:"failures,omitempty"`
	Error       string   `json:"error,omitempty"`
}

func traceConfig() alloc.Config {
	if traceStrict {
		cfg := alloc.ConfigStrictSplit
		cfg.ChunkSize = traceChunk
		return cfg
	}
	return alloc.Config{Name: "cli", ChunkSize: traceChunk, SplitThreshold: traceSplit}
}

func runTrace(ctx context.Context, files []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if traceImage != "" && len(files) > 1 {
		return errors.New("--image requires a single trace file")
	}

	var (
		reports []traceReport
		failed  int
	)
	for _, file := range files {
		printVerbose("Replaying %s\n", file)
		rep, err := replayFile(ctx, file)
		if err != nil {
			rep.Error = err.Error()
			failed++
		} else if len(rep.Failures) > 0 {
			failed++
		}
		reports = append(reports, rep)
	}

	if jsonOut {
		if err := printJSON(reports); err != nil {
			return err
		}
	} else {
		printTraceReports(reports)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d traces failed", failed, len(files))
	}
	return nil
}

func replayFile(ctx context.Context, file string) (traceReport, error) {
	rep := traceReport{File: file}

	tr, err := trace.ParseFile(file)
	if err != nil {
		return rep, err
	}

	var (
		r  region.Region
		dt *dirty.Tracker
	)
	if traceImage != "" {
		m, err := region.MapFile(traceImage, traceLimit)
		if err != nil {
			return rep, err
		}
		defer m.Close()
		r, dt = m, dirty.NewTracker(m)
	} else {
		m, err := region.Reserve(traceLimit)
		if err != nil {
			return rep, err
		}
		defer m.Close()
		r = m
	}

	cfg := traceConfig()
	var tracker alloc.DirtyTracker
	if dt != nil {
		tracker = dt
	}
	a, err := alloc.New(r, tracker, &cfg)
	if err != nil {
		return rep, err
	}
	if err := a.Init(); err != nil {
		return rep, err
	}

	res, err := trace.Replay(ctx, a, tr)
	fillReport(&rep, a, res)
	if err != nil {
		return rep, err
	}

	if traceCheck {
		if err := a.Check(); err != nil {
			return rep, fmt.Errorf("heap check: %w", err)
		}
		printVerbose("  heap invariants hold\n")
	}
	if verbose && !quiet && !jsonOut {
		a.PrintStats(printerWriter{})
	}
	if dt != nil {
		if err := dt.Flush(ctx); err != nil {
			return rep, err
		}
		printVerbose("  heap image written to %s\n", traceImage)
	}
	return rep, nil
}

func fillReport(rep *traceReport, a *alloc.ImplicitAllocator, res *trace.Result) {
	rep.Ops = res.Ops
	rep.Allocs = res.Allocs
	rep.Reallocs = res.Reallocs
	rep.Frees = res.Frees
	rep.PeakPayload = res.PeakPayload
	for _, f := range res.Failures {
		rep.Failures = append(rep.Failures, f.Error())
	}

	s := a.Stats()
	rep.Extends = s.ExtendCalls
	rep.FitScans = s.FitScans
	if u, err := a.Usage(); err == nil {
		rep.HeapBytes = u.HeapBytes
		if u.HeapBytes > 0 {
			rep.Utilization = float64(res.PeakPayload) / float64(u.HeapBytes)
		}
	}
}

func printTraceReports(reports []traceReport) {
	printInfo("%-24s %8s %12s %12s %7s %8s  %s\n",
		"TRACE", "OPS", "PEAK", "HEAP", "UTIL", "EXTENDS", "STATUS")
	for _, rep := range reports {
		status := "ok"
		switch {
		case rep.Error != "":
			status = "ERROR: " + rep.Error
		case len(rep.Failures) > 0:
			status = fmt.Sprintf("%d failed ops", len(rep.Failures))
		}
		printInfo("%-24s %8d %12d %12d %6.1f%% %8d  %s\n",
			rep.File, rep.Ops, rep.PeakPayload, rep.HeapBytes, 100*rep.Utilization, rep.Extends, status)
		for _, f := range rep.Failures {
			printVerbose("    %s\n", f)
		}
	}
}

// printerWriter sends allocator reports through printInfo.
type printerWriter struct{}

func (printerWriter) Write(p []byte) (int, error) {
	printInfo("%s", p)
	return len(p), nil
}
