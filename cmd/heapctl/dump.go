package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/mmfile"
	"github.com/joshuapare/heapkit/verify"
)

var dumpFreeOnly bool

func init() {
	cmd := newDumpCmd()
	cmd.Flags().BoolVar(&dumpFreeOnly, "free", false, "List only free blocks")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <image>",
		Short: "List the blocks of a heap image",
		Long: `The dump command walks a heap image from the prologue to the epilogue
and lists every block with its offset, size and state.

Example:
  heapctl dump heap.img
  heapctl dump heap.img --free
  heapctl dump heap.img --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args[0])
		},
	}
}

// dumpBlock is one row of the dump output.
type dumpBlock struct {
	Offset    int    `json:"offset"`
	Size      uint32 `json:"size"`
	Payload   uint32 `json:"payload"`
	Allocated bool   `json:"allocated"`
	Kind      string `json:"kind"`
}

func runDump(path string) error {
	im, err := mmfile.Open(path)
	if err != nil {
		return err
	}
	defer im.Close()

	var rows []dumpBlock
	err = verify.Walk(im.Bytes(), func(b verify.Block) error {
		row := dumpBlock{
			Offset:    b.Ptr,
			Size:      b.Size,
			Payload:   b.PayloadSize(),
			Allocated: b.Allocated,
			Kind:      "free",
		}
		switch {
		case b.Size == 0:
			row.Kind = "epilogue"
		case b.Ptr < format.FirstBlockOffset:
			row.Kind = "prologue"
		case b.Allocated:
			row.Kind = "used"
		}
		if dumpFreeOnly && row.Kind != "free" {
			return nil
		}
		rows = append(rows, row)
		return nil
	})

	if jsonOut {
		if jerr := printJSON(rows); jerr != nil {
			return jerr
		}
		return err
	}

	printInfo("%-12s %10s %10s  %s\n", "OFFSET", "SIZE", "PAYLOAD", "KIND")
	var used, free int
	for _, row := range rows {
		printInfo("0x%08X   %10d %10d  %s\n", row.Offset, row.Size, row.Payload, row.Kind)
		switch row.Kind {
		case "used":
			used++
		case "free":
			free++
		}
	}
	printInfo("\n%d used, %d free blocks in %d bytes\n", used, free, im.Len())
	if err != nil {
		printError("walk stopped: %v\n", err)
	}
	return err
}
