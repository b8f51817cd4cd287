package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/internal/mmfile"
	"github.com/joshuapare/heapkit/verify"
)

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <image>",
		Short: "Validate a heap image",
		Long: `The check command validates every invariant of a heap image:
prologue tags, block alignment and sizes, matching headers and footers, the
epilogue position and full coalescing of free blocks.

Example:
  heapctl check heap.img
  heapctl check heap.img --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args[0])
		},
	}
}

func runCheck(path string) error {
	printVerbose("Checking heap image: %s\n", path)

	im, err := mmfile.Open(path)
	if err != nil {
		return err
	}
	defer im.Close()

	checkErr := verify.AllInvariants(im.Bytes())

	if jsonOut {
		result := map[string]any{
			"file":  path,
			"bytes": im.Len(),
			"valid": checkErr == nil,
		}
		var verr *verify.ValidationError
		if errors.As(checkErr, &verr) {
			result["error"] = map[string]any{
				"type":    verr.Type,
				"message": verr.Message,
				"offset":  verr.Offset,
			}
		}
		if err := printJSON(result); err != nil {
			return err
		}
		return checkErr
	}

	printInfo("\nChecking %s (%d bytes)...\n\n", path, im.Len())
	if checkErr != nil {
		printInfo("  ✗ %v\n", checkErr)
		printInfo("\nResult: ✗ INVALID\n")
		return checkErr
	}
	printInfo("  ✓ Prologue valid\n")
	printInfo("  ✓ Blocks valid\n")
	printInfo("  ✓ Free blocks coalesced\n")
	printInfo("\nResult: ✓ VALID\n")
	return nil
}
