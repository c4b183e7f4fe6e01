// Command ncbench drives the codec/filter pipeline against synthetic
// buffers and reports throughput, matching the benchmark tool surface
// described in the on-wire interface reference: codec name, filter name,
// a named suite of buffer/item-size combinations, thread count, buffer
// size, item size, and significant-bits (for the truncate-precision
// filter).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes match the documented CLI contract: 0 success, 1 invalid
// arguments, 2 unsupported codec.
const (
	exitOK              = 0
	exitInvalidArgs     = 1
	exitUnsupportedCodec = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		if isUnsupportedCodecErr(err) {
			fmt.Fprintln(os.Stderr, "ncbench:", err)
			return exitUnsupportedCodec
		}
		fmt.Fprintln(os.Stderr, "ncbench:", err)
		return exitInvalidArgs
	}
	return exitOK
}

func newRootCommand() *cobra.Command {
	opts := &benchOptions{}

	cmd := &cobra.Command{
		Use:   "ncbench",
		Short: "Benchmark ncdata codec and filter throughput",
		Long: `ncbench compresses and decompresses synthetic buffers through the
block pipeline (filter chain + codec) and reports throughput, to compare
codec/filter combinations without wiring up a full array or frame.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.codecName, "codec", "zstd", "codec to benchmark (none, bloslz, lz4, zstd, zlib)")
	cmd.Flags().StringVar(&opts.filterName, "filter", "shuffle", "filter to benchmark (none, shuffle, bitshuffle, delta, bytedelta, bytedelta-legacy, truncate, ndcell, ndmean)")
	cmd.Flags().StringVar(&opts.suiteName, "suite", "single", "suite to run (single, suite, hardsuite, extremesuite, debugsuite)")
	cmd.Flags().IntVar(&opts.threads, "threads", 1, "thread count, must be >= 0 (each case runs as a single block on the calling goroutine)")
	cmd.Flags().IntVar(&opts.bufferSize, "buffer-size", 1<<20, "buffer size in bytes, used by the single suite")
	cmd.Flags().IntVar(&opts.itemSize, "item-size", 4, "item width in bytes (1, 2, 4, or 8), used by the single suite")
	cmd.Flags().IntVar(&opts.level, "level", 5, "compression level (1..9)")
	cmd.Flags().IntVar(&opts.significantBits, "significant-bits", 0, "low mantissa bits the truncate filter zeroes")

	return cmd
}

type benchOptions struct {
	codecName       string
	filterName      string
	suiteName       string
	threads         int
	bufferSize      int
	itemSize        int
	level           int
	significantBits int
}
