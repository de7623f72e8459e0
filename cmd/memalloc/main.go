package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/fragmentation-analyzer/internal/allocator"
	"github.com/eugenenazirov/fragmentation-analyzer/internal/logging"
)

func main() {
	app := kingpin.New("memalloc", "Memory Allocation & Fragmentation Analyzer - runs First, Best and Worst Fit over fixed memory blocks")

	var opts options
	app.Flag("blocks", "Memory block sizes in KB, e.g. \"100, 500, 200\" or \"[100, 500, 200]\"").StringVar(&opts.Blocks)
	app.Flag("processes", "Process sizes in KB, in arrival order").StringVar(&opts.Processes)
	app.Flag("sample", "Use the built-in sample blocks and processes").BoolVar(&opts.Sample)
	app.Flag("random-blocks", "Generate a random block layout instead of --blocks").BoolVar(&opts.RandomBlocks)
	app.Flag("random-total", "Total KB to split into random blocks (0 picks block sizes freely)").Default("0").IntVar(&opts.RandomTotal)
	app.Flag("seed", "Seed for random block layouts (0 uses the current time)").Default("0").Uint64Var(&opts.Seed)
	app.Flag("strategy", "Strategy to run: all, first-fit, best-fit or worst-fit").Default(allStrategies).StringVar(&opts.Strategy)
	app.Flag("format", "Output format").Default(formatTable).EnumVar(&opts.Format, formatTable, formatJSON, formatYAML, formatCSV)
	app.Flag("output", "Write the report to this file instead of stdout").StringVar(&opts.Output)
	logLevel := app.Flag("log-level", "Log level (debug, info, warn, error)").Default("warn").String()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	logger, err := logging.New(logging.Options{Level: *logLevel, Encoding: "console"})
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(opts, os.Stdout, logger); err != nil {
		switch {
		case errors.Is(err, allocator.ErrInvalidInput):
			fmt.Fprintf(os.Stderr, "Input error: %v\n", err)
		case errors.Is(err, allocator.ErrUnknownStrategy):
			fmt.Fprintf(os.Stderr, "Strategy error: %v\n", err)
		default:
			logger.Error("analysis failed", zap.Error(err))
		}
		_ = logger.Sync()
		os.Exit(1)
	}
}
