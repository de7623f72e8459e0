package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/fragmentation-analyzer/internal/allocator"
	"github.com/eugenenazirov/fragmentation-analyzer/internal/report"
	"github.com/eugenenazirov/fragmentation-analyzer/internal/sample"
	"github.com/eugenenazirov/fragmentation-analyzer/internal/sizes"
)

const (
	allStrategies = "all"

	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatCSV   = "csv"
)

type options struct {
	Blocks       string
	Processes    string
	Sample       bool
	RandomBlocks bool
	RandomTotal  int
	Seed         uint64
	Strategy     string
	Format       string
	Output       string
}

// analysis is the document written for the json and yaml formats.
type analysis struct {
	BlockSizes   []int                      `json:"blockSizes" yaml:"block_sizes"`
	ProcessSizes []int                      `json:"processSizes" yaml:"process_sizes"`
	TotalMemory  int                        `json:"totalMemory" yaml:"total_memory"`
	Results      []allocator.StrategyResult `json:"results" yaml:"results"`
	Comparison   []report.ComparisonRow     `json:"comparison" yaml:"comparison"`
}

func run(opts options, stdout io.Writer, logger *zap.Logger) error {
	blockSizes, processSizes, err := resolveInputs(opts)
	if err != nil {
		return err
	}
	logger.Debug("inputs resolved",
		zap.Ints("block_sizes", blockSizes),
		zap.Ints("process_sizes", processSizes),
		zap.String("strategy", opts.Strategy),
	)

	results, err := runStrategies(allocator.New(), blockSizes, processSizes, opts.Strategy)
	if err != nil {
		return err
	}

	if opts.Output == "" {
		return writeReport(stdout, opts.Format, blockSizes, processSizes, results)
	}

	if err := exportReport(opts, blockSizes, processSizes, results); err != nil {
		return err
	}
	logger.Info("report exported", zap.String("path", opts.Output), zap.String("format", opts.Format))
	fmt.Fprintf(stdout, "Report exported to: %s\n", opts.Output)
	return nil
}

// exportReport writes the report to opts.Output. The file is removed when
// writing or closing it fails so no partial report is left behind.
func exportReport(opts options, blockSizes, processSizes []int, results []allocator.StrategyResult) error {
	file, err := os.Create(opts.Output)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	writeErr := writeReport(file, opts.Format, blockSizes, processSizes, results)
	closeErr := file.Close()
	if writeErr == nil && closeErr == nil {
		return nil
	}

	_ = os.Remove(opts.Output)
	if writeErr != nil {
		return fmt.Errorf("write output file: %w", writeErr)
	}
	return fmt.Errorf("close output file: %w", closeErr)
}

func resolveInputs(opts options) ([]int, []int, error) {
	if opts.Sample {
		blocks := sample.Blocks()
		if opts.RandomBlocks {
			blocks = sample.RandomBlocks(newRand(opts.Seed), opts.RandomTotal)
		}
		return blocks, sample.Processes(), nil
	}

	var blocks []int
	if opts.RandomBlocks {
		blocks = sample.RandomBlocks(newRand(opts.Seed), opts.RandomTotal)
	} else {
		parsed, err := sizes.Parse(opts.Blocks)
		if err != nil {
			return nil, nil, fmt.Errorf("memory blocks: %w", err)
		}
		blocks = parsed
	}

	processes, err := sizes.Parse(opts.Processes)
	if err != nil {
		return nil, nil, fmt.Errorf("processes: %w", err)
	}
	return blocks, processes, nil
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}

func runStrategies(engine allocator.Engine, blockSizes, processSizes []int, name string) ([]allocator.StrategyResult, error) {
	if name == "" || strings.EqualFold(strings.TrimSpace(name), allStrategies) {
		return engine.RunAll(blockSizes, processSizes)
	}

	strategy, err := allocator.ParseStrategy(name)
	if err != nil {
		return nil, err
	}
	result, err := engine.Run(blockSizes, processSizes, strategy)
	if err != nil {
		return nil, err
	}
	return []allocator.StrategyResult{result}, nil
}

func writeReport(w io.Writer, format string, blockSizes, processSizes []int, results []allocator.StrategyResult) error {
	doc := analysis{
		BlockSizes:   blockSizes,
		ProcessSizes: processSizes,
		TotalMemory:  sizes.Sum(blockSizes),
		Results:      results,
		Comparison:   report.Compare(results),
	}

	switch format {
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(doc)
	case formatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return encoder.Close()
	case formatCSV:
		return report.WriteCSV(w, results)
	case formatTable, "":
		return writeTables(w, doc)
	}
	return fmt.Errorf("unsupported format %q", format)
}

func writeTables(w io.Writer, doc analysis) error {
	renderer := report.NewRenderer(w)

	var b strings.Builder
	b.WriteString(report.Title + "\n")
	b.WriteString(strings.Repeat("-", len(report.Title)) + "\n\n")
	fmt.Fprintf(&b, "Blocks (KB): %s\n", sizes.Format(doc.BlockSizes))
	fmt.Fprintf(&b, "Processes (KB): %s\n", sizes.Format(doc.ProcessSizes))

	for _, result := range doc.Results {
		b.WriteString("\n")
		b.WriteString(renderer.RenderStrategy(result))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderer.RenderComparison(doc.Comparison))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
