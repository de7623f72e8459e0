package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/eugenenazirov/fragmentation-analyzer/internal/allocator"
)

// Title heads exported reports.
const Title = "Memory Allocation & Fragmentation Analyzer"

// WriteCSV writes the comparison table followed by one block table per strategy.
func WriteCSV(w io.Writer, results []allocator.StrategyResult) error {
	writer := csv.NewWriter(w)

	records := [][]string{{Title}, {}, ComparisonHeaders}
	for _, row := range Compare(results) {
		records = append(records, row.Cells())
	}

	for _, result := range results {
		records = append(records, []string{}, []string{result.Strategy.String()}, BlockHeaders)
		for _, row := range BlockRows(result) {
			records = append(records, row.Cells())
		}
	}

	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
