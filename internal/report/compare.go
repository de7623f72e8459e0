package report

import (
	"fmt"

	"github.com/eugenenazirov/fragmentation-analyzer/internal/allocator"
)

// ComparisonRow summarises one strategy run for side-by-side comparison.
type ComparisonRow struct {
	Strategy              string  `json:"strategy" yaml:"strategy"`
	Allocated             string  `json:"allocated" yaml:"allocated"`
	AllocatedCount        int     `json:"allocatedCount" yaml:"allocated_count"`
	ProcessCount          int     `json:"processCount" yaml:"process_count"`
	TotalInternalFragment int     `json:"totalInternalFragment" yaml:"total_internal_fragment"`
	ExternalFragment      int     `json:"externalFragment" yaml:"external_fragment"`
	TotalFree             int     `json:"totalFree" yaml:"total_free"`
	LargestFree           int     `json:"largestFree" yaml:"largest_free"`
	ErrorPercent          float64 `json:"errorPercent" yaml:"error_percent"`
	UnallocatedPercent    float64 `json:"unallocatedPercent" yaml:"unallocated_percent"`
}

// ComparisonHeaders are the column titles used by tables and CSV export.
var ComparisonHeaders = []string{
	"Method",
	"Allocated",
	"Total Internal Frag (KB)",
	"Total External Frag (KB)",
	"Total Free (KB)",
	"Largest Free (KB)",
}

// Compare builds one row per result, preserving input order.
func Compare(results []allocator.StrategyResult) []ComparisonRow {
	rows := make([]ComparisonRow, 0, len(results))
	for _, result := range results {
		rows = append(rows, ComparisonRow{
			Strategy:              result.Strategy.String(),
			Allocated:             fmt.Sprintf("%d/%d", result.AllocatedCount, result.ProcessCount()),
			AllocatedCount:        result.AllocatedCount,
			ProcessCount:          result.ProcessCount(),
			TotalInternalFragment: result.TotalInternalFragment,
			ExternalFragment:      result.ExternalFragment,
			TotalFree:             result.TotalFree,
			LargestFree:           result.LargestFree,
			ErrorPercent:          ErrorPercentage(result, result.TotalMemory()),
			UnallocatedPercent:    UnallocatedPercentage(result),
		})
	}
	return rows
}

// Cells returns the values for ComparisonHeaders.
func (r ComparisonRow) Cells() []string {
	return []string{
		r.Strategy,
		r.Allocated,
		fmt.Sprint(r.TotalInternalFragment),
		fmt.Sprint(r.ExternalFragment),
		fmt.Sprint(r.TotalFree),
		fmt.Sprint(r.LargestFree),
	}
}

// ErrorPercentage is the share of totalMemory lost to internal and external fragmentation.
func ErrorPercentage(result allocator.StrategyResult, totalMemory int) float64 {
	if totalMemory <= 0 {
		return 0
	}
	wasted := result.TotalInternalFragment + result.ExternalFragment
	return float64(wasted) / float64(totalMemory) * 100
}

// UnallocatedPercentage is the share of processes that found no block.
func UnallocatedPercentage(result allocator.StrategyResult) float64 {
	count := result.ProcessCount()
	if count <= 0 {
		return 0
	}
	return float64(len(result.UnallocatedProcesses())) / float64(count) * 100
}
