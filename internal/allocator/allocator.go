package allocator

import (
	"fmt"

	"github.com/eugenenazirov/fragmentation-analyzer/internal/sizes"
)

type engine struct{}

// New creates an Engine that places processes in a single forward pass.
func New() Engine {
	return &engine{}
}

// Run places every process, in input order, into the block picked by strategy.
// Inputs are validated before any block or process is created.
func (e *engine) Run(blockSizes, processSizes []int, strategy Strategy) (StrategyResult, error) {
	blockSizes, err := sizes.Validate(blockSizes, "memory blocks")
	if err != nil {
		return StrategyResult{}, err
	}
	processSizes, err = sizes.Validate(processSizes, "processes")
	if err != nil {
		return StrategyResult{}, err
	}
	selectBlock := strategy.selector()
	if selectBlock == nil {
		return StrategyResult{}, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(strategy))
	}

	blocks := newBlocks(blockSizes)
	processes := newProcesses(processSizes)

	for i := range processes {
		process := &processes[i]
		chosen := selectBlock(blocks, process.Size)
		if chosen == NoBlock {
			continue
		}

		block := &blocks[chosen]
		block.Status = StatusAllocated
		block.OccupantID = process.ID
		block.RequestedSize = process.Size
		block.InternalFragment = block.Size - process.Size

		process.Allocated = true
		process.BlockID = block.ID
	}

	result := StrategyResult{
		Strategy:  strategy,
		Blocks:    blocks,
		Processes: processes,
	}
	summarize(&result)
	return result, nil
}

// RunAll runs First Fit, Best Fit and Worst Fit in that order, each on its own arrays.
func (e *engine) RunAll(blockSizes, processSizes []int) ([]StrategyResult, error) {
	strategies := Strategies()
	results := make([]StrategyResult, 0, len(strategies))
	for _, strategy := range strategies {
		result, err := e.Run(blockSizes, processSizes, strategy)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func newBlocks(blockSizes []int) []MemoryBlock {
	blocks := make([]MemoryBlock, len(blockSizes))
	for i, size := range blockSizes {
		blocks[i] = MemoryBlock{ID: i, Size: size, Status: StatusFree}
	}
	return blocks
}

func newProcesses(processSizes []int) []Process {
	processes := make([]Process, len(processSizes))
	for i, size := range processSizes {
		processes[i] = Process{ID: fmt.Sprintf("P%d", i+1), Size: size, BlockID: NoBlock}
	}
	return processes
}
