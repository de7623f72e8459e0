package allocator

// NoBlock marks a process that could not be placed.
const NoBlock = -1

// BlockStatus is the allocation state of a memory block.
type BlockStatus string

const (
	StatusFree      BlockStatus = "FREE"
	StatusAllocated BlockStatus = "ALLOCATED"
)

// MemoryBlock is one fixed-size partition. OccupantID, RequestedSize and
// InternalFragment are zero values while the block is free.
type MemoryBlock struct {
	ID               int         `json:"id" yaml:"id"`
	Size             int         `json:"size" yaml:"size"`
	Status           BlockStatus `json:"status" yaml:"status"`
	OccupantID       string      `json:"occupantId,omitempty" yaml:"occupant_id,omitempty"`
	RequestedSize    int         `json:"requestedSize,omitempty" yaml:"requested_size,omitempty"`
	InternalFragment int         `json:"internalFragment" yaml:"internal_fragment"`
}

// Allocated reports whether a process occupies the block.
func (b MemoryBlock) Allocated() bool {
	return b.Status == StatusAllocated
}

// Process is a single allocation request. BlockID is NoBlock when unallocated.
type Process struct {
	ID        string `json:"id" yaml:"id"`
	Size      int    `json:"size" yaml:"size"`
	Allocated bool   `json:"allocated" yaml:"allocated"`
	BlockID   int    `json:"blockId" yaml:"block_id"`
}

// StrategyResult is the outcome of one strategy over one block/process set.
// It owns its Blocks and Processes; callers treat it as read-only.
type StrategyResult struct {
	Strategy              Strategy      `json:"strategy" yaml:"strategy"`
	Blocks                []MemoryBlock `json:"blocks" yaml:"blocks"`
	Processes             []Process     `json:"processes" yaml:"processes"`
	AllocatedCount        int           `json:"allocatedCount" yaml:"allocated_count"`
	TotalInternalFragment int           `json:"totalInternalFragment" yaml:"total_internal_fragment"`
	TotalFree             int           `json:"totalFree" yaml:"total_free"`
	LargestFree           int           `json:"largestFree" yaml:"largest_free"`
	ExternalFragment      int           `json:"externalFragment" yaml:"external_fragment"`
}

// ProcessCount is the number of requests in the run.
func (r StrategyResult) ProcessCount() int {
	return len(r.Processes)
}

// UnallocatedProcesses lists the ids of processes that found no block, in input order.
func (r StrategyResult) UnallocatedProcesses() []string {
	ids := make([]string, 0)
	for _, p := range r.Processes {
		if !p.Allocated {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// TotalMemory is the sum of all block sizes supplied to the run.
func (r StrategyResult) TotalMemory() int {
	total := 0
	for _, b := range r.Blocks {
		total += b.Size
	}
	return total
}

// Engine runs placement strategies over block and process sizes.
type Engine interface {
	Run(blockSizes, processSizes []int, strategy Strategy) (StrategyResult, error)
	RunAll(blockSizes, processSizes []int) ([]StrategyResult, error)
}
