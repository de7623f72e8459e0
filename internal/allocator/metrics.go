package allocator

// summarize fills the aggregate fields of result from its final blocks and processes.
func summarize(result *StrategyResult) {
	allocated := 0
	for _, p := range result.Processes {
		if p.Allocated {
			allocated++
		}
	}

	internal, free, largest := 0, 0, 0
	for _, b := range result.Blocks {
		if b.Allocated() {
			internal += b.InternalFragment
			continue
		}
		free += b.Size
		if b.Size > largest {
			largest = b.Size
		}
	}

	// External fragmentation is free space left once the largest free block is set aside.
	external := 0
	if free > 0 {
		external = free - largest
	}

	result.AllocatedCount = allocated
	result.TotalInternalFragment = internal
	result.TotalFree = free
	result.LargestFree = largest
	result.ExternalFragment = external
}
