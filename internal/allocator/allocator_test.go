package allocator

import (
	"encoding/json"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	sampleBlocks    = []int{100, 500, 200, 300, 600}
	sampleProcesses = []int{212, 417, 112, 426}
)

type placement struct {
	process string
	block   int
}

func TestRun_SampleScenario(t *testing.T) {
	t.Parallel()

	table := []struct {
		name        string
		strategy    Strategy
		placements  []placement
		allocated   int
		internal    int
		free        int
		largest     int
		external    int
		unallocated []string
	}{
		{
			name:     "first fit",
			strategy: FirstFit,
			placements: []placement{
				{"P1", 1}, {"P2", 4}, {"P3", 2}, {"P4", NoBlock},
			},
			allocated:   3,
			internal:    288 + 183 + 88,
			free:        400,
			largest:     300,
			external:    100,
			unallocated: []string{"P4"},
		},
		{
			name:     "best fit",
			strategy: BestFit,
			placements: []placement{
				{"P1", 3}, {"P2", 1}, {"P3", 2}, {"P4", 4},
			},
			allocated:   4,
			internal:    88 + 83 + 88 + 174,
			free:        100,
			largest:     100,
			external:    0,
			unallocated: []string{},
		},
		{
			name:     "worst fit",
			strategy: WorstFit,
			placements: []placement{
				{"P1", 4}, {"P2", 1}, {"P3", 3}, {"P4", NoBlock},
			},
			allocated:   3,
			internal:    388 + 83 + 188,
			free:        300,
			largest:     200,
			external:    100,
			unallocated: []string{"P4"},
		},
	}

	for _, tc := range table {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			result, err := New().Run(sampleBlocks, sampleProcesses, tc.strategy)
			require.NoError(t, err)

			assert.Equal(t, tc.strategy, result.Strategy)
			for i, want := range tc.placements {
				p := result.Processes[i]
				assert.Equal(t, want.process, p.ID)
				assert.Equal(t, want.block, p.BlockID, "process %s", p.ID)
				assert.Equal(t, want.block != NoBlock, p.Allocated, "process %s", p.ID)
			}
			assert.Equal(t, tc.allocated, result.AllocatedCount)
			assert.Equal(t, tc.internal, result.TotalInternalFragment)
			assert.Equal(t, tc.free, result.TotalFree)
			assert.Equal(t, tc.largest, result.LargestFree)
			assert.Equal(t, tc.external, result.ExternalFragment)
			assert.Equal(t, tc.unallocated, result.UnallocatedProcesses())
			assert.Equal(t, 4, result.ProcessCount())
			assert.Equal(t, 1700, result.TotalMemory())
		})
	}
}

func TestRun_BlockStateAfterAllocation(t *testing.T) {
	t.Parallel()

	result, err := New().Run(sampleBlocks, sampleProcesses, FirstFit)
	require.NoError(t, err)

	assert.Equal(t, MemoryBlock{ID: 0, Size: 100, Status: StatusFree}, result.Blocks[0])
	assert.Equal(t, MemoryBlock{
		ID:               1,
		Size:             500,
		Status:           StatusAllocated,
		OccupantID:       "P1",
		RequestedSize:    212,
		InternalFragment: 288,
	}, result.Blocks[1])
	assert.Equal(t, MemoryBlock{ID: 3, Size: 300, Status: StatusFree}, result.Blocks[3])
}

func TestRun_StrategiesDifferForFirstProcess(t *testing.T) {
	t.Parallel()

	results, err := New().RunAll(sampleBlocks, sampleProcesses)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, []Strategy{FirstFit, BestFit, WorstFit},
		[]Strategy{results[0].Strategy, results[1].Strategy, results[2].Strategy})
	assert.NotEqual(t, results[0].Processes[0].BlockID, results[1].Processes[0].BlockID)
	assert.NotEqual(t, results[0].Processes[0].BlockID, results[2].Processes[0].BlockID)
}

func TestRun_TieBreaksOnLowestID(t *testing.T) {
	t.Parallel()

	blocks := []int{300, 150, 300, 150}

	best, err := New().Run(blocks, []int{120}, BestFit)
	require.NoError(t, err)
	assert.Equal(t, 1, best.Processes[0].BlockID)

	worst, err := New().Run(blocks, []int{120}, WorstFit)
	require.NoError(t, err)
	assert.Equal(t, 0, worst.Processes[0].BlockID)

	first, err := New().Run(blocks, []int{200}, FirstFit)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Processes[0].BlockID)
}

func TestRun_ExactFitLeavesNoInternalFragment(t *testing.T) {
	t.Parallel()

	result, err := New().Run([]int{50, 80}, []int{80, 50}, BestFit)
	require.NoError(t, err)

	assert.Equal(t, 2, result.AllocatedCount)
	assert.Equal(t, 0, result.TotalInternalFragment)
	assert.Equal(t, 0, result.TotalFree)
	assert.Equal(t, 0, result.LargestFree)
	assert.Equal(t, 0, result.ExternalFragment)
}

func TestRun_BlocksAreNotReused(t *testing.T) {
	t.Parallel()

	result, err := New().Run([]int{1000}, []int{10, 10, 10}, FirstFit)
	require.NoError(t, err)

	assert.Equal(t, 1, result.AllocatedCount)
	assert.Equal(t, []string{"P2", "P3"}, result.UnallocatedProcesses())
	assert.Equal(t, 990, result.TotalInternalFragment)
}

func TestRun_InvalidInput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		blocks    []int
		processes []int
	}{
		{"no blocks", nil, []int{10}},
		{"empty blocks", []int{}, []int{10}},
		{"no processes", []int{10}, nil},
		{"zero block", []int{10, 0}, []int{10}},
		{"negative process", []int{10}, []int{-1}},
		{"block total overflows", []int{math.MaxInt, math.MaxInt, math.MaxInt}, []int{1}},
		{"process total overflows", []int{10}, []int{math.MaxInt, 1}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			result, err := New().Run(tc.blocks, tc.processes, FirstFit)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, StrategyResult{}, result)

			all, err := New().RunAll(tc.blocks, tc.processes)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, all)
		})
	}
}

func TestRun_LargestRepresentableLayoutKeepsAccounting(t *testing.T) {
	t.Parallel()

	blocks := []int{math.MaxInt - 10, 6, 4}
	result, err := New().Run(blocks, []int{5}, FirstFit)
	require.NoError(t, err)

	assert.Equal(t, math.MaxInt, result.TotalMemory())
	assert.Equal(t, 10, result.TotalFree)
	assert.Equal(t, 6, result.LargestFree)
	assert.Equal(t, 4, result.ExternalFragment)
	assert.Equal(t, math.MaxInt-15, result.TotalInternalFragment)
	assert.Equal(t, result.TotalMemory(), result.TotalFree+5+result.TotalInternalFragment)
}

func TestRun_UnknownStrategy(t *testing.T) {
	t.Parallel()

	_, err := New().Run(sampleBlocks, sampleProcesses, Strategy(7))
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	_, err = New().Run(sampleBlocks, sampleProcesses, Strategy(-1))
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestRun_InvalidInputReportedBeforeStrategy(t *testing.T) {
	t.Parallel()

	_, err := New().Run(nil, sampleProcesses, Strategy(9))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRun_DoesNotRetainInput(t *testing.T) {
	t.Parallel()

	blocks := []int{100, 200}
	processes := []int{150}

	result, err := New().Run(blocks, processes, FirstFit)
	require.NoError(t, err)

	blocks[1] = 1
	processes[0] = 1
	assert.Equal(t, 200, result.Blocks[1].Size)
	assert.Equal(t, 150, result.Processes[0].Size)
}

func TestRun_Idempotent(t *testing.T) {
	t.Parallel()

	for _, strategy := range Strategies() {
		a, err := New().Run(sampleBlocks, sampleProcesses, strategy)
		require.NoError(t, err)
		b, err := New().Run(sampleBlocks, sampleProcesses, strategy)
		require.NoError(t, err)

		assert.Equal(t, a, b)
		if len(a.Blocks) > 0 {
			assert.NotSame(t, &a.Blocks[0], &b.Blocks[0])
		}
	}
}

func TestRun_Properties(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(42, 1024))
	engine := New()

	for i := 0; i < 200; i++ {
		blocks := randomSizes(rng, 1+rng.IntN(12), 1000)
		processes := randomSizes(rng, 1+rng.IntN(12), 1000)

		for _, strategy := range Strategies() {
			result, err := engine.Run(blocks, processes, strategy)
			require.NoError(t, err)

			assert.Equal(t, result.ProcessCount(), result.AllocatedCount+len(result.UnallocatedProcesses()))

			requested, blockTotal := 0, 0
			for _, b := range result.Blocks {
				blockTotal += b.Size
				if b.Allocated() {
					requested += b.RequestedSize
					assert.GreaterOrEqual(t, b.InternalFragment, 0)
				}
			}
			assert.Equal(t, blockTotal, result.TotalFree+requested+result.TotalInternalFragment)

			if result.TotalFree > 0 {
				assert.Equal(t, result.TotalFree-result.LargestFree, result.ExternalFragment)
			} else {
				assert.Zero(t, result.ExternalFragment)
				assert.Zero(t, result.LargestFree)
			}

			assertOccupancyConsistent(t, result)
			assertSelectionRule(t, result)
		}
	}
}

func assertOccupancyConsistent(t *testing.T, result StrategyResult) {
	t.Helper()

	for _, p := range result.Processes {
		if !p.Allocated {
			assert.Equal(t, NoBlock, p.BlockID)
			continue
		}
		require.GreaterOrEqual(t, p.BlockID, 0)
		assert.Equal(t, p.ID, result.Blocks[p.BlockID].OccupantID)
		assert.Equal(t, p.Size, result.Blocks[p.BlockID].RequestedSize)
	}
}

// assertSelectionRule replays the pass and checks each choice against the
// candidates that were free when the process was placed.
func assertSelectionRule(t *testing.T, result StrategyResult) {
	t.Helper()

	taken := make(map[int]bool)
	for _, p := range result.Processes {
		var candidates []MemoryBlock
		for _, b := range result.Blocks {
			if !taken[b.ID] && b.Size >= p.Size {
				candidates = append(candidates, b)
			}
		}

		if !p.Allocated {
			assert.Empty(t, candidates, "process %s left unallocated with free candidates", p.ID)
			continue
		}

		chosen := result.Blocks[p.BlockID]
		for _, c := range candidates {
			switch result.Strategy {
			case FirstFit:
				assert.LessOrEqual(t, chosen.ID, c.ID)
			case BestFit:
				assert.True(t, chosen.Size < c.Size || (chosen.Size == c.Size && chosen.ID <= c.ID))
			case WorstFit:
				assert.True(t, chosen.Size > c.Size || (chosen.Size == c.Size && chosen.ID <= c.ID))
			}
		}
		taken[p.BlockID] = true
	}
}

func randomSizes(rng *rand.Rand, n, limit int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = 1 + rng.IntN(limit)
	}
	return out
}

func TestParseStrategy(t *testing.T) {
	t.Parallel()

	table := map[string]Strategy{
		"First Fit": FirstFit,
		"first-fit": FirstFit,
		"FF":        FirstFit,
		" best ":    BestFit,
		"BEST_FIT":  BestFit,
		"bf":        BestFit,
		"worst fit": WorstFit,
		"wf":        WorstFit,
	}
	for name, want := range table {
		got, err := ParseStrategy(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseStrategy("next fit")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
	_, err = ParseStrategy("")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestStrategyNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "First Fit", FirstFit.String())
	assert.Equal(t, "worst-fit", WorstFit.Slug())
	assert.Equal(t, "Strategy(5)", Strategy(5).String())
	assert.Empty(t, Strategy(5).Slug())

	for _, s := range Strategies() {
		parsed, err := ParseStrategy(s.Slug())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
}

func TestStrategyJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(struct {
		Strategy Strategy `json:"strategy"`
	}{BestFit})
	require.NoError(t, err)
	assert.JSONEq(t, `{"strategy":"Best Fit"}`, string(data))

	var decoded struct {
		Strategy Strategy `json:"strategy"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"strategy":"worst-fit"}`), &decoded))
	assert.Equal(t, WorstFit, decoded.Strategy)

	_, err = json.Marshal(Strategy(4))
	assert.Error(t, err)
}
