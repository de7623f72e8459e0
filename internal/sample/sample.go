// Package sample provides the canonical demo inputs and random block layouts.
package sample

import "math/rand/v2"

var (
	blocks    = []int{100, 500, 200, 300, 600}
	processes = []int{212, 417, 112, 426}
)

// Blocks returns a copy of the demo block sizes in KB.
func Blocks() []int {
	return append([]int(nil), blocks...)
}

// Processes returns a copy of the demo process sizes in KB.
func Processes() []int {
	return append([]int(nil), processes...)
}

// RandomBlocks splits total into 3-8 shuffled blocks, mostly in multiples of
// 5 KB, whose sizes add up to total. A non-positive total falls back to
// DefaultRandomBlocks.
func RandomBlocks(rng *rand.Rand, total int) []int {
	if total <= 0 {
		return DefaultRandomBlocks(rng)
	}

	count := 3 + rng.IntN(6)
	out := make([]int, 0, count)
	remaining := total

	for i := 0; i < count-1; i++ {
		if remaining <= 10 {
			break
		}
		// leave room for the blocks still to come
		ceiling := max(10, remaining-10*(count-1-i))
		upper := max(5, int(float64(ceiling)*0.6))
		size := (5 + rng.IntN(upper-4)) / 5 * 5
		if size >= remaining {
			break
		}
		out = append(out, size)
		remaining -= size
	}

	if remaining > 0 {
		out = append(out, remaining)
	}

	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// DefaultRandomBlocks returns 4-8 blocks of 50-800 KB in steps of 10 KB.
func DefaultRandomBlocks(rng *rand.Rand) []int {
	count := 4 + rng.IntN(5)
	out := make([]int, count)
	for i := range out {
		out[i] = (5 + rng.IntN(76)) * 10
	}
	return out
}
