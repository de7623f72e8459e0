package allocator

import (
	"fmt"
	"strings"
)

// Strategy selects which free block receives a process.
type Strategy int

const (
	// FirstFit picks the earliest listed block that is large enough.
	FirstFit Strategy = iota
	// BestFit picks the smallest block that is large enough.
	BestFit
	// WorstFit picks the largest block that is large enough.
	WorstFit
)

var strategyNames = [...]string{
	FirstFit: "First Fit",
	BestFit:  "Best Fit",
	WorstFit: "Worst Fit",
}

var strategySlugs = [...]string{
	FirstFit: "first-fit",
	BestFit:  "best-fit",
	WorstFit: "worst-fit",
}

var strategyAliases = map[string]Strategy{
	"firstfit": FirstFit,
	"first":    FirstFit,
	"ff":       FirstFit,
	"bestfit":  BestFit,
	"best":     BestFit,
	"bf":       BestFit,
	"worstfit": WorstFit,
	"worst":    WorstFit,
	"wf":       WorstFit,
}

// Strategies returns every supported strategy in reporting order.
func Strategies() []Strategy {
	return []Strategy{FirstFit, BestFit, WorstFit}
}

// Valid reports whether s is one of the supported strategies.
func (s Strategy) Valid() bool {
	return s >= FirstFit && s <= WorstFit
}

// String returns the display name, e.g. "Best Fit".
func (s Strategy) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
	return strategyNames[s]
}

// Slug returns the URL/flag friendly name, e.g. "best-fit".
func (s Strategy) Slug() string {
	if !s.Valid() {
		return ""
	}
	return strategySlugs[s]
}

// MarshalText encodes the strategy as its display name.
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText accepts anything ParseStrategy does.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStrategy resolves display names ("Best Fit"), slugs ("best-fit") and
// short aliases ("best", "bf"). Matching ignores case, spaces, hyphens and underscores.
func ParseStrategy(name string) (Strategy, error) {
	key := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '\t':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(name)))

	if s, ok := strategyAliases[key]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// selectFunc returns the index of the chosen block or NoBlock.
type selectFunc func(blocks []MemoryBlock, size int) int

func (s Strategy) selector() selectFunc {
	switch s {
	case FirstFit:
		return selectFirstFit
	case BestFit:
		return selectBestFit
	case WorstFit:
		return selectWorstFit
	}
	return nil
}

func fits(block MemoryBlock, size int) bool {
	return block.Status == StatusFree && block.Size >= size
}

func selectFirstFit(blocks []MemoryBlock, size int) int {
	for i := range blocks {
		if fits(blocks[i], size) {
			return i
		}
	}
	return NoBlock
}

// Blocks are scanned in id order, so a strict comparison keeps the lowest id on ties.
func selectBestFit(blocks []MemoryBlock, size int) int {
	chosen := NoBlock
	for i := range blocks {
		if !fits(blocks[i], size) {
			continue
		}
		if chosen == NoBlock || blocks[i].Size < blocks[chosen].Size {
			chosen = i
		}
	}
	return chosen
}

func selectWorstFit(blocks []MemoryBlock, size int) int {
	chosen := NoBlock
	for i := range blocks {
		if !fits(blocks[i], size) {
			continue
		}
		if chosen == NoBlock || blocks[i].Size > blocks[chosen].Size {
			chosen = i
		}
	}
	return chosen
}
