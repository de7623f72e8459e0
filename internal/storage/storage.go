package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/eugenenazirov/fragmentation-analyzer/internal/sample"
	"github.com/eugenenazirov/fragmentation-analyzer/internal/sizes"
)

// MaxBlocks caps the number of blocks in a layout.
const MaxBlocks = 256

var (
	// ErrInvalidBlockSizes indicates the provided block sizes violate validation rules.
	ErrInvalidBlockSizes = errors.New("block sizes must contain between 1 and 256 positive integers")
)

// Storage provides access to the block layout used for analysis.
type Storage interface {
	GetBlockSizes() ([]int, error)
	SetBlockSizes(sizes []int) error
}

// MemoryStorage keeps the block layout in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu         sync.RWMutex
	blockSizes []int
}

// NewMemoryStorage initialises storage with the default block layout.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		blockSizes: DefaultBlockSizes(),
	}
}

// DefaultBlockSizes returns a copy of the default block layout.
func DefaultBlockSizes() []int {
	return sample.Blocks()
}

// GetBlockSizes returns a copy of the current layout in block id order.
func (s *MemoryStorage) GetBlockSizes() ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clone(s.blockSizes), nil
}

// SetBlockSizes validates and stores the layout. Order is kept as given since
// it defines block ids.
func (s *MemoryStorage) SetBlockSizes(blockSizes []int) error {
	validated, err := validateBlockSizes(blockSizes)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.blockSizes = validated
	s.mu.Unlock()

	return nil
}

func clone(src []int) []int {
	out := make([]int, len(src))
	copy(out, src)
	return out
}

func validateBlockSizes(blockSizes []int) ([]int, error) {
	if len(blockSizes) > MaxBlocks {
		return nil, fmt.Errorf("%w: got %d blocks", ErrInvalidBlockSizes, len(blockSizes))
	}
	validated, err := sizes.Validate(blockSizes, "memory blocks")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBlockSizes, err)
	}
	return validated, nil
}
