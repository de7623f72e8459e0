package allocator

import (
	"errors"

	"github.com/eugenenazirov/fragmentation-analyzer/internal/sizes"
)

var (
	// ErrInvalidInput is returned when block or process sizes are empty or non-positive.
	ErrInvalidInput = sizes.ErrInvalidInput
	// ErrUnknownStrategy is returned when the requested placement strategy is not supported.
	ErrUnknownStrategy = errors.New("unknown allocation strategy")
)
