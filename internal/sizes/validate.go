package sizes

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Validate checks that values is non-empty, strictly positive and sums to
// at most math.MaxInt, and returns a copy.
// label names the sequence in error messages, e.g. "memory blocks".
func Validate(values []int, label string) ([]int, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: %s cannot be empty", ErrInvalidInput, label)
	}

	clean := make([]int, len(values))
	total := 0
	for i, value := range values {
		if value <= 0 {
			return nil, fmt.Errorf("%w: %s must contain positive integers only, got %d at position %d",
				ErrInvalidInput, label, value, i)
		}
		if value > math.MaxInt-total {
			return nil, fmt.Errorf("%w: %s total exceeds %d at position %d",
				ErrInvalidInput, label, math.MaxInt, i)
		}
		total += value
		clean[i] = value
	}
	return clean, nil
}

// Format renders sizes the way Parse accepts them back, e.g. "100, 500, 200".
func Format(values []int) string {
	parts := make([]string, len(values))
	for i, value := range values {
		parts[i] = strconv.Itoa(value)
	}
	return strings.Join(parts, ", ")
}

// Sum returns the total of values.
func Sum(values []int) int {
	total := 0
	for _, value := range values {
		total += value
	}
	return total
}
