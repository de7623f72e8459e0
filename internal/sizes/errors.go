package sizes

import "errors"

// ErrInvalidInput is returned when size data is empty, non-numeric, non-positive or malformed.
var ErrInvalidInput = errors.New("invalid size input")
