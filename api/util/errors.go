package util

import "errors"

// ErrNonPositiveScale is returned when a scale factor is zero or negative.
var ErrNonPositiveScale = errors.New("scale factor must be > 0")
