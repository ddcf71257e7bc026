package core

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned when a caller addresses a coordinate outside the
// grid directly. Neighbour sampling never produces it; those samples are
// skipped instead.
var ErrOutOfBounds = errors.New("coordinate out of bounds")

// ConfigError reports an invalid construction parameter.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// OutOfBounds wraps ErrOutOfBounds with the offending coordinate.
func OutOfBounds(c Coord, d Dims) error {
	return fmt.Errorf("%w: %s not within %dx%dx%d", ErrOutOfBounds, c, d.W, d.H, d.D)
}
