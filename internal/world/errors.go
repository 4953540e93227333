package world

import "errors"

var (
	// ErrInvalidDimension is returned when a grid is created with a non-positive size.
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrOutOfBounds is returned for grid access outside the declared extents.
	// Seeing it from a generator means the generator has a bug.
	ErrOutOfBounds = errors.New("coordinate out of bounds")
	// ErrInvalidConfig is returned when generation parameters cannot produce a level.
	ErrInvalidConfig = errors.New("invalid config")
)
