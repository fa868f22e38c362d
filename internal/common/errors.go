package common

import "errors"

var (
	// ErrInvalidParameter is returned when sizing or construction parameters
	// are out of range: n == 0, p outside (0, 1), m == 0, k == 0, or a
	// counter width the counter vector cannot represent.
	ErrInvalidParameter = errors.New("bloomy: invalid parameter")

	// ErrIncompatibleFilters is returned by union, intersection, similarity
	// and overlap when the operands differ in m or k.
	ErrIncompatibleFilters = errors.New("bloomy: incompatible filters")
)
