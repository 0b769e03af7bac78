package pde

import "errors"

var (
	// ErrNumerical reports a singular or ill-conditioned step system or a non-finite solution.
	ErrNumerical = errors.New("numerical failure")
	// ErrConfiguration reports an invalid grid or solver setting.
	ErrConfiguration = errors.New("invalid solver configuration")
)
