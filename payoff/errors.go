package payoff

import "errors"

var (
	// ErrValidation marks a contract that can never be priced as described.
	ErrValidation = errors.New("invalid contract")
	// ErrNotFinalized is returned when a contract is used before Attach.
	ErrNotFinalized = errors.New("contract not finalized")
)
