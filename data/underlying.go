package data

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Underlying is a market snapshot of one asset at its spot time.
// Drift is optional; the risk-neutral pricers ignore it.
type Underlying struct {
	Time  time.Time
	Price float64
	Drift *float64
	Vol   float64
	Div   float64
}

var ErrInvalidUnderlying = errors.New("invalid underlying")

// Constructor for Underlying
func NewUnderlying(spotTime time.Time, price, vol, div float64) (Underlying, error) {
	u := Underlying{Time: spotTime, Price: price, Vol: vol, Div: div}
	if err := u.Validate(); err != nil {
		return Underlying{}, err
	}
	return u, nil
}

// WithDrift returns a copy of u carrying drift mu.
func (u Underlying) WithDrift(mu float64) Underlying {
	u.Drift = &mu
	return u
}

func (u Underlying) Validate() error {
	switch {
	case u.Time.IsZero():
		return fmt.Errorf("%w: missing spot time", ErrInvalidUnderlying)
	case !(u.Price > 0) || math.IsInf(u.Price, 0):
		return fmt.Errorf("%w: spot price must be positive, got %v", ErrInvalidUnderlying, u.Price)
	case !(u.Vol > 0) || math.IsInf(u.Vol, 0):
		return fmt.Errorf("%w: volatility must be positive, got %v", ErrInvalidUnderlying, u.Vol)
	case !(u.Div >= 0) || math.IsInf(u.Div, 0):
		return fmt.Errorf("%w: dividend yield must be non-negative, got %v", ErrInvalidUnderlying, u.Div)
	}
	return nil
}
