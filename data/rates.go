package data

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/interp"
)

// RateCurve is a risk-free short-rate term structure indexed by year fraction.
type RateCurve interface {
	Rate(t float64) float64
	Rates(ts []float64) []float64
}

// Flat is a constant rate.
type Flat float64

func (f Flat) Rate(float64) float64 { return float64(f) }

func (f Flat) Rates(ts []float64) []float64 {
	out := make([]float64, len(ts))
	for i := range out {
		out[i] = float64(f)
	}
	return out
}

// Linear interpolates between pillar rates and holds the end values flat outside the pillars.
type Linear struct {
	pl interp.PiecewiseLinear
}

// Constructor for Linear. Pillars need not be sorted but must be distinct.
func NewLinear(times, rates []float64) (*Linear, error) {
	if len(times) != len(rates) {
		return nil, errors.New("rate curve: times and rates differ in length")
	}
	if len(times) < 2 {
		return nil, errors.New("rate curve: at least two pillars required")
	}
	idx := make([]int, len(times))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return times[idx[i]] < times[idx[j]] })
	xs := make([]float64, len(times))
	ys := make([]float64, len(times))
	for i, k := range idx {
		xs[i], ys[i] = times[k], rates[k]
		if i > 0 && xs[i] == xs[i-1] {
			return nil, fmt.Errorf("rate curve: duplicate pillar %v", xs[i])
		}
	}
	var l Linear
	if err := l.pl.Fit(xs, ys); err != nil {
		return nil, err
	}
	return &l, nil
}

func (l *Linear) Rate(t float64) float64 { return l.pl.Predict(t) }

func (l *Linear) Rates(ts []float64) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = l.pl.Predict(t)
	}
	return out
}

// AverageRate returns (1/T)∫₀ᵀ r(t)dt using the trapezoidal rule on n points.
func AverageRate(c RateCurve, T float64, n int) float64 {
	if T <= 0 {
		return c.Rate(0)
	}
	if n < 2 {
		n = 2
	}
	ts := make([]float64, n)
	for i := range ts {
		ts[i] = T * float64(i) / float64(n-1)
	}
	return integrate.Trapezoidal(ts, c.Rates(ts)) / T
}
