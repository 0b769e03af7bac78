package pde

import (
	"fmt"
	"math"

	"github.com/banachtech/opricer/data"
	"github.com/banachtech/opricer/payoff"
)

// Bounds are the lower and upper edge values of the asset axis, aligned to Grid.Times.
type Bounds struct {
	Lower []float64
	Upper []float64
}

// ResolveBounds computes the edge values for opt on g. Barrier contracts get
// Dirichlet values from the barrier levels capped by the discounted intrinsic
// value at the far edge. Vanilla contracts get the constant Neumann proxy.
func ResolveBounds(opt *payoff.Option, g *Grid, rate data.RateCurve) (Bounds, error) {
	T, err := opt.TimeToMaturity()
	if err != nil {
		return Bounds{}, err
	}
	nt := g.TimeNo()
	b := Bounds{Lower: make([]float64, nt), Upper: make([]float64, nt)}

	switch opt.Boundary() {
	case payoff.Dirichlet:
		levels, _ := opt.Barrier()
		K, div := opt.Strike(), opt.Div()
		sMin, sMax := g.Assets[0], g.Assets[len(g.Assets)-1]
		rs := rate.Rates(g.Times)
		for i, t := range g.Times {
			tau := T - t
			switch opt.Kind() {
			case payoff.Call:
				b.Lower[i] = math.Max(0, levels.Lower)
				b.Upper[i] = math.Min(levels.Upper, sMax*math.Exp(-div*tau)-K*math.Exp(-rs[i]*tau))
			case payoff.Put:
				upper := 0.0
				if levels.HasUpper() {
					upper = levels.Upper
				}
				lower := math.Inf(1)
				if levels.HasLower() {
					lower = levels.Lower
				}
				b.Upper[i] = math.Max(0, upper)
				b.Lower[i] = math.Min(lower, K*math.Exp(-rs[i]*tau)-sMin*math.Exp(-div*tau))
			default:
				return Bounds{}, fmt.Errorf("%w: unknown option type %q", payoff.ErrValidation, opt.Kind())
			}
		}
	case payoff.Neumann:
		var lower, upper float64
		switch opt.Kind() {
		case payoff.Call:
			lower, upper = 0, g.DS
		case payoff.Put:
			lower, upper = -g.DS, 0
		default:
			return Bounds{}, fmt.Errorf("%w: unknown option type %q", payoff.ErrValidation, opt.Kind())
		}
		for i := range b.Lower {
			b.Lower[i], b.Upper[i] = lower, upper
		}
	default:
		return Bounds{}, fmt.Errorf("%w: unknown boundary kind %v", ErrConfiguration, opt.Boundary())
	}
	return b, nil
}
