package pde

import (
	"testing"
	"time"

	"github.com/banachtech/opricer/data"
	"github.com/banachtech/opricer/payoff"
	"github.com/stretchr/testify/require"
)

var (
	spotDate = time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	expiry   = time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC)
)

const rate = data.Flat(0.05)

func vanilla(t *testing.T, kind payoff.Kind, exercise payoff.Exercise, strike, div float64) *payoff.Option {
	opt, err := payoff.NewVanilla(kind, exercise, expiry)
	require.NoError(t, err)
	u, err := data.NewUnderlying(spotDate, 100, 0.2, div)
	require.NoError(t, err)
	require.NoError(t, opt.Attach(strike, u))
	return opt
}

func knockOut(t *testing.T, kind payoff.Kind, barrier payoff.Barrier, rebate float64) *payoff.Option {
	opt, err := payoff.NewBarrier(kind, expiry, barrier, rebate)
	require.NoError(t, err)
	u, err := data.NewUnderlying(spotDate, 100, 0.2, 0)
	require.NoError(t, err)
	require.NoError(t, opt.Attach(100, u))
	return opt
}

func fineSolver(t *testing.T) *Solver {
	s, err := NewSolver(Options{AssetNo: 101, TimeNo: 100, PriceMultiplier: 5}, rate)
	require.NoError(t, err)
	return s
}

func solverWith(t *testing.T, opts Options, curve data.RateCurve) *Solver {
	s, err := NewSolver(opts, curve)
	require.NoError(t, err)
	return s
}
