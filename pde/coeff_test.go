package pde

import (
	"testing"

	"github.com/banachtech/opricer/data"
	"github.com/banachtech/opricer/payoff"
	"github.com/stretchr/testify/require"
)

func TestNewCoefficients(t *testing.T) {
	opt := vanilla(t, payoff.Call, payoff.European, 100, 0.01)
	curve, err := data.NewLinear([]float64{0, 1}, []float64{0.01, 0.03})
	require.NoError(t, err)

	T, c, err := NewCoefficients(opt, curve)
	require.NoError(t, err)
	require.InDelta(t, 1.0, T, 1e-12)
	require.InDelta(t, 200.0, c.Diffusion(100, 0.3), 1e-9)
	require.InDelta(t, 0.0, c.Drift(100, 0), 1e-9)
	require.InDelta(t, 1.0, c.Drift(100, 0.5), 1e-9)
	require.InDelta(t, -0.03, c.Discount(50, 1), 1e-12)

	unattached, err := payoff.NewVanilla(payoff.Call, payoff.European, expiry)
	require.NoError(t, err)
	_, _, err = NewCoefficients(unattached, curve)
	require.ErrorIs(t, err, payoff.ErrNotFinalized)
}

func TestCoefficientBands(t *testing.T) {
	opt := vanilla(t, payoff.Put, payoff.European, 100, 0)
	_, c, err := NewCoefficients(opt, rate)
	require.NoError(t, err)
	g, err := DefaultOptions().Grid(opt)
	require.NoError(t, err)

	b := c.bands(g)
	r, cols := b.A.Dims()
	require.Equal(t, g.TimeNo(), r)
	require.Equal(t, g.AssetNo(), cols)

	v1, v2 := g.DT/(g.DS*g.DS), g.DT/g.DS
	for _, ij := range [][2]int{{0, 0}, {5, 3}, {99, 9}} {
		i, j := ij[0], ij[1]
		s, tm := g.Assets[j], g.Times[i]
		diff, drift, disc := c.Diffusion(s, tm), c.Drift(s, tm), c.Discount(s, tm)
		require.InDelta(t, v1*diff/2-v2*drift/4, b.A.At(i, j), 1e-12)
		require.InDelta(t, -v1*diff+g.DT*disc/2, b.B.At(i, j), 1e-12)
		require.InDelta(t, v1*diff/2+v2*drift/4, b.C.At(i, j), 1e-12)
	}
	// no diffusion or drift at S = 0
	require.Equal(t, 0.0, b.A.At(10, 0))
	require.Equal(t, 0.0, b.C.At(10, 0))
}
