package pde

import (
	"math"
	"testing"

	"github.com/banachtech/opricer/data"
	"github.com/banachtech/opricer/payoff"
	"github.com/stretchr/testify/require"
)

const (
	bsCall = 10.450583572185565
	bsPut  = 5.573526022256971
)

func TestNewSolverErrors(t *testing.T) {
	for name, opts := range map[string]Options{
		"ASSETS":     {AssetNo: 2, TimeNo: 100, PriceMultiplier: 5},
		"TIMES":      {AssetNo: 10, TimeNo: 1, PriceMultiplier: 5},
		"MULTIPLIER": {AssetNo: 10, TimeNo: 100, PriceMultiplier: 0},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewSolver(opts, rate)
			require.ErrorIs(t, err, ErrConfiguration)
		})
	}
	_, err := NewSolver(DefaultOptions(), nil)
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestSurfaceShape(t *testing.T) {
	s, err := NewSolver(DefaultOptions(), rate)
	require.NoError(t, err)

	for _, opt := range []*payoff.Option{
		vanilla(t, payoff.Call, payoff.European, 100, 0),
		knockOut(t, payoff.Put, payoff.Barrier{Lower: 30, Upper: 150}, 0),
	} {
		t.Run(opt.Boundary().String(), func(t *testing.T) {
			surf, err := s.Surface(opt)
			require.NoError(t, err)
			require.Equal(t, opt.Boundary(), surf.Boundary)
			require.Len(t, surf.Rows, 100)
			for _, row := range surf.Rows {
				require.Len(t, row, 10)
			}
			require.InDelta(t, 1.0, surf.Time(0), 1e-12)
			require.Equal(t, 0.0, surf.Time(len(surf.Rows)-1))

			want, err := opt.Payout(surf.Grid.Assets)
			require.NoError(t, err)
			damp(opt, surf.Grid.Assets, want)
			require.Equal(t, want, surf.Rows[0])
		})
	}
}

func TestBlackScholesScenario(t *testing.T) {
	s := fineSolver(t)

	for _, test := range []struct {
		kind payoff.Kind
		want float64
	}{
		{kind: payoff.Call, want: bsCall},
		{kind: payoff.Put, want: bsPut},
	} {
		t.Run(string(test.kind), func(t *testing.T) {
			surf, err := s.Surface(vanilla(t, test.kind, payoff.European, 100, 0))
			require.NoError(t, err)
			require.Equal(t, 100.0, surf.Grid.Assets[20])
			require.InDelta(t, test.want, surf.Valuation()[20], 1.0)

			got, err := surf.At(100)
			require.NoError(t, err)
			require.InDelta(t, test.want, got, 1.0)
		})
	}
}

func TestPutCallParity(t *testing.T) {
	s := fineSolver(t)
	call, err := s.Price(vanilla(t, payoff.Call, payoff.European, 100, 0))
	require.NoError(t, err)
	put, err := s.Price(vanilla(t, payoff.Put, payoff.European, 100, 0))
	require.NoError(t, err)

	df := math.Exp(-0.05)
	for i := 10; i <= 30; i++ {
		S := 5 * float64(i)
		forward := S - 100*df
		require.InDelta(t, forward, call[i]-put[i], 1e-2*math.Max(1, math.Abs(forward)), "S=%v", S)
	}
}

func TestMonotoneInSpot(t *testing.T) {
	s, err := NewSolver(DefaultOptions(), rate)
	require.NoError(t, err)

	call, err := s.Price(vanilla(t, payoff.Call, payoff.European, 100, 0))
	require.NoError(t, err)
	put, err := s.Price(vanilla(t, payoff.Put, payoff.European, 100, 0))
	require.NoError(t, err)

	for i := 1; i < len(call); i++ {
		require.GreaterOrEqual(t, call[i], call[i-1]-1e-9)
		require.LessOrEqual(t, put[i], put[i-1]+1e-9)
	}
}

func TestKnockOutDamping(t *testing.T) {
	s, err := NewSolver(DefaultOptions(), rate)
	require.NoError(t, err)

	surf, err := s.Surface(knockOut(t, payoff.Call, payoff.NoUpper(30), 0))
	require.NoError(t, err)
	for k, row := range surf.Rows {
		require.Equal(t, 0.0, row[0], "row %d", k)
	}

	opt := knockOut(t, payoff.Put, payoff.Barrier{Lower: 30, Upper: 150}, 2)
	surf, err = s.Surface(opt)
	require.NoError(t, err)
	for k, row := range surf.Rows {
		for j, S := range surf.Grid.Assets {
			if S <= 30 || S >= 150 {
				require.Equal(t, 2.0, row[j], "row %d node %d", k, j)
			}
		}
	}
}

func TestKnockOutBelowVanilla(t *testing.T) {
	s := fineSolver(t)
	plain, err := s.Surface(vanilla(t, payoff.Call, payoff.European, 100, 0))
	require.NoError(t, err)
	barrier, err := s.Surface(knockOut(t, payoff.Call, payoff.NoUpper(30), 0))
	require.NoError(t, err)

	v, b := plain.Valuation(), barrier.Valuation()
	for j, S := range plain.Grid.Assets {
		if S > 150 {
			break
		}
		require.LessOrEqual(t, b[j], v[j]+1e-4, "S=%v", S)
		require.GreaterOrEqual(t, b[j], -1e-6, "S=%v", S)
	}
	last := len(b) - 1
	require.InDelta(t, 500-100*math.Exp(-0.05), b[last], 1e-9)
}

func TestAmericanPricedAsEuropean(t *testing.T) {
	s, err := NewSolver(DefaultOptions(), rate)
	require.NoError(t, err)
	eu, err := s.Price(vanilla(t, payoff.Put, payoff.European, 100, 0))
	require.NoError(t, err)
	am, err := s.Price(vanilla(t, payoff.Put, payoff.American, 100, 0))
	require.NoError(t, err)
	require.Equal(t, eu, am)
}

func TestSolverNotFinalized(t *testing.T) {
	s, err := NewSolver(DefaultOptions(), rate)
	require.NoError(t, err)
	opt, err := payoff.NewVanilla(payoff.Call, payoff.European, expiry)
	require.NoError(t, err)

	_, err = s.Surface(opt)
	require.ErrorIs(t, err, payoff.ErrNotFinalized)
	_, err = s.Price(nil)
	require.ErrorIs(t, err, payoff.ErrNotFinalized)
}

func TestSolverOnStepAndSeries(t *testing.T) {
	s, err := NewSolver(Options{AssetNo: 10, TimeNo: 20, PriceMultiplier: 5}, rate)
	require.NoError(t, err)

	var calls, lastDone, lastTotal int
	s.OnStep = func(done, total int) {
		calls++
		lastDone, lastTotal = done, total
	}
	series, err := s.Series(vanilla(t, payoff.Call, payoff.European, 100, 0))
	require.NoError(t, err)
	require.Equal(t, 19, calls)
	require.Equal(t, 19, lastDone)
	require.Equal(t, 19, lastTotal)
	require.Equal(t, "pde", series.Label)
	require.Len(t, series.Assets, 10)
	require.Len(t, series.Prices, 10)
}

func TestSurfaceAtOutsideAxis(t *testing.T) {
	s, err := NewSolver(DefaultOptions(), rate)
	require.NoError(t, err)
	surf, err := s.Surface(vanilla(t, payoff.Call, payoff.European, 100, 0))
	require.NoError(t, err)
	_, err = surf.At(-1)
	require.ErrorIs(t, err, ErrConfiguration)
	_, err = surf.At(501)
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestPutCallParityDefaultGrid(t *testing.T) {
	s := solverWith(t, DefaultOptions(), rate)
	call, err := s.Surface(vanilla(t, payoff.Call, payoff.European, 100, 0))
	require.NoError(t, err)
	put, err := s.Price(vanilla(t, payoff.Put, payoff.European, 100, 0))
	require.NoError(t, err)

	df := math.Exp(-0.05)
	v := call.Valuation()
	for j, S := range call.Grid.Assets {
		// the constant Neumann proxy degrades parity on the top nodes
		if S > 340 {
			break
		}
		forward := S - 100*df
		require.InDelta(t, forward, v[j]-put[j], 1e-2*math.Max(1, math.Abs(forward)), "S=%v", S)
	}
}

func TestSurfaceSingleInteriorNode(t *testing.T) {
	s := solverWith(t, Options{AssetNo: 3, TimeNo: 10, PriceMultiplier: 5}, rate)

	for _, opt := range []*payoff.Option{
		knockOut(t, payoff.Put, payoff.Barrier{Lower: 30, Upper: 150}, 0),
		knockOut(t, payoff.Call, payoff.NoUpper(30), 0),
	} {
		t.Run(string(opt.Kind()), func(t *testing.T) {
			surf, err := s.Surface(opt)
			require.NoError(t, err)
			require.Len(t, surf.Rows, 10)
			for _, row := range surf.Rows {
				require.Len(t, row, 3)
				for _, v := range row {
					require.False(t, math.IsNaN(v) || math.IsInf(v, 0))
				}
			}
		})
	}
}

func TestUpAndOutLowerEdge(t *testing.T) {
	s := solverWith(t, DefaultOptions(), rate)

	put := knockOut(t, payoff.Put, payoff.Barrier{Upper: 150}, 0)
	surf, err := s.Surface(put)
	require.NoError(t, err)
	b, err := ResolveBounds(put, surf.Grid, rate)
	require.NoError(t, err)
	nt := surf.Grid.TimeNo()
	for k, row := range surf.Rows {
		require.InDelta(t, b.Lower[nt-1-k], row[0], 1e-12, "row %d", k)
	}
	require.Equal(t, 100.0, surf.Rows[0][0])
	require.InDelta(t, 100*math.Exp(-0.05), surf.Valuation()[0], 1e-9)

	call := knockOut(t, payoff.Call, payoff.Barrier{Upper: 150}, 2)
	surf, err = s.Surface(call)
	require.NoError(t, err)
	for k, row := range surf.Rows {
		require.Equal(t, 0.0, row[0], "row %d", k)
	}
}

func TestSurfaceTermStructure(t *testing.T) {
	flat, err := data.NewLinear([]float64{0, 1}, []float64{0.05, 0.05})
	require.NoError(t, err)

	for _, opt := range []*payoff.Option{
		vanilla(t, payoff.Call, payoff.European, 100, 0),
		knockOut(t, payoff.Put, payoff.Barrier{Lower: 30, Upper: 150}, 0),
	} {
		want, err := solverWith(t, DefaultOptions(), rate).Surface(opt)
		require.NoError(t, err)
		got, err := solverWith(t, DefaultOptions(), flat).Surface(opt)
		require.NoError(t, err)
		require.Equal(t, want.Rows, got.Rows)
	}

	rising, err := data.NewLinear([]float64{0, 1}, []float64{0.01, 0.09})
	require.NoError(t, err)
	opts := Options{AssetNo: 101, TimeNo: 100, PriceMultiplier: 5}
	call := vanilla(t, payoff.Call, payoff.European, 100, 0)

	low, err := solverWith(t, opts, data.Flat(0.01)).Price(call)
	require.NoError(t, err)
	mid, err := solverWith(t, opts, rising).Price(call)
	require.NoError(t, err)
	high, err := solverWith(t, opts, data.Flat(0.09)).Price(call)
	require.NoError(t, err)
	require.Less(t, low[20], mid[20])
	require.Less(t, mid[20], high[20])

	barrier := knockOut(t, payoff.Call, payoff.NoUpper(30), 0)
	surf, err := solverWith(t, opts, rising).Surface(barrier)
	require.NoError(t, err)
	require.Len(t, surf.Rows, surf.Grid.TimeNo())
	last := surf.Grid.AssetNo() - 1
	for k, row := range surf.Rows {
		tm := surf.Time(k)
		r := 0.01 + 0.08*tm
		require.InDelta(t, 500-100*math.Exp(-r*(1-tm)), row[last], 1e-9, "row %d", k)
	}
}
