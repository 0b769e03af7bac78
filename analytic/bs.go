package analytic

import (
	"errors"
	"fmt"
	"math"

	"github.com/banachtech/opricer/data"
	"github.com/banachtech/opricer/payoff"
	"github.com/banachtech/opricer/pde"

	"gonum.org/v1/gonum/stat/distuv"
)

var ErrUnsupported = errors.New("contract not supported by the analytic pricer")

// ratePoints is the number of trapezoid nodes used to average the rate curve.
const ratePoints = 101

// BS returns the Black–Scholes price with continuous dividend yield dy.
func BS(kind payoff.Kind, k, s, sigma, T, dy, r float64) float64 {
	df := math.Exp(-r * T)
	if s <= 0 {
		if kind == payoff.Put {
			return k * df
		}
		return 0
	}
	x := sigma * math.Sqrt(T)
	d1 := (math.Log(s/k) + (r-dy+0.5*sigma*sigma)*T) / x
	d2 := d1 - x

	N := distuv.Normal{Mu: 0.0, Sigma: 1.0}

	if kind == payoff.Put {
		return -s*math.Exp(-dy*T)*N.CDF(-d1) + k*df*N.CDF(-d2)
	}
	return s*math.Exp(-dy*T)*N.CDF(d1) - k*df*N.CDF(d2)
}

// Solver prices vanilla contracts in closed form on the same asset axis as pde.Solver.
type Solver struct {
	Options pde.Options
	Rate    data.RateCurve
}

// Price returns closed-form prices on the asset axis. The rate curve enters
// through its average over [0, T].
func (s Solver) Price(opt *payoff.Option) ([]float64, []float64, error) {
	if opt == nil || !opt.Finalized() {
		return nil, nil, payoff.ErrNotFinalized
	}
	if opt.Style() != payoff.Vanilla {
		return nil, nil, fmt.Errorf("%w: %s contracts have no closed form here", ErrUnsupported, opt.Style())
	}
	if s.Rate == nil {
		return nil, nil, fmt.Errorf("%w: missing rate curve", pde.ErrConfiguration)
	}
	if err := s.Options.Validate(); err != nil {
		return nil, nil, err
	}
	g, err := s.Options.Grid(opt)
	if err != nil {
		return nil, nil, err
	}
	T, _ := opt.TimeToMaturity()
	r := data.AverageRate(s.Rate, T, ratePoints)

	prices := make([]float64, len(g.Assets))
	for i, a := range g.Assets {
		prices[i] = BS(opt.Kind(), opt.Strike(), a, opt.Vol(), T, opt.Div(), r)
	}
	return g.Assets, prices, nil
}

func (s Solver) Series(opt *payoff.Option) (data.Series, error) {
	assets, prices, err := s.Price(opt)
	if err != nil {
		return data.Series{}, err
	}
	return data.Series{Label: "analytic", Assets: assets, Prices: prices}, nil
}
