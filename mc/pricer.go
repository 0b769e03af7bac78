package mc

import (
	"fmt"
	"math"
	"time"

	"github.com/banachtech/opricer/data"
	"github.com/banachtech/opricer/payoff"
	"github.com/golang/glog"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Solver prices contracts by Monte-Carlo simulation on its own asset axis of
// AssetNo start prices spanning (0, PriceMultiplier × spot]. Barriers are
// monitored at every simulation step and a knocked-out path pays the rebate at expiry.
type Solver struct {
	Paths           int
	Steps           int
	AssetNo         int
	PriceMultiplier float64
	// Seed fixes the variates. Zero seeds from the clock.
	Seed uint64
	Rate data.RateCurve

	// OnPrice, when set, is called from the collecting goroutine after each start price completes.
	OnPrice func(done, total int)
}

type result struct {
	idx   int
	price float64
}

func (s Solver) validate() error {
	switch {
	case s.Paths < 1:
		return fmt.Errorf("mc: paths must be positive, got %d", s.Paths)
	case s.Steps < 1:
		return fmt.Errorf("mc: steps must be positive, got %d", s.Steps)
	case s.AssetNo < 1:
		return fmt.Errorf("mc: asset_no must be positive, got %d", s.AssetNo)
	case !(s.PriceMultiplier > 0):
		return fmt.Errorf("mc: price_multiplier must be positive, got %v", s.PriceMultiplier)
	case s.Rate == nil:
		return fmt.Errorf("mc: missing rate curve")
	}
	return nil
}

// Price returns the asset axis and the simulated prices on it.
func (s Solver) Price(opt *payoff.Option) ([]float64, []float64, error) {
	if opt == nil || !opt.Finalized() {
		return nil, nil, payoff.ErrNotFinalized
	}
	if err := s.validate(); err != nil {
		return nil, nil, err
	}
	T, _ := opt.TimeToMaturity()
	high := s.PriceMultiplier * opt.Spot()
	assets := make([]float64, s.AssetNo)
	if s.AssetNo == 1 {
		assets[0] = high
	} else {
		floats.Span(assets, high/float64(s.AssetNo), high)
	}

	// rate and cumulative discount per step, shared by every path
	dt := make([]float64, s.Steps)
	r := make([]float64, s.Steps)
	logDF := 0.0
	for i := range dt {
		dt[i] = T / float64(s.Steps)
		t0, t1 := float64(i)*dt[i], float64(i+1)*dt[i]
		r[i] = 0.5 * (s.Rate.Rate(t0) + s.Rate.Rate(t1))
		logDF -= r[i] * dt[i]
	}
	df := math.Exp(logDF)

	seed := s.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	model := GBM{Sigma: opt.Vol(), Div: opt.Div()}
	if glog.V(1) {
		glog.Infof("mc: %s %s K=%v T=%.4f paths=%d steps=%d starts=%d",
			opt.Style(), opt.Kind(), opt.Strike(), T, s.Paths, s.Steps, s.AssetNo)
	}

	ch := make(chan result, s.AssetNo)
	defer close(ch)

	// Price every start concurrently
	for i := range assets {
		go func(i int) {
			src := rand.NewSource(seed + uint64(i))
			ch <- result{idx: i, price: s.start(opt, model, assets[i], dt, r, df, src)}
		}(i)
	}

	prices := make([]float64, s.AssetNo)
	for n := 0; n < s.AssetNo; n++ {
		res := <-ch
		prices[res.idx] = res.price
		if s.OnPrice != nil {
			s.OnPrice(n+1, s.AssetNo)
		}
	}
	return assets, prices, nil
}

// start prices opt for a single start price s0.
func (s Solver) start(opt *payoff.Option, model Model, s0 float64, dt, r []float64, df float64, src rand.Source) float64 {
	if opt.KnockedOut(s0) {
		return opt.Rebate() * df
	}
	d := distuv.Normal{Mu: 0.0, Sigma: 1.0, Src: src}
	z := make([]float64, len(dt))
	total := 0.0
	for p := 0; p < s.Paths; p++ {
		for i := range z {
			z[i] = d.Rand()
		}
		path := model.Path(s0, dt, r, z)
		total += s.pathPayout(opt, path)
	}
	return df * total / float64(s.Paths)
}

func (s Solver) pathPayout(opt *payoff.Option, path []float64) float64 {
	for _, x := range path {
		if opt.KnockedOut(x) {
			return opt.Rebate()
		}
	}
	last := path[len(path)-1]
	if opt.Kind() == payoff.Put {
		return math.Max(opt.Strike()-last, 0)
	}
	return math.Max(last-opt.Strike(), 0)
}

func (s Solver) Series(opt *payoff.Option) (data.Series, error) {
	assets, prices, err := s.Price(opt)
	if err != nil {
		return data.Series{}, err
	}
	return data.Series{Label: "mc", Assets: assets, Prices: prices}, nil
}
