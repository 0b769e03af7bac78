package pde

import (
	"fmt"
	"math"

	"github.com/banachtech/opricer/data"
	"github.com/banachtech/opricer/payoff"
	"github.com/golang/glog"
)

// Options sizes the pricing grid. The asset axis spans [0, PriceMultiplier × spot].
type Options struct {
	AssetNo         int     `toml:"asset_no" json:"asset_no"`
	TimeNo          int     `toml:"time_no" json:"time_no"`
	PriceMultiplier float64 `toml:"price_multiplier" json:"price_multiplier"`
}

func DefaultOptions() Options {
	return Options{AssetNo: 10, TimeNo: 100, PriceMultiplier: 5}
}

func (o Options) Validate() error {
	switch {
	case o.AssetNo < 3:
		return fmt.Errorf("%w: asset_no must be at least 3, got %d", ErrConfiguration, o.AssetNo)
	case o.TimeNo < 2:
		return fmt.Errorf("%w: time_no must be at least 2, got %d", ErrConfiguration, o.TimeNo)
	case !(o.PriceMultiplier > 0) || math.IsInf(o.PriceMultiplier, 0):
		return fmt.Errorf("%w: price_multiplier must be positive, got %v", ErrConfiguration, o.PriceMultiplier)
	}
	return nil
}

// Grid builds the grid o describes for opt.
func (o Options) Grid(opt *payoff.Option) (*Grid, error) {
	T, err := opt.TimeToMaturity()
	if err != nil {
		return nil, err
	}
	return NewGrid(0, o.PriceMultiplier*opt.Spot(), 0, T, o.AssetNo, o.TimeNo)
}

// Solver prices contracts by the Crank–Nicolson finite-difference method.
// A Solver holds no per-call state and may be shared between goroutines as
// long as OnStep is safe for concurrent use.
type Solver struct {
	opts Options
	rate data.RateCurve

	// OnStep, when set, is called after each backward step.
	OnStep func(done, total int)
}

// Constructor for Solver
func NewSolver(opts Options, rate data.RateCurve) (*Solver, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, fmt.Errorf("%w: missing rate curve", ErrConfiguration)
	}
	return &Solver{opts: opts, rate: rate}, nil
}

func (s *Solver) Options() Options { return s.opts }

// Surface solves the pricing PDE for opt and returns every time row.
func (s *Solver) Surface(opt *payoff.Option) (*Surface, error) {
	if opt == nil || !opt.Finalized() {
		return nil, payoff.ErrNotFinalized
	}
	if opt.Exercise() == payoff.American {
		glog.Warningf("pde: early exercise not supported, pricing american %s as european", opt.Kind())
	}
	T, coef, err := NewCoefficients(opt, s.rate)
	if err != nil {
		return nil, err
	}
	g, err := s.opts.Grid(opt)
	if err != nil {
		return nil, err
	}
	bounds, err := ResolveBounds(opt, g, s.rate)
	if err != nil {
		return nil, err
	}
	if glog.V(1) {
		glog.Infof("pde: %s %s K=%v T=%.4f boundary=%v grid %dx%d dS=%.4g dt=%.4g",
			opt.Style(), opt.Kind(), opt.Strike(), T, opt.Boundary(), g.AssetNo(), g.TimeNo(), g.DS, g.DT)
	}

	rows, err := newStepper(opt, g, coef, bounds).march(s.OnStep)
	if err != nil {
		return nil, err
	}
	return &Surface{Grid: g, Rows: rows, Boundary: opt.Boundary()}, nil
}

// Price returns the valuation-date prices on the asset axis.
func (s *Solver) Price(opt *payoff.Option) ([]float64, error) {
	surf, err := s.Surface(opt)
	if err != nil {
		return nil, err
	}
	return surf.Valuation(), nil
}

// Series returns the valuation-date prices labelled for plotting.
func (s *Solver) Series(opt *payoff.Option) (data.Series, error) {
	surf, err := s.Surface(opt)
	if err != nil {
		return data.Series{}, err
	}
	return surf.Series("pde"), nil
}
