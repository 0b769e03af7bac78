package payoff

import (
	"fmt"
	"math"
	"time"

	"github.com/banachtech/opricer/data"
	"github.com/banachtech/opricer/util"
)

type Kind string

const (
	Call Kind = "call"
	Put  Kind = "put"
)

func (k Kind) Valid() bool { return k == Call || k == Put }

// Exercise is carried for reporting only; every contract is priced with European exercise.
type Exercise string

const (
	European Exercise = "european"
	American Exercise = "american"
)

// Style is the contract variant tag.
type Style int

const (
	Vanilla Style = iota
	KnockOut
)

func (s Style) String() string {
	switch s {
	case Vanilla:
		return "vanilla"
	case KnockOut:
		return "barrier"
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// BoundaryKind selects how the PDE price axis is closed.
type BoundaryKind int

const (
	Neumann BoundaryKind = iota
	Dirichlet
)

func (b BoundaryKind) String() string {
	switch b {
	case Neumann:
		return "neumann"
	case Dirichlet:
		return "dirichlet"
	}
	return fmt.Sprintf("BoundaryKind(%d)", int(b))
}

// Barrier holds knock-out levels. Lower == 0 means no lower barrier and
// Upper == +Inf means no upper barrier.
type Barrier struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// NoUpper returns a down-and-out level pair with no upper barrier.
func NoUpper(lower float64) Barrier { return Barrier{Lower: lower, Upper: math.Inf(1)} }

func (b Barrier) HasLower() bool { return b.Lower > 0 }
func (b Barrier) HasUpper() bool { return !math.IsInf(b.Upper, 1) }

func (b Barrier) validate() error {
	switch {
	case math.IsNaN(b.Lower) || math.IsNaN(b.Upper):
		return fmt.Errorf("%w: barrier level is NaN", ErrValidation)
	case b.Lower < 0 || math.IsInf(b.Lower, 0):
		return fmt.Errorf("%w: lower barrier must be finite and non-negative, got %v", ErrValidation, b.Lower)
	case b.Lower >= b.Upper:
		return fmt.Errorf("%w: lower barrier %v not below upper barrier %v", ErrValidation, b.Lower, b.Upper)
	}
	return nil
}

// Option is a single-underlying option contract. It is built in two steps:
// a constructor fixes the shape and Attach binds strike and market data.
// After Attach the contract is immutable.
type Option struct {
	kind     Kind
	exercise Exercise
	style    Style
	boundary BoundaryKind
	expiry   time.Time
	barrier  Barrier
	rebate   float64

	attached bool
	strike   float64
	ttm      float64
	spotTime time.Time
	spot     float64
	div      float64
	vols     []float64
	drifts   []*float64
}

// Constructor for a vanilla option
func NewVanilla(kind Kind, exercise Exercise, expiry time.Time) (*Option, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown option type %q", ErrValidation, kind)
	}
	switch exercise {
	case European, American:
	case "":
		exercise = European
	default:
		return nil, fmt.Errorf("%w: unknown exercise style %q", ErrValidation, exercise)
	}
	return &Option{kind: kind, exercise: exercise, style: Vanilla, boundary: Neumann, expiry: expiry}, nil
}

// Constructor for a European knock-out barrier option
func NewBarrier(kind Kind, expiry time.Time, barrier Barrier, rebate float64) (*Option, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown option type %q", ErrValidation, kind)
	}
	if err := barrier.validate(); err != nil {
		return nil, err
	}
	if !(rebate >= 0) || math.IsInf(rebate, 0) {
		return nil, fmt.Errorf("%w: rebate must be finite and non-negative, got %v", ErrValidation, rebate)
	}
	return &Option{
		kind:     kind,
		exercise: European,
		style:    KnockOut,
		boundary: Dirichlet,
		expiry:   expiry,
		barrier:  barrier,
		rebate:   rebate,
	}, nil
}

// Attach binds the strike and the underlying snapshot and computes time to maturity.
// Exactly one underlying is supported.
func (o *Option) Attach(strike float64, underlyings ...data.Underlying) error {
	if o.attached {
		return fmt.Errorf("%w: underlying already attached", ErrValidation)
	}
	if !(strike > 0) || math.IsInf(strike, 0) {
		return fmt.Errorf("%w: strike must be positive, got %v", ErrValidation, strike)
	}
	if len(underlyings) == 0 {
		return fmt.Errorf("%w: no underlying attached", ErrValidation)
	}
	spotTime := underlyings[0].Time
	for _, u := range underlyings {
		if err := u.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		if !u.Time.Equal(spotTime) {
			return fmt.Errorf("%w: underlyings have different spot times", ErrValidation)
		}
	}
	if len(underlyings) > 1 {
		return fmt.Errorf("%w: %d underlyings attached, only one is supported", ErrValidation, len(underlyings))
	}
	ttm := util.YearFraction(spotTime, o.expiry)
	if !(ttm > 0) {
		return fmt.Errorf("%w: expiry %s is not after spot time %s", ErrValidation,
			o.expiry.Format(util.Layout), spotTime.Format(util.Layout))
	}
	if o.style == KnockOut && !(o.barrier.Lower < strike && strike < o.barrier.Upper) {
		return fmt.Errorf("%w: strike %v outside barrier range (%v, %v)", ErrValidation, strike, o.barrier.Lower, o.barrier.Upper)
	}

	o.strike = strike
	o.ttm = ttm
	o.spotTime = spotTime
	o.vols = o.vols[:0]
	o.drifts = o.drifts[:0]
	for _, u := range underlyings {
		o.spot += u.Price
		o.vols = append(o.vols, u.Vol)
		o.drifts = append(o.drifts, u.Drift)
		o.div = u.Div
	}
	o.attached = true
	return nil
}

func (o *Option) Kind() Kind { return o.kind }
func (o *Option) Exercise() Exercise { return o.exercise }
func (o *Option) Style() Style { return o.style }
func (o *Option) Boundary() BoundaryKind { return o.boundary }
func (o *Option) Expiry() time.Time { return o.expiry }
func (o *Option) Finalized() bool { return o.attached }
func (o *Option) Strike() float64 { return o.strike }
func (o *Option) Rebate() float64 { return o.rebate }
func (o *Option) Div() float64 { return o.div }
func (o *Option) Spot() float64 { return o.spot }
func (o *Option) SpotTime() time.Time { return o.spotTime }
func (o *Option) Vols() []float64 { return append([]float64(nil), o.vols...) }
func (o *Option) Barrier() (Barrier, bool) { return o.barrier, o.style == KnockOut }

// TimeToMaturity returns the year fraction between spot time and expiry.
func (o *Option) TimeToMaturity() (float64, error) {
	if !o.attached {
		return 0, ErrNotFinalized
	}
	return o.ttm, nil
}

// Vol is the summed volatility of the attached underlyings.
func (o *Option) Vol() float64 {
	v := 0.0
	for _, s := range o.vols {
		v += s
	}
	return v
}

// Payout evaluates the terminal payoff at each price. Barrier levels are not applied here.
func (o *Option) Payout(prices []float64) ([]float64, error) {
	if !o.attached {
		return nil, ErrNotFinalized
	}
	out := make([]float64, len(prices))
	switch o.kind {
	case Call:
		for i, s := range prices {
			out[i] = math.Max(s-o.strike, 0)
		}
	case Put:
		for i, s := range prices {
			out[i] = math.Max(o.strike-s, 0)
		}
	default:
		return nil, fmt.Errorf("%w: unknown option type %q", ErrValidation, o.kind)
	}
	return out, nil
}

// KnockedOut reports whether price s lies at or beyond a barrier level.
// Vanilla contracts never knock out.
func (o *Option) KnockedOut(s float64) bool {
	if o.style != KnockOut {
		return false
	}
	return (o.barrier.HasLower() && s <= o.barrier.Lower) || s >= o.barrier.Upper
}
