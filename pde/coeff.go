package pde

import (
	"github.com/banachtech/opricer/data"
	"github.com/banachtech/opricer/payoff"

	"gonum.org/v1/gonum/mat"
)

// CoefFunc is a PDE coefficient as a function of asset price and time.
type CoefFunc func(s, t float64) float64

// Coefficients of V_t + Diffusion·V_ss + Drift·V_s + Discount·V = 0.
type Coefficients struct {
	Diffusion CoefFunc
	Drift     CoefFunc
	Discount  CoefFunc
}

// NewCoefficients returns the time to maturity of opt and its Black–Scholes coefficients.
// Volatilities of the attached underlyings are summed.
func NewCoefficients(opt *payoff.Option, rate data.RateCurve) (float64, Coefficients, error) {
	T, err := opt.TimeToMaturity()
	if err != nil {
		return 0, Coefficients{}, err
	}
	vol, div := opt.Vol(), opt.Div()
	c := Coefficients{
		Diffusion: func(s, _ float64) float64 {
			x := vol * s
			return x * x / 2
		},
		Drift: func(s, t float64) float64 {
			return (rate.Rate(t) - div) * s
		},
		Discount: func(_, t float64) float64 {
			return -rate.Rate(t)
		},
	}
	return T, c, nil
}

// bands holds the Crank–Nicolson band values per node, indexed time × asset.
type bands struct {
	A, B, C *mat.Dense
}

// Evaluate the band values over g:
//
//	A = v1·diff/2 − v2·drift/4
//	B = −v1·diff + dt·disc/2
//	C = v1·diff/2 + v2·drift/4
//
// with v1 = dt/dS² and v2 = dt/dS.
func (c Coefficients) bands(g *Grid) bands {
	nt, ns := g.TimeNo(), g.AssetNo()
	v1 := g.DT / (g.DS * g.DS)
	v2 := g.DT / g.DS
	b := bands{
		A: mat.NewDense(nt, ns, nil),
		B: mat.NewDense(nt, ns, nil),
		C: mat.NewDense(nt, ns, nil),
	}
	for i, t := range g.Times {
		for j, s := range g.Assets {
			diff := c.Diffusion(s, t)
			drift := c.Drift(s, t)
			disc := c.Discount(s, t)
			b.A.Set(i, j, v1*diff/2-v2*drift/4)
			b.B.Set(i, j, -v1*diff+g.DT*disc/2)
			b.C.Set(i, j, v1*diff/2+v2*drift/4)
		}
	}
	return b
}
