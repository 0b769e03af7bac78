package mc

import (
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Model interface to be satisfied by path simulation models.
type Model interface {
	// Compute a price path starting at s0 for the given timesteps, short rates and normal variates
	Path(s0 float64, dt, r, z []float64) []float64
}

// Geometric Brownian motion with constant volatility and dividend yield.
type GBM struct {
	Sigma, Div float64
}

// Simulate a GBM price path. r[i] is the short rate over step i. If z is nil
// the normal variates are drawn here.
func (m GBM) Path(s0 float64, dt, r, z []float64) []float64 {
	N := len(dt)
	if z == nil {
		d := distuv.Normal{Mu: 0.0, Sigma: 1.0, Src: rand.NewSource(uint64(time.Now().UnixNano()))}
		z = make([]float64, N)
		for i := range z {
			z[i] = d.Rand()
		}
	}
	a := 0.5 * m.Sigma * m.Sigma
	x := make([]float64, N+1)
	x[0] = s0
	for i := 0; i < N; i++ {
		x[i+1] = x[i] * math.Exp((r[i]-m.Div-a)*dt[i]+m.Sigma*math.Sqrt(dt[i])*z[i])
	}
	return x
}
