package pde

import (
	"github.com/banachtech/opricer/payoff"
	"github.com/golang/glog"
)

// stepper marches a payoff backward through one grid with the Crank–Nicolson scheme.
// Dirichlet contracts solve on nodes lo..hi = 1..n-2 with the edge nodes taken
// from the bounds. Neumann contracts solve on the full axis with each ghost
// column folded onto its mirror node.
type stepper struct {
	opt    *payoff.Option
	grid   *Grid
	bands  bands
	bounds Bounds
	lo, hi int
}

func newStepper(opt *payoff.Option, g *Grid, c Coefficients, b Bounds) *stepper {
	s := &stepper{opt: opt, grid: g, bands: c.bands(g), bounds: b, lo: 0, hi: g.AssetNo() - 1}
	if opt.Boundary() == payoff.Dirichlet {
		s.lo, s.hi = 1, g.AssetNo()-2
	}
	return s
}

// operator assembles the reduced tridiagonal operator for time row i.
// sign -1 gives the left operator (−A, 1−B, −C), +1 the right one (A, 1+B, C).
func (s *stepper) operator(i int, sign float64) tridiag {
	m := s.hi - s.lo + 1
	t := newTridiag(m)
	for k := 0; k < m; k++ {
		j := s.lo + k
		t.sub[k] = sign * s.bands.A.At(i, j)
		t.diag[k] = 1 + sign*s.bands.B.At(i, j)
		t.sup[k] = sign * s.bands.C.At(i, j)
	}
	if s.opt.Boundary() == payoff.Neumann {
		// ghost below node 0 mirrors node 1, ghost above node n-1 mirrors node n-2
		if m > 1 {
			t.sup[0] += t.sub[0]
			t.sub[m-1] += t.sup[m-1]
		}
	}
	t.sub[0], t.sup[m-1] = 0, 0
	return t
}

// inject adds the edge values of rows later and earlier, weighted by that row's
// edge coefficients, to the first and last entries of rhs.
func (s *stepper) inject(rhs []float64, later, earlier int) {
	m := len(rhs)
	for _, i := range []int{later, earlier} {
		rhs[0] += s.bounds.Lower[i] * s.bands.A.At(i, s.lo)
		rhs[m-1] += s.bounds.Upper[i] * s.bands.C.At(i, s.hi)
	}
}

// step maps the solved values at time row later onto time row later-1.
func (s *stepper) step(out []float64, later int) ([]float64, error) {
	earlier := later - 1
	rhs := s.operator(later, 1).mulVec(out)
	s.inject(rhs, later, earlier)
	next, err := s.operator(earlier, -1).solve(rhs)
	if err != nil {
		return nil, err
	}
	if glog.V(2) {
		glog.Infof("pde: t=%.6f solved %d nodes, first=%.6g last=%.6g",
			s.grid.Times[earlier], len(next), next[0], next[len(next)-1])
	}
	return next, nil
}

// row expands solved values at time row i to the full asset axis and applies knock-out damping.
func (s *stepper) row(solved []float64, i int) []float64 {
	n := s.grid.AssetNo()
	full := make([]float64, n)
	copy(full[s.lo:s.hi+1], solved)
	if s.opt.Boundary() == payoff.Dirichlet {
		full[0] = s.bounds.Lower[i]
		full[n-1] = s.bounds.Upper[i]
	}
	damp(s.opt, s.grid.Assets, full)
	return full
}

// damp resets knocked-out nodes to the rebate.
func damp(opt *payoff.Option, assets, values []float64) {
	if opt.Style() != payoff.KnockOut {
		return
	}
	for i, a := range assets {
		if opt.KnockedOut(a) {
			values[i] = opt.Rebate()
		}
	}
}

// march returns the full-axis rows from expiry back to the valuation date.
func (s *stepper) march(onStep func(done, total int)) ([][]float64, error) {
	nt := s.grid.TimeNo()
	terminal, err := s.opt.Payout(s.grid.Assets)
	if err != nil {
		return nil, err
	}
	damp(s.opt, s.grid.Assets, terminal)

	rows := make([][]float64, 0, nt)
	rows = append(rows, terminal)
	out := append([]float64(nil), terminal[s.lo:s.hi+1]...)
	for later := nt - 1; later > 0; later-- {
		next, err := s.step(out, later)
		if err != nil {
			return nil, err
		}
		full := s.row(next, later-1)
		rows = append(rows, full)
		out = append(out[:0], full[s.lo:s.hi+1]...)
		if onStep != nil {
			onStep(nt-later, nt-1)
		}
	}
	return rows, nil
}
