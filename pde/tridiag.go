package pde

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// pivotTol is the relative size below which a Thomas pivot counts as zero.
const pivotTol = 1e-12

// tridiag is a square tridiagonal system. sub[0] and sup[len-1] lie outside
// the matrix and are ignored.
type tridiag struct {
	sub, diag, sup []float64
}

func newTridiag(n int) tridiag {
	return tridiag{
		sub:  make([]float64, n),
		diag: make([]float64, n),
		sup:  make([]float64, n),
	}
}

func (t tridiag) size() int { return len(t.diag) }

// band packs t into gonum band storage with one sub- and one super-diagonal.
// A single-node system has no off-diagonals.
func (t tridiag) band() *mat.BandDense {
	n := t.size()
	k := 1
	if n == 1 {
		k = 0
	}
	w := 2*k + 1
	data := make([]float64, w*n)
	for i := 0; i < n; i++ {
		if i > 0 {
			data[w*i+k-1] = t.sub[i]
		}
		data[w*i+k] = t.diag[i]
		if i < n-1 {
			data[w*i+k+1] = t.sup[i]
		}
	}
	return mat.NewBandDense(n, n, k, k, data)
}

// mulVec returns t·x.
func (t tridiag) mulVec(x []float64) []float64 {
	var y mat.VecDense
	y.MulVec(t.band(), mat.NewVecDense(len(x), x))
	return y.RawVector().Data
}

// solve returns x with t·x = d using the Thomas algorithm.
func (t tridiag) solve(d []float64) ([]float64, error) {
	n := t.size()
	if len(d) != n {
		return nil, fmt.Errorf("%w: right-hand side has %d entries, system has %d", ErrNumerical, len(d), n)
	}
	cp := make([]float64, n)
	x := make([]float64, n)

	scale := math.Abs(t.diag[0])
	if n > 1 {
		scale += math.Abs(t.sup[0])
	}
	pivot := t.diag[0]
	if math.Abs(pivot) <= pivotTol*scale || scale == 0 {
		return nil, fmt.Errorf("%w: zero pivot at row 0", ErrNumerical)
	}
	if n > 1 {
		cp[0] = t.sup[0] / pivot
	}
	x[0] = d[0] / pivot
	for i := 1; i < n; i++ {
		scale = math.Abs(t.sub[i]) + math.Abs(t.diag[i])
		if i < n-1 {
			scale += math.Abs(t.sup[i])
		}
		pivot = t.diag[i] - t.sub[i]*cp[i-1]
		if math.Abs(pivot) <= pivotTol*scale || scale == 0 {
			return nil, fmt.Errorf("%w: zero pivot at row %d", ErrNumerical, i)
		}
		if i < n-1 {
			cp[i] = t.sup[i] / pivot
		}
		x[i] = (d[i] - t.sub[i]*x[i-1]) / pivot
	}
	for i := n - 2; i >= 0; i-- {
		x[i] -= cp[i] * x[i+1]
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite solution at node %d", ErrNumerical, i)
		}
	}
	return x, nil
}
