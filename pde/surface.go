package pde

import (
	"fmt"

	"github.com/banachtech/opricer/data"
	"github.com/banachtech/opricer/payoff"

	"gonum.org/v1/gonum/interp"
)

// Surface is a solved price surface. Rows[0] is the payoff at expiry and the
// last row is the valuation date; row k lies at Grid.Times[len(Times)-1-k].
// Every row spans the full asset axis.
type Surface struct {
	Grid     *Grid
	Rows     [][]float64
	Boundary payoff.BoundaryKind
}

func (s *Surface) Valuation() []float64 { return s.Rows[len(s.Rows)-1] }

// Time returns the time coordinate of row k.
func (s *Surface) Time(k int) float64 { return s.Grid.Times[len(s.Grid.Times)-1-k] }

// At interpolates the valuation-date price at asset level x.
func (s *Surface) At(x float64) (float64, error) {
	assets := s.Grid.Assets
	if x < assets[0] || x > assets[len(assets)-1] {
		return 0, fmt.Errorf("%w: price %v outside asset axis [%v, %v]",
			ErrConfiguration, x, assets[0], assets[len(assets)-1])
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(assets, s.Valuation()); err != nil {
		return 0, err
	}
	return pl.Predict(x), nil
}

func (s *Surface) Series(label string) data.Series {
	return data.Series{
		Label:  label,
		Assets: append([]float64(nil), s.Grid.Assets...),
		Prices: append([]float64(nil), s.Valuation()...),
	}
}
