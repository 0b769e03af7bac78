package pde

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Grid is a uniform asset × time mesh.
type Grid struct {
	Assets []float64
	Times  []float64
	DS     float64
	DT     float64
}

// Constructor for Grid. Both axes are uniform and include their end points.
func NewGrid(low, high, start, end float64, assetNo, timeNo int) (*Grid, error) {
	for _, v := range []float64{low, high, start, end} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: grid bounds must be finite", ErrConfiguration)
		}
	}
	switch {
	case low >= high:
		return nil, fmt.Errorf("%w: asset range [%v, %v] is empty", ErrConfiguration, low, high)
	case start >= end:
		return nil, fmt.Errorf("%w: time range [%v, %v] is empty", ErrConfiguration, start, end)
	case assetNo < 3:
		return nil, fmt.Errorf("%w: need at least 3 asset nodes, got %d", ErrConfiguration, assetNo)
	case timeNo < 2:
		return nil, fmt.Errorf("%w: need at least 2 time nodes, got %d", ErrConfiguration, timeNo)
	}
	g := &Grid{
		Assets: floats.Span(make([]float64, assetNo), low, high),
		Times:  floats.Span(make([]float64, timeNo), start, end),
	}
	g.DS = g.Assets[1] - g.Assets[0]
	g.DT = g.Times[1] - g.Times[0]
	return g, nil
}

func (g *Grid) AssetNo() int { return len(g.Assets) }
func (g *Grid) TimeNo() int { return len(g.Times) }
