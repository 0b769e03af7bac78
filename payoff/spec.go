package payoff

import (
	"fmt"
	"math"

	"github.com/banachtech/opricer/data"
	"github.com/banachtech/opricer/util"
)

// UnderlyingSpec is the wire form of data.Underlying.
type UnderlyingSpec struct {
	SpotDate string   `json:"spot_date" binding:"required"`
	Price    float64  `json:"price" binding:"required"`
	Vol      float64  `json:"volatility" binding:"required"`
	Div      float64  `json:"dividend_yield"`
	Drift    *float64 `json:"drift,omitempty"`
}

// BarrierSpec uses nullable levels; a missing level means no barrier on that side.
type BarrierSpec struct {
	Lower *float64 `json:"lower"`
	Upper *float64 `json:"upper"`
}

// Spec is the wire form of a contract request.
type Spec struct {
	Kind        Kind             `json:"kind" binding:"required"`
	Exercise    Exercise         `json:"exercise"`
	Expiry      string           `json:"expiry" binding:"required"`
	Strike      float64          `json:"strike" binding:"required"`
	Barrier     *BarrierSpec     `json:"barrier,omitempty"`
	Rebate      float64          `json:"rebate"`
	Underlyings []UnderlyingSpec `json:"underlyings" binding:"required"`
}

func (b BarrierSpec) levels() Barrier {
	out := Barrier{Upper: math.Inf(1)}
	if b.Lower != nil {
		out.Lower = *b.Lower
	}
	if b.Upper != nil {
		out.Upper = *b.Upper
	}
	return out
}

// Build constructs and finalizes the contract described by s.
func (s Spec) Build() (*Option, error) {
	expiry, err := util.ParseDate(s.Expiry)
	if err != nil {
		return nil, fmt.Errorf("%w: expiry: %v", ErrValidation, err)
	}

	var opt *Option
	if s.Barrier != nil {
		if s.Exercise == American {
			return nil, fmt.Errorf("%w: barrier contracts are European only", ErrValidation)
		}
		opt, err = NewBarrier(s.Kind, expiry, s.Barrier.levels(), s.Rebate)
	} else {
		opt, err = NewVanilla(s.Kind, s.Exercise, expiry)
	}
	if err != nil {
		return nil, err
	}

	us := make([]data.Underlying, 0, len(s.Underlyings))
	for i, u := range s.Underlyings {
		spot, err := util.ParseDate(u.SpotDate)
		if err != nil {
			return nil, fmt.Errorf("%w: underlying %d spot date: %v", ErrValidation, i, err)
		}
		und, err := data.NewUnderlying(spot, u.Price, u.Vol, u.Div)
		if err != nil {
			return nil, fmt.Errorf("%w: underlying %d: %v", ErrValidation, i, err)
		}
		if u.Drift != nil {
			und = und.WithDrift(*u.Drift)
		}
		us = append(us, und)
	}
	if err := opt.Attach(s.Strike, us...); err != nil {
		return nil, err
	}
	return opt, nil
}
