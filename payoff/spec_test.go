package payoff

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpecBuild(t *testing.T) {
	raw := `{
		"kind": "call",
		"expiry": "2011-01-01",
		"strike": 100,
		"barrier": {"lower": 30},
		"rebate": 0,
		"underlyings": [{"spot_date": "2010-01-01", "price": 100, "volatility": 0.2}]
	}`
	var s Spec
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	opt, err := s.Build()
	require.NoError(t, err)
	require.Equal(t, Dirichlet, opt.Boundary())
	b, ok := opt.Barrier()
	require.True(t, ok)
	require.Equal(t, 30.0, b.Lower)
	require.True(t, math.IsInf(b.Upper, 1))
	T, err := opt.TimeToMaturity()
	require.NoError(t, err)
	require.InDelta(t, 1.0, T, 1e-12)
}

func TestSpecBuildErrors(t *testing.T) {
	base := func() Spec {
		return Spec{
			Kind:        Put,
			Expiry:      "2011-01-01",
			Strike:      100,
			Underlyings: []UnderlyingSpec{{SpotDate: "2010-01-01", Price: 100, Vol: 0.2}},
		}
	}

	for _, test := range []struct {
		name   string
		mutate func(s *Spec)
	}{
		{name: "BAD_EXPIRY", mutate: func(s *Spec) { s.Expiry = "tomorrow" }},
		{name: "BAD_KIND", mutate: func(s *Spec) { s.Kind = "strangle" }},
		{name: "BAD_SPOT_DATE", mutate: func(s *Spec) { s.Underlyings[0].SpotDate = "" }},
		{name: "BAD_VOL", mutate: func(s *Spec) { s.Underlyings[0].Vol = 0 }},
		{name: "AMERICAN_BARRIER", mutate: func(s *Spec) {
			s.Exercise = American
			s.Barrier = &BarrierSpec{}
		}},
		{name: "MISMATCHED_SPOT_DATES", mutate: func(s *Spec) {
			s.Underlyings = append(s.Underlyings, UnderlyingSpec{SpotDate: "2010-02-01", Price: 90, Vol: 0.3})
		}},
	} {
		t.Run(test.name, func(t *testing.T) {
			s := base()
			test.mutate(&s)
			_, err := s.Build()
			require.ErrorIs(t, err, ErrValidation)
		})
	}

	drift := 0.08
	s := base()
	s.Underlyings[0].Drift = &drift
	opt, err := s.Build()
	require.NoError(t, err)
	require.Equal(t, Neumann, opt.Boundary())
}
