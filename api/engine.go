package api

import (
	"github.com/banachtech/opricer/data"
	"github.com/banachtech/opricer/payoff"
	"github.com/banachtech/opricer/pde"
)

//go:generate mockgen -destination mock/engine.go -package mockapi github.com/banachtech/opricer/api Engine,Pricer,KeyStore

// Engine is the finite-difference pricer behind the service.
type Engine interface {
	Surface(opt *payoff.Option) (*pde.Surface, error)
}

// Pricer is a comparison pricer producing prices on its own asset axis.
type Pricer interface {
	Series(opt *payoff.Option) (data.Series, error)
}
