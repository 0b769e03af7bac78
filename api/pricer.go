package api

import (
	"errors"
	"net/http"

	"github.com/banachtech/opricer/analytic"
	"github.com/banachtech/opricer/config"
	"github.com/banachtech/opricer/data"
	"github.com/banachtech/opricer/payoff"
	"github.com/banachtech/opricer/pde"
	"github.com/gin-gonic/gin"
	"github.com/golang/glog"
	"github.com/shopspring/decimal"
)

// pricePlaces is the number of decimal places prices are rounded to in responses.
const pricePlaces = 6

type priceResponse struct {
	Kind     payoff.Kind       `json:"kind"`
	Style    string            `json:"style"`
	Boundary string            `json:"boundary"`
	Spot     float64           `json:"spot"`
	Price    decimal.Decimal   `json:"price"`
	Assets   []float64         `json:"asset_axis"`
	Prices   []decimal.Decimal `json:"prices"`
}

type surfaceResponse struct {
	Boundary string      `json:"boundary"`
	Assets   []float64   `json:"asset_axis"`
	Times    []float64   `json:"times"`
	Rows     [][]float64 `json:"rows"`
}

type seriesResponse struct {
	Label  string            `json:"label"`
	Assets []float64         `json:"asset_axis"`
	Prices []decimal.Decimal `json:"prices"`
}

type compareResponse struct {
	Spot    float64           `json:"spot"`
	Series  []seriesResponse  `json:"series"`
	Skipped map[string]string `json:"skipped,omitempty"`
}

func round(xs []float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(xs))
	for i, x := range xs {
		out[i] = decimal.NewFromFloat(x).Round(pricePlaces)
	}
	return out
}

func toSeriesResponse(s data.Series) seriesResponse {
	return seriesResponse{Label: s.Label, Assets: s.Assets, Prices: round(s.Prices)}
}

// statusFor maps pricing errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, payoff.ErrValidation), errors.Is(err, pde.ErrConfiguration), errors.Is(err, config.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, payoff.ErrNotFinalized):
		return http.StatusConflict
	case errors.Is(err, pde.ErrNumerical):
		return http.StatusUnprocessableEntity
	case errors.Is(err, analytic.ErrUnsupported):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func (server *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		glog.Errorf("api: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, errorResponse(err))
}

// bindContract decodes and finalizes the contract in the request body.
func (server *Server) bindContract(c *gin.Context) (*payoff.Option, bool) {
	var req payoff.Spec
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return nil, false
	}
	opt, err := req.Build()
	if err != nil {
		server.fail(c, err)
		return nil, false
	}
	return opt, true
}

func (server *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (server *Server) price(c *gin.Context) {
	opt, ok := server.bindContract(c)
	if !ok {
		return
	}
	surf, err := server.engine.Surface(opt)
	if err != nil {
		server.fail(c, err)
		return
	}
	p, err := surf.At(opt.Spot())
	if err != nil {
		server.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, priceResponse{
		Kind:     opt.Kind(),
		Style:    opt.Style().String(),
		Boundary: opt.Boundary().String(),
		Spot:     opt.Spot(),
		Price:    decimal.NewFromFloat(p).Round(pricePlaces),
		Assets:   surf.Grid.Assets,
		Prices:   round(surf.Valuation()),
	})
}

func (server *Server) surface(c *gin.Context) {
	opt, ok := server.bindContract(c)
	if !ok {
		return
	}
	surf, err := server.engine.Surface(opt)
	if err != nil {
		server.fail(c, err)
		return
	}
	times := make([]float64, len(surf.Rows))
	for k := range times {
		times[k] = surf.Time(k)
	}
	c.JSON(http.StatusOK, surfaceResponse{
		Boundary: surf.Boundary.String(),
		Assets:   surf.Grid.Assets,
		Times:    times,
		Rows:     surf.Rows,
	})
}

// compare prices the contract with the PDE engine and every comparison pricer.
// Pricers that do not support the contract are reported under skipped.
func (server *Server) compare(c *gin.Context) {
	opt, ok := server.bindContract(c)
	if !ok {
		return
	}
	surf, err := server.engine.Surface(opt)
	if err != nil {
		server.fail(c, err)
		return
	}
	res := compareResponse{Spot: opt.Spot(), Series: []seriesResponse{toSeriesResponse(surf.Series("pde"))}}
	for _, name := range server.names {
		s, err := server.pricers[name].Series(opt)
		if errors.Is(err, analytic.ErrUnsupported) {
			if res.Skipped == nil {
				res.Skipped = make(map[string]string)
			}
			res.Skipped[name] = err.Error()
			continue
		}
		if err != nil {
			server.fail(c, err)
			return
		}
		s.Label = name
		res.Series = append(res.Series, toSeriesResponse(s))
	}
	c.JSON(http.StatusOK, res)
}
