package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/banachtech/opricer/data"
	"github.com/banachtech/opricer/pde"
)

var ErrInvalid = errors.New("invalid configuration")

// Config is the root configuration for the pricer CLI and HTTP service.
type Config struct {
	Grid       pde.Options      `toml:"grid"`
	Market     MarketConfig     `toml:"market"`
	MonteCarlo MonteCarloConfig `toml:"monte_carlo"`
	Server     ServerConfig     `toml:"server"`
}

// MarketConfig holds the risk-free rate. A non-empty curve replaces the flat rate.
type MarketConfig struct {
	Rate       float64   `toml:"rate"`
	CurveTimes []float64 `toml:"curve_times"`
	CurveRates []float64 `toml:"curve_rates"`
}

type MonteCarloConfig struct {
	Paths   int    `toml:"paths"`
	Steps   int    `toml:"steps"`
	AssetNo int    `toml:"asset_no"`
	Seed    uint64 `toml:"seed"`
}

type ServerConfig struct {
	Addr          string      `toml:"addr"`
	RatePerSecond float64     `toml:"rate_per_second"`
	Burst         int         `toml:"burst"`
	Keys          []KeyConfig `toml:"keys"`
}

// KeyConfig is one API key: its public prefix, the bcrypt hash of the full
// key and an optional expiry in "2006-01-02 15:04:05" form.
type KeyConfig struct {
	Prefix    string `toml:"prefix"`
	Hash      string `toml:"hash"`
	ExpiresAt string `toml:"expires_at"`
}

// KeyLayout is the expiry timestamp format of KeyConfig.
const KeyLayout = "2006-01-02 15:04:05"

func Defaults() Config {
	return Config{
		Grid: pde.DefaultOptions(),
		Market: MarketConfig{
			Rate: 0.05,
		},
		MonteCarlo: MonteCarloConfig{
			Paths:   10000,
			Steps:   100,
			AssetNo: 10,
		},
		Server: ServerConfig{
			Addr:          "0.0.0.0:8080",
			RatePerSecond: 5,
			Burst:         10,
		},
	}
}

// RateCurve returns the configured term structure.
func (c *Config) RateCurve() (data.RateCurve, error) {
	if len(c.Market.CurveTimes) == 0 && len(c.Market.CurveRates) == 0 {
		return data.Flat(c.Market.Rate), nil
	}
	curve, err := data.NewLinear(c.Market.CurveTimes, c.Market.CurveRates)
	if err != nil {
		return nil, fmt.Errorf("%w: market: %v", ErrInvalid, err)
	}
	return curve, nil
}

func (c *Config) Validate() error {
	var errs []string

	if err := c.Grid.Validate(); err != nil {
		return fmt.Errorf("%w: grid: %w", ErrInvalid, err)
	}

	if math.IsNaN(c.Market.Rate) || math.IsInf(c.Market.Rate, 0) {
		errs = append(errs, "market: rate must be finite")
	}
	if len(c.Market.CurveTimes) != len(c.Market.CurveRates) {
		errs = append(errs, "market: curve_times and curve_rates differ in length")
	} else if len(c.Market.CurveTimes) == 1 {
		errs = append(errs, "market: a curve needs at least two pillars")
	}

	if c.MonteCarlo.Paths < 1 {
		errs = append(errs, "monte_carlo: paths must be >= 1")
	}
	if c.MonteCarlo.Steps < 1 {
		errs = append(errs, "monte_carlo: steps must be >= 1")
	}
	if c.MonteCarlo.AssetNo < 1 {
		errs = append(errs, "monte_carlo: asset_no must be >= 1")
	}

	if c.Server.Addr == "" {
		errs = append(errs, "server: addr must not be empty")
	}
	if c.Server.RatePerSecond <= 0 {
		errs = append(errs, "server: rate_per_second must be > 0")
	}
	if c.Server.Burst < 1 {
		errs = append(errs, "server: burst must be >= 1")
	}
	for i, k := range c.Server.Keys {
		if k.Prefix == "" || k.Hash == "" {
			errs = append(errs, fmt.Sprintf("server: key %d needs prefix and hash", i))
		}
		if k.ExpiresAt != "" {
			if _, err := time.Parse(KeyLayout, k.ExpiresAt); err != nil {
				errs = append(errs, fmt.Sprintf("server: key %d expires_at: %v", i, err))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrInvalid, strings.Join(errs, "\n  - "))
	}
	return nil
}
