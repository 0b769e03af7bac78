package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path on top of the defaults and
// applies OPRICER_* environment overrides. An empty path skips the file.
// A malformed override is an ErrInvalid error. The result is not validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present
	_ = godotenv.Load()

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	var errs []error
	setInt(&errs, &cfg.Grid.AssetNo, "OPRICER_GRID_ASSET_NO")
	setInt(&errs, &cfg.Grid.TimeNo, "OPRICER_GRID_TIME_NO")
	setFloat64(&errs, &cfg.Grid.PriceMultiplier, "OPRICER_GRID_PRICE_MULTIPLIER")

	setFloat64(&errs, &cfg.Market.Rate, "OPRICER_MARKET_RATE")

	setInt(&errs, &cfg.MonteCarlo.Paths, "OPRICER_MC_PATHS")
	setInt(&errs, &cfg.MonteCarlo.Steps, "OPRICER_MC_STEPS")
	setInt(&errs, &cfg.MonteCarlo.AssetNo, "OPRICER_MC_ASSET_NO")
	setUint64(&errs, &cfg.MonteCarlo.Seed, "OPRICER_MC_SEED")

	setStr(&cfg.Server.Addr, "OPRICER_SERVER_ADDR")
	setFloat64(&errs, &cfg.Server.RatePerSecond, "OPRICER_SERVER_RATE_PER_SECOND")
	setInt(&errs, &cfg.Server.Burst, "OPRICER_SERVER_BURST")

	return errors.Join(errs...)
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(errs *[]error, dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = n
	}
}

func setUint64(errs *[]error, dst *uint64, key string) {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = n
	}
}

func setFloat64(errs *[]error, dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = f
	}
}
