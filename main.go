package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/banachtech/opricer/analytic"
	"github.com/banachtech/opricer/api"
	"github.com/banachtech/opricer/config"
	"github.com/banachtech/opricer/data"
	"github.com/banachtech/opricer/mc"
	"github.com/banachtech/opricer/payoff"
	"github.com/banachtech/opricer/pde"
	"github.com/golang/glog"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/time/rate"
)

func main() {
	configPath := flag.String("config", "", "TOML configuration file")
	contractPath := flag.String("contract", "", "JSON contract file")
	methods := flag.String("method", "pde", "comma separated pricers: pde, analytic, mc")
	outPath := flag.String("out", "", "CSV output file (default stdout)")
	serve := flag.Bool("serve", false, "run the HTTP pricing service")
	quiet := flag.Bool("quiet", false, "hide progress bars")
	genKey := flag.Bool("genkey", false, "issue a new API key and print its config entry")
	flag.Parse()
	defer glog.Flush()

	if *genKey {
		apiKey, entry, err := api.GenerateKey(time.Now(), 14)
		if err != nil {
			exit(err)
		}
		fmt.Printf("api key: %s\n\n[[server.keys]]\nprefix = %q\nhash = %q\nexpires_at = %q\n",
			apiKey, entry.Prefix, entry.Hash, entry.ExpiresAt)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		exit(err)
	}
	if err := cfg.Validate(); err != nil {
		exit(err)
	}
	curve, err := cfg.RateCurve()
	if err != nil {
		exit(err)
	}

	if *serve {
		if err := runServer(cfg, curve); err != nil {
			exit(err)
		}
		return
	}

	if *contractPath == "" {
		exit(errors.New("missing -contract"))
	}
	spec, err := data.Open(*contractPath, payoff.Spec{})
	if err != nil {
		exit(err)
	}
	opt, err := spec.Build()
	if err != nil {
		exit(err)
	}

	var series []data.Series
	for _, method := range strings.Split(*methods, ",") {
		s, err := price(cfg, curve, opt, strings.TrimSpace(method), !*quiet)
		if err != nil {
			exit(fmt.Errorf("%s: %w", method, err))
		}
		series = append(series, s)
	}

	if err := writeSeries(*outPath, series); err != nil {
		exit(err)
	}
}

// writeSeries writes series as CSV to path, or to stdout when path is empty.
func writeSeries(path string, series []data.Series) error {
	if path == "" {
		return data.WriteCSV(os.Stdout, series...)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := data.WriteCSV(f, series...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// price runs one pricer over opt.
func price(cfg *config.Config, curve data.RateCurve, opt *payoff.Option, method string, progress bool) (data.Series, error) {
	switch method {
	case "pde":
		solver, err := pde.NewSolver(cfg.Grid, curve)
		if err != nil {
			return data.Series{}, err
		}
		if progress {
			bar := progressBar(cfg.Grid.TimeNo-1, "pde")
			solver.OnStep = func(done, total int) { _ = bar.Set(done) }
		}
		surf, err := solver.Surface(opt)
		if err != nil {
			return data.Series{}, err
		}
		if p, err := surf.At(opt.Spot()); err == nil {
			fmt.Fprintf(os.Stderr, "pde price at spot %v: %.6f\n", opt.Spot(), p)
		}
		return surf.Series("pde"), nil
	case "analytic":
		return analytic.Solver{Options: cfg.Grid, Rate: curve}.Series(opt)
	case "mc":
		solver := monteCarlo(cfg, curve)
		if progress {
			bar := progressBar(cfg.MonteCarlo.AssetNo, "mc")
			solver.OnPrice = func(done, total int) { _ = bar.Add(1) }
		}
		return solver.Series(opt)
	}
	return data.Series{}, fmt.Errorf("unknown pricer %q", method)
}

func monteCarlo(cfg *config.Config, curve data.RateCurve) mc.Solver {
	return mc.Solver{
		Paths:           cfg.MonteCarlo.Paths,
		Steps:           cfg.MonteCarlo.Steps,
		AssetNo:         cfg.MonteCarlo.AssetNo,
		PriceMultiplier: cfg.Grid.PriceMultiplier,
		Seed:            cfg.MonteCarlo.Seed,
		Rate:            curve,
	}
}

func runServer(cfg *config.Config, curve data.RateCurve) error {
	engine, err := pde.NewSolver(cfg.Grid, curve)
	if err != nil {
		return err
	}
	var store api.KeyStore
	if len(cfg.Server.Keys) > 0 {
		keys, err := api.NewStaticKeys(cfg.Server.Keys)
		if err != nil {
			return err
		}
		store = keys
	} else {
		glog.Warning("no api keys configured, authentication disabled")
	}
	pricers := map[string]api.Pricer{
		"analytic": analytic.Solver{Options: cfg.Grid, Rate: curve},
		"mc":       monteCarlo(cfg, curve),
	}
	server := api.NewServer(store, engine, pricers, rate.Limit(cfg.Server.RatePerSecond), cfg.Server.Burst)
	glog.Infof("listening on %s", cfg.Server.Addr)
	return server.Start(cfg.Server.Addr)
}

func progressBar(length int, description string) *progressbar.ProgressBar {
	bar := progressbar.NewOptions(
		length,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetVisibility(true),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	return bar
}

func exit(err error) {
	glog.Errorf("%v", err)
	fmt.Fprintln(os.Stderr, err)
	glog.Flush()
	os.Exit(1)
}
