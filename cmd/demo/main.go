package main

import (
	"context"
	"fmt"
	"os"

	"bifacial-sweep/internal/config"
	"bifacial-sweep/internal/report"
	"bifacial-sweep/internal/sweep"

	flag "github.com/spf13/pflag"
)

// Demo:
// - Build the reference scenario (three rows near Pavia, hourly clear sky over 2021)
// - Sweep tilts 25..40 for bifacial and monofacial modules
// - Print the recap, the per-tilt table, the optimum tilts and the gains
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	year := flag.Int("year", 0, "Override the simulated year")
	workers := flag.Int("workers", 4, "Parallel tilt workers")
	outCSV := flag.String("out", "", "Optional path to write results CSV (e.g. results/sweep.csv)")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			panic(err)
		}
		cfg = loaded
	}
	if *year > 0 {
		cfg.Period = config.PeriodConfig{Year: *year, Step: cfg.Period.Step}
	}
	cfg.Sweep.Workers = *workers
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	req, err := cfg.BuildRequest(nil)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Simulating %d tilts at %.2fN %.2fE over %d samples...\n",
		len(req.Inputs.Tilts()), cfg.Location.Latitude, cfg.Location.Longitude, req.Grid.Len())
	res, err := sweep.New().Run(context.Background(), req)
	if err != nil {
		panic(err)
	}

	if err := report.WriteTable(os.Stdout, res, req.Inputs.System); err != nil {
		panic(err)
	}

	if *outCSV != "" {
		if err := report.WriteResultsCSV(*outCSV, res.Results); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote %d rows to %s\n", len(res.Results), *outCSV)
	}
}
