package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"bifacial-sweep/internal/config"
	"bifacial-sweep/internal/irradiance"
	"bifacial-sweep/internal/report"
	"bifacial-sweep/internal/sweep"

	flag "github.com/spf13/pflag"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "sweep":
		cmdSweep(os.Args[2:])
	case "irradiance":
		cmdIrradiance(os.Args[2:])
	case "modules":
		cmdModules(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli sweep --config examples/config.yaml --out results/sweep.csv --chart results/sweep.png --pdf results/report.pdf")
	fmt.Println("  cli irradiance --config examples/config.yaml --tilt 30 --out results/irradiance_30.csv")
	fmt.Println("  cli modules --dir examples/modules")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - without --config the reference scenario is used (Europe/Rome 2021, tilts 25..40)")
	fmt.Println("  - sweep --irradiance reads absorbed irradiance from CSV files written by the irradiance command")
}

func loadConfig(path string) *config.Config {
	if path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func cmdSweep(args []string) {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	cfgPath := fs.StringP("config", "c", "", "Path to YAML config (default: reference scenario)")
	outPath := fs.StringP("out", "o", "results/sweep.csv", "Output CSV path (empty to skip)")
	chartPath := fs.String("chart", "", "Optional chart path (.png or .svg)")
	pdfPath := fs.String("pdf", "", "Optional PDF report path")
	workers := fs.IntP("workers", "w", 0, "Parallel tilt workers (0 = use config)")
	tableFiles := fs.StringSlice("irradiance", nil, "Irradiance CSV files to use instead of the clear-sky model")
	top := fs.Int("top", 5, "Number of tilts in the ranking (0 = all)")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	if *workers > 0 {
		cfg.Sweep.Workers = *workers
	}

	req, err := cfg.BuildRequest(nil)
	if err != nil {
		panic(err)
	}
	if len(*tableFiles) > 0 {
		table, err := loadTables(*tableFiles)
		if err != nil {
			panic(err)
		}
		req.Oracle = table
	}

	fmt.Printf("Starting simulations for tilts %d to %d degrees...\n", cfg.Sweep.TiltMin, cfg.Sweep.TiltMax)
	res, err := sweep.New().Run(context.Background(), req)
	if err != nil {
		panic(err)
	}
	fmt.Println("\n--- Simulations completed ---")

	sys := req.Inputs.System
	if err := report.WriteTable(os.Stdout, res, sys); err != nil {
		panic(err)
	}
	if err := report.WriteRanking(os.Stdout, res.Results, *top); err != nil {
		panic(err)
	}

	if *outPath != "" {
		if err := report.WriteResultsCSV(*outPath, res.Results); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote %d rows to %s\n", len(res.Results), *outPath)
	}

	var png []byte
	if *chartPath != "" || *pdfPath != "" {
		png, err = report.Chart(res, "png")
		if err != nil {
			panic(err)
		}
	}
	if *chartPath != "" {
		data := png
		if filepath.Ext(*chartPath) == ".svg" {
			if data, err = report.Chart(res, "svg"); err != nil {
				panic(err)
			}
		}
		writeFile(*chartPath, data)
		fmt.Printf("Wrote chart to %s\n", *chartPath)
	}
	if *pdfPath != "" {
		info := report.PDFInfo{Location: fmt.Sprintf("%.2fN %.2fE (%s)",
			cfg.Location.Latitude, cfg.Location.Longitude, cfg.Location.Timezone)}
		if err := report.BuildPDF(*pdfPath, info, res, sys, png); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote report to %s\n", *pdfPath)
	}
}

func cmdIrradiance(args []string) {
	fs := flag.NewFlagSet("irradiance", flag.ExitOnError)
	cfgPath := fs.StringP("config", "c", "", "Path to YAML config (default: reference scenario)")
	tilts := fs.IntSlice("tilt", nil, "Tilt(s) to export (default: the whole sweep range)")
	outPath := fs.StringP("out", "o", "results/irradiance.csv", "Output CSV path")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	grid, err := cfg.Grid()
	if err != nil {
		panic(err)
	}
	oracle, err := cfg.Oracle(nil)
	if err != nil {
		panic(err)
	}
	ctx := context.Background()
	samples, err := oracle.Samples(ctx, grid.Times)
	if err != nil {
		panic(err)
	}

	list := *tilts
	if len(list) == 0 {
		list = cfg.SweepInputs(grid.IntervalHours()).Tilts()
	}
	geometry := cfg.Geometry.ToModel()

	var rows []*irradiance.Row
	for _, tilt := range list {
		irr, err := oracle.Compute(ctx, float64(tilt), geometry, grid.Times)
		if err != nil {
			panic(err)
		}
		tr, err := irradiance.ExportRows(tilt, samples, irr)
		if err != nil {
			panic(err)
		}
		rows = append(rows, tr...)
	}
	if err := irradiance.WriteRows(*outPath, rows); err != nil {
		panic(err)
	}
	fmt.Printf("Wrote %d rows (%d tilts x %d samples) to %s\n", len(rows), len(list), len(samples), *outPath)
}

func cmdModules(args []string) {
	fs := flag.NewFlagSet("modules", flag.ExitOnError)
	dir := fs.String("dir", config.ModuleDir(), "Module preset directory")
	_ = fs.Parse(args)

	presets, err := config.ListModules(*dir)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%-18s %-28s %-10s %-10s %-8s\n", "id", "name", "area_m2", "eff", "bifac")
	for _, p := range presets {
		bifac := "-"
		if p.Module.Bifaciality != nil {
			bifac = fmt.Sprintf("%.2f", *p.Module.Bifaciality)
		}
		fmt.Printf("%-18s %-28s %-10.1f %-10.3f %-8s\n", p.ID, p.Module.Name, p.Module.AreaM2, p.Module.Efficiency, bifac)
	}
}

func loadTables(paths []string) (*irradiance.Table, error) {
	var rows []*irradiance.Row
	for _, p := range paths {
		t, err := irradiance.LoadRows(p)
		if err != nil {
			return nil, err
		}
		rows = append(rows, t...)
	}
	return irradiance.NewTable(rows)
}

func writeFile(path string, data []byte) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		panic(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		panic(err)
	}
}
