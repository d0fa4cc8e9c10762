package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"bifacial-sweep/internal/analysis"
	"bifacial-sweep/internal/model"
	"bifacial-sweep/internal/sweep"
)

// WriteTable prints the system recap, the per-tilt table, the optimum tilts
// and both gains. Energies are rounded to two decimals.
func WriteTable(w io.Writer, res *sweep.Result, sys model.SystemParams) error {
	if res == nil {
		return fmt.Errorf("result is nil")
	}
	ew := &errWriter{w: w}

	ew.printf("\n--- System parameters ---\n")
	ew.printf("Total front area: %g m^2\n", sys.FrontAreaM2)
	ew.printf("Module efficiency: %.1f%%\n", sys.ModuleEfficiency*100)
	ew.printf("Bifaciality factor: %.2f\n", sys.BifacialityFactor)
	ew.printf("Simulated period: %d samples of %g h\n", res.Samples, res.IntervalHours)

	ew.printf("\n--- Annual production per tilt (kWh) ---\n")
	tw := tabwriter.NewWriter(ew, 0, 0, 2, ' ', tabwriter.AlignRight)
	ew.fprintf(tw, "Tilt_Degrees\tBifacial_Annual_kWh\tMonofacial_Annual_kWh\t\n")
	for _, r := range res.Results {
		ew.fprintf(tw, "%d\t%.2f\t%.2f\t\n", r.TiltDegrees, r.BifacialAnnualKWh, r.MonofacialAnnualKWh)
	}
	if err := tw.Flush(); err != nil && ew.err == nil {
		ew.err = err
	}

	s := res.Summary
	ew.printf("\n--- Optimal tilt ---\n")
	ew.printf("BIFACIAL: tilt %d deg with an annual production of %.2f kWh\n", s.BestBifacialTilt, s.MaxBifacialKWh)
	ew.printf("MONOFACIAL: tilt %d deg with an annual production of %.2f kWh\n", s.BestMonofacialTilt, s.MaxMonofacialKWh)
	ew.printf("Bifacial gain (at its optimal tilt) over monofacial (same tilt): %.2f%%\n", s.GainAtBifacialOptimumPct)
	ew.printf("Bifacial gain (at the monofacial optimal tilt) over monofacial (its optimal tilt): %.2f%%\n", s.GainAtMonofacialOptimumPct)
	return ew.err
}

// WriteRanking prints the top n tilts by bifacial energy (all when n <= 0).
func WriteRanking(w io.Writer, results []model.TiltResult, n int) error {
	ranked := analysis.RankByBifacial(results)
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	ew := &errWriter{w: w}
	ew.printf("\n--- Tilts ranked by bifacial production ---\n")
	for _, r := range ranked {
		ew.printf("%2d. %2d deg  %.2f kWh\n", r.Rank, r.TiltDegrees, r.BifacialAnnualKWh)
	}
	return ew.err
}

// errWriter keeps the first write error so the formatting code stays flat.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func (e *errWriter) fprintf(w io.Writer, format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(w, format, args...)
}
