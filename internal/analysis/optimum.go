package analysis

import (
	"errors"
	"fmt"

	"bifacial-sweep/internal/model"

	"gonum.org/v1/gonum/floats"
)

// ErrEmptySweep is returned when there is nothing to analyze.
var ErrEmptySweep = errors.New("empty sweep: no tilt results")

// DivisionByZeroError is returned when a gain would be computed against a
// zero reference energy.
type DivisionByZeroError struct {
	Tilt          int
	Configuration model.Configuration
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("cannot compute gain: %s energy at tilt %d is zero", e.Configuration, e.Tilt)
}

// Optimum finds the best tilt of each configuration and the relative gains.
//
// Ties resolve to the first occurrence in the input order, which for a sweep
// is the smallest tilt. Gains are percentages:
//   - at the bifacial optimum: (maxBif - mono@bestBif) / mono@bestBif * 100
//   - at the monofacial optimum: (bif@bestMono - maxMono) / maxMono * 100
func Optimum(results []model.TiltResult) (model.OptimumSummary, error) {
	if len(results) == 0 {
		return model.OptimumSummary{}, ErrEmptySweep
	}

	bif := Series(results, model.ConfigBifacial)
	mono := Series(results, model.ConfigMonofacial)

	// floats.MaxIdx returns the lowest index among equal maxima.
	bi := floats.MaxIdx(bif)
	mi := floats.MaxIdx(mono)
	bestBif := results[bi]
	bestMono := results[mi]

	s := model.OptimumSummary{
		BestBifacialTilt:   bestBif.TiltDegrees,
		MaxBifacialKWh:     bestBif.BifacialAnnualKWh,
		BestMonofacialTilt: bestMono.TiltDegrees,
		MaxMonofacialKWh:   bestMono.MonofacialAnnualKWh,
	}

	if bestBif.MonofacialAnnualKWh == 0 {
		return model.OptimumSummary{}, &DivisionByZeroError{Tilt: bestBif.TiltDegrees, Configuration: model.ConfigMonofacial}
	}
	if bestMono.MonofacialAnnualKWh == 0 {
		return model.OptimumSummary{}, &DivisionByZeroError{Tilt: bestMono.TiltDegrees, Configuration: model.ConfigMonofacial}
	}
	s.GainAtBifacialOptimumPct = PercentGain(bestBif.BifacialAnnualKWh, bestBif.MonofacialAnnualKWh)
	s.GainAtMonofacialOptimumPct = PercentGain(bestMono.BifacialAnnualKWh, bestMono.MonofacialAnnualKWh)
	return s, nil
}

// PercentGain is (value - reference) / reference * 100. reference must be
// non-zero.
func PercentGain(value, reference float64) float64 {
	return (value - reference) / reference * 100
}

// Series extracts one configuration's energies, keeping the input order.
func Series(results []model.TiltResult, c model.Configuration) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = r.Energy(c)
	}
	return out
}
