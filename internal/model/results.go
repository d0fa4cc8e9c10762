package model

// Configuration names a module build. Keep these values stable; they are used
// as CSV and JSON labels.
type Configuration string

const (
	ConfigBifacial   Configuration = "BIFACIAL"
	ConfigMonofacial Configuration = "MONOFACIAL"
)

// TiltResult is the annual energy of both configurations at one tilt.
type TiltResult struct {
	TiltDegrees         int     `csv:"tilt_degrees" json:"tilt_degrees"`
	BifacialAnnualKWh   float64 `csv:"bifacial_annual_kwh" json:"bifacial_annual_kwh"`
	MonofacialAnnualKWh float64 `csv:"monofacial_annual_kwh" json:"monofacial_annual_kwh"`
}

// Energy returns the annual energy for the given configuration.
func (r TiltResult) Energy(c Configuration) float64 {
	if c == ConfigMonofacial {
		return r.MonofacialAnnualKWh
	}
	return r.BifacialAnnualKWh
}

// OptimumSummary is derived once from a complete sweep.
type OptimumSummary struct {
	BestBifacialTilt           int     `json:"best_bifacial_tilt"`
	MaxBifacialKWh             float64 `json:"max_bifacial_kwh"`
	BestMonofacialTilt         int     `json:"best_monofacial_tilt"`
	MaxMonofacialKWh           float64 `json:"max_monofacial_kwh"`
	GainAtBifacialOptimumPct   float64 `json:"gain_at_bifacial_optimum_pct"`
	GainAtMonofacialOptimumPct float64 `json:"gain_at_monofacial_optimum_pct"`
}
