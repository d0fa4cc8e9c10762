package yield

import (
	"errors"
	"fmt"

	"bifacial-sweep/internal/model"
)

// Totals is the annual energy of one tilt for both module builds, in kWh.
type Totals struct {
	BifacialKWh   float64
	MonofacialKWh float64
}

// Calculator converts absorbed irradiance into energy.
// Power per sample:
// - bifacial:   (front + back * bifaciality) * area * efficiency
// - monofacial: front * area * efficiency
// Energy per sample is power / 1000 * intervalHours.
type Calculator struct{}

func New() *Calculator { return &Calculator{} }

// Annual integrates a full irradiance series. The sum runs in timestamp
// order so that identical inputs give bit-identical totals.
func (c *Calculator) Annual(series []model.Irradiance, system model.SystemParams, intervalHours float64) (Totals, error) {
	if intervalHours <= 0 {
		return Totals{}, fmt.Errorf("interval must be > 0 hours, got %v", intervalHours)
	}
	if err := system.Validate(); err != nil {
		return Totals{}, fmt.Errorf("system invalid: %w", err)
	}
	if len(series) == 0 {
		return Totals{}, errors.New("empty irradiance series")
	}

	scale := system.FrontAreaM2 * system.ModuleEfficiency / 1000 * intervalHours
	var bif, mono float64
	for _, irr := range series {
		bif += Density(irr, system.BifacialityFactor, model.ConfigBifacial) * scale
		mono += Density(irr, system.BifacialityFactor, model.ConfigMonofacial) * scale
	}
	return Totals{BifacialKWh: bif, MonofacialKWh: mono}, nil
}

// Density is the effective irradiance (W/m^2) a module build converts.
func Density(irr model.Irradiance, bifaciality float64, c model.Configuration) float64 {
	if c == model.ConfigMonofacial {
		return irr.AbsorbedFrontWm2
	}
	return irr.AbsorbedFrontWm2 + irr.AbsorbedBackWm2*bifaciality
}

// PowerW is the instantaneous DC power of one sample.
func PowerW(irr model.Irradiance, system model.SystemParams, c model.Configuration) float64 {
	return Density(irr, system.BifacialityFactor, c) * system.FrontAreaM2 * system.ModuleEfficiency
}
