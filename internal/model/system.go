package model

import "errors"

// SystemParams defines the electrical characteristics used to turn absorbed
// irradiance into energy.
// Units:
// - FrontAreaM2: m^2, total active front area of all modules
// - ModuleEfficiency: fraction (0,1]
// - BifacialityFactor: fraction [0,1], back-side response relative to front
// - SampleIntervalHours: h, spacing of the time grid
type SystemParams struct {
	FrontAreaM2         float64
	ModuleEfficiency    float64
	BifacialityFactor   float64
	SampleIntervalHours float64
}

func (p SystemParams) Validate() error {
	if p.FrontAreaM2 <= 0 {
		return errors.New("FrontAreaM2 must be > 0")
	}
	if p.ModuleEfficiency <= 0 || p.ModuleEfficiency > 1 {
		return errors.New("ModuleEfficiency must be in (0, 1]")
	}
	if p.BifacialityFactor < 0 || p.BifacialityFactor > 1 {
		return errors.New("BifacialityFactor must be in [0, 1]")
	}
	if p.SampleIntervalHours <= 0 {
		return errors.New("SampleIntervalHours must be > 0")
	}
	return nil
}

// WithArea returns a copy with a different front area. Handy for what-if runs
// that keep everything else fixed.
func (p SystemParams) WithArea(areaM2 float64) SystemParams {
	p.FrontAreaM2 = areaM2
	return p
}
