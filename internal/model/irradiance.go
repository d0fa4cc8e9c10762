package model

import "time"

// TimeSample is the solar state at one grid instant.
// Angles are in degrees: azimuth clockwise from north, zenith from vertical.
// DNI/DHI are clear-sky direct-normal and diffuse-horizontal irradiance in W/m^2.
type TimeSample struct {
	Timestamp    time.Time
	SolarAzimuth float64
	SolarZenith  float64
	DNI          float64
	DHI          float64
}

// SunUp reports whether the sun is above the horizon.
func (s TimeSample) SunUp() bool {
	return s.SolarZenith < 90
}

// Irradiance is the absorbed irradiance on one observed row at one instant, W/m^2.
type Irradiance struct {
	AbsorbedFrontWm2 float64
	AbsorbedBackWm2  float64
}
