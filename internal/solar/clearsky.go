package solar

import (
	"math"
	"time"
)

const (
	solarConstant = 1361.0 // W/m^2 at the top of the atmosphere

	// DefaultLinkeTurbidity is a moderate value for a rural mid-latitude site.
	DefaultLinkeTurbidity = 3.0
)

// ClearSky holds clear-sky irradiance components in W/m^2.
type ClearSky struct {
	GHI float64
	DNI float64
	DHI float64
}

// extraterrestrial returns normal-incidence irradiance at the top of the
// atmosphere, corrected for the Earth-Sun distance.
func extraterrestrial(t time.Time) float64 {
	n := float64(t.UTC().YearDay())
	return solarConstant * (1 + 0.033*math.Cos(degToRad(360.0*(n-3)/365.0)))
}

// relativeAirmass uses the Kasten-Young formula on the apparent zenith (degrees).
func relativeAirmass(zenith float64) float64 {
	if zenith >= 90 {
		return math.NaN()
	}
	return 1.0 / (math.Cos(degToRad(zenith)) + 0.50572*math.Pow(96.07995-zenith, -1.6364))
}

// pressureAt is the standard-atmosphere pressure in Pa at altitude m.
func pressureAt(altitude float64) float64 {
	return 101325 * math.Pow(1-2.25577e-5*altitude, 5.25588)
}

// IneichenPerez computes clear-sky irradiance for a given apparent zenith.
// linkeTurbidity <= 0 falls back to DefaultLinkeTurbidity.
func IneichenPerez(t time.Time, apparentZenith, altitude, linkeTurbidity float64) ClearSky {
	if apparentZenith >= 90 {
		return ClearSky{}
	}
	tl := linkeTurbidity
	if tl <= 0 {
		tl = DefaultLinkeTurbidity
	}
	cosZ := math.Cos(degToRad(apparentZenith))
	am := relativeAirmass(apparentZenith) * pressureAt(altitude) / 101325
	i0 := extraterrestrial(t)

	fh1 := math.Exp(-altitude / 8000)
	fh2 := math.Exp(-altitude / 1250)
	cg1 := 5.09e-5*altitude + 0.868
	cg2 := 3.92e-5*altitude + 0.0387

	ghi := cg1 * i0 * cosZ * math.Max(math.Exp(-cg2*am*(fh1+fh2*(tl-1))), 0)

	b := 0.664 + 0.163/fh1
	bnci := i0 * math.Max(b*math.Exp(-0.09*am*(tl-1)), 0)
	bnci2 := ghi * math.Min(math.Max((1-(0.1-0.2*math.Exp(-tl))/(0.1+0.882/fh1))/cosZ, 0), 1e20)
	dni := math.Min(bnci, bnci2)
	dhi := math.Max(ghi-dni*cosZ, 0)

	return ClearSky{GHI: ghi, DNI: dni, DHI: dhi}
}
