package solar

import (
	"math"
	"time"
)

func degToRad(deg float64) float64 { return deg * (math.Pi / 180.0) }

func radToDeg(rad float64) float64 { return rad * (180.0 / math.Pi) }

// fixAngle normalizes an angle to [0, 360) degrees.
func fixAngle(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// julianDay converts an instant to a Julian Day number.
func julianDay(t time.Time) float64 {
	return 2440587.5 + float64(t.UnixNano())/1e9/86400.0
}

// Position is the sun as seen from a site.
type Position struct {
	// Azimuth in degrees clockwise from north.
	Azimuth float64
	// Zenith is the geometric zenith angle in degrees.
	Zenith float64
	// ApparentZenith includes atmospheric refraction.
	ApparentZenith float64
	// DeclinationDeg and EquationOfTimeMin are kept for diagnostics.
	DeclinationDeg    float64
	EquationOfTimeMin float64
}

// SunPosition implements the NOAA solar position equations. Accuracy is about
// 0.01 degrees for years 1901-2099, plenty for annual energy estimates.
func SunPosition(t time.Time, latitude, longitude float64) Position {
	jd := julianDay(t)
	T := (jd - 2451545.0) / 36525.0 // Julian centuries since J2000.0

	L0 := fixAngle(280.46646 + T*(36000.76983+T*0.0003032))
	M := 357.52911 + T*(35999.05029-0.0001537*T)
	e := 0.016708634 - T*(0.000042037+0.0000001267*T)

	Mr := degToRad(M)
	C := math.Sin(Mr)*(1.914602-T*(0.004817+0.000014*T)) +
		math.Sin(2*Mr)*(0.019993-0.000101*T) +
		math.Sin(3*Mr)*0.000289
	trueLong := L0 + C
	omega := 125.04 - 1934.136*T
	appLong := trueLong - 0.00569 - 0.00478*math.Sin(degToRad(omega))

	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60
	eps := eps0 + 0.00256*math.Cos(degToRad(omega))

	decl := math.Asin(math.Sin(degToRad(eps)) * math.Sin(degToRad(appLong)))

	y := math.Tan(degToRad(eps)/2) * math.Tan(degToRad(eps)/2)
	L0r := degToRad(L0)
	eqTimeMin := 4 * radToDeg(y*math.Sin(2*L0r)-
		2*e*math.Sin(Mr)+
		4*e*y*math.Sin(Mr)*math.Cos(2*L0r)-
		0.5*y*y*math.Sin(4*L0r)-
		1.25*e*e*math.Sin(2*Mr))

	u := t.UTC()
	utcMin := float64(u.Hour()*60+u.Minute()) + float64(u.Second())/60.0 + float64(u.Nanosecond())/6e10
	tst := math.Mod(utcMin+eqTimeMin+4*longitude, 1440)
	if tst < 0 {
		tst += 1440
	}
	hourAngle := degToRad(tst/4 - 180)

	lat := degToRad(latitude)
	cosZ := math.Sin(lat)*math.Sin(decl) + math.Cos(lat)*math.Cos(decl)*math.Cos(hourAngle)
	cosZ = math.Max(-1, math.Min(1, cosZ))
	zenith := radToDeg(math.Acos(cosZ))

	az := radToDeg(math.Atan2(
		math.Sin(hourAngle),
		math.Cos(hourAngle)*math.Sin(lat)-math.Tan(decl)*math.Cos(lat),
	)) + 180

	return Position{
		Azimuth:           fixAngle(az),
		Zenith:            zenith,
		ApparentZenith:    zenith - refraction(90-zenith),
		DeclinationDeg:    radToDeg(decl),
		EquationOfTimeMin: eqTimeMin,
	}
}

// refraction returns the atmospheric refraction correction in degrees for a
// geometric elevation in degrees.
func refraction(elevation float64) float64 {
	var arcsec float64
	switch {
	case elevation > 85:
		return 0
	case elevation > 5:
		te := math.Tan(degToRad(elevation))
		arcsec = 58.1/te - 0.07/math.Pow(te, 3) + 0.000086/math.Pow(te, 5)
	case elevation > -0.575:
		arcsec = 1735 + elevation*(-518.2+elevation*(103.4+elevation*(-12.79+elevation*0.711)))
	default:
		arcsec = -20.772 / math.Tan(degToRad(elevation))
	}
	return arcsec / 3600
}
