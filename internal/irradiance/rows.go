package irradiance

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync"

	"bifacial-sweep/internal/model"

	"gonum.org/v1/gonum/floats"
)

const (
	// DefaultFrontReflection and DefaultBackReflection are the fractions of
	// incident irradiance lost at the module surfaces.
	DefaultFrontReflection = 0.03
	DefaultBackReflection  = 0.05
)

// ViewFactorModel is a 2-D infinite-row approximation of a fixed-tilt array.
// The cross-section is taken along the surface azimuth. It accounts for:
//   - beam on front and back via the angle of incidence,
//   - row-to-row beam shading from the projected solar zenith and the GCR
//     (the leading row is never shaded on its front, the trailing row never on its back),
//   - isotropic sky diffuse, masked by the neighbouring row for interior rows,
//   - ground-reflected light from a ground that is partly in the rows' shadow,
//     weighted by how much of the near field a row at its height sees.
type ViewFactorModel struct {
	FrontReflection float64
	BackReflection  float64

	warnOnce sync.Once
}

func NewViewFactorModel() *ViewFactorModel {
	return &ViewFactorModel{
		FrontReflection: DefaultFrontReflection,
		BackReflection:  DefaultBackReflection,
	}
}

func (m *ViewFactorModel) Absorbed(tilt float64, g model.Geometry, samples []model.TimeSample) ([]model.Irradiance, error) {
	if tilt < 0 || tilt > 90 {
		return nil, fmt.Errorf("tilt %v out of range [0, 90]", tilt)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("geometry invalid: %w", err)
	}
	if len(samples) == 0 {
		return nil, errors.New("no solar samples")
	}
	m.checkAxis(g)

	beta := degToRad(tilt)
	cosB, sinB := math.Cos(beta), math.Sin(beta)
	gcr := g.GCR()
	interior := g.RowCount > 1
	hasFrontNeighbour := !g.IsLeadingRow()
	hasBackNeighbour := g.ObservedRowIndex < g.RowCount-1

	// Sky view factors do not depend on the sun, only on the geometry.
	vfSkyFront := (1 + cosB) / 2
	vfSkyBack := (1 - cosB) / 2
	vfGndFront := (1 - cosB) / 2
	vfGndBack := (1 + cosB) / 2
	if interior {
		psi := maskingAngle(g, beta)
		if hasFrontNeighbour {
			vfSkyFront = (1 + math.Cos(math.Min(psi+beta, math.Pi))) / 2
		}
		if hasBackNeighbour {
			// The row behind hides the low sky seen by the back surface.
			vfSkyBack *= math.Max(0, 1-psi/math.Pi)
		}
	}
	nearField := g.RowWidth / (g.RowWidth + 2*g.RowHeight)
	shadedGroundDiffuse := 1 - 0.5*math.Min(gcr, 1)

	front := make([]float64, len(samples))
	back := make([]float64, len(samples))
	for i, s := range samples {
		if !s.SunUp() || (s.DNI <= 0 && s.DHI <= 0) {
			continue
		}
		zen := degToRad(s.SolarZenith)
		relAz := degToRad(s.SolarAzimuth - g.SurfaceAzimuth)
		cosZ := math.Cos(zen)
		ghi := math.Max(s.DNI*cosZ, 0) + s.DHI

		cosAOI := cosZ*cosB + math.Sin(zen)*sinB*math.Cos(relAz)
		theta := projectedZenith(zen, relAz)

		var beamFront, beamBack float64
		if cosAOI > 0 {
			fs := 0.0
			if hasFrontNeighbour {
				fs = shadedFraction(theta, beta, gcr)
			}
			beamFront = s.DNI * cosAOI * (1 - fs)
		} else if cosAOI < 0 {
			fs := 0.0
			if hasBackNeighbour {
				fs = shadedFraction(-theta, beta, gcr)
			}
			beamBack = s.DNI * -cosAOI * (1 - fs)
		}

		groundShaded := math.Min(1, gcr*math.Abs(cosB+sinB*math.Tan(theta)))
		groundAvg := ghi*(1-groundShaded) + s.DHI*shadedGroundDiffuse*groundShaded
		seenShaded := groundShaded + nearField*groundShaded*(1-groundShaded)
		groundBack := ghi*(1-seenShaded) + s.DHI*shadedGroundDiffuse*seenShaded

		front[i] = beamFront + s.DHI*vfSkyFront + g.Albedo*groundAvg*vfGndFront
		back[i] = beamBack + s.DHI*vfSkyBack + g.Albedo*groundBack*vfGndBack
	}

	floats.Scale(1-m.FrontReflection, front)
	floats.Scale(1-m.BackReflection, back)

	out := make([]model.Irradiance, len(samples))
	for i := range out {
		out[i] = model.Irradiance{
			AbsorbedFrontWm2: math.Max(front[i], 0),
			AbsorbedBackWm2:  math.Max(back[i], 0),
		}
	}
	return out, nil
}

func (m *ViewFactorModel) checkAxis(g model.Geometry) {
	diff := math.Mod(math.Abs(g.AxisAzimuth-g.SurfaceAzimuth), 180)
	if math.Abs(diff-90) > 1 {
		m.warnOnce.Do(func() {
			log.Printf("[irradiance] axis_azimuth %.0f is not perpendicular to surface_azimuth %.0f; cross-section follows the surface azimuth",
				g.AxisAzimuth, g.SurfaceAzimuth)
		})
	}
}

// projectedZenith is the solar zenith projected on the cross-section plane,
// positive when the sun is on the front side of the rows.
func projectedZenith(zen, relAz float64) float64 {
	return math.Atan2(math.Sin(zen)*math.Cos(relAz), math.Cos(zen))
}

// shadedFraction is the fraction of a row's slant width in the shadow of the
// neighbouring row, for a surface of tilt beta and a projected zenith theta
// measured toward the surface's facing side.
func shadedFraction(theta, beta, gcr float64) float64 {
	if gcr <= 0 {
		return 0
	}
	den := gcr * math.Cos(theta-beta)
	if den <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, 1-math.Cos(theta)/den))
}

// maskingAngle is the elevation of the neighbouring row's top edge seen from
// the middle of the observed row.
func maskingAngle(g model.Geometry, beta float64) float64 {
	half := g.RowWidth / 2
	return math.Atan2(half*math.Sin(beta), g.Pitch-half*math.Cos(beta))
}

func degToRad(deg float64) float64 { return deg * (math.Pi / 180.0) }
