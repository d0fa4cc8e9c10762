package model

import (
	"errors"
	"fmt"
)

// Geometry describes a fixed-tilt multi-row array. It does not carry the tilt:
// the sweep substitutes one per iteration.
// Units:
// - RowHeight, RowWidth, Pitch: m (height is measured at the row centre)
// - AxisAzimuth, SurfaceAzimuth: degrees clockwise from north (180 = south)
// - Albedo: ground reflectance fraction [0,1]
type Geometry struct {
	RowHeight        float64
	RowWidth         float64
	Pitch            float64
	AxisAzimuth      float64
	SurfaceAzimuth   float64
	Albedo           float64
	RowCount         int
	ObservedRowIndex int
}

// GCR is the ground coverage ratio, RowWidth / Pitch. It is always derived.
// Physically valid arrays have 0 < GCR <= 1; this is not enforced because
// some published layouts quote the slant width and still expect a result.
func (g Geometry) GCR() float64 {
	if g.Pitch == 0 {
		return 0
	}
	return g.RowWidth / g.Pitch
}

func (g Geometry) Validate() error {
	if g.RowHeight <= 0 {
		return errors.New("RowHeight must be > 0")
	}
	if g.RowWidth <= 0 {
		return errors.New("RowWidth must be > 0")
	}
	if g.Pitch <= 0 {
		return errors.New("Pitch must be > 0")
	}
	if g.Albedo < 0 || g.Albedo > 1 {
		return errors.New("Albedo must be in [0, 1]")
	}
	if g.RowCount < 1 {
		return errors.New("RowCount must be >= 1")
	}
	if g.ObservedRowIndex < 0 || g.ObservedRowIndex >= g.RowCount {
		return fmt.Errorf("ObservedRowIndex must be in [0, %d)", g.RowCount)
	}
	return nil
}

// IsLeadingRow reports whether the observed row has no row in front of it,
// so nothing can cast a shadow on it.
func (g Geometry) IsLeadingRow() bool {
	return g.ObservedRowIndex == 0
}
