package model

import "fmt"

// SweepInputs is the canonical "inputs to the system" object: everything the
// sweep needs besides the time grid and the irradiance oracle.
type SweepInputs struct {
	Geometry Geometry
	System   SystemParams
	TiltMin  int
	TiltMax  int
}

// Tilts returns the inclusive ascending tilt range.
func (in SweepInputs) Tilts() []int {
	if in.TiltMax < in.TiltMin {
		return nil
	}
	out := make([]int, 0, in.TiltMax-in.TiltMin+1)
	for t := in.TiltMin; t <= in.TiltMax; t++ {
		out = append(out, t)
	}
	return out
}

func (in SweepInputs) Validate() error {
	if in.TiltMin < 0 || in.TiltMax > 90 {
		return fmt.Errorf("tilt range must lie within [0, 90], got [%d, %d]", in.TiltMin, in.TiltMax)
	}
	if in.TiltMax < in.TiltMin {
		return fmt.Errorf("tilt_max (%d) must be >= tilt_min (%d)", in.TiltMax, in.TiltMin)
	}
	if err := in.Geometry.Validate(); err != nil {
		return fmt.Errorf("geometry invalid: %w", err)
	}
	if err := in.System.Validate(); err != nil {
		return fmt.Errorf("system invalid: %w", err)
	}
	return nil
}
