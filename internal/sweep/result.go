package sweep

import (
	"fmt"

	"bifacial-sweep/internal/model"
)

// Result is the public output of a sweep run.
type Result struct {
	Results       []model.TiltResult   `json:"results"`
	Summary       model.OptimumSummary `json:"summary"`
	Samples       int                  `json:"samples"`
	IntervalHours float64              `json:"interval_hours"`
}

// Progress is reported once per finished tilt.
type Progress struct {
	Tilt   int              `json:"tilt"`
	Done   int              `json:"done"`
	Total  int              `json:"total"`
	Result model.TiltResult `json:"result"`
}

// OracleError is returned when the irradiance oracle fails for one tilt.
// The sweep is aborted and no partial results are returned.
type OracleError struct {
	Tilt int
	Err  error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("irradiance oracle failed at tilt %d: %v", e.Tilt, e.Err)
}

func (e *OracleError) Unwrap() error { return e.Err }
