package models

import (
	"time"

	"bifacial-sweep/internal/analysis"
	"bifacial-sweep/internal/model"
	"bifacial-sweep/internal/store"
	"bifacial-sweep/internal/sweep"
)

// SweepResponse represents the response from a sweep run
type SweepResponse struct {
	ID            string                `json:"id,omitempty"`
	Status        string                `json:"status"`
	CreatedAt     time.Time             `json:"created_at"`
	Summary       model.OptimumSummary  `json:"summary"`
	Results       []model.TiltResult    `json:"results"`
	Samples       int                   `json:"samples"`
	IntervalHours float64               `json:"interval_hours"`
	Ranking       []analysis.RankedTilt `json:"ranking,omitempty"`
}

// NewSweepResponse builds the response body for a finished run.
func NewSweepResponse(id string, created time.Time, res *sweep.Result) SweepResponse {
	return SweepResponse{
		ID:            id,
		Status:        "completed",
		CreatedAt:     created,
		Summary:       res.Summary,
		Results:       res.Results,
		Samples:       res.Samples,
		IntervalHours: res.IntervalHours,
	}
}

// SweepListResponse lists stored runs, newest first
type SweepListResponse struct {
	Runs []store.RunInfo `json:"runs"`
}

// ModuleInfo represents information about a module preset
type ModuleInfo struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	File  string      `json:"file"`
	Specs ModuleSpecs `json:"specs"`
}

// ModuleSpecs contains module specifications
type ModuleSpecs struct {
	AreaM2      float64  `json:"area_m2"`
	Efficiency  float64  `json:"efficiency"`
	Bifaciality *float64 `json:"bifaciality"`
}

// Stream message types sent on /api/v1/sweep/stream
const (
	StreamProgress = "progress"
	StreamSummary  = "summary"
	StreamError    = "error"
)

// StreamMessage is one websocket message of a streamed sweep
type StreamMessage struct {
	Type     string          `json:"type"`
	Progress *sweep.Progress `json:"progress,omitempty"`
	Result   *SweepResponse  `json:"result,omitempty"`
	Error    *ErrorDetail    `json:"error,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
