package models

import "bifacial-sweep/internal/config"

// SweepRequest represents the request body for running a sweep.
// Config is decoded over the reference scenario, so only the fields that
// differ need to be sent.
type SweepRequest struct {
	Config       *config.Config `json:"config,omitempty"`
	ModulePreset string         `json:"module_preset,omitempty"` // ID from GET /api/v1/modules
	Options      SweepOptions   `json:"options,omitempty"`
}

// SweepOptions contains optional sweep parameters
type SweepOptions struct {
	Workers    int  `json:"workers,omitempty"`     // overrides config.sweep.workers
	SkipStore  bool `json:"skip_store,omitempty"`  // default: store the run when a database is configured
	RankingTop int  `json:"ranking_top,omitempty"` // 0 = no ranking in the response
}

// NewSweepRequest returns a request pre-filled with the reference scenario.
func NewSweepRequest() SweepRequest {
	return SweepRequest{Config: config.Default()}
}
