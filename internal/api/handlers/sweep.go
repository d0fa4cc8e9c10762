package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"bifacial-sweep/internal/analysis"
	"bifacial-sweep/internal/api/models"
	"bifacial-sweep/internal/config"
	"bifacial-sweep/internal/report"
	"bifacial-sweep/internal/solar"
	"bifacial-sweep/internal/store"
	"bifacial-sweep/internal/sweep"
	"bifacial-sweep/internal/timegrid"

	"github.com/gin-gonic/gin"
)

// SweepHandler handles sweep-related requests
type SweepHandler struct {
	engine    *sweep.Engine
	store     *store.Store // nil disables run history
	cache     *solar.SampleCache
	moduleDir string
}

// NewSweepHandler creates a new sweep handler. st and cache may be nil.
func NewSweepHandler(st *store.Store, cache *solar.SampleCache, moduleDir string) *SweepHandler {
	return &SweepHandler{
		engine:    sweep.New(),
		store:     st,
		cache:     cache,
		moduleDir: moduleDir,
	}
}

// RunSweep handles POST /api/v1/sweep
func (h *SweepHandler) RunSweep(c *gin.Context) {
	req := models.NewSweepRequest()
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	cfg, sreq, err := h.prepare(req)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_CONFIG", err.Error())
		return
	}

	res, err := h.engine.Run(c.Request.Context(), sreq)
	if err != nil {
		writeSweepError(c, err)
		return
	}

	resp, err := h.finish(c.Request.Context(), req, cfg, res)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetSweep handles GET /api/v1/sweep/:id
func (h *SweepHandler) GetSweep(c *gin.Context) {
	run, ok := h.loadRun(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.NewSweepResponse(run.ID, run.CreatedAt, run.Result))
}

// GetChart handles GET /api/v1/sweep/:id/chart.png
func (h *SweepHandler) GetChart(c *gin.Context) {
	run, ok := h.loadRun(c)
	if !ok {
		return
	}
	png, err := report.Chart(run.Result, "png")
	if err != nil {
		writeError(c, http.StatusInternalServerError, "CHART_ERROR", err.Error())
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// ListSweeps handles GET /api/v1/sweeps
func (h *SweepHandler) ListSweeps(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusOK, models.SweepListResponse{Runs: []store.RunInfo{}})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	runs, err := h.store.List(c.Request.Context(), limit)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, models.SweepListResponse{Runs: runs})
}

// Helper methods

// prepare resolves the module preset, validates the config and builds the
// engine request.
func (h *SweepHandler) prepare(req models.SweepRequest) (*config.Config, sweep.Request, error) {
	cfg := req.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if req.ModulePreset != "" {
		preset, ok, err := config.FindModule(h.moduleDir, req.ModulePreset)
		if err != nil {
			return nil, sweep.Request{}, err
		}
		if !ok {
			return nil, sweep.Request{}, fmt.Errorf("unknown module preset: %s", req.ModulePreset)
		}
		cfg.Module = config.MergeModule(preset.Module, moduleOverrides(req))
	}
	if req.Options.Workers > 0 {
		cfg.Sweep.Workers = req.Options.Workers
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, sweep.Request{}, err
	}

	sreq, err := cfg.BuildRequest(h.cache)
	if err != nil {
		return nil, sweep.Request{}, err
	}
	return cfg, sreq, nil
}

// moduleOverrides keeps only the module fields the client actually sent on
// top of a preset; the reference defaults do not count as overrides.
func moduleOverrides(req models.SweepRequest) config.ModuleConfig {
	if req.Config == nil {
		return config.ModuleConfig{}
	}
	def := config.Default().Module
	m := req.Config.Module
	var out config.ModuleConfig
	if m.Name != def.Name {
		out.Name = m.Name
	}
	if m.AreaM2 != def.AreaM2 {
		out.AreaM2 = m.AreaM2
	}
	if m.Efficiency != def.Efficiency {
		out.Efficiency = m.Efficiency
	}
	if m.Bifaciality != nil && (def.Bifaciality == nil || *m.Bifaciality != *def.Bifaciality) {
		out.Bifaciality = m.Bifaciality
	}
	return out
}

// finish stores the run (when configured) and builds the response.
func (h *SweepHandler) finish(ctx context.Context, req models.SweepRequest, cfg *config.Config, res *sweep.Result) (*models.SweepResponse, error) {
	run := &store.Run{CreatedAt: time.Now().UTC(), Config: cfg, Result: res}
	if h.store != nil && !req.Options.SkipStore {
		if err := h.store.Save(ctx, run); err != nil {
			return nil, err
		}
		log.Printf("[SweepHandler] Stored run %s (best bifacial tilt %d)", run.ID, res.Summary.BestBifacialTilt)
	}
	resp := models.NewSweepResponse(run.ID, run.CreatedAt, res)
	if req.Options.RankingTop > 0 {
		resp.Ranking = rankTop(res, req.Options.RankingTop)
	}
	return &resp, nil
}

func rankTop(res *sweep.Result, n int) []analysis.RankedTilt {
	ranked := analysis.RankByBifacial(res.Results)
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

func (h *SweepHandler) loadRun(c *gin.Context) (*store.Run, bool) {
	if h.store == nil {
		writeError(c, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Run history is disabled. Set SWEEP_DB to enable it.")
		return nil, false
	}
	run, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		return nil, false
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return nil, false
	}
	return run, true
}

// sweepErrorDetail maps engine errors to API error codes.
func sweepErrorDetail(err error) (int, models.ErrorDetail) {
	var oe *sweep.OracleError
	var re *timegrid.InvalidRangeError
	switch {
	case errors.As(err, &oe):
		return http.StatusUnprocessableEntity, models.ErrorDetail{
			Code:    "ORACLE_ERROR",
			Message: err.Error(),
			Details: map[string]interface{}{"tilt": oe.Tilt},
		}
	case errors.As(err, &re):
		return http.StatusBadRequest, models.ErrorDetail{Code: "INVALID_RANGE", Message: err.Error()}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, models.ErrorDetail{Code: "CANCELLED", Message: err.Error()}
	default:
		return http.StatusInternalServerError, models.ErrorDetail{Code: "SWEEP_ERROR", Message: err.Error()}
	}
}

func writeSweepError(c *gin.Context, err error) {
	status, detail := sweepErrorDetail(err)
	c.JSON(status, models.ErrorResponse{Error: detail})
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
