package sweep

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"bifacial-sweep/internal/analysis"
	"bifacial-sweep/internal/irradiance"
	"bifacial-sweep/internal/model"
	"bifacial-sweep/internal/timegrid"
	"bifacial-sweep/internal/yield"
)

// Request is everything one sweep needs. It is read-only during the run.
type Request struct {
	Inputs model.SweepInputs
	Grid   timegrid.Grid
	Oracle irradiance.Oracle

	// Workers > 1 evaluates tilts in parallel. Results are still returned
	// in ascending tilt order.
	Workers int

	// Progress, if set, is called after each tilt. Calls are serialized.
	Progress func(Progress)
}

type Engine struct {
	calc *yield.Calculator
}

func New() *Engine { return &Engine{calc: yield.New()} }

// Run evaluates every tilt of the inclusive range, then derives the optimum
// summary. Any per-tilt failure aborts the whole run.
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Oracle == nil {
		return nil, errors.New("oracle is nil")
	}
	if req.Grid.Len() == 0 {
		return nil, errors.New("empty time grid")
	}
	if err := req.Inputs.Validate(); err != nil {
		return nil, err
	}

	tilts := req.Inputs.Tilts()
	intervalH := req.Grid.IntervalHours()
	start := time.Now()
	log.Printf("[sweep] Starting tilt sweep %d..%d deg over %d samples (%.2f h step)",
		req.Inputs.TiltMin, req.Inputs.TiltMax, req.Grid.Len(), intervalH)

	var (
		results []model.TiltResult
		err     error
	)
	if req.Workers > 1 && len(tilts) > 1 {
		results, err = e.runParallel(ctx, req, tilts, intervalH)
	} else {
		results, err = e.runSequential(ctx, req, tilts, intervalH)
	}
	if err != nil {
		return nil, err
	}

	summary, err := analysis.Optimum(results)
	if err != nil {
		return nil, fmt.Errorf("analyze sweep: %w", err)
	}
	log.Printf("[sweep] Completed %d tilts in %v", len(results), time.Since(start).Round(time.Millisecond))

	return &Result{
		Results:       results,
		Summary:       summary,
		Samples:       req.Grid.Len(),
		IntervalHours: intervalH,
	}, nil
}

func (e *Engine) runSequential(ctx context.Context, req Request, tilts []int, intervalH float64) ([]model.TiltResult, error) {
	results := make([]model.TiltResult, 0, len(tilts))
	for i, tilt := range tilts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := e.evaluate(ctx, req, tilt, intervalH)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
		if req.Progress != nil {
			req.Progress(Progress{Tilt: tilt, Done: i + 1, Total: len(tilts), Result: r})
		}
	}
	return results, nil
}

func (e *Engine) runParallel(ctx context.Context, req Request, tilts []int, intervalH float64) ([]model.TiltResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := req.Workers
	if workers > len(tilts) {
		workers = len(tilts)
	}

	results := make([]model.TiltResult, len(tilts))
	jobs := make(chan int)

	var (
		mu       sync.Mutex
		firstErr error
		done     int
		wg       sync.WaitGroup
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		cancel()
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				r, err := e.evaluate(ctx, req, tilts[idx], intervalH)
				if err != nil {
					fail(err)
					continue
				}
				results[idx] = r

				mu.Lock()
				done++
				if req.Progress != nil && firstErr == nil {
					req.Progress(Progress{Tilt: r.TiltDegrees, Done: done, Total: len(tilts), Result: r})
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for idx := range tilts {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Engine) evaluate(ctx context.Context, req Request, tilt int, intervalH float64) (model.TiltResult, error) {
	log.Printf("[sweep] Simulating tilt %d deg...", tilt)

	irr, err := req.Oracle.Compute(ctx, float64(tilt), req.Inputs.Geometry, req.Grid.Times)
	if err != nil {
		return model.TiltResult{}, &OracleError{Tilt: tilt, Err: err}
	}
	if len(irr) != req.Grid.Len() {
		return model.TiltResult{}, &OracleError{
			Tilt: tilt,
			Err:  fmt.Errorf("returned %d values for %d timestamps", len(irr), req.Grid.Len()),
		}
	}

	totals, err := e.calc.Annual(irr, req.Inputs.System, intervalH)
	if err != nil {
		return model.TiltResult{}, fmt.Errorf("tilt %d yield: %w", tilt, err)
	}
	return model.TiltResult{
		TiltDegrees:         tilt,
		BifacialAnnualKWh:   totals.BifacialKWh,
		MonofacialAnnualKWh: totals.MonofacialKWh,
	}, nil
}
