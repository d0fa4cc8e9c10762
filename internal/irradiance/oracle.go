package irradiance

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"bifacial-sweep/internal/model"
	"bifacial-sweep/internal/solar"
)

// Oracle converts a timestamp series, array geometry and one tilt into the
// absorbed irradiance of the observed row, one value per timestamp.
// Implementations must be safe for concurrent use.
type Oracle interface {
	Compute(ctx context.Context, tilt float64, geometry model.Geometry, times []time.Time) ([]model.Irradiance, error)
}

// RowModel is the row-to-row half of an oracle: it works on solar samples.
type RowModel interface {
	Absorbed(tilt float64, geometry model.Geometry, samples []model.TimeSample) ([]model.Irradiance, error)
}

// Composed joins a solar provider and a row model. The solar series depends
// only on the site and the grid, so it is computed once and reused by every
// tilt of a sweep.
type Composed struct {
	Solar solar.Provider
	Rows  RowModel

	mu      sync.Mutex
	key     string
	samples []model.TimeSample
}

func NewComposed(provider solar.Provider, rows RowModel) *Composed {
	return &Composed{Solar: provider, Rows: rows}
}

func (c *Composed) Compute(ctx context.Context, tilt float64, geometry model.Geometry, times []time.Time) ([]model.Irradiance, error) {
	samples, err := c.solarSamples(ctx, times)
	if err != nil {
		return nil, fmt.Errorf("solar samples: %w", err)
	}
	return c.Rows.Absorbed(tilt, geometry, samples)
}

// Samples exposes the (cached) solar series for reporting and export.
func (c *Composed) Samples(ctx context.Context, times []time.Time) ([]model.TimeSample, error) {
	return c.solarSamples(ctx, times)
}

func (c *Composed) solarSamples(ctx context.Context, times []time.Time) ([]model.TimeSample, error) {
	key := gridKey(times)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.samples != nil && c.key == key {
		return c.samples, nil
	}

	start := time.Now()
	samples, err := c.Solar.Samples(ctx, times)
	if err != nil {
		return nil, err
	}
	if len(samples) != len(times) {
		return nil, fmt.Errorf("solar provider returned %d samples for %d timestamps", len(samples), len(times))
	}
	log.Printf("[irradiance] computed %d solar samples in %v", len(samples), time.Since(start))
	c.key = key
	c.samples = samples
	return samples, nil
}

func gridKey(times []time.Time) string {
	if len(times) == 0 {
		return ""
	}
	return fmt.Sprintf("%d:%d:%d", times[0].UnixNano(), times[len(times)-1].UnixNano(), len(times))
}
