package config

import (
	"bifacial-sweep/internal/irradiance"
	"bifacial-sweep/internal/solar"
	"bifacial-sweep/internal/sweep"
)

// Provider returns the clear-sky solar provider for the configured site. A
// non-nil cache is consulted before computing.
func (c *Config) Provider(cache *solar.SampleCache) (solar.Provider, error) {
	p, err := solar.NewClearSkyProvider(c.SolarLocation(), c.Location.LinkeTurbidity)
	if err != nil {
		return nil, err
	}
	if cache == nil {
		return p, nil
	}
	return &solar.CachedProvider{Provider: p, Cache: cache}, nil
}

// Oracle returns the default irradiance oracle: clear-sky samples fed to
// the view-factor row model.
func (c *Config) Oracle(cache *solar.SampleCache) (*irradiance.Composed, error) {
	p, err := c.Provider(cache)
	if err != nil {
		return nil, err
	}
	return irradiance.NewComposed(p, irradiance.NewViewFactorModel()), nil
}

// BuildRequest turns a validated config into a sweep request. Callers may
// replace Oracle (e.g. with an irradiance.Table) or set Progress afterwards.
func (c *Config) BuildRequest(cache *solar.SampleCache) (sweep.Request, error) {
	grid, err := c.Grid()
	if err != nil {
		return sweep.Request{}, err
	}
	oracle, err := c.Oracle(cache)
	if err != nil {
		return sweep.Request{}, err
	}
	return sweep.Request{
		Inputs:  c.SweepInputs(grid.IntervalHours()),
		Grid:    grid,
		Oracle:  oracle,
		Workers: c.Sweep.Workers,
	}, nil
}
