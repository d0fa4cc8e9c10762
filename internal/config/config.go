package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bifacial-sweep/internal/model"
	"bifacial-sweep/internal/solar"
	"bifacial-sweep/internal/timegrid"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML). The API accepts the same
// shape as JSON.
type Config struct {
	Location LocationConfig `yaml:"location" json:"location"`
	Period   PeriodConfig   `yaml:"period" json:"period"`
	Geometry GeometryConfig `yaml:"geometry" json:"geometry"`

	// Optional: load module parameters from a separate YAML (e.g. examples/modules/*.yaml).
	// If both ModuleFile and Module are provided, Module overrides ModuleFile.
	ModuleFile string       `yaml:"module_file" json:"module_file,omitempty"`
	Module     ModuleConfig `yaml:"module" json:"module"`

	Sweep SweepConfig `yaml:"sweep" json:"sweep"`
}

type LocationConfig struct {
	Latitude       float64 `yaml:"latitude" json:"latitude"`
	Longitude      float64 `yaml:"longitude" json:"longitude"`
	Altitude       float64 `yaml:"altitude" json:"altitude"`
	Timezone       string  `yaml:"timezone" json:"timezone"`
	LinkeTurbidity float64 `yaml:"linke_turbidity" json:"linke_turbidity"`
}

// PeriodConfig selects the time grid. Either Year, or Start and End
// (YYYY-MM-DD or RFC3339, End exclusive) in the location's time zone.
type PeriodConfig struct {
	Year  int    `yaml:"year" json:"year"`
	Start string `yaml:"start" json:"start,omitempty"`
	End   string `yaml:"end" json:"end,omitempty"`
	Step  string `yaml:"step" json:"step"`
}

type GeometryConfig struct {
	RowHeight        float64 `yaml:"row_height" json:"row_height"`
	RowWidth         float64 `yaml:"row_width" json:"row_width"`
	Pitch            float64 `yaml:"pitch" json:"pitch"`
	AxisAzimuth      float64 `yaml:"axis_azimuth" json:"axis_azimuth"`
	SurfaceAzimuth   float64 `yaml:"surface_azimuth" json:"surface_azimuth"`
	Albedo           float64 `yaml:"albedo" json:"albedo"`
	RowCount         int     `yaml:"n_rows" json:"n_rows"`
	ObservedRowIndex int     `yaml:"observed_row" json:"observed_row"`
}

// ModuleConfig describes the installed modules. Bifaciality is a pointer so
// that an explicit 0 (a monofacial module) can override a preset.
type ModuleConfig struct {
	Name        string   `yaml:"name" json:"name,omitempty"`
	AreaM2      float64  `yaml:"area_m2" json:"area_m2"`
	Efficiency  float64  `yaml:"efficiency" json:"efficiency"`
	Bifaciality *float64 `yaml:"bifaciality" json:"bifaciality"`
}

type SweepConfig struct {
	TiltMin int `yaml:"tilt_min" json:"tilt_min"`
	TiltMax int `yaml:"tilt_max" json:"tilt_max"`
	Workers int `yaml:"workers" json:"workers,omitempty"`
}

const DefaultStep = "1h"

// Default returns the reference scenario: a three-row array near Pavia
// (Europe/Rome), hourly over 2021, tilts 25 to 40 degrees.
func Default() *Config {
	bifaciality := 0.60
	return &Config{
		Location: LocationConfig{
			Latitude:       45.12,
			Longitude:      9.21,
			Altitude:       0,
			Timezone:       "Europe/Rome",
			LinkeTurbidity: solar.DefaultLinkeTurbidity,
		},
		Period: PeriodConfig{Year: 2021, Step: DefaultStep},
		Geometry: GeometryConfig{
			RowHeight:        2,
			RowWidth:         8,
			Pitch:            5,
			AxisAzimuth:      180,
			SurfaceAzimuth:   180,
			Albedo:           0.2,
			RowCount:         3,
			ObservedRowIndex: 1,
		},
		Module: ModuleConfig{
			Name:        "reference bifacial",
			AreaM2:      50 * 3.75,
			Efficiency:  0.22,
			Bifaciality: &bifaciality,
		},
		Sweep: SweepConfig{TiltMin: 25, TiltMax: 40},
	}
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if err := c.ResolveModuleFile(filepath.Dir(path)); err != nil {
		return nil, err
	}
	return &c, nil
}

// ResolveModuleFile loads module_file, if set, and overlays the inline module
// fields on it. Relative paths are tried against baseDir first, then the
// working directory.
func (c *Config) ResolveModuleFile(baseDir string) error {
	if c.ModuleFile == "" {
		return nil
	}
	modulePath := c.ModuleFile
	if !filepath.IsAbs(modulePath) && baseDir != "" {
		cand := filepath.Join(baseDir, modulePath)
		if _, err := os.Stat(cand); err == nil {
			modulePath = cand
		}
	}
	loaded, err := LoadModuleFile(modulePath)
	if err != nil {
		return err
	}
	c.Module = MergeModule(loaded, c.Module)
	return nil
}

// ApplyDefaults fills fields that are commonly left out of config files.
func (c *Config) ApplyDefaults() {
	if c.Period.Step == "" {
		c.Period.Step = DefaultStep
	}
	if c.Location.LinkeTurbidity == 0 {
		c.Location.LinkeTurbidity = solar.DefaultLinkeTurbidity
	}
	if c.Geometry.RowCount == 0 {
		c.Geometry.RowCount = 1
	}
	if c.Sweep.TiltMin == 0 && c.Sweep.TiltMax == 0 {
		c.Sweep.TiltMin, c.Sweep.TiltMax = 25, 40
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.SolarLocation().Validate(); err != nil {
		return fmt.Errorf("location invalid: %w", err)
	}
	if _, err := c.Zone(); err != nil {
		return fmt.Errorf("location.timezone invalid: %w", err)
	}
	grid, err := c.Grid()
	if err != nil {
		return fmt.Errorf("period invalid: %w", err)
	}
	if c.Module.Bifaciality == nil {
		return errors.New("module.bifaciality is required")
	}
	if c.Sweep.Workers < 0 {
		return errors.New("sweep.workers must be >= 0")
	}
	if err := c.SweepInputs(grid.IntervalHours()).Validate(); err != nil {
		return fmt.Errorf("sweep config invalid: %w", err)
	}
	return nil
}

// Zone resolves the configured IANA time zone (UTC when empty).
func (c *Config) Zone() (*time.Location, error) {
	return c.SolarLocation().Zone()
}

func (c *Config) StepDuration() (time.Duration, error) {
	step := c.Period.Step
	if step == "" {
		step = DefaultStep
	}
	d, err := time.ParseDuration(step)
	if err != nil {
		return 0, fmt.Errorf("step %q: %w", step, err)
	}
	return d, nil
}

// Grid builds the simulation time grid.
func (c *Config) Grid() (timegrid.Grid, error) {
	loc, err := c.Zone()
	if err != nil {
		return timegrid.Grid{}, err
	}
	step, err := c.StepDuration()
	if err != nil {
		return timegrid.Grid{}, err
	}
	if c.Period.Start == "" && c.Period.End == "" {
		if c.Period.Year == 0 {
			return timegrid.Grid{}, errors.New("either year or start/end is required")
		}
		return timegrid.Year(c.Period.Year, loc, step)
	}
	start, err := parseTime(c.Period.Start, loc)
	if err != nil {
		return timegrid.Grid{}, fmt.Errorf("start: %w", err)
	}
	end, err := parseTime(c.Period.End, loc)
	if err != nil {
		return timegrid.Grid{}, fmt.Errorf("end: %w", err)
	}
	return timegrid.New(start, end, loc, step)
}

func parseTime(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing value")
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (c *Config) SolarLocation() solar.Location {
	return solar.Location{
		Latitude:  c.Location.Latitude,
		Longitude: c.Location.Longitude,
		Altitude:  c.Location.Altitude,
		Timezone:  c.Location.Timezone,
	}
}

func (g GeometryConfig) ToModel() model.Geometry {
	return model.Geometry{
		RowHeight:        g.RowHeight,
		RowWidth:         g.RowWidth,
		Pitch:            g.Pitch,
		AxisAzimuth:      g.AxisAzimuth,
		SurfaceAzimuth:   g.SurfaceAzimuth,
		Albedo:           g.Albedo,
		RowCount:         g.RowCount,
		ObservedRowIndex: g.ObservedRowIndex,
	}
}

func (m ModuleConfig) ToSystemParams(intervalHours float64) model.SystemParams {
	p := model.SystemParams{
		FrontAreaM2:         m.AreaM2,
		ModuleEfficiency:    m.Efficiency,
		SampleIntervalHours: intervalHours,
	}
	if m.Bifaciality != nil {
		p.BifacialityFactor = *m.Bifaciality
	}
	return p
}

func (c *Config) SweepInputs(intervalHours float64) model.SweepInputs {
	return model.SweepInputs{
		Geometry: c.Geometry.ToModel(),
		System:   c.Module.ToSystemParams(intervalHours),
		TiltMin:  c.Sweep.TiltMin,
		TiltMax:  c.Sweep.TiltMax,
	}
}

type moduleFileWrapper struct {
	Module ModuleConfig `yaml:"module"`
}

// LoadModuleFile reads a module preset file.
func LoadModuleFile(path string) (ModuleConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ModuleConfig{}, err
	}
	var w moduleFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return ModuleConfig{}, fmt.Errorf("parse module file %s: %w", path, err)
	}
	return w.Module, nil
}

// MergeModule overlays non-zero fields from override onto base.
// This is used when loading a module file and then applying overrides from the request.
func MergeModule(base, override ModuleConfig) ModuleConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.AreaM2 != 0 {
		out.AreaM2 = override.AreaM2
	}
	if override.Efficiency != 0 {
		out.Efficiency = override.Efficiency
	}
	if override.Bifaciality != nil {
		v := *override.Bifaciality
		out.Bifaciality = &v
	}
	return out
}
