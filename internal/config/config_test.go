package config

import (
	"os"
	"path/filepath"
	"testing"

	"bifacial-sweep/internal/irradiance"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsReferenceScenario(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	grid, err := c.Grid()
	require.NoError(t, err)
	assert.Equal(t, 8760, grid.Len())
	assert.Equal(t, 1.0, grid.IntervalHours())

	in := c.SweepInputs(grid.IntervalHours())
	assert.Len(t, in.Tilts(), 16)
	assert.Equal(t, 187.5, in.System.FrontAreaM2)
	assert.Equal(t, 0.22, in.System.ModuleEfficiency)
	assert.Equal(t, 0.6, in.System.BifacialityFactor)
	assert.Equal(t, 1.6, in.Geometry.GCR())
	assert.Equal(t, 1, in.Geometry.ObservedRowIndex)
}

func TestLoadWithModuleFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "modules/mono.yaml", `
module:
  name: mono
  area_m2: 100
  efficiency: 0.2
  bifaciality: 0.7
`)
	path := writeFile(t, dir, "config.yaml", `
location:
  latitude: 45.12
  longitude: 9.21
  timezone: Europe/Rome
period:
  start: "2021-06-01"
  end: "2021-06-08"
geometry:
  row_height: 2
  row_width: 8
  pitch: 5
  axis_azimuth: 180
  surface_azimuth: 180
  albedo: 0.2
  n_rows: 3
  observed_row: 1
module_file: modules/mono.yaml
module:
  efficiency: 0.21
  bifaciality: 0
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mono", c.Module.Name)
	assert.Equal(t, 100.0, c.Module.AreaM2)
	assert.Equal(t, 0.21, c.Module.Efficiency)
	require.NotNil(t, c.Module.Bifaciality)
	assert.Equal(t, 0.0, *c.Module.Bifaciality)

	// defaults
	assert.Equal(t, "1h", c.Period.Step)
	assert.Equal(t, 25, c.Sweep.TiltMin)
	assert.Equal(t, 40, c.Sweep.TiltMax)

	grid, err := c.Grid()
	require.NoError(t, err)
	assert.Equal(t, 7*24, grid.Len())
}

func TestLoadExampleConfig(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "examples", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 0.22, c.Module.Efficiency)
	assert.Equal(t, 4, c.Sweep.Workers)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.yaml", "location: [1, 2")
	_, err = Load(bad)
	assert.Error(t, err)

	noModule := writeFile(t, dir, "nomodule.yaml", "module_file: nope.yaml\n")
	_, err = LoadUnchecked(noModule)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"latitude":     func(c *Config) { c.Location.Latitude = 95 },
		"timezone":     func(c *Config) { c.Location.Timezone = "Mars/Olympus" },
		"step":         func(c *Config) { c.Period.Step = "hourly" },
		"period":       func(c *Config) { c.Period.Year = 0 },
		"reversed":     func(c *Config) { c.Period.Start, c.Period.End = "2021-02-01", "2021-01-01" },
		"bifaciality":  func(c *Config) { c.Module.Bifaciality = nil },
		"efficiency":   func(c *Config) { c.Module.Efficiency = 1.5 },
		"observed row": func(c *Config) { c.Geometry.ObservedRowIndex = 3 },
		"tilt range":   func(c *Config) { c.Sweep.TiltMin, c.Sweep.TiltMax = 40, 25 },
		"workers":      func(c *Config) { c.Sweep.Workers = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}

func TestMergeModule(t *testing.T) {
	b := 0.6
	base := ModuleConfig{Name: "base", AreaM2: 100, Efficiency: 0.2, Bifaciality: &b}

	out := MergeModule(base, ModuleConfig{Efficiency: 0.25})
	assert.Equal(t, "base", out.Name)
	assert.Equal(t, 0.25, out.Efficiency)
	assert.Equal(t, 0.6, *out.Bifaciality)

	zero := 0.0
	out = MergeModule(base, ModuleConfig{Bifaciality: &zero})
	assert.Equal(t, 0.0, *out.Bifaciality)
	assert.Equal(t, 0.6, *base.Bifaciality)
}

func TestListModules(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", "module:\n  efficiency: 0.2\n  bifaciality: 0.7\n")
	writeFile(t, dir, "a.yaml", "module:\n  name: Alpha\n  efficiency: 0.21\n")
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, "broken.yaml", "module: [")

	presets, err := ListModules(dir)
	require.NoError(t, err)
	require.Len(t, presets, 2)
	assert.Equal(t, "a", presets[0].ID)
	assert.Equal(t, "Alpha", presets[0].Module.Name)
	assert.Equal(t, "b", presets[1].Module.Name)

	p, ok, err := FindModule(dir, "b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0.2, p.Module.Efficiency)

	_, ok, err = FindModule(dir, "zzz")
	require.NoError(t, err)
	assert.False(t, ok)

	presets, err = ListModules(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, presets)
}

func TestBuildRequest(t *testing.T) {
	c := Default()
	c.Period = PeriodConfig{Start: "2021-06-01", End: "2021-06-02", Step: "30m"}
	c.Sweep.Workers = 2

	req, err := c.BuildRequest(nil)
	require.NoError(t, err)
	assert.Equal(t, 48, req.Grid.Len())
	assert.Equal(t, 0.5, req.Inputs.System.SampleIntervalHours)
	assert.Equal(t, 2, req.Workers)
	assert.IsType(t, &irradiance.Composed{}, req.Oracle)
}
