package irradiance

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"bifacial-sweep/internal/model"

	"github.com/gocarina/gocsv"
)

// Row is one line of an irradiance CSV. The solar columns are written on
// export and ignored on load.
type Row struct {
	Tilt          int     `csv:"tilt"`
	Timestamp     string  `csv:"timestamp"`
	SolarAzimuth  float64 `csv:"solar_azimuth"`
	SolarZenith   float64 `csv:"solar_zenith"`
	DNI           float64 `csv:"dni"`
	DHI           float64 `csv:"dhi"`
	AbsorbedFront float64 `csv:"absorbed_front"`
	AbsorbedBack  float64 `csv:"absorbed_back"`
}

// Table is an oracle backed by precomputed series, one per integer tilt.
// It lets the sweep run on irradiance exported from another model.
type Table struct {
	series map[int][]tableEntry
}

type tableEntry struct {
	ts  time.Time
	irr model.Irradiance
}

// LoadTable reads a CSV written by WriteRows (or any file with the
// tilt,timestamp,absorbed_front,absorbed_back columns).
func LoadTable(path string) (*Table, error) {
	rows, err := LoadRows(path)
	if err != nil {
		return nil, err
	}
	return NewTable(rows)
}

// LoadRows reads the raw rows of an irradiance CSV.
func LoadRows(path string) ([]*Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open irradiance table: %w", err)
	}
	defer f.Close()

	var rows []*Row
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse irradiance table %s: %w", path, err)
	}
	return rows, nil
}

// NewTable groups rows by tilt and orders each series by timestamp.
func NewTable(rows []*Row) (*Table, error) {
	t := &Table{series: make(map[int][]tableEntry)}
	for i, r := range rows {
		ts, err := time.Parse(time.RFC3339, r.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad timestamp %q: %w", i+1, r.Timestamp, err)
		}
		if r.AbsorbedFront < 0 || r.AbsorbedBack < 0 {
			return nil, fmt.Errorf("row %d: negative absorbed irradiance", i+1)
		}
		t.series[r.Tilt] = append(t.series[r.Tilt], tableEntry{
			ts:  ts,
			irr: model.Irradiance{AbsorbedFrontWm2: r.AbsorbedFront, AbsorbedBackWm2: r.AbsorbedBack},
		})
	}
	for tilt, s := range t.series {
		sort.SliceStable(s, func(i, j int) bool { return s[i].ts.Before(s[j].ts) })
		t.series[tilt] = s
	}
	return t, nil
}

// Tilts lists the tilts present in the table, ascending.
func (t *Table) Tilts() []int {
	out := make([]int, 0, len(t.series))
	for tilt := range t.series {
		out = append(out, tilt)
	}
	sort.Ints(out)
	return out
}

// Compute returns the stored series for tilt. The geometry is ignored: it is
// baked into the table. times must match the stored timestamps one to one.
func (t *Table) Compute(ctx context.Context, tilt float64, _ model.Geometry, times []time.Time) ([]model.Irradiance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := int(math.Round(tilt))
	s, ok := t.series[key]
	if !ok {
		return nil, fmt.Errorf("no irradiance series for tilt %d", key)
	}
	if len(s) != len(times) {
		return nil, fmt.Errorf("tilt %d: table has %d rows, grid has %d timestamps", key, len(s), len(times))
	}
	out := make([]model.Irradiance, len(s))
	for i, e := range s {
		if !e.ts.Equal(times[i]) {
			return nil, fmt.Errorf("tilt %d: timestamp mismatch at index %d: table %s, grid %s",
				key, i, e.ts.Format(time.RFC3339), times[i].Format(time.RFC3339))
		}
		out[i] = e.irr
	}
	return out, nil
}

// ExportRows pairs solar samples with the absorbed irradiance for one tilt.
func ExportRows(tilt int, samples []model.TimeSample, irr []model.Irradiance) ([]*Row, error) {
	if len(samples) != len(irr) {
		return nil, fmt.Errorf("length mismatch: %d samples, %d irradiance values", len(samples), len(irr))
	}
	rows := make([]*Row, len(samples))
	for i, s := range samples {
		rows[i] = &Row{
			Tilt:          tilt,
			Timestamp:     s.Timestamp.Format(time.RFC3339),
			SolarAzimuth:  s.SolarAzimuth,
			SolarZenith:   s.SolarZenith,
			DNI:           s.DNI,
			DHI:           s.DHI,
			AbsorbedFront: irr[i].AbsorbedFrontWm2,
			AbsorbedBack:  irr[i].AbsorbedBackWm2,
		}
	}
	return rows, nil
}

// WriteRows writes rows as CSV, creating the parent directory if needed.
func WriteRows(path string, rows []*Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&rows, f)
}
