package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bifacial-sweep/internal/analysis"
	"bifacial-sweep/internal/model"
	"bifacial-sweep/internal/sweep"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(t *testing.T) *sweep.Result {
	t.Helper()
	results := []model.TiltResult{
		{TiltDegrees: 25, BifacialAnnualKWh: 1000, MonofacialAnnualKWh: 900},
		{TiltDegrees: 30, BifacialAnnualKWh: 1100, MonofacialAnnualKWh: 950},
		{TiltDegrees: 35, BifacialAnnualKWh: 1050, MonofacialAnnualKWh: 1000},
	}
	s, err := analysis.Optimum(results)
	require.NoError(t, err)
	return &sweep.Result{Results: results, Summary: s, Samples: 8760, IntervalHours: 1}
}

func sampleSystem() model.SystemParams {
	return model.SystemParams{FrontAreaM2: 187.5, ModuleEfficiency: 0.22, BifacialityFactor: 0.6, SampleIntervalHours: 1}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleResult(t), sampleSystem()))
	out := buf.String()

	assert.Contains(t, out, "Total front area: 187.5 m^2")
	assert.Contains(t, out, "Module efficiency: 22.0%")
	assert.Contains(t, out, "Bifaciality factor: 0.60")
	assert.Contains(t, out, "8760 samples")
	assert.Contains(t, out, "1100.00")
	assert.Contains(t, out, "BIFACIAL: tilt 30 deg with an annual production of 1100.00 kWh")
	assert.Contains(t, out, "MONOFACIAL: tilt 35 deg with an annual production of 1000.00 kWh")
	assert.Contains(t, out, "15.79%")
	assert.Contains(t, out, "5.00%")

	// rows keep ascending tilt order
	assert.Less(t, strings.Index(out, "1000.00"), strings.Index(out, "1100.00"))
}

func TestWriteTableNil(t *testing.T) {
	assert.Error(t, WriteTable(&bytes.Buffer{}, nil, sampleSystem()))
}

func TestWriteRanking(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRanking(&buf, sampleResult(t).Results, 2))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "30 deg")
	assert.Contains(t, lines[2], "35 deg")
}

func TestResultsCSVRoundTrip(t *testing.T) {
	res := sampleResult(t)
	path := filepath.Join(t.TempDir(), "results", "sweep.csv")
	require.NoError(t, WriteResultsCSV(path, res.Results))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "tilt_degrees,bifacial_annual_kwh,monofacial_annual_kwh"))

	back, err := ReadResultsCSV(path)
	require.NoError(t, err)
	assert.Equal(t, res.Results, back)

	var buf bytes.Buffer
	require.NoError(t, MarshalResultsCSV(&buf, res.Results))
	assert.Equal(t, string(raw), buf.String())
}

func TestChart(t *testing.T) {
	png, err := Chart(sampleResult(t), "png")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	svg, err := Chart(sampleResult(t), "svg")
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")

	_, err = Chart(sampleResult(t), "gif")
	assert.Error(t, err)
	_, err = Chart(&sweep.Result{}, "png")
	assert.Error(t, err)
}

func TestBuildPDF(t *testing.T) {
	res := sampleResult(t)
	png, err := Chart(res, "png")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "report.pdf")
	info := PDFInfo{Location: "45.12N 9.21E", Generated: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, BuildPDF(path, info, res, sampleSystem(), png))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, info, res, sampleSystem(), nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	assert.Error(t, BuildPDF(path, info, &sweep.Result{}, sampleSystem(), nil))
}
