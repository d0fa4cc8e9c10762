package timegrid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRome(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)
	return loc
}

func TestYear_HourlyNonLeap(t *testing.T) {
	g, err := Year(2021, mustRome(t), time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 8760, g.Len())
	assert.Equal(t, 1.0, g.IntervalHours())
	assert.Equal(t, "2021-01-01T00:00:00+01:00", g.Start().Format(time.RFC3339))
	assert.Equal(t, "2022-01-01T00:00:00+01:00", g.End().Format(time.RFC3339))
}

func TestYear_Leap(t *testing.T) {
	g, err := Year(2024, time.UTC, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 8784, g.Len())
}

func TestNew_StrictlyIncreasingEvenSpacing(t *testing.T) {
	loc := mustRome(t)
	// Spans the March DST change.
	start := time.Date(2021, time.March, 27, 0, 0, 0, 0, loc)
	end := time.Date(2021, time.March, 29, 0, 0, 0, 0, loc)

	g, err := New(start, end, loc, 30*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 0.5, g.IntervalHours())
	assert.Equal(t, int(end.Sub(start)/(30*time.Minute)), g.Len())
	for i := 1; i < g.Len(); i++ {
		assert.Equal(t, 30*time.Minute, g.Times[i].Sub(g.Times[i-1]))
	}
	assert.True(t, g.Times[g.Len()-1].Before(end))
}

func TestNew_PartialLastStepIsIncluded(t *testing.T) {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	g, err := New(start, start.Add(150*time.Minute), nil, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())
}

func TestNew_InvalidRange(t *testing.T) {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := New(start, start, nil, time.Hour)
	var rangeErr *InvalidRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Contains(t, err.Error(), "must be after start")

	_, err = New(start, start.Add(-time.Hour), nil, time.Hour)
	require.ErrorAs(t, err, &rangeErr)

	_, err = New(start, start.Add(time.Hour), nil, 0)
	require.ErrorAs(t, err, &rangeErr)
	assert.Contains(t, err.Error(), "step must be > 0")
}
