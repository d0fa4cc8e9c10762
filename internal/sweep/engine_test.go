package sweep

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bifacial-sweep/internal/analysis"
	"bifacial-sweep/internal/irradiance"
	"bifacial-sweep/internal/model"
	"bifacial-sweep/internal/solar"
	"bifacial-sweep/internal/timegrid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tiltOracle returns a flat series whose front peaks at tilt 32 and whose
// back grows with tilt.
type tiltOracle struct {
	failAt int
	err    error

	mu    sync.Mutex
	calls []int
}

func (o *tiltOracle) Compute(_ context.Context, tilt float64, _ model.Geometry, times []time.Time) ([]model.Irradiance, error) {
	o.mu.Lock()
	o.calls = append(o.calls, int(tilt))
	o.mu.Unlock()
	if o.err != nil && int(tilt) == o.failAt {
		return nil, o.err
	}
	d := tilt - 32
	out := make([]model.Irradiance, len(times))
	for i := range out {
		out[i] = model.Irradiance{
			AbsorbedFrontWm2: 500 - d*d,
			AbsorbedBackWm2:  tilt,
		}
	}
	return out, nil
}

func inputs() model.SweepInputs {
	return model.SweepInputs{
		Geometry: model.Geometry{
			RowHeight: 2, RowWidth: 8, Pitch: 5,
			AxisAzimuth: 180, SurfaceAzimuth: 180, Albedo: 0.2,
			RowCount: 3, ObservedRowIndex: 1,
		},
		System: model.SystemParams{
			FrontAreaM2: 187.5, ModuleEfficiency: 0.22, BifacialityFactor: 0.6, SampleIntervalHours: 1,
		},
		TiltMin: 25,
		TiltMax: 40,
	}
}

func grid(t *testing.T, hours int) timegrid.Grid {
	t.Helper()
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	g, err := timegrid.New(start, start.Add(time.Duration(hours)*time.Hour), nil, time.Hour)
	require.NoError(t, err)
	return g
}

func TestRunInclusiveRange(t *testing.T) {
	o := &tiltOracle{}
	res, err := New().Run(context.Background(), Request{Inputs: inputs(), Grid: grid(t, 24), Oracle: o})
	require.NoError(t, err)

	require.Len(t, res.Results, 16)
	assert.Equal(t, 25, res.Results[0].TiltDegrees)
	assert.Equal(t, 40, res.Results[15].TiltDegrees)
	for i := 1; i < len(res.Results); i++ {
		assert.Less(t, res.Results[i-1].TiltDegrees, res.Results[i].TiltDegrees)
	}
	assert.Equal(t, 24, res.Samples)
	assert.Equal(t, 1.0, res.IntervalHours)
	assert.Len(t, o.calls, 16)
}

func TestRunSummary(t *testing.T) {
	res, err := New().Run(context.Background(), Request{Inputs: inputs(), Grid: grid(t, 24), Oracle: &tiltOracle{}})
	require.NoError(t, err)

	assert.Equal(t, 32, res.Summary.BestMonofacialTilt)
	// back grows with tilt, so the bifacial optimum sits at or above the monofacial one
	assert.GreaterOrEqual(t, res.Summary.BestBifacialTilt, 32)

	want, err := analysis.Optimum(res.Results)
	require.NoError(t, err)
	assert.Equal(t, want, res.Summary)

	// front 500, back 32 at tilt 32, 24 hourly samples
	assert.InDelta(t, 500*187.5*0.22/1000*24, res.Summary.MaxMonofacialKWh, 1e-9)
}

func TestRunDeterministic(t *testing.T) {
	e := New()
	a, err := e.Run(context.Background(), Request{Inputs: inputs(), Grid: grid(t, 48), Oracle: &tiltOracle{}})
	require.NoError(t, err)
	b, err := e.Run(context.Background(), Request{Inputs: inputs(), Grid: grid(t, 48), Oracle: &tiltOracle{}})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	p, err := e.Run(context.Background(), Request{Inputs: inputs(), Grid: grid(t, 48), Oracle: &tiltOracle{}, Workers: 4})
	require.NoError(t, err)
	assert.Equal(t, a, p)
}

func TestRunProgress(t *testing.T) {
	for _, workers := range []int{0, 3} {
		var got []Progress
		_, err := New().Run(context.Background(), Request{
			Inputs:   inputs(),
			Grid:     grid(t, 6),
			Oracle:   &tiltOracle{},
			Workers:  workers,
			Progress: func(p Progress) { got = append(got, p) },
		})
		require.NoError(t, err)
		require.Len(t, got, 16)
		assert.Equal(t, 16, got[15].Done)
		assert.Equal(t, 16, got[15].Total)
	}
}

func TestRunOracleFailureAborts(t *testing.T) {
	cause := errors.New("model diverged")
	for _, workers := range []int{0, 4} {
		res, err := New().Run(context.Background(), Request{
			Inputs:  inputs(),
			Grid:    grid(t, 6),
			Oracle:  &tiltOracle{failAt: 30, err: cause},
			Workers: workers,
		})
		assert.Nil(t, res)
		var oe *OracleError
		require.ErrorAs(t, err, &oe)
		assert.Equal(t, 30, oe.Tilt)
		assert.ErrorIs(t, err, cause)
	}
}

type shortOracle struct{}

func (shortOracle) Compute(context.Context, float64, model.Geometry, []time.Time) ([]model.Irradiance, error) {
	return []model.Irradiance{{}}, nil
}

func TestRunOracleLengthMismatch(t *testing.T) {
	_, err := New().Run(context.Background(), Request{Inputs: inputs(), Grid: grid(t, 6), Oracle: shortOracle{}})
	var oe *OracleError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, 25, oe.Tilt)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o := &tiltOracle{}
	_, err := New().Run(ctx, Request{Inputs: inputs(), Grid: grid(t, 6), Oracle: o})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, o.calls)
}

func TestRunRejectsBadRequest(t *testing.T) {
	e := New()
	_, err := e.Run(context.Background(), Request{Inputs: inputs(), Grid: grid(t, 6)})
	assert.Error(t, err)

	_, err = e.Run(context.Background(), Request{Inputs: inputs(), Oracle: &tiltOracle{}})
	assert.Error(t, err)

	in := inputs()
	in.TiltMin, in.TiltMax = 40, 25
	_, err = e.Run(context.Background(), Request{Inputs: in, Grid: grid(t, 6), Oracle: &tiltOracle{}})
	assert.Error(t, err)

	in = inputs()
	in.Geometry.ObservedRowIndex = 5
	_, err = e.Run(context.Background(), Request{Inputs: in, Grid: grid(t, 6), Oracle: &tiltOracle{}})
	assert.Error(t, err)
}

func TestRunZeroBifacialityMatchesMonofacial(t *testing.T) {
	in := inputs()
	in.System.BifacialityFactor = 0
	res, err := New().Run(context.Background(), Request{Inputs: in, Grid: grid(t, 6), Oracle: &tiltOracle{}})
	require.NoError(t, err)
	for _, r := range res.Results {
		assert.Equal(t, r.MonofacialAnnualKWh, r.BifacialAnnualKWh)
	}
	assert.Zero(t, res.Summary.GainAtBifacialOptimumPct)
}

func TestRunWithClearSkyOracle(t *testing.T) {
	loc := solar.Location{Latitude: 45.12, Longitude: 9.21, Timezone: "Europe/Rome"}
	zone, err := loc.Zone()
	require.NoError(t, err)
	provider, err := solar.NewClearSkyProvider(loc, solar.DefaultLinkeTurbidity)
	require.NoError(t, err)

	start := time.Date(2021, 6, 1, 0, 0, 0, 0, zone)
	g, err := timegrid.New(start, start.AddDate(0, 0, 7), zone, time.Hour)
	require.NoError(t, err)

	in := inputs()
	in.TiltMin, in.TiltMax = 25, 28
	res, err := New().Run(context.Background(), Request{
		Inputs:  in,
		Grid:    g,
		Oracle:  irradiance.NewComposed(provider, irradiance.NewViewFactorModel()),
		Workers: 2,
	})
	require.NoError(t, err)
	require.Len(t, res.Results, 4)
	for _, r := range res.Results {
		assert.Greater(t, r.MonofacialAnnualKWh, 0.0)
		assert.Greater(t, r.BifacialAnnualKWh, r.MonofacialAnnualKWh)
	}
	assert.Greater(t, res.Summary.GainAtBifacialOptimumPct, 0.0)
}
