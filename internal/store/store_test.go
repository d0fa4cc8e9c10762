package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"bifacial-sweep/internal/config"
	"bifacial-sweep/internal/model"
	"bifacial-sweep/internal/sweep"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(created time.Time) *Run {
	return &Run{
		CreatedAt: created,
		Config:    config.Default(),
		Result: &sweep.Result{
			Results: []model.TiltResult{
				{TiltDegrees: 25, BifacialAnnualKWh: 1000, MonofacialAnnualKWh: 900},
				{TiltDegrees: 26, BifacialAnnualKWh: 1010.5, MonofacialAnnualKWh: 905.25},
			},
			Summary: model.OptimumSummary{
				BestBifacialTilt: 26, MaxBifacialKWh: 1010.5,
				BestMonofacialTilt: 26, MaxMonofacialKWh: 905.25,
				GainAtBifacialOptimumPct: 11.63, GainAtMonofacialOptimumPct: 11.63,
			},
			Samples:       8760,
			IntervalHours: 1,
		},
	}
}

func TestSaveAndGet(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	run := sampleRun(time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, s.Save(ctx, run))
	_, err := uuid.Parse(run.ID)
	require.NoError(t, err)

	got, err := s.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.True(t, run.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, run.Result, got.Result)
	assert.Equal(t, run.Config.Location, got.Config.Location)
	assert.Equal(t, run.Config.Geometry, got.Config.Geometry)
	require.NotNil(t, got.Config.Module.Bifaciality)
	assert.Equal(t, 0.6, *got.Config.Module.Bifaciality)
}

func TestGetNotFound(t *testing.T) {
	_, err := openStore(t).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveDuplicateID(t *testing.T) {
	s := openStore(t)
	run := sampleRun(time.Now())
	run.ID = "fixed"
	require.NoError(t, s.Save(context.Background(), run))
	assert.Error(t, s.Save(context.Background(), run))
}

func TestSaveRejectsIncompleteRun(t *testing.T) {
	s := openStore(t)
	assert.Error(t, s.Save(context.Background(), nil))
	assert.Error(t, s.Save(context.Background(), &Run{Config: config.Default()}))
}

func TestListNewestFirst(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	base := time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		run := sampleRun(base.Add(time.Duration(i) * time.Hour))
		require.NoError(t, s.Save(ctx, run))
		ids = append(ids, run.ID)
	}

	list, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, ids[2], list[0].ID)
	assert.Equal(t, ids[0], list[2].ID)
	assert.Equal(t, 25, list[0].TiltMin)
	assert.Equal(t, 40, list[0].TiltMax)
	assert.Equal(t, 26, list[0].Summary.BestBifacialTilt)

	limited, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestListEmpty(t *testing.T) {
	list, err := openStore(t).List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}
