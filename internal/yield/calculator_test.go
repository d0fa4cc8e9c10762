package yield

import (
	"testing"

	"bifacial-sweep/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func system() model.SystemParams {
	return model.SystemParams{
		FrontAreaM2:         187.5,
		ModuleEfficiency:    0.22,
		BifacialityFactor:   0.6,
		SampleIntervalHours: 1,
	}
}

func series() []model.Irradiance {
	return []model.Irradiance{
		{},
		{AbsorbedFrontWm2: 400, AbsorbedBackWm2: 50},
		{AbsorbedFrontWm2: 800, AbsorbedBackWm2: 100},
		{AbsorbedFrontWm2: 250, AbsorbedBackWm2: 25},
	}
}

func TestAnnualKnownValues(t *testing.T) {
	got, err := New().Annual(series(), system(), 1)
	require.NoError(t, err)

	// front 1450, back 175 -> bifacial density 1555
	assert.InDelta(t, 1555*187.5*0.22/1000, got.BifacialKWh, 1e-9)
	assert.InDelta(t, 1450*187.5*0.22/1000, got.MonofacialKWh, 1e-9)
}

func TestAnnualZeroBifacialityEqualsMonofacial(t *testing.T) {
	sys := system()
	sys.BifacialityFactor = 0
	got, err := New().Annual(series(), sys, 1)
	require.NoError(t, err)
	assert.Equal(t, got.MonofacialKWh, got.BifacialKWh)
}

func TestAnnualScalesWithAreaAndInterval(t *testing.T) {
	c := New()
	base, err := c.Annual(series(), system(), 1)
	require.NoError(t, err)

	doubled, err := c.Annual(series(), system().WithArea(375), 1)
	require.NoError(t, err)
	assert.Equal(t, 2*base.BifacialKWh, doubled.BifacialKWh)
	assert.Equal(t, 2*base.MonofacialKWh, doubled.MonofacialKWh)

	half, err := c.Annual(series(), system(), 0.5)
	require.NoError(t, err)
	assert.InDelta(t, base.BifacialKWh/2, half.BifacialKWh, 1e-9)
}

func TestAnnualNonNegativeAndOrdered(t *testing.T) {
	got, err := New().Annual(series(), system(), 1)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got.MonofacialKWh, 0.0)
	assert.GreaterOrEqual(t, got.BifacialKWh, got.MonofacialKWh)
}

func TestAnnualDeterministic(t *testing.T) {
	c := New()
	a, err := c.Annual(series(), system(), 1)
	require.NoError(t, err)
	b, err := c.Annual(series(), system(), 1)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestAnnualErrors(t *testing.T) {
	c := New()
	_, err := c.Annual(series(), system(), 0)
	assert.Error(t, err)

	sys := system()
	sys.ModuleEfficiency = 0
	_, err = c.Annual(series(), sys, 1)
	assert.Error(t, err)

	_, err = c.Annual(nil, system(), 1)
	assert.Error(t, err)
}

func TestPowerW(t *testing.T) {
	irr := model.Irradiance{AbsorbedFrontWm2: 1000, AbsorbedBackWm2: 100}
	assert.InDelta(t, 1060*187.5*0.22, PowerW(irr, system(), model.ConfigBifacial), 1e-9)
	assert.InDelta(t, 1000*187.5*0.22, PowerW(irr, system(), model.ConfigMonofacial), 1e-9)
}
