package solar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bifacial-sweep/internal/model"
)

// Location is a site on the globe. Longitude is positive east.
type Location struct {
	Latitude  float64
	Longitude float64
	Altitude  float64 // m above sea level
	Timezone  string  // IANA name, e.g. "Europe/Rome"
}

func (l Location) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", l.Longitude)
	}
	if l.Altitude < -500 || l.Altitude > 9000 {
		return fmt.Errorf("altitude %v out of range [-500, 9000]", l.Altitude)
	}
	return nil
}

// Zone resolves the time zone; an empty name means UTC.
func (l Location) Zone() (*time.Location, error) {
	if l.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(l.Timezone)
}

// Provider turns a timestamp series into solar samples for one site.
type Provider interface {
	Samples(ctx context.Context, times []time.Time) ([]model.TimeSample, error)
}

// ClearSkyProvider is the default provider: NOAA sun position plus an
// Ineichen-Perez clear sky.
type ClearSkyProvider struct {
	Location       Location
	LinkeTurbidity float64
}

func NewClearSkyProvider(loc Location, linkeTurbidity float64) (*ClearSkyProvider, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	return &ClearSkyProvider{Location: loc, LinkeTurbidity: linkeTurbidity}, nil
}

func (p *ClearSkyProvider) Samples(ctx context.Context, times []time.Time) ([]model.TimeSample, error) {
	if len(times) == 0 {
		return nil, errors.New("no timestamps")
	}
	out := make([]model.TimeSample, len(times))
	for i, ts := range times {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		pos := SunPosition(ts, p.Location.Latitude, p.Location.Longitude)
		cs := IneichenPerez(ts, pos.ApparentZenith, p.Location.Altitude, p.LinkeTurbidity)
		out[i] = model.TimeSample{
			Timestamp:    ts,
			SolarAzimuth: pos.Azimuth,
			SolarZenith:  pos.ApparentZenith,
			DNI:          cs.DNI,
			DHI:          cs.DHI,
		}
	}
	return out, nil
}
