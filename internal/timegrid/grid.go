package timegrid

import (
	"fmt"
	"time"
)

// InvalidRangeError reports bad grid bounds or a non-positive step.
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
	Step  time.Duration
}

func (e *InvalidRangeError) Error() string {
	if e.Step <= 0 {
		return fmt.Sprintf("invalid time grid: step must be > 0, got %s", e.Step)
	}
	return fmt.Sprintf("invalid time grid: end %s must be after start %s",
		e.End.Format(time.RFC3339), e.Start.Format(time.RFC3339))
}

// Grid is an evenly spaced, strictly increasing series of instants covering
// [start, end). Steps are absolute durations, so daylight-saving transitions
// never add or drop samples.
type Grid struct {
	Times []time.Time
	Step  time.Duration
}

// New builds the grid. Times are expressed in loc (UTC when loc is nil); start
// and end are instants, so their own zone does not matter.
func New(start, end time.Time, loc *time.Location, step time.Duration) (Grid, error) {
	if step <= 0 || !end.After(start) {
		return Grid{}, &InvalidRangeError{Start: start, End: end, Step: step}
	}
	if loc == nil {
		loc = time.UTC
	}

	n := int(end.Sub(start) / step)
	if start.Add(time.Duration(n) * step).Before(end) {
		n++
	}
	times := make([]time.Time, n)
	for i := range times {
		times[i] = start.Add(time.Duration(i) * step).In(loc)
	}
	return Grid{Times: times, Step: step}, nil
}

// Year returns the left-closed grid for one calendar year in loc, starting at
// local midnight on January 1st.
func Year(year int, loc *time.Location, step time.Duration) (Grid, error) {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return New(start, start.AddDate(1, 0, 0), loc, step)
}

// IntervalHours is the integration interval derived from the grid spacing.
func (g Grid) IntervalHours() float64 {
	return g.Step.Hours()
}

func (g Grid) Len() int { return len(g.Times) }

// Start returns the first instant, or the zero time for an empty grid.
func (g Grid) Start() time.Time {
	if len(g.Times) == 0 {
		return time.Time{}
	}
	return g.Times[0]
}

// End returns the exclusive upper bound of the grid.
func (g Grid) End() time.Time {
	if len(g.Times) == 0 {
		return time.Time{}
	}
	return g.Times[len(g.Times)-1].Add(g.Step)
}
