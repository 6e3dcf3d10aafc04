package trend

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Resolution selects the grouping bucket for trend analysis.
type Resolution string

const (
	ResolutionHourly Resolution = "hourly"
	ResolutionDaily  Resolution = "daily"
	ResolutionWeekly Resolution = "weekly"
)

// ErrNoData is returned when the history contains nothing analyzable. Callers
// should render it as a "no data" response, not as a failure.
var ErrNoData = errors.New("no analyzable data in history")

// ParseResolution validates a resolution query value, defaulting to daily.
func ParseResolution(s string) (Resolution, error) {
	switch s {
	case "", string(ResolutionDaily):
		return ResolutionDaily, nil
	case string(ResolutionHourly):
		return ResolutionHourly, nil
	case string(ResolutionWeekly):
		return ResolutionWeekly, nil
	default:
		return "", fmt.Errorf("unknown resolution %q", s)
	}
}

// bucketKey maps a timestamp to its grouping key for the given resolution.
// Daily groups by UTC calendar day, hourly by day+hour, weekly by ISO week.
func bucketKey(ts time.Time, res Resolution) string {
	t := ts.UTC()
	switch res {
	case ResolutionHourly:
		return t.Format("2006-01-02T15")
	case ResolutionWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	default:
		return t.Format("2006-01-02")
	}
}

// percentageChange returns the period-over-period change rounded to one
// decimal, or nil when there is no previous period or it averaged zero.
func percentageChange(current float64, previous *float64) *float64 {
	if previous == nil || *previous == 0 {
		return nil
	}
	change := round1((current - *previous) / *previous * 100)
	return &change
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
