package trend

import (
	"fmt"
	"math"
	"sort"
	"time"

	"tagcly-telemetry-backend/internal/model"
)

// ActivityBucket is one grouped entry of the activity trend.
type ActivityBucket struct {
	Day          string    `json:"day"`
	Timestamp    time.Time `json:"timestamp"`
	AverageValue float64   `json:"averageValue"`
	SampleCount  int       `json:"sampleCount"`
}

// ActivityResult is the full activity trend analysis for one pet.
type ActivityResult struct {
	DaysAnalyzed          int              `json:"daysAnalyzed"`
	ActivityByDay         []ActivityBucket `json:"activityByDay"`
	CurrentPeriodAverage  float64          `json:"currentPeriodAverage"`
	PreviousPeriodAverage *float64         `json:"previousPeriodAverage"`
	PercentageChange      *float64         `json:"percentageChange"`
	ActivityLevel         string           `json:"activityLevel"`
	Resolution            Resolution       `json:"resolution"`
	SummaryMessage        string           `json:"summaryMessage"`
}

// ActivityAnalyzer turns historical readings into a period-over-period
// activity summary. It is read-only and safe to run concurrently with
// ingestion.
type ActivityAnalyzer struct {
	LowThreshold  float64
	HighThreshold float64
	PeriodDays    int
}

// NewActivityAnalyzer creates an analyzer with the configured level
// thresholds and comparison window size.
func NewActivityAnalyzer(low, high float64, periodDays int) *ActivityAnalyzer {
	return &ActivityAnalyzer{LowThreshold: low, HighThreshold: high, PeriodDays: periodDays}
}

// Analyze groups readings by the requested resolution, averages intensity per
// bucket and compares the last period against the one before it. Readings
// without an intensity value are discarded; if none remain it returns
// ErrNoData.
func (a *ActivityAnalyzer) Analyze(readings []model.SensorReading, res Resolution) (*ActivityResult, error) {
	type bucket struct {
		key   string
		first time.Time
		sum   float64
		count int
	}
	buckets := make(map[string]*bucket)
	for _, r := range readings {
		if r.ActivityIntensity == 0 {
			continue
		}
		key := bucketKey(r.Timestamp, res)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{key: key, first: r.Timestamp.UTC()}
			buckets[key] = b
		}
		if r.Timestamp.UTC().Before(b.first) {
			b.first = r.Timestamp.UTC()
		}
		b.sum += r.ActivityIntensity
		b.count++
	}
	if len(buckets) == 0 {
		return nil, ErrNoData
	}

	byDay := make([]ActivityBucket, 0, len(buckets))
	for _, b := range buckets {
		byDay = append(byDay, ActivityBucket{
			Day:          b.key,
			Timestamp:    b.first,
			AverageValue: round2(b.sum / float64(b.count)),
			SampleCount:  b.count,
		})
	}
	sort.Slice(byDay, func(i, j int) bool { return byDay[i].Timestamp.Before(byDay[j].Timestamp) })

	current, previous := splitPeriods(byDay, a.PeriodDays)

	currentAvg := meanAverageValue(current)
	var previousAvg *float64
	if len(previous) > 0 {
		v := round2(meanAverageValue(previous))
		previousAvg = &v
	}
	change := percentageChange(currentAvg, previousAvg)

	level := "moderate"
	if currentAvg < a.LowThreshold {
		level = "low"
	} else if currentAvg > a.HighThreshold {
		level = "high"
	}

	result := &ActivityResult{
		DaysAnalyzed:          len(byDay),
		ActivityByDay:         byDay,
		CurrentPeriodAverage:  round2(currentAvg),
		PreviousPeriodAverage: previousAvg,
		PercentageChange:      change,
		ActivityLevel:         level,
		Resolution:            res,
		SummaryMessage:        activitySummary(currentAvg, change, level),
	}
	return result, nil
}

// splitPeriods takes the trailing n buckets as the current period and the n
// before those as the previous one; the previous period is empty when the
// history is shorter than two windows.
func splitPeriods(sorted []ActivityBucket, n int) (current, previous []ActivityBucket) {
	if len(sorted) <= n {
		return sorted, nil
	}
	current = sorted[len(sorted)-n:]
	start := len(sorted) - 2*n
	if start < 0 {
		start = 0
	}
	previous = sorted[start : len(sorted)-n]
	return current, previous
}

func meanAverageValue(buckets []ActivityBucket) float64 {
	if len(buckets) == 0 {
		return 0
	}
	sum := 0.0
	for _, b := range buckets {
		sum += b.AverageValue
	}
	return sum / float64(len(buckets))
}

func activitySummary(currentAvg float64, change *float64, level string) string {
	changeText := ""
	if change != nil {
		direction := "increased"
		if *change < 0 {
			direction = "decreased"
		}
		changeText = fmt.Sprintf(" (%s by %.1f%% from previous period)", direction, math.Abs(*change))
	}
	return fmt.Sprintf("Your pet shows %s activity levels%s. Average daily activity: %.1f/100.",
		level, changeText, currentAvg)
}
