package trend

import (
	"fmt"
	"math"
	"sort"
	"time"

	"tagcly-telemetry-backend/internal/model"
)

// SleepBucket is one day of aggregated sleep sessions.
type SleepBucket struct {
	Day              string    `json:"day"`
	Timestamp        time.Time `json:"timestamp"`
	TotalDuration    float64   `json:"totalDuration"`
	DeepSleepPercent float64   `json:"deepSleepPercent"`
	RemSleepPercent  float64   `json:"remSleepPercent"`
	DisturbedPercent float64   `json:"disturbedPercent"`
	QualityScore     float64   `json:"qualityScore"`
}

// SleepResult is the full sleep trend analysis for one pet.
type SleepResult struct {
	DaysAnalyzed          int           `json:"daysAnalyzed"`
	SleepByDay            []SleepBucket `json:"sleepByDay"`
	CurrentPeriodAverage  float64       `json:"currentPeriodAverage"`
	PreviousPeriodAverage *float64      `json:"previousPeriodAverage"`
	PercentageChange      *float64      `json:"percentageChange"`
	SleepLevel            string        `json:"sleepLevel"`
	SummaryMessage        string        `json:"summaryMessage"`
}

// SleepAnalyzer turns historical sleep sessions into a period-over-period
// quality summary, mirroring the activity analyzer's window comparison.
type SleepAnalyzer struct {
	PeriodDays int
}

// NewSleepAnalyzer creates an analyzer with the configured window size.
func NewSleepAnalyzer(periodDays int) *SleepAnalyzer {
	return &SleepAnalyzer{PeriodDays: periodDays}
}

// Analyze groups sessions by UTC calendar day, scores each day's sleep
// quality and compares the last period against the one before it. Sessions
// without a positive duration are discarded; if none remain it returns
// ErrNoData.
func (a *SleepAnalyzer) Analyze(sessions []model.SleepSession) (*SleepResult, error) {
	type bucket struct {
		key       string
		first     time.Time
		total     float64
		deep      float64
		rem       float64
		disturbed float64
	}
	buckets := make(map[string]*bucket)
	for _, s := range sessions {
		if s.DurationMinutes <= 0 {
			continue
		}
		key := bucketKey(s.StartTime, ResolutionDaily)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{key: key, first: s.StartTime.UTC()}
			buckets[key] = b
		}
		if s.StartTime.UTC().Before(b.first) {
			b.first = s.StartTime.UTC()
		}
		b.total += s.DurationMinutes
		switch s.Stage {
		case model.SleepDeep:
			b.deep += s.DurationMinutes
		case model.SleepREM:
			b.rem += s.DurationMinutes
		case model.SleepDisturbed:
			b.disturbed += s.DurationMinutes
		}
	}
	if len(buckets) == 0 {
		return nil, ErrNoData
	}

	byDay := make([]SleepBucket, 0, len(buckets))
	for _, b := range buckets {
		deepPct := b.deep / b.total * 100
		remPct := b.rem / b.total * 100
		disturbedPct := b.disturbed / b.total * 100
		byDay = append(byDay, SleepBucket{
			Day:              b.key,
			Timestamp:        b.first,
			TotalDuration:    round1(b.total),
			DeepSleepPercent: round1(deepPct),
			RemSleepPercent:  round1(remPct),
			DisturbedPercent: round1(disturbedPct),
			QualityScore:     qualityScore(deepPct, remPct, disturbedPct),
		})
	}
	sort.Slice(byDay, func(i, j int) bool { return byDay[i].Timestamp.Before(byDay[j].Timestamp) })

	current, previous := splitSleepPeriods(byDay, a.PeriodDays)

	currentAvg := meanQualityScore(current)
	var previousAvg *float64
	if len(previous) > 0 {
		v := round1(meanQualityScore(previous))
		previousAvg = &v
	}
	change := percentageChange(currentAvg, previousAvg)
	level := sleepLevel(currentAvg)

	result := &SleepResult{
		DaysAnalyzed:          len(byDay),
		SleepByDay:            byDay,
		CurrentPeriodAverage:  round1(currentAvg),
		PreviousPeriodAverage: previousAvg,
		PercentageChange:      change,
		SleepLevel:            level,
		SummaryMessage:        sleepSummary(currentAvg, change, level),
	}
	return result, nil
}

// qualityScore computes a day's 0-100 sleep quality from the stage shares of
// that day's total sleep: a 70 base plus deep and REM bonuses minus a
// disturbance penalty.
func qualityScore(deepPct, remPct, disturbedPct float64) float64 {
	score := 70 + deepPct*0.2 + remPct*0.1 - disturbedPct*0.3
	return round1(clamp(score, 0, 100))
}

func sleepLevel(score float64) string {
	switch {
	case score >= 80:
		return "excellent"
	case score >= 60:
		return "good"
	case score >= 40:
		return "fair"
	default:
		return "poor"
	}
}

func splitSleepPeriods(sorted []SleepBucket, n int) (current, previous []SleepBucket) {
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

func meanQualityScore(buckets []SleepBucket) float64 {
	if len(buckets) == 0 {
		return 0
	}
	sum := 0.0
	for _, b := range buckets {
		sum += b.QualityScore
	}
	return sum / float64(len(buckets))
}

func sleepSummary(currentAvg float64, change *float64, level string) string {
	changeText := ""
	if change != nil {
		direction := "improved"
		if *change < 0 {
			direction = "declined"
		}
		changeText = fmt.Sprintf(" Quality has %s by %.1f%% over the period.", direction, math.Abs(*change))
	}
	return fmt.Sprintf("Your pet's sleep quality is %s (score %.1f/100).%s", level, currentAvg, changeText)
}
