package telemetry

import (
	"math"

	"tagcly-telemetry-backend/internal/model"
)

// The metric computers are deterministic threshold formulas, kept as pure
// functions so a learned model could replace any of them without touching the
// ingestion flow. Formulas must not drift: the dashboard and historical rows
// depend on these exact contracts.

// StressLevel scores a reading on a 0-10 scale from heart rate, temperature
// and activity intensity. Terms whose input is absent are omitted.
func StressLevel(r *model.SensorReading) float64 {
	score := 0.0
	if r.HeartRate != nil {
		score += (*r.HeartRate - 60) / (180 - 60) * 3
	}
	if r.Temperature != nil {
		score += (*r.Temperature - 37) / (41 - 37) * 3
	}
	score += r.ActivityIntensity * 0.4
	return round1(clamp(score, 0, 10))
}

// HealthScore scores a reading on a 0-100 scale. Deviation from the optimal
// temperature (39°C) and heart rate (100 bpm) and the stress level each apply
// a penalty; absent inputs apply none.
func HealthScore(r *model.SensorReading) float64 {
	score := 100.0
	if r.Temperature != nil {
		score -= math.Abs(*r.Temperature-39) / 2 * 30
	}
	if r.HeartRate != nil {
		score -= math.Abs(*r.HeartRate-100) / 60 * 30
	}
	score -= r.StressLevel * 4
	return round1(clamp(score, 0, 100))
}

// ClassifyActivityLevel buckets a reading by its activity intensity.
func ClassifyActivityLevel(r *model.SensorReading) string {
	switch {
	case r.ActivityIntensity > 7:
		return model.ActivityActive
	case r.ActivityIntensity > 3:
		return model.ActivityModerate
	default:
		return model.ActivitySedentary
	}
}

// ClassifyMovementPattern buckets a reading by steps and intensity combined.
// Either input missing (zero) means resting.
func ClassifyMovementPattern(r *model.SensorReading) string {
	if r.Steps == 0 || r.ActivityIntensity == 0 {
		return model.MovementResting
	}
	switch {
	case r.ActivityIntensity > 8 && r.Steps > 100:
		return model.MovementRunning
	case r.ActivityIntensity > 5 && r.Steps > 50:
		return model.MovementPlaying
	case r.ActivityIntensity > 2 && r.Steps > 10:
		return model.MovementWalking
	default:
		return model.MovementResting
	}
}

// ClassifyPresence maps distance from home to a presence status.
// Boundary convention: a zero or absent distance is home, [0, 0.1) km is
// home, [0.1, 0.5) km is walking, 0.5 km and beyond is lost.
func ClassifyPresence(distanceKm float64) string {
	switch {
	case distanceKm < 0.1:
		return model.PresenceHome
	case distanceKm < 0.5:
		return model.PresenceWalking
	default:
		return model.PresenceLost
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
