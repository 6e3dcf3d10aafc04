package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"tagcly-telemetry-backend/internal/model"
	"tagcly-telemetry-backend/internal/store"
)

// Service seeds synthetic telemetry for development environments. The rows go
// straight to the store so the trend analyzers have history to work with; the
// ingestion pipeline is deliberately bypassed.
type Service struct {
	store store.Store
}

// NewService creates a data generator backed by the given store.
func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// GenerateActivityData writes one reading per hour for the given number of
// days, following a rough diurnal pattern: morning and evening peaks, a quiet
// night. Returns the number of rows written.
func (g *Service) GenerateActivityData(ctx context.Context, petID string, days int) (int, error) {
	now := time.Now().UTC()
	readings := make([]model.SensorReading, 0, days*24)

	for day := 0; day < days; day++ {
		for hour := 0; hour < 24; hour++ {
			ts := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC).
				AddDate(0, 0, -day)

			var intensity float64
			switch {
			case hour >= 7 && hour <= 10: // morning peak
				intensity = 60 + rand.Float64()*30
			case hour >= 17 && hour <= 20: // evening peak
				intensity = 50 + rand.Float64()*40
			case hour >= 23 || hour <= 5: // night
				intensity = 5 + rand.Float64()*15
			default:
				intensity = 30 + rand.Float64()*20
			}

			lat := 37.773972 + rand.Float64()*0.01
			lon := -122.431297 + rand.Float64()*0.01
			readings = append(readings, model.SensorReading{
				Timestamp:         ts,
				PetID:             petID,
				DeviceID:          deviceFor(petID),
				Steps:             int(intensity * 10),
				ActivityIntensity: intensity,
				Latitude:          &lat,
				Longitude:         &lon,
				Vocalization:      model.VocalizationNone,
				Status:            model.StatusOK,
				DayOfMonth:        ts.Day(),
				ActivityLevel:     model.ActivityModerate,
				MovementPattern:   model.MovementWalking,
				PresenceStatus:    model.PresenceHome,
			})
		}
	}

	if err := g.store.SaveReadings(ctx, readings); err != nil {
		return 0, err
	}
	return len(readings), nil
}

// GenerateSleepData writes 2-4 sleep sessions per night for the given number
// of days, with stage-dependent vitals. Returns the number of rows written.
func (g *Service) GenerateSleepData(ctx context.Context, petID string, days int) (int, error) {
	now := time.Now().UTC()
	stages := []string{model.SleepLight, model.SleepDeep, model.SleepREM, model.SleepDisturbed}
	var sessions []model.SleepSession

	for day := 0; day < days; day++ {
		date := now.AddDate(0, 0, -day)
		count := 2 + rand.Intn(3)

		for i := 0; i < count; i++ {
			stage := stages[rand.Intn(len(stages))]
			duration := 30 + rand.Float64()*90
			if stage == model.SleepDeep {
				duration = 60 + rand.Float64()*60
			}

			sessions = append(sessions, model.SleepSession{
				PetID:           petID,
				StartTime:       time.Date(date.Year(), date.Month(), date.Day(), 20+i*2, 0, 0, 0, time.UTC),
				DurationMinutes: duration,
				Stage:           stage,
				HeartRate:       heartRateByStage(stage),
				RespirationRate: respirationByStage(stage),
				MovementCount:   movementByStage(stage),
			})
		}
	}

	if err := g.store.SaveSleepSessions(ctx, sessions); err != nil {
		return 0, err
	}
	return len(sessions), nil
}

func deviceFor(petID string) string {
	if len(petID) > 8 {
		petID = petID[:8]
	}
	return fmt.Sprintf("collar-%s", petID)
}

func heartRateByStage(stage string) float64 {
	base := map[string]float64{
		model.SleepDeep:      55,
		model.SleepLight:     65,
		model.SleepREM:       70,
		model.SleepDisturbed: 80,
	}
	return base[stage] + rand.Float64()*10
}

func respirationByStage(stage string) float64 {
	base := map[string]float64{
		model.SleepDeep:      12,
		model.SleepLight:     18,
		model.SleepREM:       20,
		model.SleepDisturbed: 25,
	}
	return base[stage] + rand.Float64()*5
}

func movementByStage(stage string) int {
	base := map[string]float64{
		model.SleepDeep:      0.2,
		model.SleepLight:     1.5,
		model.SleepREM:       3,
		model.SleepDisturbed: 8,
	}
	return int(base[stage] * (1 + rand.Float64()))
}
