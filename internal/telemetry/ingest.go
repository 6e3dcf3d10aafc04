package telemetry

import (
	"context"
	"log"
	"time"

	"tagcly-telemetry-backend/internal/model"
	"tagcly-telemetry-backend/internal/store"
)

// Ingestor processes one raw reading end to end.
type Ingestor interface {
	Ingest(ctx context.Context, raw RawReading) (*model.SensorReading, error)
}

// AlertDispatcher receives the id of a pet whose presence flipped to lost.
type AlertDispatcher interface {
	Dispatch(petID string)
}

// Service sequences validation, enrichment, persistence and the best-effort
// presence projection for inbound readings.
type Service struct {
	store   store.Store
	locator *Locator
	alerts  AlertDispatcher
}

// NewService creates the ingestion orchestrator. alerts may be nil when no
// alerting is configured.
func NewService(s store.Store, locator *Locator, alerts AlertDispatcher) *Service {
	return &Service{store: s, locator: locator, alerts: alerts}
}

// Ingest validates a raw payload, enriches it with derived metrics and
// persists the result. A ValidationError rejects the reading outright; an
// enrichment failure degrades derived fields to safe defaults but still
// persists the raw data. The presence projection runs in the background and
// never affects the caller.
func (s *Service) Ingest(ctx context.Context, raw RawReading) (*model.SensorReading, error) {
	reading, err := Validate(raw)
	if err != nil {
		return nil, err
	}

	s.enrich(ctx, reading)

	if err := s.store.SaveReading(ctx, reading); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	go s.projectStatus(reading.PetID, reading.PresenceStatus)

	return reading, nil
}

// enrich fills in all derived fields. The metric computers are total, so the
// only step that can fail is the daily step aggregation; when it does, every
// derived field falls back to its documented default.
func (s *Service) enrich(ctx context.Context, r *model.SensorReading) {
	r.DayOfMonth = r.Timestamp.Day()
	r.DistanceFromHomeKm = s.locator.DistanceFromHome(r.Latitude, r.Longitude)
	r.PresenceStatus = ClassifyPresence(r.DistanceFromHomeKm)
	r.StressLevel = StressLevel(r)
	r.HealthScore = HealthScore(r)
	r.ActivityLevel = ClassifyActivityLevel(r)
	r.MovementPattern = ClassifyMovementPattern(r)

	total, err := s.store.AddDailySteps(ctx, r.PetID, DayKey(r.Timestamp), r.Steps)
	if err != nil {
		log.Printf("enrichment failed for pet %s, substituting defaults: %v", r.PetID, err)
		applyEnrichmentDefaults(r)
		return
	}
	r.DailyCumulativeSteps = total
}

// applyEnrichmentDefaults degrades every derived field to its safe default.
// The raw fields are untouched so the reading can still be persisted.
func applyEnrichmentDefaults(r *model.SensorReading) {
	r.DistanceFromHomeKm = 0
	r.PresenceStatus = model.PresenceHome
	r.StressLevel = 0
	r.HealthScore = 100
	r.ActivityLevel = model.ActivityModerate
	r.MovementPattern = model.MovementResting
	r.DailyCumulativeSteps = int64(r.Steps)
}

// projectStatus updates the pet's presence projection and dispatches a lost
// alert when warranted. Failures are logged and swallowed; the projection is
// allowed to go stale.
func (s *Service) projectStatus(petID, status string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.store.UpsertPetStatus(ctx, petID, status, time.Now().UTC()); err != nil {
		log.Printf("pet status projection failed for pet %s: %v", petID, err)
	}

	if s.alerts != nil && status == model.PresenceLost {
		s.alerts.Dispatch(petID)
	}
}

// DayKey returns the UTC calendar day a timestamp falls on, used to key the
// daily step counters.
func DayKey(ts time.Time) string {
	return ts.UTC().Format("2006-01-02")
}
