package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tagcly-telemetry-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	SaveReading(ctx context.Context, reading *model.SensorReading) error
	SaveReadings(ctx context.Context, readings []model.SensorReading) error
	ReadingsSince(ctx context.Context, petID string, since time.Time) ([]model.SensorReading, error)
	RecentReadings(ctx context.Context, petID string, start, end *time.Time, limit int) ([]model.SensorReading, error)

	AddDailySteps(ctx context.Context, petID string, day string, steps int) (int64, error)

	SaveSleepSessions(ctx context.Context, sessions []model.SleepSession) error
	SleepSessionsSince(ctx context.Context, petID string, since time.Time) ([]model.SleepSession, error)

	UpsertPetStatus(ctx context.Context, petID, status string, at time.Time) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection for components that need raw access.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// SaveReading persists one fully enriched sensor reading.
func (s *gormStore) SaveReading(ctx context.Context, reading *model.SensorReading) error {
	if err := s.db.WithContext(ctx).Create(reading).Error; err != nil {
		return fmt.Errorf("failed to save sensor reading for pet %s: %w", reading.PetID, err)
	}
	return nil
}

// SaveReadings persists a batch of readings in one insert.
func (s *gormStore) SaveReadings(ctx context.Context, readings []model.SensorReading) error {
	if len(readings) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).CreateInBatches(readings, 500).Error; err != nil {
		return fmt.Errorf("failed to batch save %d readings: %w", len(readings), err)
	}
	return nil
}

// ReadingsSince returns all of a pet's readings newer than the given instant,
// oldest first, as trend analyzer input.
func (s *gormStore) ReadingsSince(ctx context.Context, petID string, since time.Time) ([]model.SensorReading, error) {
	var readings []model.SensorReading
	err := s.db.WithContext(ctx).
		Where("pet_id = ? AND timestamp >= ?", petID, since).
		Order("timestamp ASC").
		Find(&readings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query readings for pet %s: %w", petID, err)
	}
	return readings, nil
}

// RecentReadings returns a pet's readings newest first, optionally bounded by
// a start/end window, capped at limit rows.
func (s *gormStore) RecentReadings(ctx context.Context, petID string, start, end *time.Time, limit int) ([]model.SensorReading, error) {
	q := s.db.WithContext(ctx).Where("pet_id = ?", petID)
	if start != nil && end != nil {
		q = q.Where("timestamp >= ? AND timestamp <= ?", *start, *end)
	}
	var readings []model.SensorReading
	if err := q.Order("timestamp DESC").Limit(limit).Find(&readings).Error; err != nil {
		return nil, fmt.Errorf("failed to query recent readings for pet %s: %w", petID, err)
	}
	return readings, nil
}

// AddDailySteps atomically adds steps to the pet's counter for the given day
// (YYYY-MM-DD) and returns the cumulative total. The increment happens inside
// a single upsert so concurrent readings for the same pet never undercount.
func (s *gormStore) AddDailySteps(ctx context.Context, petID string, day string, steps int) (int64, error) {
	counter := model.DailyStepCounter{PetID: petID, Day: day, Steps: int64(steps)}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "pet_id"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"steps": gorm.Expr("daily_step_counters.steps + ?", steps),
		}),
	}).Create(&counter).Error
	if err != nil {
		return 0, fmt.Errorf("failed to increment daily steps for pet %s on %s: %w", petID, day, err)
	}

	var row model.DailyStepCounter
	if err := s.db.WithContext(ctx).
		First(&row, "pet_id = ? AND day = ?", petID, day).Error; err != nil {
		return 0, fmt.Errorf("failed to read daily step counter for pet %s on %s: %w", petID, day, err)
	}
	return row.Steps, nil
}

// SaveSleepSessions persists a batch of sleep sessions.
func (s *gormStore) SaveSleepSessions(ctx context.Context, sessions []model.SleepSession) error {
	if len(sessions) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).CreateInBatches(sessions, 500).Error; err != nil {
		return fmt.Errorf("failed to save %d sleep sessions: %w", len(sessions), err)
	}
	return nil
}

// SleepSessionsSince returns a pet's sleep sessions newer than the given
// instant, oldest first.
func (s *gormStore) SleepSessionsSince(ctx context.Context, petID string, since time.Time) ([]model.SleepSession, error) {
	var sessions []model.SleepSession
	err := s.db.WithContext(ctx).
		Where("pet_id = ? AND start_time >= ? AND duration_minutes > 0", petID, since).
		Order("start_time ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query sleep sessions for pet %s: %w", petID, err)
	}
	return sessions, nil
}

// UpsertPetStatus writes the best-effort presence projection for a pet.
func (s *gormStore) UpsertPetStatus(ctx context.Context, petID, status string, at time.Time) error {
	pet := model.Pet{PetID: petID, CurrentStatus: status, LastUpdated: at}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pet_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"current_status", "last_updated"}),
	}).Create(&pet).Error
	if err != nil {
		return fmt.Errorf("failed to upsert status for pet %s: %w", petID, err)
	}
	return nil
}
