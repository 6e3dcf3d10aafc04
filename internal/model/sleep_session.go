package model

import "time"

// Sleep stage values.
const (
	SleepLight     = "light"
	SleepDeep      = "deep"
	SleepREM       = "rem"
	SleepDisturbed = "disturbed"
)

// SleepSession is one detected sleep interval. Sessions are written by the
// ingestion family (or the dev data generator) and read by the sleep trend
// analyzer.
type SleepSession struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PetID           string    `gorm:"size:64;not null;index" json:"pet_id"`
	StartTime       time.Time `gorm:"not null;index" json:"start_time"`
	DurationMinutes float64   `gorm:"not null" json:"duration_minutes"`
	Stage           string    `gorm:"size:16;not null" json:"stage"`
	HeartRate       float64   `json:"heart_rate"`
	RespirationRate float64   `json:"respiration_rate"`
	MovementCount   int       `json:"movement_count"`

	CreatedAt time.Time `json:"-"`
}
