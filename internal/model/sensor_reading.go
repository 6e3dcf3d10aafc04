package model

import "time"

// Vocalization values a collar can report.
const (
	VocalizationBark  = "bark"
	VocalizationWhine = "whine"
	VocalizationNone  = "none"
)

// Device status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ActivityLevel classification of a single reading.
const (
	ActivitySedentary = "sedentary"
	ActivityModerate  = "moderate"
	ActivityActive    = "active"
)

// MovementPattern classification of a single reading.
const (
	MovementResting = "resting"
	MovementWalking = "walking"
	MovementPlaying = "playing"
	MovementRunning = "running"
)

// PresenceStatus classification based on distance from home.
const (
	PresenceHome    = "home"
	PresenceWalking = "walking"
	PresenceLost    = "lost"
)

// SensorReading is one telemetry sample from a collar device.
// Raw fields come from the device; derived fields are computed at ingestion
// and the row is append-only afterwards.
type SensorReading struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	PetID     string    `gorm:"size:64;not null;index" json:"pet_id"`
	DeviceID  string    `gorm:"size:64;not null" json:"device_id"`

	Temperature       *float64 `json:"temperature"`
	HeartRate         *float64 `json:"heart_rate"`
	Steps             int      `gorm:"not null" json:"steps"`
	ActivityIntensity float64  `gorm:"not null" json:"activity_intensity"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	Vocalization      string   `gorm:"size:16;not null" json:"vocalization"`
	Loudness          float64  `gorm:"not null" json:"loudness"`
	Status            string   `gorm:"size:16;not null" json:"status"`

	DayOfMonth           int     `gorm:"not null" json:"day"`
	DistanceFromHomeKm   float64 `gorm:"not null" json:"distance_from_home"`
	StressLevel          float64 `gorm:"not null" json:"stress_level"`
	HealthScore          float64 `gorm:"not null" json:"health_score"`
	ActivityLevel        string  `gorm:"size:16;not null" json:"activity_level"`
	MovementPattern      string  `gorm:"size:16;not null" json:"movement_pattern"`
	PresenceStatus       string  `gorm:"size:16;not null" json:"pet_status"`
	DailyCumulativeSteps int64   `gorm:"not null" json:"daily_cum_steps"`

	CreatedAt time.Time `json:"-"`
}
