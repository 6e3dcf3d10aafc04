package model

// DailyStepCounter is the per-pet-per-day cumulative step counter. It is
// incremented atomically on every ingested reading so concurrent readings
// for the same pet never undercount.
type DailyStepCounter struct {
	PetID string `gorm:"primaryKey;size:64"`
	Day   string `gorm:"primaryKey;size:10"` // YYYY-MM-DD, UTC
	Steps int64  `gorm:"not null"`
}
