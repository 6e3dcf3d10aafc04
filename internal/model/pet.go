package model

import "time"

// Pet is the presence projection row kept per pet. It is updated
// opportunistically by ingestion; staleness is acceptable.
type Pet struct {
	PetID         string    `gorm:"primaryKey;size:64" json:"pet_id"`
	CurrentStatus string    `gorm:"size:16;not null" json:"current_status"`
	LastUpdated   time.Time `gorm:"not null" json:"last_updated"`
}
