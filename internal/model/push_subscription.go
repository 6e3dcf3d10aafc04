package model

import "time"

// PushSubscription holds a browser push subscription for lost-pet alerts.
// A subscription is notified whenever one of its pets is classified as lost.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Pets []*Pet `gorm:"many2many:subscription_pet_mapping;"`
}
