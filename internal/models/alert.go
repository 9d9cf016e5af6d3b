package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Alert is a notification produced outside this core (monitoring pipeline)
// and surfaced to the owning patient, who may only flip IsRead.
type Alert struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	PatientRecordID uint      `json:"-" gorm:"index;not null"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Time            string    `json:"time"`
	IsRead          bool      `json:"isRead" gorm:"default:false"`
	CreatedAt       time.Time `json:"createdAt"`
}

// BeforeCreate assigns an opaque id so alert references stay stable across
// stores and transports.
func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
