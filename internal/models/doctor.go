package models

import "gorm.io/datatypes"

// DoctorProfile defines the role-specific profile created alongside a doctor
// Account. Assigned patients are derived by querying PatientRecord.DoctorID;
// there is no back-reference list here.
type DoctorProfile struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	AccountID    uint           `json:"account_id" gorm:"uniqueIndex;not null"`
	Specialty    string         `json:"specialty"`
	Achievements datatypes.JSON `json:"achievements,omitempty"`
}

// Achievement is one entry of the achievements JSON column. Display-only.
type Achievement struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Year        string `json:"year"`
}
