package models

import "time"

// CurrentVitals is the derived most-recent snapshot kept in sync with the
// latest temperature and vitals series entries. Values are stored as the
// free-form strings the readings arrive with.
type CurrentVitals struct {
	HeartRate     string    `json:"heartRate"`
	BloodPressure string    `json:"bloodPressure"`
	Temperature   string    `json:"temperature"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PatientRecord defines the clinical record owned by a patient account.
type PatientRecord struct {
	ID              uint    `json:"id" gorm:"primaryKey"`
	AccountID       uint    `json:"account_id" gorm:"uniqueIndex;not null"`
	DoctorID        *uint   `json:"doctor_id" gorm:"index"` // forward reference, source of truth for assignment
	Age             int     `json:"age"`
	BMI             float64 `json:"bmi"`
	Gender          string  `json:"gender" gorm:"default:'Other'"`
	HasDiabetes     bool    `json:"hasDiabetes" gorm:"default:false"`
	SurgeryDuration int     `json:"surgeryDuration"`
	SurgeryType     string  `json:"surgeryType"`
	AnesthesiaType  string  `json:"anesthesiaType"`
	Notes           string  `json:"notes"`

	Vitals CurrentVitals `json:"vitals" gorm:"embedded;embeddedPrefix:vitals_"`

	PainScores    []PainScore     `json:"painScores" gorm:"foreignKey:PatientRecordID"`
	Temperatures  []Temperature   `json:"temperatures" gorm:"foreignKey:PatientRecordID"`
	VitalsHistory []VitalsReading `json:"vitalsHistory" gorm:"foreignKey:PatientRecordID"`
	Alerts        []Alert         `json:"alerts" gorm:"foreignKey:PatientRecordID"`
}
