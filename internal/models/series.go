package models

import "time"

// The three bounded time series. Each keeps only the HistoryLimit most
// recently appended rows per record, in insertion (primary key) order; a
// backdated timestamp does not change which rows are evicted.

// HistoryLimit is the fixed capacity of every bounded series.
const HistoryLimit = 3

// PainScore is one self-reported pain entry, score in [0,10].
type PainScore struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	PatientRecordID uint      `json:"-" gorm:"index;not null"`
	Score           int       `json:"score" gorm:"not null"`
	Notes           string    `json:"notes,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// Temperature is one temperature reading.
type Temperature struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	PatientRecordID uint      `json:"-" gorm:"index;not null"`
	Value           string    `json:"value"`
	Timestamp       time.Time `json:"timestamp"`
}

// VitalsReading is one heart-rate/blood-pressure reading.
type VitalsReading struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	PatientRecordID uint      `json:"-" gorm:"index;not null"`
	HeartRate       string    `json:"heartRate"`
	BloodPressure   string    `json:"bloodPressure"`
	Timestamp       time.Time `json:"timestamp"`
}
