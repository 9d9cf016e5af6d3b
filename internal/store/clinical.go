package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Rakshi2609/Dr-Help-2/internal/httperr"
	"github.com/Rakshi2609/Dr-Help-2/internal/models"
)

// History bundles the three bounded series for the history endpoint.
type History struct {
	PainScores   []models.PainScore     `json:"painScores"`
	Temperatures []models.Temperature   `json:"temperatures"`
	Vitals       []models.VitalsReading `json:"vitals"`
}

// trimSeries deletes every row of model for recordID except the
// models.HistoryLimit newest by primary key. Eviction follows arrival order:
// a backdated timestamp does not protect an old row nor doom a new one.
func trimSeries(tx *gorm.DB, model interface{}, recordID uint) error {
	keep := tx.Model(model).
		Select("id").
		Where("patient_record_id = ?", recordID).
		Order("id DESC").
		Limit(models.HistoryLimit)
	return tx.
		Where("patient_record_id = ? AND id NOT IN (?)", recordID, keep).
		Delete(model).Error
}

// AppendPainScore validates, persists and trims a pain score, returning the
// bounded series after the write.
func (s *Store) AppendPainScore(recordID uint, score int, notes string) ([]models.PainScore, error) {
	if score < 0 || score > 10 {
		return nil, fmt.Errorf("%w: score must be between 0 and 10", httperr.ErrValidation)
	}

	lock := s.recordLock(recordID)
	lock.Lock()
	defer lock.Unlock()

	entry := models.PainScore{
		PatientRecordID: recordID,
		Score:           score,
		Notes:           notes,
		Timestamp:       time.Now(),
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return trimSeries(tx, &models.PainScore{}, recordID)
	})
	if err != nil {
		return nil, err
	}
	return s.listPainScores(recordID)
}

// AppendTemperature persists and trims a temperature reading and updates the
// current-vitals snapshot in the same transaction, so series and snapshot are
// never observed out of sync.
func (s *Store) AppendTemperature(recordID uint, value string) ([]models.Temperature, error) {
	lock := s.recordLock(recordID)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now()
	entry := models.Temperature{
		PatientRecordID: recordID,
		Value:           value,
		Timestamp:       now,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		if err := trimSeries(tx, &models.Temperature{}, recordID); err != nil {
			return err
		}
		return tx.Model(&models.PatientRecord{}).
			Where("id = ?", recordID).
			Updates(map[string]interface{}{
				"vitals_temperature": value,
				"vitals_updated_at":  now,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.listTemperatures(recordID)
}

// AppendVitals persists and trims a heart-rate/blood-pressure reading with
// the same dual-update rule as AppendTemperature.
func (s *Store) AppendVitals(recordID uint, heartRate, bloodPressure string) ([]models.VitalsReading, error) {
	lock := s.recordLock(recordID)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now()
	entry := models.VitalsReading{
		PatientRecordID: recordID,
		HeartRate:       heartRate,
		BloodPressure:   bloodPressure,
		Timestamp:       now,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		if err := trimSeries(tx, &models.VitalsReading{}, recordID); err != nil {
			return err
		}
		return tx.Model(&models.PatientRecord{}).
			Where("id = ?", recordID).
			Updates(map[string]interface{}{
				"vitals_heart_rate":     heartRate,
				"vitals_blood_pressure": bloodPressure,
				"vitals_updated_at":     now,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.listVitals(recordID)
}

// GetHistory returns all three bounded series in append order.
func (s *Store) GetHistory(recordID uint) (*History, error) {
	painScores, err := s.listPainScores(recordID)
	if err != nil {
		return nil, err
	}
	temperatures, err := s.listTemperatures(recordID)
	if err != nil {
		return nil, err
	}
	vitals, err := s.listVitals(recordID)
	if err != nil {
		return nil, err
	}
	return &History{
		PainScores:   painScores,
		Temperatures: temperatures,
		Vitals:       vitals,
	}, nil
}

func (s *Store) listPainScores(recordID uint) ([]models.PainScore, error) {
	scores := make([]models.PainScore, 0, models.HistoryLimit)
	err := s.db.Where("patient_record_id = ?", recordID).Order("id asc").Find(&scores).Error
	return scores, err
}

func (s *Store) listTemperatures(recordID uint) ([]models.Temperature, error) {
	temps := make([]models.Temperature, 0, models.HistoryLimit)
	err := s.db.Where("patient_record_id = ?", recordID).Order("id asc").Find(&temps).Error
	return temps, err
}

func (s *Store) listVitals(recordID uint) ([]models.VitalsReading, error) {
	vitals := make([]models.VitalsReading, 0, models.HistoryLimit)
	err := s.db.Where("patient_record_id = ?", recordID).Order("id asc").Find(&vitals).Error
	return vitals, err
}

// --- Alerts ---

// CreateAlert persists an alert produced by the upstream monitoring process.
func (s *Store) CreateAlert(alert *models.Alert) error {
	return s.db.Create(alert).Error
}

func (s *Store) ListAlerts(recordID uint) ([]models.Alert, error) {
	alerts := make([]models.Alert, 0)
	err := s.db.Where("patient_record_id = ?", recordID).Order("created_at asc").Find(&alerts).Error
	return alerts, err
}

// MarkAlertRead idempotently sets IsRead on one alert of the given record.
// Returns (nil, nil) when the record has no alert with that id.
func (s *Store) MarkAlertRead(recordID uint, alertID string) (*models.Alert, error) {
	lock := s.recordLock(recordID)
	lock.Lock()
	defer lock.Unlock()

	var alert models.Alert
	err := s.db.Where("id = ? AND patient_record_id = ?", alertID, recordID).First(&alert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if alert.IsRead {
		return &alert, nil
	}
	if err := s.db.Model(&alert).Update("is_read", true).Error; err != nil {
		return nil, err
	}
	alert.IsRead = true
	return &alert, nil
}
