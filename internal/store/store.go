package store

import (
	"errors"
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Rakshi2609/Dr-Help-2/internal/httperr"
	"github.com/Rakshi2609/Dr-Help-2/internal/models"
)

// Store owns all persistence for accounts, profiles and clinical records.
// Lookups that find nothing return (nil, nil); callers decide whether that is
// a NotFound or something else.
type Store struct {
	db *gorm.DB

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:    db,
		locks: make(map[uint]*sync.Mutex),
	}
}

// recordLock returns the mutex serializing writes to one patient record.
// Concurrent appends to the same record are read-modify-write sequences; the
// per-record lock closes the last-writer-wins race.
func (s *Store) recordLock(recordID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[recordID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[recordID] = lock
	}
	return lock
}

func isDuplicateKey(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}

// --- Accounts ---

func (s *Store) CreateAccount(account *models.Account) error {
	if err := s.db.Create(account).Error; err != nil {
		if isDuplicateKey(err) {
			return httperr.ErrDuplicateAccount
		}
		return err
	}
	return nil
}

func (s *Store) FindAccountByEmail(email string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (s *Store) FindAccountByID(id uint) (*models.Account, error) {
	var account models.Account
	if err := s.db.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (s *Store) UpdateAccount(account *models.Account) error {
	if err := s.db.Save(account).Error; err != nil {
		if isDuplicateKey(err) {
			return httperr.ErrDuplicateAccount
		}
		return err
	}
	return nil
}

// --- Doctor profiles ---

func (s *Store) CreateDoctorProfile(profile *models.DoctorProfile) error {
	return s.db.Create(profile).Error
}

func (s *Store) FindDoctorByAccountID(accountID uint) (*models.DoctorProfile, error) {
	var profile models.DoctorProfile
	if err := s.db.Where("account_id = ?", accountID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (s *Store) FindDoctorByID(id uint) (*models.DoctorProfile, error) {
	var profile models.DoctorProfile
	if err := s.db.First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// --- Patient records ---

func (s *Store) CreatePatientRecord(record *models.PatientRecord) error {
	return s.db.Create(record).Error
}

// FindPatientByAccountID loads the full record including every series and
// the alerts, series ordered by insertion.
func (s *Store) FindPatientByAccountID(accountID uint) (*models.PatientRecord, error) {
	var record models.PatientRecord
	err := s.preloaded().Where("account_id = ?", accountID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// FindPatientByID loads one record without an ownership filter. Only
// internal consumers (alert ingest) use this; role-scoped reads go through
// FindPatientForDoctor or FindPatientByAccountID.
func (s *Store) FindPatientByID(id uint) (*models.PatientRecord, error) {
	var record models.PatientRecord
	if err := s.db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// FindPatientForDoctor fetches one record only when it is assigned to the
// given doctor. An unassigned or absent record is indistinguishable: both
// come back (nil, nil).
func (s *Store) FindPatientForDoctor(recordID, doctorID uint) (*models.PatientRecord, error) {
	var record models.PatientRecord
	err := s.preloaded().
		Where("id = ? AND doctor_id = ?", recordID, doctorID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// UpdatePatientRecord persists the demographic snapshot. Associations are
// omitted so a loaded series is never re-upserted as a side effect.
func (s *Store) UpdatePatientRecord(record *models.PatientRecord) error {
	return s.db.Omit(clause.Associations).Save(record).Error
}

// ListPatientsByDoctorID derives a doctor's patients from the forward
// reference on each record.
func (s *Store) ListPatientsByDoctorID(doctorID uint) ([]models.PatientRecord, error) {
	var records []models.PatientRecord
	err := s.preloaded().
		Where("doctor_id = ?", doctorID).
		Order("id asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) preloaded() *gorm.DB {
	order := func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }
	return s.db.
		Preload("PainScores", order).
		Preload("Temperatures", order).
		Preload("VitalsHistory", order).
		Preload("Alerts", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") })
}
