package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/Rakshi2609/Dr-Help-2/internal/httperr"
	"github.com/Rakshi2609/Dr-Help-2/internal/middleware"
	"github.com/Rakshi2609/Dr-Help-2/internal/models"
	"github.com/Rakshi2609/Dr-Help-2/internal/utils"
)

// DoctorMeResponse is the doctor profile with account fields and the derived
// patient list populated.
type DoctorMeResponse struct {
	ID           uint                 `json:"id"`
	Name         string               `json:"name"`
	Email        string               `json:"email"`
	Specialty    string               `json:"specialty"`
	Achievements []models.Achievement `json:"achievements"`
	Patients     []PatientWithAccount `json:"patients"`
}

// PatientWithAccount is a patient record with the owning account's name and
// email attached, mirroring what the clinical views render.
type PatientWithAccount struct {
	models.PatientRecord
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *Handlers) withAccounts(records []models.PatientRecord) ([]PatientWithAccount, error) {
	out := make([]PatientWithAccount, 0, len(records))
	for _, record := range records {
		account, err := h.store.FindAccountByID(record.AccountID)
		if err != nil {
			return nil, err
		}
		entry := PatientWithAccount{PatientRecord: record}
		if account != nil {
			entry.Name = account.Name
			entry.Email = account.Email
		}
		out = append(out, entry)
	}
	return out, nil
}

// doctorProfile loads the caller's doctor profile or fails NotFound.
func (h *Handlers) doctorProfile(c *gin.Context) (*models.DoctorProfile, bool) {
	identity, _ := middleware.Caller(c)
	profile, err := h.store.FindDoctorByAccountID(identity.AccountID)
	if err != nil {
		httperr.Respond(c, err)
		return nil, false
	}
	if profile == nil {
		httperr.Respond(c, fmt.Errorf("%w: doctor profile not found", httperr.ErrNotFound))
		return nil, false
	}
	return profile, true
}

// GetDoctorMe returns the caller's profile with name/email and the patient
// list populated.
func (h *Handlers) GetDoctorMe(c *gin.Context) {
	profile, ok := h.doctorProfile(c)
	if !ok {
		return
	}
	identity, _ := middleware.Caller(c)
	account, err := h.store.FindAccountByID(identity.AccountID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if account == nil {
		httperr.Respond(c, fmt.Errorf("%w: user not found", httperr.ErrNotFound))
		return
	}

	records, err := h.store.ListPatientsByDoctorID(profile.ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	patients, err := h.withAccounts(records)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	achievements := make([]models.Achievement, 0)
	if len(profile.Achievements) > 0 {
		if err := json.Unmarshal(profile.Achievements, &achievements); err != nil {
			achievements = nil
		}
	}

	c.JSON(http.StatusOK, DoctorMeResponse{
		ID:           profile.ID,
		Name:         account.Name,
		Email:        account.Email,
		Specialty:    profile.Specialty,
		Achievements: achievements,
		Patients:     patients,
	})
}

// ListDoctorPatients returns every patient assigned to the caller. An empty
// assignment is an empty collection, not an error.
func (h *Handlers) ListDoctorPatients(c *gin.Context) {
	profile, ok := h.doctorProfile(c)
	if !ok {
		return
	}

	records, err := h.store.ListPatientsByDoctorID(profile.ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	patients, err := h.withAccounts(records)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, patients)
}

// DoctorPatientResponse is the detail view of one assigned patient, with a
// summary of the bounded pain-score series for the clinical dashboard.
type DoctorPatientResponse struct {
	PatientWithAccount
	PainAverage float64 `json:"painAverage"`
	PainStdDev  float64 `json:"painStdDev"`
}

// GetDoctorPatient fetches one patient, only when assigned to the caller.
// An unassigned record reads exactly like a missing one: 404 either way.
func (h *Handlers) GetDoctorPatient(c *gin.Context) {
	profile, ok := h.doctorProfile(c)
	if !ok {
		return
	}

	recordID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.Respond(c, fmt.Errorf("%w: invalid patient id", httperr.ErrValidation))
		return
	}

	record, err := h.store.FindPatientForDoctor(uint(recordID), profile.ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if record == nil {
		httperr.Respond(c, fmt.Errorf("%w: patient not found or not assigned to you", httperr.ErrNotFound))
		return
	}

	patients, err := h.withAccounts([]models.PatientRecord{*record})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	scores := lo.Map(record.PainScores, func(entry models.PainScore, _ int) float64 {
		return float64(entry.Score)
	})
	average, stdDev := utils.CalculateStats(scores)

	c.JSON(http.StatusOK, DoctorPatientResponse{
		PatientWithAccount: lo.FirstOrEmpty(patients),
		PainAverage:        average,
		PainStdDev:         stdDev,
	})
}
