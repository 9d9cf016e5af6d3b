package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rakshi2609/Dr-Help-2/internal/httperr"
	"github.com/Rakshi2609/Dr-Help-2/internal/middleware"
	"github.com/Rakshi2609/Dr-Help-2/internal/models"
)

// --- Structs for Request Binding ---

type AddPainScoreRequest struct {
	Score int    `json:"score"`
	Notes string `json:"notes"`
}

type AddTemperatureRequest struct {
	Value string `json:"value"`
}

type AddVitalsRequest struct {
	HeartRate     string `json:"heartRate"`
	BloodPressure string `json:"bloodPressure"`
}

// PatientMeResponse is the caller's record with account fields and the
// assigned doctor's specialty populated.
type PatientMeResponse struct {
	PatientWithAccount
	DoctorSpecialty string `json:"doctorSpecialty,omitempty"`
}

// patientRecord loads the caller's clinical record or fails NotFound.
func (h *Handlers) patientRecord(c *gin.Context) (*models.PatientRecord, bool) {
	identity, _ := middleware.Caller(c)
	record, err := h.store.FindPatientByAccountID(identity.AccountID)
	if err != nil {
		httperr.Respond(c, err)
		return nil, false
	}
	if record == nil {
		httperr.Respond(c, fmt.Errorf("%w: patient profile not found", httperr.ErrNotFound))
		return nil, false
	}
	return record, true
}

// GetPatientMe returns the caller's full clinical record.
func (h *Handlers) GetPatientMe(c *gin.Context) {
	record, ok := h.patientRecord(c)
	if !ok {
		return
	}

	patients, err := h.withAccounts([]models.PatientRecord{*record})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	resp := PatientMeResponse{PatientWithAccount: patients[0]}

	if record.DoctorID != nil {
		doctor, err := h.store.FindDoctorByID(*record.DoctorID)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		if doctor != nil {
			resp.DoctorSpecialty = doctor.Specialty
		}
	}

	c.JSON(http.StatusOK, resp)
}

// AddPainScore appends a pain score; the store rejects out-of-range values
// and trims the series to its bound. Returns the updated series.
func (h *Handlers) AddPainScore(c *gin.Context) {
	record, ok := h.patientRecord(c)
	if !ok {
		return
	}

	var req AddPainScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, fmt.Errorf("%w: invalid request body", httperr.ErrValidation))
		return
	}

	scores, err := h.store.AppendPainScore(record.ID, req.Score, req.Notes)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, scores)
}

// AddTemperature appends a temperature reading; series and current-vitals
// snapshot are updated in the same write.
func (h *Handlers) AddTemperature(c *gin.Context) {
	record, ok := h.patientRecord(c)
	if !ok {
		return
	}

	var req AddTemperatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, fmt.Errorf("%w: invalid request body", httperr.ErrValidation))
		return
	}

	temps, err := h.store.AppendTemperature(record.ID, req.Value)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, temps)
}

// AddVitals appends a heart-rate/blood-pressure reading with the same
// dual-update rule as AddTemperature.
func (h *Handlers) AddVitals(c *gin.Context) {
	record, ok := h.patientRecord(c)
	if !ok {
		return
	}

	var req AddVitalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, fmt.Errorf("%w: invalid request body", httperr.ErrValidation))
		return
	}

	vitals, err := h.store.AppendVitals(record.ID, req.HeartRate, req.BloodPressure)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, vitals)
}

// ListAlerts returns every alert on the caller's record.
func (h *Handlers) ListAlerts(c *gin.Context) {
	record, ok := h.patientRecord(c)
	if !ok {
		return
	}

	alerts, err := h.store.ListAlerts(record.ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// GetHistory returns the three bounded series trimmed to their cap, in
// append order.
func (h *Handlers) GetHistory(c *gin.Context) {
	record, ok := h.patientRecord(c)
	if !ok {
		return
	}

	history, err := h.store.GetHistory(record.ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// MarkAlertRead idempotently flags one alert as read and returns the full
// alert list, untouched except for that flag.
func (h *Handlers) MarkAlertRead(c *gin.Context) {
	record, ok := h.patientRecord(c)
	if !ok {
		return
	}

	alert, err := h.store.MarkAlertRead(record.ID, c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if alert == nil {
		httperr.Respond(c, fmt.Errorf("%w: alert not found", httperr.ErrNotFound))
		return
	}

	alerts, err := h.store.ListAlerts(record.ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}
