package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Rakshi2609/Dr-Help-2/internal/auth"
	"github.com/Rakshi2609/Dr-Help-2/internal/cache"
	"github.com/Rakshi2609/Dr-Help-2/internal/database"
	"github.com/Rakshi2609/Dr-Help-2/internal/models"
	"github.com/Rakshi2609/Dr-Help-2/internal/store"
)

func setupAPI(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	recordStore := store.New(db)
	tokens := auth.NewTokenService("test-secret", time.Hour)
	profiles := cache.NewProfileCache("", time.Hour) // disabled in tests
	limiter := auth.NewLoginLimiter(rate.Inf, 1)

	h := New(recordStore, tokens, profiles, limiter)
	return NewRouter(h), recordStore
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, router *gin.Engine, body map[string]interface{}) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/auth/register", "", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.Equal(t, body["role"], resp.Role)
	return resp.Token
}

func registerPatient(t *testing.T, router *gin.Engine, name, email string) string {
	return register(t, router, map[string]interface{}{
		"name": name, "email": email, "password": "pw1", "role": "patient",
	})
}

func registerDoctor(t *testing.T, router *gin.Engine, name, email, specialty string) string {
	return register(t, router, map[string]interface{}{
		"name": name, "email": email, "password": "pw1", "role": "doctor", "specialty": specialty,
	})
}

func patientRecordFor(t *testing.T, s *store.Store, email string) *models.PatientRecord {
	t.Helper()
	account, err := s.FindAccountByEmail(email)
	require.NoError(t, err)
	require.NotNil(t, account)
	record, err := s.FindPatientByAccountID(account.ID)
	require.NoError(t, err)
	require.NotNil(t, record)
	return record
}

func doctorProfileFor(t *testing.T, s *store.Store, email string) *models.DoctorProfile {
	t.Helper()
	account, err := s.FindAccountByEmail(email)
	require.NoError(t, err)
	require.NotNil(t, account)
	profile, err := s.FindDoctorByAccountID(account.ID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	return profile
}

func TestRegisterLoginAndGetUser(t *testing.T) {
	router, _ := setupAPI(t)

	registerPatient(t, router, "Alice", "alice@ex.com")

	// wrong password
	w := doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]interface{}{
		"email": "alice@ex.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// unknown email looks exactly the same
	w = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]interface{}{
		"email": "nobody@ex.com", "password": "pw1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// correct credentials issue a fresh token
	w = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]interface{}{
		"email": "alice@ex.com", "password": "pw1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.Equal(t, "patient", login.Role)

	w = doJSON(t, router, http.MethodGet, "/auth/user", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var user map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "alice@ex.com", user["email"])
	assert.NotContains(t, user, "password")
}

func TestRegisterValidation(t *testing.T) {
	router, _ := setupAPI(t)

	w := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"name": "Alice", "email": "alice@ex.com", "role": "patient",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"name": "Alice", "email": "alice@ex.com", "password": "pw1", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDuplicateRegistration(t *testing.T) {
	router, s := setupAPI(t)

	registerPatient(t, router, "Alice", "alice@ex.com")

	w := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"name": "Alice Again", "email": "alice@ex.com", "password": "pw2", "role": "patient",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	account, err := s.FindAccountByEmail("alice@ex.com")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "Alice", account.Name)
}

func TestMissingOrInvalidToken(t *testing.T) {
	router, _ := setupAPI(t)

	for _, token := range []string{"", "garbage"} {
		w := doJSON(t, router, http.MethodGet, "/patients/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestWrongRoleIsRejectedBothWays(t *testing.T) {
	router, _ := setupAPI(t)

	patientToken := registerPatient(t, router, "Alice", "alice@ex.com")
	doctorToken := registerDoctor(t, router, "Bob", "bob@ex.com", "Oncology")

	// a valid doctor token against patient-only endpoints
	for _, path := range []string{"/patients/me", "/patients/history", "/patients/alerts"} {
		w := doJSON(t, router, http.MethodGet, path, doctorToken, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
	w := doJSON(t, router, http.MethodPost, "/patients/pain-scores", doctorToken, map[string]interface{}{"score": 5})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// and a valid patient token against doctor-only endpoints
	for _, path := range []string{"/doctors/me", "/doctors/patients", "/doctors/patients/1"} {
		w := doJSON(t, router, http.MethodGet, path, patientToken, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestPainScoreScenario(t *testing.T) {
	router, _ := setupAPI(t)
	token := registerPatient(t, router, "Alice", "alice@ex.com")

	for _, score := range []int{5, 6, 7, 9} {
		w := doJSON(t, router, http.MethodPost, "/patients/pain-scores", token, map[string]interface{}{"score": score})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w := doJSON(t, router, http.MethodGet, "/patients/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var history struct {
		PainScores []models.PainScore `json:"painScores"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history.PainScores, 3)
	assert.Equal(t, 6, history.PainScores[0].Score)
	assert.Equal(t, 7, history.PainScores[1].Score)
	assert.Equal(t, 9, history.PainScores[2].Score)
}

func TestPainScoreOutOfRange(t *testing.T) {
	router, _ := setupAPI(t)
	token := registerPatient(t, router, "Alice", "alice@ex.com")

	w := doJSON(t, router, http.MethodPost, "/patients/pain-scores", token, map[string]interface{}{"score": 11})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/patients/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		PainScores []models.PainScore `json:"painScores"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Empty(t, history.PainScores)
}

func TestDoctorWithNoPatients(t *testing.T) {
	router, _ := setupAPI(t)
	token := registerDoctor(t, router, "Bob", "bob@ex.com", "Oncology")

	w := doJSON(t, router, http.MethodGet, "/doctors/patients", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var patients []PatientWithAccount
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &patients))
	assert.Empty(t, patients)

	w = doJSON(t, router, http.MethodGet, "/doctors/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me DoctorMeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "Bob", me.Name)
	assert.Equal(t, "bob@ex.com", me.Email)
	assert.Equal(t, "Oncology", me.Specialty)
	assert.Empty(t, me.Patients)
}

func TestDoctorOwnershipCheck(t *testing.T) {
	router, s := setupAPI(t)

	ownerToken := registerDoctor(t, router, "Bob", "bob@ex.com", "Oncology")
	strangerToken := registerDoctor(t, router, "Eve", "eve@ex.com", "Cardiology")
	registerPatient(t, router, "Alice", "alice@ex.com")

	record := patientRecordFor(t, s, "alice@ex.com")
	owner := doctorProfileFor(t, s, "bob@ex.com")
	record.DoctorID = &owner.ID
	require.NoError(t, s.UpdatePatientRecord(record))

	path := "/doctors/patients/" + itoa(record.ID)

	w := doJSON(t, router, http.MethodGet, path, ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched PatientWithAccount
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, "Alice", fetched.Name)
	assert.Equal(t, "alice@ex.com", fetched.Email)

	// the detail view summarizes the bounded pain series
	for _, score := range []int{6, 7, 9} {
		_, err := s.AppendPainScore(record.ID, score, "")
		require.NoError(t, err)
	}
	w = doJSON(t, router, http.MethodGet, path, ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail DoctorPatientResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.InDelta(t, 7.3333, detail.PainAverage, 0.0001)
	assert.Len(t, detail.PainScores, 3)

	// not yours reads exactly like not there
	w = doJSON(t, router, http.MethodGet, path, strangerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), "alice@ex.com")

	w = doJSON(t, router, http.MethodGet, "/doctors/patients/99999", ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// the owner's list has the patient with account fields populated
	w = doJSON(t, router, http.MethodGet, "/doctors/patients", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var patients []PatientWithAccount
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &patients))
	require.Len(t, patients, 1)
	assert.Equal(t, "Alice", patients[0].Name)
}

func TestTemperatureAndVitalsUpdateSnapshot(t *testing.T) {
	router, _ := setupAPI(t)
	token := registerPatient(t, router, "Alice", "alice@ex.com")

	w := doJSON(t, router, http.MethodPost, "/patients/temperature", token, map[string]interface{}{"value": "98.6"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/patients/vitals", token, map[string]interface{}{
		"heartRate": "72", "bloodPressure": "120/80",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/patients/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me PatientMeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "98.6", me.Vitals.Temperature)
	assert.Equal(t, "72", me.Vitals.HeartRate)
	assert.Equal(t, "120/80", me.Vitals.BloodPressure)
	assert.Len(t, me.Temperatures, 1)
	assert.Len(t, me.VitalsHistory, 1)
}

func TestAlertMarkRead(t *testing.T) {
	router, s := setupAPI(t)
	token := registerPatient(t, router, "Alice", "alice@ex.com")
	record := patientRecordFor(t, s, "alice@ex.com")

	first := models.Alert{PatientRecordID: record.ID, Title: "High temperature"}
	second := models.Alert{PatientRecordID: record.ID, Title: "Checkup due"}
	require.NoError(t, s.CreateAlert(&first))
	require.NoError(t, s.CreateAlert(&second))

	w := doJSON(t, router, http.MethodPut, "/patients/alerts/"+first.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var alerts []models.Alert
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alerts))
	require.Len(t, alerts, 2)
	for _, alert := range alerts {
		assert.Equal(t, alert.ID == first.ID, alert.IsRead)
	}

	// idempotent repeat
	w = doJSON(t, router, http.MethodPut, "/patients/alerts/"+first.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alerts))
	for _, alert := range alerts {
		assert.Equal(t, alert.ID == first.ID, alert.IsRead)
	}

	w = doJSON(t, router, http.MethodPut, "/patients/alerts/not-an-alert", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProfile(t *testing.T) {
	router, _ := setupAPI(t)
	token := registerPatient(t, router, "Alice", "alice@ex.com")
	registerDoctor(t, router, "Bob", "bob@ex.com", "Oncology")

	// taken email is rejected
	w := doJSON(t, router, http.MethodPut, "/auth/update-profile", token, map[string]interface{}{
		"email": "bob@ex.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPut, "/auth/update-profile", token, map[string]interface{}{
		"name": "Alice Smith", "age": 33, "hasDiabetes": true,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		User    models.Account       `json:"user"`
		Patient models.PatientRecord `json:"patient"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Alice Smith", resp.User.Name)
	assert.Equal(t, 33, resp.Patient.Age)
	assert.True(t, resp.Patient.HasDiabetes)
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
