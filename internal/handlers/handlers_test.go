package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keerthana-MS/medibook-backend/internal/config"
	"github.com/Keerthana-MS/medibook-backend/internal/routes"
	"github.com/Keerthana-MS/medibook-backend/internal/services"
	"github.com/Keerthana-MS/medibook-backend/internal/storage"
)

func newTestApp(t *testing.T) (*fiber.App, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	cfg := &config.Config{
		AdminUsername: "admin",
		AdminPassword: "pass123",
		JWTSecret:     "test-secret",
	}
	app := fiber.New()
	routes.SetupRoutes(app, store, cfg,
		services.NewBookingService(store),
		services.NewSearchService(store),
		services.NewSMSService(cfg))
	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &payload), "body: %s", raw)
	}
	return resp.StatusCode, payload
}

func adminToken(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/auth/admin/login",
		fiber.Map{"username": "admin", "password": "pass123"}, "")
	require.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func registerPatient(t *testing.T, app *fiber.App, name, contact string) (uint, string) {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/patients/", fiber.Map{
		"name":     name,
		"age":      31,
		"gender":   "Female",
		"dob":      "1994-05-01",
		"contact":  contact,
		"symptoms": "fever",
	}, "")
	require.Equal(t, http.StatusCreated, status)
	id, ok := body["patient_id"].(float64)
	require.True(t, ok)
	otp, _ := body["otp"].(string)
	require.Len(t, otp, 4)
	return uint(id), otp
}

func createDoctor(t *testing.T, app *fiber.App, token, name, spec string) uint {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/doctors/",
		fiber.Map{"name": name, "specialization": spec}, token)
	require.Equal(t, http.StatusCreated, status)
	doctor, ok := body["doctor"].(map[string]any)
	require.True(t, ok)
	id, ok := doctor["id"].(float64)
	require.True(t, ok)
	return uint(id)
}

func TestRegisterPatient(t *testing.T) {
	app, _ := newTestApp(t)

	id, otp := registerPatient(t, app, "Asha", "9876543210")
	assert.Equal(t, uint(1), id)
	for _, ch := range otp {
		assert.True(t, ch >= '0' && ch <= '9')
	}

	// Same contact again conflicts
	status, body := doJSON(t, app, http.MethodPost, "/api/patients/", fiber.Map{
		"name": "Ravi", "age": 40, "gender": "Male",
		"dob": "1984-01-01", "contact": "9876543210",
	}, "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, body, "error")
}

func TestRegisterPatient_Validation(t *testing.T) {
	app, _ := newTestApp(t)

	cases := []struct {
		name string
		body fiber.Map
	}{
		{"missing name", fiber.Map{"age": 30, "gender": "Female", "dob": "1994-05-01", "contact": "9876543210"}},
		{"bad phone", fiber.Map{"name": "Asha", "age": 30, "gender": "Female", "dob": "1994-05-01", "contact": "12345"}},
		{"bad dob", fiber.Map{"name": "Asha", "age": 30, "gender": "Female", "dob": "May 1994", "contact": "9876543210"}},
		{"zero age", fiber.Map{"name": "Asha", "age": 0, "gender": "Female", "dob": "1994-05-01", "contact": "9876543210"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := doJSON(t, app, http.MethodPost, "/api/patients/", tc.body, "")
			assert.Equal(t, http.StatusBadRequest, status)
		})
	}
}

func TestAdminLogin(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := doJSON(t, app, http.MethodPost, "/api/auth/admin/login",
		fiber.Map{"username": "admin", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	adminToken(t, app)
}

func TestListPatients_AuthAndRedaction(t *testing.T) {
	app, _ := newTestApp(t)
	registerPatient(t, app, "Asha", "9876543210")

	// No token at all
	status, _ := doJSON(t, app, http.MethodGet, "/api/patients/", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	admin := adminToken(t, app)
	status, body := doJSON(t, app, http.MethodGet, "/api/patients/", nil, admin)
	require.Equal(t, http.StatusOK, status)
	patients, ok := body["patients"].([]any)
	require.True(t, ok)
	require.Len(t, patients, 1)
	first := patients[0].(map[string]any)
	assert.Contains(t, first, "otp_code")

	// Doctor sees the redacted view
	createDoctor(t, app, admin, "Dr. Rao", "Cardiology")
	status, body = doJSON(t, app, http.MethodPost, "/api/doctors/login",
		fiber.Map{"username": "1", "password": "doctor_1"}, "")
	require.Equal(t, http.StatusOK, status)
	doctor, _ := body["token"].(string)
	require.NotEmpty(t, doctor)

	status, body = doJSON(t, app, http.MethodGet, "/api/patients/", nil, doctor)
	require.Equal(t, http.StatusOK, status)
	patients = body["patients"].([]any)
	require.Len(t, patients, 1)
	first = patients[0].(map[string]any)
	assert.NotContains(t, first, "otp_code")
}

func TestCreateDoctor_ReturnsCredentialsOnce(t *testing.T) {
	app, _ := newTestApp(t)

	// Admin-only
	status, _ := doJSON(t, app, http.MethodPost, "/api/doctors/",
		fiber.Map{"name": "Dr. Rao", "specialization": "Cardiology"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	admin := adminToken(t, app)
	status, body := doJSON(t, app, http.MethodPost, "/api/doctors/",
		fiber.Map{"name": "Dr. Rao", "specialization": "Cardiology"}, admin)
	require.Equal(t, http.StatusCreated, status)
	creds, ok := body["credentials"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "1", creds["username"])
	assert.Equal(t, "doctor_1", creds["password"])

	// Listing never exposes them
	status, body = doJSON(t, app, http.MethodGet, "/api/doctors/", nil, "")
	require.Equal(t, http.StatusOK, status)
	doctors := body["doctors"].([]any)
	require.Len(t, doctors, 1)
	first := doctors[0].(map[string]any)
	assert.NotContains(t, first, "username")
	assert.NotContains(t, first, "password")
}

func TestDoctorLogin(t *testing.T) {
	app, _ := newTestApp(t)
	admin := adminToken(t, app)
	createDoctor(t, app, admin, "Dr. Rao", "Cardiology")

	status, _ := doJSON(t, app, http.MethodPost, "/api/doctors/login",
		fiber.Map{"username": "1", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/doctors/login",
		fiber.Map{"username": "1", "password": "doctor_1"}, "")
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])
}

func TestBookAppointment(t *testing.T) {
	app, _ := newTestApp(t)
	admin := adminToken(t, app)
	patientID, otp := registerPatient(t, app, "Asha", "9876543210")
	doctorID := createDoctor(t, app, admin, "Dr. Rao", "Cardiology")

	// Wrong OTP
	status, _ := doJSON(t, app, http.MethodPost, "/api/appointments/", fiber.Map{
		"patient_id": patientID, "doctor_id": doctorID,
		"appointment_date": "2025-01-10", "appointment_time": "10:30",
		"otp": "0000",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	// Correct OTP
	status, body := doJSON(t, app, http.MethodPost, "/api/appointments/", fiber.Map{
		"patient_id": patientID, "doctor_id": doctorID,
		"appointment_date": "2025-01-10", "appointment_time": "10:30",
		"otp": otp,
	}, "")
	require.Equal(t, http.StatusCreated, status)
	appt := body["appointment"].(map[string]any)
	assert.Equal(t, "Booked", appt["status"])

	// Same slot again conflicts
	status, _ = doJSON(t, app, http.MethodPost, "/api/appointments/", fiber.Map{
		"patient_id": patientID, "doctor_id": doctorID,
		"appointment_date": "2025-01-10", "appointment_time": "10:30",
		"otp": otp,
	}, "")
	assert.Equal(t, http.StatusConflict, status)
}

func TestBookAppointment_AdminSkipsOTP(t *testing.T) {
	app, _ := newTestApp(t)
	admin := adminToken(t, app)
	patientID, _ := registerPatient(t, app, "Asha", "9876543210")
	doctorID := createDoctor(t, app, admin, "Dr. Rao", "Cardiology")

	status, _ := doJSON(t, app, http.MethodPost, "/api/appointments/", fiber.Map{
		"patient_id": patientID, "doctor_id": doctorID,
		"appointment_date": "2025-01-10", "appointment_time": "10:30",
	}, admin)
	assert.Equal(t, http.StatusCreated, status)
}

func TestCancelAppointment(t *testing.T) {
	app, _ := newTestApp(t)
	admin := adminToken(t, app)
	patientID, otp := registerPatient(t, app, "Asha", "9876543210")
	doctorID := createDoctor(t, app, admin, "Dr. Rao", "Cardiology")

	status, body := doJSON(t, app, http.MethodPost, "/api/appointments/", fiber.Map{
		"patient_id": patientID, "doctor_id": doctorID,
		"appointment_date": "2025-01-10", "appointment_time": "10:30",
		"otp": otp,
	}, "")
	require.Equal(t, http.StatusCreated, status)
	apptID := int(body["appointment"].(map[string]any)["id"].(float64))

	path := "/api/appointments/" + strconv.Itoa(apptID) + "/cancel"

	status, _ = doJSON(t, app, http.MethodPost, path, fiber.Map{"otp": "0000"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = doJSON(t, app, http.MethodPost, path, fiber.Map{"otp": otp}, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Cancelled", body["appointment"].(map[string]any)["status"])

	// Double cancel
	status, _ = doJSON(t, app, http.MethodPost, path, fiber.Map{"otp": otp}, "")
	assert.Equal(t, http.StatusConflict, status)

	// Unknown id
	status, _ = doJSON(t, app, http.MethodPost, "/api/appointments/999/cancel", nil, admin)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPatientAppointments(t *testing.T) {
	app, _ := newTestApp(t)
	admin := adminToken(t, app)
	ashaID, ashaOTP := registerPatient(t, app, "Asha", "9876543210")
	raviID, _ := registerPatient(t, app, "Ravi", "9876500000")
	doctorID := createDoctor(t, app, admin, "Dr. Rao", "Cardiology")

	status, _ := doJSON(t, app, http.MethodPost, "/api/appointments/", fiber.Map{
		"patient_id": ashaID, "doctor_id": doctorID,
		"appointment_date": "2025-01-10", "appointment_time": "10:30",
	}, admin)
	require.Equal(t, http.StatusCreated, status)
	status, _ = doJSON(t, app, http.MethodPost, "/api/appointments/", fiber.Map{
		"patient_id": raviID, "doctor_id": doctorID,
		"appointment_date": "2025-01-10", "appointment_time": "11:00",
	}, admin)
	require.Equal(t, http.StatusCreated, status)

	// Patient sees only their own appointments
	status, body := doJSON(t, app, http.MethodPost, "/api/appointments/my",
		fiber.Map{"patient_id": ashaID, "otp": ashaOTP}, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])
	appts := body["appointments"].([]any)
	assert.Equal(t, float64(ashaID), appts[0].(map[string]any)["patient_id"])

	// Wrong OTP
	status, _ = doJSON(t, app, http.MethodPost, "/api/appointments/my",
		fiber.Map{"patient_id": ashaID, "otp": "0000"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	// Malformed OTP is rejected before the lookup
	status, _ = doJSON(t, app, http.MethodPost, "/api/appointments/my",
		fiber.Map{"patient_id": ashaID, "otp": "12"}, "")
	assert.Equal(t, http.StatusBadRequest, status)

	// Unknown patient
	status, _ = doJSON(t, app, http.MethodPost, "/api/appointments/my",
		fiber.Map{"patient_id": 999, "otp": "1234"}, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestBookAndCancel_MalformedOTP(t *testing.T) {
	app, _ := newTestApp(t)
	admin := adminToken(t, app)
	patientID, otp := registerPatient(t, app, "Asha", "9876543210")
	doctorID := createDoctor(t, app, admin, "Dr. Rao", "Cardiology")

	status, _ := doJSON(t, app, http.MethodPost, "/api/appointments/", fiber.Map{
		"patient_id": patientID, "doctor_id": doctorID,
		"appointment_date": "2025-01-10", "appointment_time": "10:30",
		"otp": "12ab",
	}, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/appointments/", fiber.Map{
		"patient_id": patientID, "doctor_id": doctorID,
		"appointment_date": "2025-01-10", "appointment_time": "10:30",
		"otp": otp,
	}, "")
	require.Equal(t, http.StatusCreated, status)
	apptID := int(body["appointment"].(map[string]any)["id"].(float64))

	status, _ = doJSON(t, app, http.MethodPost,
		"/api/appointments/"+strconv.Itoa(apptID)+"/cancel",
		fiber.Map{"otp": "99999"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestMyAppointments(t *testing.T) {
	app, _ := newTestApp(t)
	admin := adminToken(t, app)
	patientID, _ := registerPatient(t, app, "Asha", "9876543210")
	rao := createDoctor(t, app, admin, "Dr. Rao", "Cardiology")
	createDoctor(t, app, admin, "Dr. Iyer", "Dermatology")

	status, _ := doJSON(t, app, http.MethodPost, "/api/appointments/", fiber.Map{
		"patient_id": patientID, "doctor_id": rao,
		"appointment_date": "2025-01-10", "appointment_time": "10:30",
	}, admin)
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/doctors/login",
		fiber.Map{"username": "2", "password": "doctor_2"}, "")
	require.Equal(t, http.StatusOK, status)
	iyerToken := body["token"].(string)

	status, body = doJSON(t, app, http.MethodGet, "/api/doctors/me/appointments", nil, iyerToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["count"])

	status, body = doJSON(t, app, http.MethodPost, "/api/doctors/login",
		fiber.Map{"username": "1", "password": "doctor_1"}, "")
	require.Equal(t, http.StatusOK, status)
	raoToken := body["token"].(string)

	status, body = doJSON(t, app, http.MethodGet, "/api/doctors/me/appointments", nil, raoToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])

	// Admin token is not a doctor token
	status, _ = doJSON(t, app, http.MethodGet, "/api/doctors/me/appointments", nil, admin)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestPatientSearchThroughAPI(t *testing.T) {
	app, _ := newTestApp(t)
	admin := adminToken(t, app)
	// Neither contact contains the digit 2, so q=2 can only match by id
	registerPatient(t, app, "Asha Varma", "9876543310")
	registerPatient(t, app, "Ravi Kumar", "9876500000")

	status, body := doJSON(t, app, http.MethodGet, "/api/patients/?q=varma", nil, admin)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])

	status, body = doJSON(t, app, http.MethodGet, "/api/patients/?q=2", nil, admin)
	require.Equal(t, http.StatusOK, status)
	patients := body["patients"].([]any)
	require.Len(t, patients, 1)
	assert.Equal(t, "Ravi Kumar", patients[0].(map[string]any)["name"])
}
