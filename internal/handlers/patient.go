package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Keerthana-MS/medibook-backend/internal/middleware"
	"github.com/Keerthana-MS/medibook-backend/internal/models"
	"github.com/Keerthana-MS/medibook-backend/internal/services"
	"github.com/Keerthana-MS/medibook-backend/internal/storage"
	"github.com/Keerthana-MS/medibook-backend/internal/utils"
)

// PatientHandler handles patient-related requests
type PatientHandler struct {
	store  storage.Store
	search *services.SearchService
	sms    *services.SMSService
}

// NewPatientHandler creates a new patient handler
func NewPatientHandler(store storage.Store, search *services.SearchService, sms *services.SMSService) *PatientHandler {
	return &PatientHandler{
		store:  store,
		search: search,
		sms:    sms,
	}
}

// Register handles patient registration. The response carries the assigned
// id and the generated OTP; this is the one place the OTP is handed out.
func (h *PatientHandler) Register(c *fiber.Ctx) error {
	var reg models.PatientRegistration

	if err := c.BodyParser(&reg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if reg.Name == "" || reg.Gender == "" || reg.DOB == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name, gender and date of birth are required",
		})
	}
	if reg.Age <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Age must be a positive number",
		})
	}
	if !utils.IsValidPhone(reg.Contact) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Contact must be a 10-digit mobile number",
		})
	}

	dob, err := utils.ParseDate(reg.DOB)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	otpCode, err := utils.GenerateOTP()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate OTP",
		})
	}

	patient, err := h.store.CreatePatient(&reg, dob, otpCode)
	if err != nil {
		return domainError(c, err)
	}

	// Best effort; registration already succeeded
	if h.sms != nil {
		_ = h.sms.SendOTP(patient)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Patient registered successfully",
		"patient_id": patient.ID,
		"otp":        patient.OTPCode,
	})
}

// GetPatient retrieves a patient by ID. Admins see the OTP code, doctors
// get the redacted view.
func (h *PatientHandler) GetPatient(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Valid patient ID is required",
		})
	}

	patient, err := h.store.GetPatient(id)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(patient.View(middleware.IsAdmin(c)))
}

// ListPatients lists or searches patients. The q parameter filters by
// id/name/contact; OTP visibility follows the caller role.
func (h *PatientHandler) ListPatients(c *fiber.Ctx) error {
	term := c.Query("q")
	includeOTP := middleware.IsAdmin(c)

	if term != "" {
		views, err := h.search.SearchPatients(term, includeOTP)
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(fiber.Map{
			"patients": views,
			"count":    len(views),
		})
	}

	patients, err := h.store.ListPatients("")
	if err != nil {
		return domainError(c, err)
	}

	views := make([]models.PatientView, 0, len(patients))
	for _, p := range patients {
		views = append(views, p.View(includeOTP))
	}
	return c.JSON(fiber.Map{
		"patients": views,
		"count":    len(views),
	})
}

// UpdatePatient applies a partial edit to a patient record
func (h *PatientHandler) UpdatePatient(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Valid patient ID is required",
		})
	}

	var req struct {
		models.PatientUpdate
		DOB *string `json:"dob"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Contact != nil && !utils.IsValidPhone(*req.Contact) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Contact must be a 10-digit mobile number",
		})
	}
	if req.DOB != nil {
		dob, err := utils.ParseDate(*req.DOB)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		req.PatientUpdate.DOB = &dob
	}

	patient, err := h.store.UpdatePatient(id, &req.PatientUpdate)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Patient updated successfully",
		"patient": patient.View(middleware.IsAdmin(c)),
	})
}

// DeletePatient removes a patient and, through the store, their appointments
func (h *PatientHandler) DeletePatient(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Valid patient ID is required",
		})
	}

	patient, err := h.store.DeletePatient(id)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Patient deleted successfully",
		"patient": patient.View(true),
	})
}
