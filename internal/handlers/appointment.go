package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Keerthana-MS/medibook-backend/internal/middleware"
	"github.com/Keerthana-MS/medibook-backend/internal/models"
	"github.com/Keerthana-MS/medibook-backend/internal/services"
	"github.com/Keerthana-MS/medibook-backend/internal/storage"
	"github.com/Keerthana-MS/medibook-backend/internal/utils"
)

// AppointmentHandler handles appointment-related requests
type AppointmentHandler struct {
	booking *services.BookingService
	store   storage.Store
	sms     *services.SMSService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(booking *services.BookingService, store storage.Store, sms *services.SMSService) *AppointmentHandler {
	return &AppointmentHandler{
		booking: booking,
		store:   store,
		sms:     sms,
	}
}

// Book creates a new appointment. Patients must supply their OTP; callers
// with an admin token skip the OTP check.
func (h *AppointmentHandler) Book(c *fiber.Ctx) error {
	var req struct {
		PatientID uint   `json:"patient_id"`
		DoctorID  uint   `json:"doctor_id"`
		Date      string `json:"appointment_date"`
		TimeSlot  string `json:"appointment_time"`
		OTP       string `json:"otp"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.PatientID == 0 || req.DoctorID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Patient ID and doctor ID are required",
		})
	}
	if req.OTP != "" && !utils.IsValidOTP(req.OTP) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "OTP must be a 4-digit code",
		})
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	appt, err := h.booking.Book(&models.BookingRequest{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Date:      date,
		TimeSlot:  req.TimeSlot,
		OTP:       req.OTP,
		IsAdmin:   middleware.IsAdmin(c),
	})
	if err != nil {
		return domainError(c, err)
	}

	if h.sms != nil {
		if patient, perr := h.store.GetPatient(appt.PatientID); perr == nil {
			_ = h.sms.SendBookingConfirmation(patient, appt)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Appointment booked successfully",
		"appointment": appt,
	})
}

// Cancel marks an appointment Cancelled. Patient cancellation requires the
// OTP of the patient the appointment belongs to.
func (h *AppointmentHandler) Cancel(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Valid appointment ID is required",
		})
	}

	var req struct {
		OTP string `json:"otp"`
	}
	// Body is optional for admin cancellations
	_ = c.BodyParser(&req)

	if req.OTP != "" && !utils.IsValidOTP(req.OTP) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "OTP must be a 4-digit code",
		})
	}

	appt, err := h.booking.Cancel(id, req.OTP, middleware.IsAdmin(c))
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":     "Appointment cancelled successfully",
		"appointment": appt,
	})
}

// List returns appointments. Cancelled ones are excluded unless
// include_cancelled=true; q filters by substring across the record fields.
func (h *AppointmentHandler) List(c *fiber.Ctx) error {
	filter := &models.AppointmentFilter{
		Search:           c.Query("q"),
		IncludeCancelled: c.Query("include_cancelled") == "true",
	}

	if v := c.Query("doctor_id"); v != "" {
		doctorID, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid doctor_id",
			})
		}
		filter.DoctorID = uint(doctorID)
	}

	appts, err := h.booking.List(filter)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"appointments": appts,
		"count":        len(appts),
	})
}

// ListCancelled returns only cancelled appointments (admin view)
func (h *AppointmentHandler) ListCancelled(c *fiber.Ctx) error {
	appts, err := h.booking.List(&models.AppointmentFilter{CancelledOnly: true})
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"appointments": appts,
		"count":        len(appts),
	})
}

// PatientAppointments returns a patient's own non-cancelled appointments.
// The body carries the patient id and OTP; no token is involved, matching
// the book/cancel self-service flows.
func (h *AppointmentHandler) PatientAppointments(c *fiber.Ctx) error {
	var req struct {
		PatientID uint   `json:"patient_id"`
		OTP       string `json:"otp"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.PatientID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Patient ID is required",
		})
	}
	if !utils.IsValidOTP(req.OTP) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "OTP must be a 4-digit code",
		})
	}

	appts, err := h.booking.ListForPatient(req.PatientID, req.OTP)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"appointments": appts,
		"count":        len(appts),
	})
}

// MyAppointments returns the authenticated doctor's own non-cancelled
// appointments. The token subject is the doctor username, which is the
// decimal doctor id.
func (h *AppointmentHandler) MyAppointments(c *fiber.Ctx) error {
	subject, _ := c.Locals(middleware.LocalSubject).(string)
	doctorID, err := strconv.ParseUint(subject, 10, 32)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid doctor token",
		})
	}

	appts, err := h.booking.List(&models.AppointmentFilter{DoctorID: uint(doctorID)})
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"appointments": appts,
		"count":        len(appts),
	})
}

// Delete hard-deletes an appointment (admin alternative to soft-cancel)
func (h *AppointmentHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Valid appointment ID is required",
		})
	}

	appt, err := h.store.DeleteAppointment(id)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":     "Appointment deleted successfully",
		"appointment": appt,
	})
}
