package services

import (
	"fmt"

	"github.com/Keerthana-MS/medibook-backend/internal/models"
	"github.com/Keerthana-MS/medibook-backend/internal/storage"
	"github.com/Keerthana-MS/medibook-backend/internal/utils"
)

// BookingService owns the appointment workflow: validation, OTP
// authorization, the conflict pre-check, and status transitions.
type BookingService struct {
	store storage.Store
}

// NewBookingService creates a new booking service
func NewBookingService(store storage.Store) *BookingService {
	return &BookingService{store: store}
}

// Book validates and commits a new appointment. Patients authorize with
// their OTP; admin callers bypass the OTP check. Nothing is written unless
// every check passes.
func (s *BookingService) Book(req *models.BookingRequest) (*models.Appointment, error) {
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: appointment date is required", ErrValidation)
	}
	if !utils.IsValidTimeSlot(req.TimeSlot) {
		return nil, fmt.Errorf("%w: appointment time must be HH:MM (24-hour)", ErrValidation)
	}

	patient, err := s.store.GetPatient(req.PatientID)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetDoctor(req.DoctorID); err != nil {
		return nil, err
	}

	if !req.IsAdmin && !VerifyPatientOTP(patient, req.OTP) {
		return nil, ErrUnauthorized
	}

	// Optimistic pre-check for a friendly error; the store's uniqueness
	// constraint still catches the race between check and insert
	conflict, err := s.store.HasConflict(req.DoctorID, req.Date, req.TimeSlot)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, storage.ErrSlotConflict
	}

	appt := &models.Appointment{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		AppointmentDate: req.Date,
		AppointmentTime: req.TimeSlot,
		Status:          models.StatusBooked,
	}
	return s.store.CreateAppointment(appt)
}

// Cancel flips a booked appointment to Cancelled. The OTP is always checked
// against the patient the appointment belongs to, so a patient cannot
// cancel someone else's booking with their own code. Cancelling twice
// reports ErrAlreadyCancelled.
func (s *BookingService) Cancel(appointmentID uint, otp string, isAdmin bool) (*models.Appointment, error) {
	appt, err := s.store.GetAppointment(appointmentID)
	if err != nil {
		return nil, err
	}

	if appt.Status == models.StatusCancelled {
		return nil, storage.ErrAlreadyCancelled
	}

	if !isAdmin {
		patient, err := s.store.GetPatient(appt.PatientID)
		if err != nil {
			return nil, err
		}
		if !VerifyPatientOTP(patient, otp) {
			return nil, ErrUnauthorized
		}
	}

	return s.store.UpdateAppointmentStatus(appointmentID, models.StatusCancelled)
}

// List returns appointments through the store, excluding cancelled ones
// unless the filter says otherwise
func (s *BookingService) List(filter *models.AppointmentFilter) ([]*models.Appointment, error) {
	return s.store.ListAppointments(filter)
}

// ListForPatient returns a patient's own non-cancelled appointments. The
// patient authorizes with their OTP, same as booking and cancelling.
func (s *BookingService) ListForPatient(patientID uint, otp string) ([]*models.Appointment, error) {
	patient, err := s.store.GetPatient(patientID)
	if err != nil {
		return nil, err
	}

	if !VerifyPatientOTP(patient, otp) {
		return nil, ErrUnauthorized
	}

	return s.store.ListAppointments(&models.AppointmentFilter{PatientID: patientID})
}
