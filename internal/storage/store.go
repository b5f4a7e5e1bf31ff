package storage

import (
	"time"

	"github.com/Keerthana-MS/medibook-backend/internal/models"
)

// Store defines the interface for storage operations. It is the only
// contact point between the domain services and a backend; adapters must
// enforce contact uniqueness, the booked-slot uniqueness constraint and
// cascade deletion of appointments themselves.
type Store interface {
	// Patient operations
	CreatePatient(reg *models.PatientRegistration, dob time.Time, otpCode string) (*models.Patient, error)
	GetPatient(id uint) (*models.Patient, error)
	ListPatients(search string) ([]*models.Patient, error)
	UpdatePatient(id uint, upd *models.PatientUpdate) (*models.Patient, error)
	DeletePatient(id uint) (*models.Patient, error)

	// Doctor operations
	CreateDoctor(reg *models.DoctorRegistration) (*models.Doctor, error)
	GetDoctor(id uint) (*models.Doctor, error)
	GetDoctorByUsername(username string) (*models.Doctor, error)
	ListDoctors(search string) ([]*models.Doctor, error)
	UpdateDoctor(id uint, upd *models.DoctorUpdate) (*models.Doctor, error)
	DeleteDoctor(id uint) (*models.Doctor, error)

	// Appointment operations
	CreateAppointment(appt *models.Appointment) (*models.Appointment, error)
	GetAppointment(id uint) (*models.Appointment, error)
	ListAppointments(filter *models.AppointmentFilter) ([]*models.Appointment, error)
	UpdateAppointmentStatus(id uint, status string) (*models.Appointment, error)
	DeleteAppointment(id uint) (*models.Appointment, error)
	MarkReminderSent(id uint, at time.Time) error

	// HasConflict reports whether the doctor already has a non-cancelled
	// appointment at the given date and time
	HasConflict(doctorID uint, date time.Time, timeSlot string) (bool, error)
}
