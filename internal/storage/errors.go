package storage

import "errors"

// Domain errors shared by every store adapter. Handlers map these to HTTP
// status codes with errors.Is; none are retried inside the core.
var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrSlotConflict means the doctor already has a non-cancelled
	// appointment at that date and time
	ErrSlotConflict = errors.New("doctor already booked at this time")

	// ErrAlreadyCancelled is returned when cancelling a cancelled appointment
	ErrAlreadyCancelled = errors.New("appointment already cancelled")

	ErrDuplicateContact = errors.New("patient with this contact already exists")

	// ErrStorageUnavailable wraps transient backend failures (connection
	// loss and the like), distinct from the domain errors above
	ErrStorageUnavailable = errors.New("storage unavailable")
)
