package models

import (
	"fmt"
	"time"
)

// Appointment represents a booked slot between a patient and a doctor.
// The partial unique index keeps the (doctor, date, time) triple unique
// among non-cancelled rows even when two bookings race past the service
// level pre-check.
type Appointment struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	PatientID uint `json:"patient_id" gorm:"not null;index"`
	DoctorID  uint `json:"doctor_id" gorm:"not null;uniqueIndex:idx_doctor_slot,where:status = 'Booked'"`

	AppointmentDate time.Time `json:"appointment_date" gorm:"type:date;uniqueIndex:idx_doctor_slot"`
	AppointmentTime string    `json:"appointment_time" gorm:"size:5;uniqueIndex:idx_doctor_slot"` // "HH:MM", 24-hour

	Status string `json:"status" gorm:"size:20;default:Booked"`

	// Set by the reminder job so a booking is only reminded once
	ReminderSentAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Appointment status constants. Cancelled is terminal: there is no un-cancel.
const (
	StatusBooked    = "Booked"
	StatusCancelled = "Cancelled"
)

// DateString renders the appointment date in the storage form
func (a *Appointment) DateString() string {
	return a.AppointmentDate.Format("2006-01-02")
}

// SearchText renders the fields free-text appointment search matches against
func (a *Appointment) SearchText() string {
	return fmt.Sprintf("%d %d %d %s %s", a.ID, a.PatientID, a.DoctorID, a.DateString(), a.AppointmentTime)
}

// AppointmentFilter narrows an appointment listing
type AppointmentFilter struct {
	Search           string // substring across id/patient id/doctor id/date/time
	DoctorID         uint   // scope to one doctor (doctor self-service)
	PatientID        uint   // scope to one patient (OTP-authorized self-service)
	IncludeCancelled bool
	CancelledOnly    bool
}

// BookingRequest carries everything needed to book a slot
type BookingRequest struct {
	PatientID uint      `json:"patient_id"`
	DoctorID  uint      `json:"doctor_id"`
	Date      time.Time `json:"-"`
	TimeSlot  string    `json:"appointment_time"`
	OTP       string    `json:"otp"`
	IsAdmin   bool      `json:"-"`
}
