package models

import (
	"time"
)

// Patient represents a registered patient in the system
type Patient struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	Name     string    `json:"name" gorm:"size:100;not null"`
	Age      int       `json:"age"`
	Gender   string    `json:"gender" gorm:"size:20"`
	DOB      time.Time `json:"dob" gorm:"type:date"`
	Contact  string    `json:"contact" gorm:"size:20;uniqueIndex"` // 10-digit mobile, unique across patients
	Symptoms string    `json:"symptoms" gorm:"size:255"`

	// 4-digit code generated once at registration. Long-lived secret checked
	// by equality on every self-service action, never serialized by default.
	OTPCode string `json:"-" gorm:"size:4;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Deleting a patient removes their appointments
	Appointments []Appointment `json:"-" gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE"`
}

// PatientRegistration is used for new patient registration
type PatientRegistration struct {
	Name     string `json:"name" validate:"required"`
	Age      int    `json:"age" validate:"required"`
	Gender   string `json:"gender" validate:"required"`
	DOB      string `json:"dob" validate:"required"` // yyyy-mm-dd or dd-mm-yyyy
	Contact  string `json:"contact" validate:"required"`
	Symptoms string `json:"symptoms"`
}

// PatientUpdate lists the fields an edit may change. Nil means "leave as is".
// The id and OTP code are not editable.
type PatientUpdate struct {
	Name     *string    `json:"name"`
	Age      *int       `json:"age"`
	Gender   *string    `json:"gender"`
	DOB      *time.Time `json:"-"`
	Contact  *string    `json:"contact"`
	Symptoms *string    `json:"symptoms"`
}

// PatientView is the search/list result shape. The OTP code is only filled
// for admin callers; doctors get the redacted form.
type PatientView struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	DOB      string `json:"dob"`
	Contact  string `json:"contact"`
	Symptoms string `json:"symptoms"`
	OTPCode  string `json:"otp_code,omitempty"`
}

// View converts a patient to its presentation form, including the OTP code
// only when includeOTP is set.
func (p *Patient) View(includeOTP bool) PatientView {
	view := PatientView{
		ID:       p.ID,
		Name:     p.Name,
		Age:      p.Age,
		Gender:   p.Gender,
		Contact:  p.Contact,
		Symptoms: p.Symptoms,
	}
	if !p.DOB.IsZero() {
		view.DOB = p.DOB.Format("2006-01-02")
	}
	if includeOTP {
		view.OTPCode = p.OTPCode
	}
	return view
}
