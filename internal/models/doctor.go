package models

import "time"

// Doctor represents a doctor managed by the admin
type Doctor struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	Name           string `json:"name" gorm:"size:100;not null"`
	Specialization string `json:"specialization" gorm:"size:100"`

	// Credentials are generated once, right after the insert assigns the id:
	// username is the decimal id, password is "doctor_<id>". They are never
	// regenerated and never included in listings or search results. The
	// password is derived from the public id, so it is stored as-is.
	Username string `json:"-" gorm:"size:50;uniqueIndex"`
	Password string `json:"-" gorm:"size:100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Deleting a doctor removes their appointments
	Appointments []Appointment `json:"-" gorm:"foreignKey:DoctorID;constraint:OnDelete:CASCADE"`
}

// DoctorRegistration is used when the admin adds a doctor
type DoctorRegistration struct {
	Name           string `json:"name" validate:"required"`
	Specialization string `json:"specialization" validate:"required"`
}

// DoctorUpdate lists the fields an edit may change; credentials are fixed
// at creation and cannot be touched here.
type DoctorUpdate struct {
	Name           *string `json:"name"`
	Specialization *string `json:"specialization"`
}

// DoctorCredentials is returned exactly once, in the create response
type DoctorCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
