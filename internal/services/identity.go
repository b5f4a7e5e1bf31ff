package services

import "github.com/Keerthana-MS/medibook-backend/internal/models"

// VerifyPatientOTP reports whether the submitted code matches the patient's
// stored OTP. Exact string equality: no normalization, no expiry, no
// invalidation after use. The code is a long-lived shared secret, not a
// true one-time password.
func VerifyPatientOTP(patient *models.Patient, code string) bool {
	if patient == nil {
		return false
	}
	return patient.OTPCode == code
}
