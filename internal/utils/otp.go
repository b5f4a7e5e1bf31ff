package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

// GenerateOTP generates a cryptographically secure 4-digit OTP code.
// Codes are drawn uniformly from 0000-9999 and zero-padded; collisions
// between patients are allowed, the code is a per-patient secret, not a key.
func GenerateOTP() (string, error) {
	max := big.NewInt(10000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}

// DoctorCredentials derives the login credentials for a doctor id:
// username is the decimal id, password is "doctor_<id>". Deterministic and
// idempotent, called once right after the storage insert assigns the id.
func DoctorCredentials(id uint) (username, password string) {
	username = strconv.FormatUint(uint64(id), 10)
	password = "doctor_" + username
	return username, password
}
