package services

import "errors"

var (
	// ErrUnauthorized is returned when a submitted OTP does not match the
	// patient's stored code
	ErrUnauthorized = errors.New("incorrect OTP")

	// ErrValidation is returned for malformed input the boundary should
	// have caught; services still defend against it
	ErrValidation = errors.New("invalid input")
)
