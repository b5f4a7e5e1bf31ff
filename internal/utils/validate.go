package utils

import (
	"fmt"
	"time"
)

// Date layouts accepted at the boundary: the relational form and the
// dd-mm-yyyy display form the CLI tools used.
var dateLayouts = []string{"2006-01-02", "02-01-2006"}

// ParseDate parses a calendar date in yyyy-mm-dd or dd-mm-yyyy form
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: use yyyy-mm-dd or dd-mm-yyyy", s)
}

// IsValidTimeSlot reports whether s is a 24-hour "HH:MM" time
func IsValidTimeSlot(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// IsValidPhone reports whether s is a 10-digit mobile number
func IsValidPhone(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// IsValidOTP reports whether s is exactly 4 ASCII digits
func IsValidOTP(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
