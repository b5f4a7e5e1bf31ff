package services

import (
	"fmt"
	"strings"

	"github.com/Keerthana-MS/medibook-backend/internal/models"
	"github.com/Keerthana-MS/medibook-backend/internal/storage"
)

// SearchService provides the filtered listings the dashboards use
type SearchService struct {
	store storage.Store
}

// NewSearchService creates a new search service
func NewSearchService(store storage.Store) *SearchService {
	return &SearchService{store: store}
}

// SearchPatients matches the term against patient id (when numeric), name
// and contact. includeOTP controls whether the returned views carry the
// patient OTP code: admins see it, doctors do not.
func (s *SearchService) SearchPatients(term string, includeOTP bool) ([]models.PatientView, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: search term is required", ErrValidation)
	}

	patients, err := s.store.ListPatients(term)
	if err != nil {
		return nil, err
	}

	views := make([]models.PatientView, 0, len(patients))
	for _, p := range patients {
		views = append(views, p.View(includeOTP))
	}
	return views, nil
}

// SearchDoctors matches the term against doctor id (when numeric), name and
// specialization. Credentials are never part of doctor results.
func (s *SearchService) SearchDoctors(term string) ([]*models.Doctor, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: search term is required", ErrValidation)
	}
	return s.store.ListDoctors(term)
}
