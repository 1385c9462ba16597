package diagnosis

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidPatientID is returned for ids that cannot name a patient.
var ErrInvalidPatientID = errors.New("invalid user id")

// Service provides diagnosis lookups.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ForPatient returns the candidate diagnoses for userID. A patient with no
// reported symptoms, or no matching disease, yields an empty slice.
func (s *Service) ForPatient(ctx context.Context, userID int64) ([]Result, error) {
	if userID < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPatientID, userID)
	}
	return s.repo.ForPatient(ctx, userID)
}
