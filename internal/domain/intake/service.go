package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput marks a submission rejected before any write.
var ErrInvalidInput = errors.New("invalid input")

// Service provides business logic for the intake flow.
type Service struct {
	repo Repository
}

// NewService creates a new intake service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Catalog returns the symptom catalog sorted by name.
func (s *Service) Catalog(ctx context.Context) ([]Symptom, error) {
	return s.repo.ListSymptoms(ctx)
}

// Submit validates sub, resolves symptom names against the catalog and
// records the intake. Resubmitting the same form records the symptoms again.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Receipt, error) {
	p := &Patient{Name: strings.TrimSpace(sub.Name), Age: sub.Age, Gender: sub.Gender}
	if gender, ok := NormalizeGender(sub.Gender); ok {
		p.Gender = gender
	}
	if err := validatePatient(p); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(sub.SymptomIDs)+len(sub.Symptoms))
	for _, id := range sub.SymptomIDs {
		if id <= 0 {
			return nil, fmt.Errorf("%w: invalid symptom id %d", ErrInvalidInput, id)
		}
		ids = append(ids, id)
	}
	if len(sub.Symptoms) > 0 {
		resolved, err := s.resolveNames(ctx, sub.Symptoms)
		if err != nil {
			return nil, err
		}
		ids = append(ids, resolved...)
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one symptom is required", ErrInvalidInput)
	}

	userID, err := s.repo.RecordIntake(ctx, p, ids)
	if err != nil {
		return nil, err
	}
	return &Receipt{UserID: userID, SymptomCount: len(ids)}, nil
}

func (s *Service) resolveNames(ctx context.Context, names []string) ([]int64, error) {
	catalog, err := s.repo.ListSymptoms(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]int64, len(catalog))
	for _, sym := range catalog {
		byName[strings.ToLower(sym.Name)] = sym.ID
	}

	ids := make([]int64, 0, len(names))
	for _, n := range names {
		id, ok := byName[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return nil, fmt.Errorf("%w: unknown symptom %q", ErrInvalidInput, n)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// NormalizeGender maps a case-insensitive gender to its canonical spelling.
func NormalizeGender(g string) (string, bool) {
	g = strings.TrimSpace(g)
	for _, known := range Genders {
		if strings.EqualFold(g, known) {
			return known, true
		}
	}
	return "", false
}

// uniqueIDs drops repeated ids, keeping first occurrences in order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
