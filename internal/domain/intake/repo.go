package intake

import "context"

// Repository is the data-access boundary for the intake flow.
type Repository interface {
	// ListSymptoms returns the full catalog sorted by name.
	ListSymptoms(ctx context.Context) ([]Symptom, error)
	// RecordIntake finds or creates the patient by name and records one
	// reported-symptom row per id, all in one transaction. It returns the
	// resolved user id.
	RecordIntake(ctx context.Context, p *Patient, symptomIDs []int64) (int64, error)
}
