package diagnosis

import "context"

// Repository reads computed diagnoses.
type Repository interface {
	ForPatient(ctx context.Context, userID int64) ([]Result, error)
}
