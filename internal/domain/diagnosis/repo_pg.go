package diagnosis

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// The column list is explicit so a change in the function's row shape fails
// here instead of silently shifting fields.
const diagnosisSQL = `SELECT disease_id, disease_name, match_percentage,
	precaution1, precaution2, precaution3, precaution4
	FROM get_diagnosis($1)`

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

// ForPatient always runs on a connection of its own, acquired here and
// released before returning, independent of any connection pinned to the
// request.
func (r *repoPG) ForPatient(ctx context.Context, userID int64) ([]Result, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, diagnosisSQL, userID)
	if err != nil {
		return nil, err
	}
	return scanResults(rows)
}

func scanResults(rows pgx.Rows) ([]Result, error) {
	defer rows.Close()

	results := []Result{}
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.DiseaseID, &r.DiseaseName, &r.MatchPercentage,
			&r.RawPrecautions[0], &r.RawPrecautions[1], &r.RawPrecautions[2], &r.RawPrecautions[3]); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
