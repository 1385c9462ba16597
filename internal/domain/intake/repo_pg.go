package intake

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/symptomcheck/symptomcheck/internal/platform/db"
)

type repoPG struct{ db db.Querier }

// NewRepoPG returns a Repository backed by PostgreSQL. q is normally the pool;
// a connection or transaction carried by the request context takes precedence.
func NewRepoPG(q db.Querier) Repository {
	return &repoPG{db: q}
}

func (r *repoPG) ListSymptoms(ctx context.Context) ([]Symptom, error) {
	rows, err := db.Handle(ctx, r.db).Query(ctx, `SELECT symptom_id, symptom_name FROM symptoms ORDER BY symptom_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Symptom{}
	for rows.Next() {
		var s Symptom
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// RecordIntake does not validate its input. Any failure rolls back the whole
// transaction, including a patient row created earlier in it, and the driver
// error is returned unchanged.
func (r *repoPG) RecordIntake(ctx context.Context, p *Patient, symptomIDs []int64) (int64, error) {
	var userID int64
	err := db.RunInTx(ctx, db.Handle(ctx, r.db), func(ctx context.Context, tx pgx.Tx) error {
		id, err := findOrCreatePatient(ctx, tx, p)
		if err != nil {
			return err
		}
		if err := insertReportedSymptoms(ctx, tx, id, symptomIDs); err != nil {
			return err
		}
		userID = id
		return nil
	})
	if err != nil {
		return 0, err
	}
	p.UserID = userID
	return userID, nil
}

func findOrCreatePatient(ctx context.Context, tx pgx.Tx, p *Patient) (int64, error) {
	var id int64
	// Concurrent first submissions under one name can leave duplicates
	// behind; the oldest row wins so the lookup stays deterministic.
	err := tx.QueryRow(ctx, `SELECT user_id FROM patients WHERE name = $1 ORDER BY user_id LIMIT 1`, p.Name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO patients (name, age, gender) VALUES ($1, $2, $3) RETURNING user_id`,
		p.Name, p.Age, p.Gender).Scan(&id)
	return id, err
}

func insertReportedSymptoms(ctx context.Context, tx pgx.Tx, userID int64, symptomIDs []int64) error {
	batch := &pgx.Batch{}
	for _, sid := range symptomIDs {
		batch.Queue(`INSERT INTO user_symptom_inputs (user_id, symptom_id) VALUES ($1, $2)`, userID, sid)
	}

	br := tx.SendBatch(ctx, batch)
	for range symptomIDs {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return err
		}
	}
	return br.Close()
}
