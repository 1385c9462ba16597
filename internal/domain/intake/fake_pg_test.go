package intake

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/symptomcheck/symptomcheck/internal/platform/db"
)

// fakeStore is an in-memory stand-in for the three intake tables. Writes go
// through fakeTx and only become visible on Commit.
type fakeStore struct {
	patients []Patient
	inputs   [][2]int64
	symptoms []Symptom
	nextID   int64

	failSymptomID int64
	queryErr      error

	begins    int
	commits   int
	rollbacks int
}

type fakeDB struct {
	db.Querier
	s *fakeStore
}

func newFakeDB(symptoms ...Symptom) *fakeDB {
	return &fakeDB{s: &fakeStore{symptoms: symptoms}}
}

func (f *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	f.s.begins++
	return &fakeTx{
		s:        f.s,
		patients: append([]Patient(nil), f.s.patients...),
		inputs:   append([][2]int64(nil), f.s.inputs...),
		nextID:   f.s.nextID,
	}, nil
}

func (f *fakeDB) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	if f.s.queryErr != nil {
		return nil, f.s.queryErr
	}
	if !strings.HasPrefix(sql, "SELECT symptom_id, symptom_name FROM symptoms") {
		return nil, errors.New("unexpected query: " + sql)
	}
	return &fakeRows{items: f.s.symptoms, pos: -1}, nil
}

type fakeTx struct {
	pgx.Tx
	s        *fakeStore
	patients []Patient
	inputs   [][2]int64
	nextID   int64
	closed   bool
}

func (t *fakeTx) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	switch {
	case strings.HasPrefix(sql, "SELECT user_id FROM patients"):
		name := args[0].(string)
		for _, p := range t.patients {
			if p.Name == name {
				return fakeRow{id: p.UserID}
			}
		}
		return fakeRow{err: pgx.ErrNoRows}
	case strings.HasPrefix(sql, "INSERT INTO patients"):
		t.nextID++
		t.patients = append(t.patients, Patient{
			UserID: t.nextID,
			Name:   args[0].(string),
			Age:    args[1].(int),
			Gender: args[2].(string),
		})
		return fakeRow{id: t.nextID}
	}
	return fakeRow{err: errors.New("unexpected query: " + sql)}
}

func (t *fakeTx) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	return &fakeBatch{tx: t, queued: b.QueuedQueries}
}

func (t *fakeTx) Commit(context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.closed = true
	t.s.commits++
	t.s.patients = t.patients
	t.s.inputs = t.inputs
	t.s.nextID = t.nextID
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.closed = true
	t.s.rollbacks++
	return nil
}

type fakeBatch struct {
	pgx.BatchResults
	tx     *fakeTx
	queued []*pgx.QueuedQuery
	pos    int
}

func (b *fakeBatch) Exec() (pgconn.CommandTag, error) {
	q := b.queued[b.pos]
	b.pos++
	userID, symptomID := q.Arguments[0].(int64), q.Arguments[1].(int64)
	if symptomID == b.tx.s.failSymptomID {
		return pgconn.CommandTag{}, &pgconn.PgError{
			Code:    "23503",
			Message: `insert or update on table "user_symptom_inputs" violates foreign key constraint`,
		}
	}
	b.tx.inputs = append(b.tx.inputs, [2]int64{userID, symptomID})
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (b *fakeBatch) Close() error { return nil }

type fakeRow struct {
	id  int64
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*int64) = r.id
	return nil
}

type fakeRows struct {
	pgx.Rows
	items []Symptom
	pos   int
}

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos < len(r.items)
}

func (r *fakeRows) Scan(dest ...any) error {
	*dest[0].(*int64) = r.items[r.pos].ID
	*dest[1].(*string) = r.items[r.pos].Name
	return nil
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }

func (s *fakeStore) patientCount() int { return len(s.patients) }

func (s *fakeStore) inputsFor(userID int64) []int64 {
	var ids []int64
	for _, in := range s.inputs {
		if in[0] == userID {
			ids = append(ids, in[1])
		}
	}
	return ids
}
