package intake

const (
	// MaxAge is the oldest age the intake form accepts. Keep in step with the
	// lte tag on Patient.Age.
	MaxAge = 120
	// MaxNameLength matches the max tag on Patient.Name.
	MaxNameLength = 200
)

// Genders lists the accepted gender values in display order.
var Genders = []string{"Male", "Female", "Other"}

// Patient maps to the patients table. Name is the lookup key: a second
// submission under the same name reuses the existing row.
type Patient struct {
	UserID int64  `db:"user_id" json:"user_id"`
	Name   string `db:"name" json:"name" validate:"required,max=200"`
	Age    int    `db:"age" json:"age" validate:"gte=0,lte=120"`
	Gender string `db:"gender" json:"gender" validate:"oneof=Male Female Other"`
}

// Symptom maps to the read-only symptoms reference table.
type Symptom struct {
	ID   int64  `db:"symptom_id" json:"symptom_id"`
	Name string `db:"symptom_name" json:"symptom_name"`
}

// Submission is one filled-in intake form. Symptoms may be given by id, by
// catalog name, or both.
type Submission struct {
	Name       string   `json:"name"`
	Age        int      `json:"age"`
	Gender     string   `json:"gender"`
	SymptomIDs []int64  `json:"symptom_ids,omitempty"`
	Symptoms   []string `json:"symptoms,omitempty"`
}

// Receipt is returned once a submission has been committed.
type Receipt struct {
	UserID       int64 `json:"user_id"`
	SymptomCount int   `json:"symptom_count"`
}
