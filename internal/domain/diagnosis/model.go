package diagnosis

import (
	"strconv"

	"github.com/goccy/go-json"
)

// Result is one row returned by get_diagnosis(user_id). It is computed by the
// database on every call and never stored by this service.
type Result struct {
	DiseaseID       int64
	DiseaseName     string
	MatchPercentage float64
	// RawPrecautions holds precaution1..precaution4 as returned; any of them
	// may be NULL or empty.
	RawPrecautions [4]*string
}

// Precautions returns the non-empty precautions in their original order.
func (r Result) Precautions() []string {
	out := make([]string, 0, len(r.RawPrecautions))
	for _, p := range r.RawPrecautions {
		if p != nil && *p != "" {
			out = append(out, *p)
		}
	}
	return out
}

// MatchLabel renders the match percentage without trailing zeros, e.g. "66.67".
func (r Result) MatchLabel() string {
	return strconv.FormatFloat(r.MatchPercentage, 'f', -1, 64)
}

type resultJSON struct {
	DiseaseID       int64    `json:"disease_id"`
	DiseaseName     string   `json:"disease_name"`
	MatchPercentage float64  `json:"match_percentage"`
	Precautions     []string `json:"precautions"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{
		DiseaseID:       r.DiseaseID,
		DiseaseName:     r.DiseaseName,
		MatchPercentage: r.MatchPercentage,
		Precautions:     r.Precautions(),
	})
}

// Report is the JSON body for a patient's diagnosis lookup.
type Report struct {
	UserID    int64    `json:"user_id"`
	Diagnoses []Result `json:"diagnoses"`
}
