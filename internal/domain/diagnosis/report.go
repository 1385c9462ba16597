package diagnosis

import (
	"fmt"
	"io"
)

// NoDiagnosisMessage is shown when get_diagnosis returns no rows.
const NoDiagnosisMessage = "No diagnosis found for this User ID."

// WriteReport renders results as plain text: one block per disease with its
// precautions as a bullet list.
func WriteReport(w io.Writer, results []Result) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, NoDiagnosisMessage)
		return err
	}
	for i, r := range results {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "Disease: %s (%s%%)\nPrecautions:\n", r.DiseaseName, r.MatchLabel()); err != nil {
			return err
		}
		for _, p := range r.Precautions() {
			if _, err := fmt.Fprintf(w, "- %s\n", p); err != nil {
				return err
			}
		}
	}
	return nil
}
