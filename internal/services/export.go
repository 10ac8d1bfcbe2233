package services

import (
	"bytes"
	"encoding/csv"
	"time"
)

// ExportResponsesCSV renders a form's responses as CSV: one column for the
// submission instant followed by one column per question (header is the
// question text), one row per response. Unanswered cells are left empty.
func ExportResponsesCSV(f *Form) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := make([]string, 0, 1+len(f.Questions))
	header = append(header, "submitted_at")
	for _, q := range f.Questions {
		header = append(header, q.Text)
	}
	_ = w.Write(header)
	for _, r := range f.Responses {
		row := make([]string, 0, len(header))
		row = append(row, r.SubmittedAt.Format(time.RFC3339))
		for _, q := range f.Questions {
			row = append(row, r.Answers[q.ID])
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
