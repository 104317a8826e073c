// Package report filters dispensation history and renders it as a spreadsheet.
package report

import (
	"fmt"
	"strings"
	"time"

	"pharmacy/m/domain"
)

const dateLayout = "2006-01-02"

// Filter narrows the dispensation report. Start and End are calendar days; End covers the
// whole of its day.
type Filter struct {
	Start      *time.Time
	End        *time.Time
	Patient    string
	Medication string
}

// ParseFilter builds a filter from YYYY-MM-DD strings; blanks mean unbounded.
func ParseFilter(start, end, patient, medication string) (Filter, error) {
	f := Filter{Patient: strings.TrimSpace(patient), Medication: strings.TrimSpace(medication)}
	var err error
	if f.Start, err = parseDay(start); err != nil {
		return Filter{}, fmt.Errorf("start date must be in YYYY-MM-DD format: %w", domain.ErrValidation)
	}
	if f.End, err = parseDay(end); err != nil {
		return Filter{}, fmt.Errorf("end date must be in YYYY-MM-DD format: %w", domain.ErrValidation)
	}
	if f.Start != nil && f.End != nil && f.End.Before(*f.Start) {
		return Filter{}, fmt.Errorf("end date is before start date: %w", domain.ErrValidation)
	}
	return f, nil
}

func parseDay(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Bounds returns the half-open query interval [from, until): until is midnight after End,
// so every timestamp on the end day is included.
func (f Filter) Bounds() (from, until *time.Time) {
	if f.Start != nil {
		s := *f.Start
		from = &s
	}
	if f.End != nil {
		e := f.End.AddDate(0, 0, 1)
		until = &e
	}
	return from, until
}

// Apply keeps rows matching the text filters. The patient term matches the name
// case-insensitively or the national id as typed; the medication term matches name or
// code case-insensitively.
func (f Filter) Apply(rows []domain.DispensationDetail) []domain.DispensationDetail {
	if f.Patient == "" && f.Medication == "" {
		return rows
	}
	patient := strings.ToLower(f.Patient)
	medication := strings.ToLower(f.Medication)

	out := make([]domain.DispensationDetail, 0, len(rows))
	for _, r := range rows {
		if patient != "" &&
			!strings.Contains(strings.ToLower(r.PatientName), patient) &&
			!strings.Contains(r.PatientNationalID, f.Patient) {
			continue
		}
		if medication != "" &&
			!strings.Contains(strings.ToLower(r.MedicationName), medication) &&
			!strings.Contains(strings.ToLower(r.MedicationCode), medication) {
			continue
		}
		out = append(out, r)
	}
	return out
}
