// Package dispensing holds the two stock-moving workflows: dispensing medication to a
// patient and recording incoming stock.
package dispensing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pharmacy/m/domain"
	"pharmacy/m/internal/auth"
)

// Repository is the storage the workflows run against.
type Repository interface {
	GetMedication(ctx context.Context, id string) (domain.Medication, error)
	GetPatient(ctx context.Context, id string) (domain.Patient, error)
	PatientByNationalID(ctx context.Context, nationalID string) (domain.Patient, error)
	CreatePatient(ctx context.Context, p *domain.Patient) error
	Dispense(ctx context.Context, d *domain.Dispensation) (domain.StockLot, error)
	AddStock(ctx context.Context, entry domain.StockEntry, defaultMinimum int64, now time.Time) (domain.StockLot, bool, error)
}

type Service struct {
	repo           Repository
	defaultMinimum int64
	now            func() time.Time
}

func NewService(repo Repository, defaultMinimum int64) *Service {
	return &Service{repo: repo, defaultMinimum: defaultMinimum, now: func() time.Time { return time.Now().UTC() }}
}

// NewPatient is the registration payload used when dispensing to someone not yet on file.
type NewPatient struct {
	Name       string     `json:"name"`
	NationalID string     `json:"national_id"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	Phone      string     `json:"phone"`
	Address    string     `json:"address"`
}

type DispenseRequest struct {
	PatientID    string      `json:"patient_id"`
	NewPatient   *NewPatient `json:"new_patient,omitempty"`
	MedicationID string      `json:"medication_id"`
	Quantity     int64       `json:"quantity"`
	Notes        string      `json:"notes"`
}

type DispenseResult struct {
	Dispensation domain.Dispensation `json:"dispensation"`
	Patient      domain.Patient      `json:"patient"`
	Stock        domain.StockLot     `json:"stock"`
	Status       domain.StockStatus  `json:"status"`
}

// RegisterPatient stores a new patient with a formatted national id. A patient already on
// file under the same national id is returned instead of a duplicate.
func (s *Service) RegisterPatient(ctx context.Context, np NewPatient) (domain.Patient, error) {
	name := strings.TrimSpace(np.Name)
	nationalID := domain.FormatNationalID(np.NationalID)
	if name == "" || nationalID == "" {
		return domain.Patient{}, fmt.Errorf("name and national id are required: %w", domain.ErrValidation)
	}

	existing, err := s.repo.PatientByNationalID(ctx, nationalID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Patient{}, err
	}

	p := domain.Patient{
		Name:       name,
		NationalID: nationalID,
		BirthDate:  np.BirthDate,
		Phone:      strings.TrimSpace(np.Phone),
		Address:    strings.TrimSpace(np.Address),
		CreatedAt:  s.now(),
	}
	if err := s.repo.CreatePatient(ctx, &p); err != nil {
		return domain.Patient{}, err
	}
	return p, nil
}

// Dispense hands req.Quantity units of a medication to a patient. The stock check,
// the dispensation record and the decrement happen atomically in the repository; on
// ErrInsufficientStock nothing has been written. The acting user comes from the session
// in ctx.
func (s *Service) Dispense(ctx context.Context, req DispenseRequest) (DispenseResult, error) {
	if req.Quantity <= 0 {
		return DispenseResult{}, domain.ErrInvalidQuantity
	}
	if strings.TrimSpace(req.MedicationID) == "" {
		return DispenseResult{}, fmt.Errorf("medication_id is required: %w", domain.ErrValidation)
	}

	if _, err := s.repo.GetMedication(ctx, req.MedicationID); err != nil {
		return DispenseResult{}, err
	}

	var (
		patient domain.Patient
		err     error
	)
	switch {
	case req.PatientID != "":
		patient, err = s.repo.GetPatient(ctx, req.PatientID)
	case req.NewPatient != nil:
		patient, err = s.RegisterPatient(ctx, *req.NewPatient)
	default:
		err = fmt.Errorf("patient_id or new_patient is required: %w", domain.ErrValidation)
	}
	if err != nil {
		return DispenseResult{}, err
	}

	user := domain.SystemUser
	if session, ok := auth.SessionFrom(ctx); ok {
		user = session.DisplayName()
	}

	d := domain.Dispensation{
		PatientID:      patient.ID,
		MedicationID:   req.MedicationID,
		Quantity:       req.Quantity,
		DispensedAt:    s.now(),
		Notes:          strings.TrimSpace(req.Notes),
		DispensingUser: user,
	}
	lot, err := s.repo.Dispense(ctx, &d)
	if err != nil {
		return DispenseResult{}, err
	}

	return DispenseResult{Dispensation: d, Patient: patient, Stock: lot, Status: lot.Status()}, nil
}

// AddStock validates an incoming delivery and merges it into stock.
func (s *Service) AddStock(ctx context.Context, entry domain.StockEntry) (domain.StockLot, bool, error) {
	if entry.Quantity <= 0 {
		return domain.StockLot{}, false, domain.ErrInvalidQuantity
	}
	entry.LotNumber = strings.TrimSpace(entry.LotNumber)
	if entry.MedicationID == "" || entry.LotNumber == "" || entry.ExpiryDate.IsZero() {
		return domain.StockLot{}, false, fmt.Errorf("medication_id, lot_number and expiry_date are required: %w", domain.ErrValidation)
	}
	if _, err := s.repo.GetMedication(ctx, entry.MedicationID); err != nil {
		return domain.StockLot{}, false, err
	}
	return s.repo.AddStock(ctx, entry, s.defaultMinimum, s.now())
}
