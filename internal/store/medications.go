package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"pharmacy/m/domain"
)

const selectMedication = `SELECT id, code, name, active_ingredient, concentration, dosage_form, presentation, created_at FROM medications`

func (s *Store) CreateMedication(ctx context.Context, m *domain.Medication) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO medications (id, code, name, active_ingredient, concentration, dosage_form, presentation, created_at)
                VALUES (:id, :code, :name, :active_ingredient, :concentration, :dosage_form, :presentation, :created_at)`, m)
	return mapError("create medication", err)
}

// CreateMedicationIfAbsent inserts m unless its code is already catalogued. It reports
// whether a row was written.
func (s *Store) CreateMedicationIfAbsent(ctx context.Context, m *domain.Medication) (bool, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.NamedExecContext(ctx, `INSERT INTO medications (id, code, name, active_ingredient, concentration, dosage_form, presentation, created_at)
                VALUES (:id, :code, :name, :active_ingredient, :concentration, :dosage_form, :presentation, :created_at)
                ON CONFLICT (code) DO NOTHING`, m)
	if err != nil {
		return false, mapError("seed medication", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *Store) GetMedication(ctx context.Context, id string) (domain.Medication, error) {
	var m domain.Medication
	err := s.db.GetContext(ctx, &m, s.db.Rebind(selectMedication+` WHERE id = ?`), id)
	return m, mapError("get medication", err)
}

// UpdateMedication overwrites the descriptive fields of an existing medication.
func (s *Store) UpdateMedication(ctx context.Context, m domain.Medication) error {
	res, err := s.db.NamedExecContext(ctx, `UPDATE medications SET code = :code, name = :name, active_ingredient = :active_ingredient,
                concentration = :concentration, dosage_form = :dosage_form, presentation = :presentation WHERE id = :id`, m)
	if err != nil {
		return mapError("update medication", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return mapError("update medication", sql.ErrNoRows)
	}
	return nil
}

// ListMedications returns the catalog ordered by name, narrowed to rows whose name, code or
// active ingredient contains query when it is not blank.
func (s *Store) ListMedications(ctx context.Context, query string) ([]domain.Medication, error) {
	sqlQuery := selectMedication
	var args []any
	if strings.TrimSpace(query) != "" {
		like := likePattern(query)
		sqlQuery += ` WHERE LOWER(name) LIKE ? OR LOWER(code) LIKE ? OR LOWER(active_ingredient) LIKE ?`
		args = append(args, like, like, like)
	}
	sqlQuery += ` ORDER BY name`

	medications := []domain.Medication{}
	if err := s.db.SelectContext(ctx, &medications, s.db.Rebind(sqlQuery), args...); err != nil {
		return nil, mapError("list medications", err)
	}
	return medications, nil
}
