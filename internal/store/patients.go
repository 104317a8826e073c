package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"pharmacy/m/domain"
)

const selectPatient = `SELECT id, name, national_id, birth_date, phone, address, created_at FROM patients`

// CreatePatient inserts p. The national id must already be formatted.
func (s *Store) CreatePatient(ctx context.Context, p *domain.Patient) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO patients (id, name, national_id, birth_date, phone, address, created_at)
                VALUES (:id, :name, :national_id, :birth_date, :phone, :address, :created_at)`, p)
	return mapError("create patient", err)
}

func (s *Store) GetPatient(ctx context.Context, id string) (domain.Patient, error) {
	var p domain.Patient
	err := s.db.GetContext(ctx, &p, s.db.Rebind(selectPatient+` WHERE id = ?`), id)
	return p, mapError("get patient", err)
}

func (s *Store) PatientByNationalID(ctx context.Context, nationalID string) (domain.Patient, error) {
	var p domain.Patient
	err := s.db.GetContext(ctx, &p, s.db.Rebind(selectPatient+` WHERE national_id = ?`), nationalID)
	return p, mapError("get patient", err)
}

// ListPatients returns patients ordered by name; a non-blank query matches the name
// case-insensitively or any part of the national id.
func (s *Store) ListPatients(ctx context.Context, query string) ([]domain.Patient, error) {
	sqlQuery := selectPatient
	var args []any
	if q := strings.TrimSpace(query); q != "" {
		sqlQuery += ` WHERE LOWER(name) LIKE ? OR national_id LIKE ?`
		args = append(args, likePattern(q), "%"+q+"%")
	}
	sqlQuery += ` ORDER BY name`

	patients := []domain.Patient{}
	if err := s.db.SelectContext(ctx, &patients, s.db.Rebind(sqlQuery), args...); err != nil {
		return nil, mapError("list patients", err)
	}
	return patients, nil
}
