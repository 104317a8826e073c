package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pharmacy/m/domain"
)

// Dispense records d and takes d.Quantity off the medication's stock in one transaction.
// The decrement is conditional on enough stock being on hand, so concurrent dispensations
// cannot overdraw the row; when it matches nothing, ErrInsufficientStock is returned and
// nothing is written. A failure writing the dispensation rolls the decrement back.
func (s *Store) Dispense(ctx context.Context, d *domain.Dispensation) (domain.StockLot, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.DispensedAt.IsZero() {
		d.DispensedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.StockLot{}, fmt.Errorf("begin dispensation: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE stock_lots SET current_qty = current_qty - ?, updated_at = ?
                WHERE medication_id = ? AND current_qty >= ?`),
		d.Quantity, d.DispensedAt, d.MedicationID, d.Quantity)
	if err != nil {
		return domain.StockLot{}, mapError("decrement stock", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.StockLot{}, mapError("decrement stock", err)
	}
	if n == 0 {
		return domain.StockLot{}, domain.ErrInsufficientStock
	}

	if _, err := tx.NamedExecContext(ctx, `INSERT INTO dispensations (id, patient_id, medication_id, quantity, dispensed_at, notes, dispensing_user)
                VALUES (:id, :patient_id, :medication_id, :quantity, :dispensed_at, :notes, :dispensing_user)`, d); err != nil {
		return domain.StockLot{}, mapError("create dispensation", err)
	}

	var lot domain.StockLot
	if err := tx.GetContext(ctx, &lot, tx.Rebind(selectStock+` WHERE medication_id = ?`), d.MedicationID); err != nil {
		return domain.StockLot{}, mapError("reload stock", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.StockLot{}, fmt.Errorf("commit dispensation: %w", err)
	}
	return lot, nil
}

const selectDispensationDetail = `SELECT d.id, d.patient_id, d.medication_id, d.quantity, d.dispensed_at, d.notes, d.dispensing_user,
                p.name AS patient_name, p.national_id AS patient_national_id,
                m.name AS medication_name, m.code AS medication_code, m.active_ingredient, m.concentration
                FROM dispensations d
                JOIN patients p ON p.id = d.patient_id
                JOIN medications m ON m.id = d.medication_id`

// ListDispensations returns dispensations newest first, joined with patient and medication.
// from is inclusive and until exclusive; either may be nil. limit <= 0 means no limit.
func (s *Store) ListDispensations(ctx context.Context, from, until *time.Time, limit int) ([]domain.DispensationDetail, error) {
	query := selectDispensationDetail
	var (
		args    []any
		clauses []string
	)
	if from != nil {
		args = append(args, from.UTC())
		clauses = append(clauses, "d.dispensed_at >= ?")
	}
	if until != nil {
		args = append(args, until.UTC())
		clauses = append(clauses, "d.dispensed_at < ?")
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY d.dispensed_at DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows := []domain.DispensationDetail{}
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, mapError("list dispensations", err)
	}
	return rows, nil
}

// CountDispensationsSince counts dispensations at or after since.
func (s *Store) CountDispensationsSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := s.db.GetContext(ctx, &n, s.db.Rebind(`SELECT COUNT(*) FROM dispensations WHERE dispensed_at >= ?`), since.UTC())
	return n, mapError("count dispensations", err)
}
