package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pharmacy/m/domain"
)

const selectStock = `SELECT id, medication_id, current_qty, minimum_qty, lot_number, expiry_date, entry_date, updated_at FROM stock_lots`

const selectStockView = `SELECT s.id, s.medication_id, s.current_qty, s.minimum_qty, s.lot_number, s.expiry_date, s.entry_date, s.updated_at,
                m.code AS medication_code, m.name AS medication_name, m.active_ingredient, m.concentration
                FROM stock_lots s
                JOIN medications m ON m.id = s.medication_id`

func (s *Store) GetStock(ctx context.Context, id string) (domain.StockLot, error) {
	var lot domain.StockLot
	err := s.db.GetContext(ctx, &lot, s.db.Rebind(selectStock+` WHERE id = ?`), id)
	return lot, mapError("get stock", err)
}

// StockByMedication returns the running stock row for a medication.
func (s *Store) StockByMedication(ctx context.Context, medicationID string) (domain.StockLot, error) {
	var lot domain.StockLot
	err := s.db.GetContext(ctx, &lot, s.db.Rebind(selectStock+` WHERE medication_id = ?`), medicationID)
	return lot, mapError("get stock", err)
}

// ListStock returns every stock row with its medication and status, lowest quantity first.
// A non-blank query matches medication name, code or active ingredient.
func (s *Store) ListStock(ctx context.Context, query string) ([]domain.StockView, error) {
	sqlQuery := selectStockView
	var args []any
	if strings.TrimSpace(query) != "" {
		like := likePattern(query)
		sqlQuery += ` WHERE LOWER(m.name) LIKE ? OR LOWER(m.code) LIKE ? OR LOWER(m.active_ingredient) LIKE ?`
		args = append(args, like, like, like)
	}
	sqlQuery += ` ORDER BY s.current_qty ASC, m.name`
	return s.selectStockViews(ctx, "list stock", sqlQuery, args...)
}

// ExpiringStock returns rows with quantity on hand whose expiry date is on or before until.
func (s *Store) ExpiringStock(ctx context.Context, until time.Time) ([]domain.StockView, error) {
	return s.selectStockViews(ctx, "list expiring stock",
		selectStockView+` WHERE s.current_qty > 0 AND s.expiry_date <= ? ORDER BY s.expiry_date ASC`, until)
}

func (s *Store) selectStockViews(ctx context.Context, op, query string, args ...any) ([]domain.StockView, error) {
	views := []domain.StockView{}
	if err := s.db.SelectContext(ctx, &views, s.db.Rebind(query), args...); err != nil {
		return nil, mapError(op, err)
	}
	for i := range views {
		views[i].Status = views[i].StockLot.Status()
	}
	return views, nil
}

// AddStock merges entry into the medication's stock row, or creates the row with
// defaultMinimum when none exists. Existing rows only have their quantity and
// modification time changed. It reports whether a row was created.
func (s *Store) AddStock(ctx context.Context, entry domain.StockEntry, defaultMinimum int64, now time.Time) (domain.StockLot, bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.StockLot{}, false, fmt.Errorf("begin stock entry: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE stock_lots SET current_qty = current_qty + ?, updated_at = ? WHERE medication_id = ?`),
		entry.Quantity, now, entry.MedicationID)
	if err != nil {
		return domain.StockLot{}, false, mapError("increase stock", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.StockLot{}, false, mapError("increase stock", err)
	}

	created := n == 0
	if created {
		lot := domain.StockLot{
			ID:           uuid.NewString(),
			MedicationID: entry.MedicationID,
			CurrentQty:   entry.Quantity,
			MinimumQty:   defaultMinimum,
			LotNumber:    entry.LotNumber,
			ExpiryDate:   entry.ExpiryDate,
			EntryDate:    time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
			UpdatedAt:    now,
		}
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO stock_lots (id, medication_id, current_qty, minimum_qty, lot_number, expiry_date, entry_date, updated_at)
                VALUES (:id, :medication_id, :current_qty, :minimum_qty, :lot_number, :expiry_date, :entry_date, :updated_at)`, lot); err != nil {
			return domain.StockLot{}, false, mapError("create stock", err)
		}
	}

	var lot domain.StockLot
	if err := tx.GetContext(ctx, &lot, tx.Rebind(selectStock+` WHERE medication_id = ?`), entry.MedicationID); err != nil {
		return domain.StockLot{}, false, mapError("reload stock", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.StockLot{}, false, fmt.Errorf("commit stock entry: %w", err)
	}
	return lot, created, nil
}

// SetMinimum changes the low-stock threshold of a stock row.
func (s *Store) SetMinimum(ctx context.Context, id string, minimum int64, now time.Time) (domain.StockLot, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`UPDATE stock_lots SET minimum_qty = ?, updated_at = ? WHERE id = ?`), minimum, now, id)
	if err != nil {
		return domain.StockLot{}, mapError("update minimum", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.StockLot{}, fmt.Errorf("update minimum: %w", domain.ErrNotFound)
	}
	return s.GetStock(ctx, id)
}
