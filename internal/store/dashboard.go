package store

import (
	"context"
	"time"

	"pharmacy/m/domain"
)

// Dashboard gathers the landing-page counters as of now.
func (s *Store) Dashboard(ctx context.Context, now time.Time) (domain.Dashboard, error) {
	var d domain.Dashboard
	now = now.UTC()

	if err := s.db.GetContext(ctx, &d.TotalMedications, `SELECT COUNT(*) FROM medications`); err != nil {
		return d, mapError("count medications", err)
	}
	if err := s.db.GetContext(ctx, &d.TotalPatients, `SELECT COUNT(*) FROM patients`); err != nil {
		return d, mapError("count patients", err)
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	var err error
	if d.DispensationsToday, err = s.CountDispensationsSince(ctx, startOfDay); err != nil {
		return d, err
	}
	if d.DispensationsMonth, err = s.CountDispensationsSince(ctx, startOfMonth); err != nil {
		return d, err
	}

	var levels []struct {
		Current int64 `db:"current_qty"`
		Minimum int64 `db:"minimum_qty"`
	}
	if err := s.db.SelectContext(ctx, &levels, `SELECT current_qty, minimum_qty FROM stock_lots`); err != nil {
		return d, mapError("load stock levels", err)
	}
	for _, l := range levels {
		switch domain.ClassifyStock(l.Current, l.Minimum) {
		case domain.StockOut:
			d.OutOfStock++
		case domain.StockLow:
			d.LowStock++
		}
	}

	if d.RecentDispensations, err = s.ListDispensations(ctx, nil, nil, 5); err != nil {
		return d, err
	}
	return d, nil
}
