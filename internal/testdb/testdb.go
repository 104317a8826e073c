// Package testdb opens a migrated in-memory database for tests.
package testdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pharmacy/m/domain"
	"pharmacy/m/internal/database"
	"pharmacy/m/internal/migrations"
	"pharmacy/m/internal/store"
)

// Open returns a store over a fresh migrated SQLite memory database closed at test end.
func Open(t testing.TB) *store.Store {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db))
	return store.New(db)
}

// Medication inserts a catalog entry with the given code and name.
func Medication(t testing.TB, s *store.Store, code, name string) domain.Medication {
	t.Helper()
	m := domain.Medication{Code: code, Name: name, ActiveIngredient: name + " base", Concentration: "500mg", DosageForm: "tablet", Presentation: "box of 20"}
	require.NoError(t, s.CreateMedication(context.Background(), &m))
	return m
}

// Patient inserts a patient with the given name and national id.
func Patient(t testing.TB, s *store.Store, name, nationalID string) domain.Patient {
	t.Helper()
	p := domain.Patient{Name: name, NationalID: domain.FormatNationalID(nationalID)}
	require.NoError(t, s.CreatePatient(context.Background(), &p))
	return p
}

// Stock creates the stock row for m with the given quantity and minimum.
func Stock(t testing.TB, s *store.Store, m domain.Medication, qty, minimum int64) domain.StockLot {
	t.Helper()
	lot, created, err := s.AddStock(context.Background(), domain.StockEntry{
		MedicationID: m.ID,
		Quantity:     qty,
		LotNumber:    "L-" + m.Code,
		ExpiryDate:   time.Date(2030, 1, 31, 0, 0, 0, 0, time.UTC),
	}, minimum, time.Now().UTC())
	require.NoError(t, err)
	require.True(t, created)
	return lot
}
