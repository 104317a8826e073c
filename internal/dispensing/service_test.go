package dispensing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacy/m/domain"
	"pharmacy/m/internal/auth"
	"pharmacy/m/internal/dispensing"
	"pharmacy/m/internal/testdb"
)

func TestDispense_Scenario(t *testing.T) {
	s := testdb.Open(t)
	svc := dispensing.NewService(s, 10)
	ctx := auth.WithSession(context.Background(), auth.Session{UserID: "u1", FullName: "Ana Costa"})

	med := testdb.Medication(t, s, "AMX500", "Amoxicillin")
	patient := testdb.Patient(t, s, "Maria Silva", "12345678909")
	testdb.Stock(t, s, med, 5, 10)

	res, err := svc.Dispense(ctx, dispensing.DispenseRequest{PatientID: patient.ID, MedicationID: med.ID, Quantity: 3, Notes: " after meals "})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Stock.CurrentQty)
	assert.Equal(t, domain.StockLow, res.Status)
	assert.Equal(t, "Ana Costa", res.Dispensation.DispensingUser)
	assert.Equal(t, "after meals", res.Dispensation.Notes)

	_, err = svc.Dispense(ctx, dispensing.DispenseRequest{PatientID: patient.ID, MedicationID: med.ID, Quantity: 3})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	lot, err := s.StockByMedication(ctx, med.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), lot.CurrentQty)

	rows, err := s.ListDispensations(ctx, nil, nil, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, patient.ID, rows[0].PatientID)
	assert.Equal(t, med.ID, rows[0].MedicationID)
	assert.Equal(t, int64(3), rows[0].Quantity)
}

func TestDispense_WithoutSessionRecordsSystem(t *testing.T) {
	s := testdb.Open(t)
	svc := dispensing.NewService(s, 10)
	med := testdb.Medication(t, s, "AMX500", "Amoxicillin")
	patient := testdb.Patient(t, s, "Maria Silva", "12345678909")
	testdb.Stock(t, s, med, 5, 10)

	res, err := svc.Dispense(context.Background(), dispensing.DispenseRequest{PatientID: patient.ID, MedicationID: med.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.SystemUser, res.Dispensation.DispensingUser)
}

func TestDispense_RegistersNewPatient(t *testing.T) {
	s := testdb.Open(t)
	svc := dispensing.NewService(s, 10)
	ctx := context.Background()
	med := testdb.Medication(t, s, "AMX500", "Amoxicillin")
	testdb.Stock(t, s, med, 5, 10)

	res, err := svc.Dispense(ctx, dispensing.DispenseRequest{
		NewPatient:   &dispensing.NewPatient{Name: "José Alves", NationalID: "98765432100"},
		MedicationID: med.ID,
		Quantity:     1,
	})
	require.NoError(t, err)
	assert.Equal(t, "987.654.321-00", res.Patient.NationalID)

	again, err := svc.Dispense(ctx, dispensing.DispenseRequest{
		NewPatient:   &dispensing.NewPatient{Name: "José Alves", NationalID: "987.654.321-00"},
		MedicationID: med.ID,
		Quantity:     1,
	})
	require.NoError(t, err)
	assert.Equal(t, res.Patient.ID, again.Patient.ID)

	patients, err := s.ListPatients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, patients, 1)
}

func TestDispense_Validation(t *testing.T) {
	s := testdb.Open(t)
	svc := dispensing.NewService(s, 10)
	ctx := context.Background()
	med := testdb.Medication(t, s, "AMX500", "Amoxicillin")
	patient := testdb.Patient(t, s, "Maria Silva", "12345678909")
	testdb.Stock(t, s, med, 5, 10)

	_, err := svc.Dispense(ctx, dispensing.DispenseRequest{PatientID: patient.ID, MedicationID: med.ID, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = svc.Dispense(ctx, dispensing.DispenseRequest{PatientID: patient.ID, MedicationID: med.ID, Quantity: -2})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = svc.Dispense(ctx, dispensing.DispenseRequest{MedicationID: med.ID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Dispense(ctx, dispensing.DispenseRequest{PatientID: "missing", MedicationID: med.ID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Dispense(ctx, dispensing.DispenseRequest{PatientID: patient.ID, MedicationID: "missing", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	lot, err := s.StockByMedication(ctx, med.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), lot.CurrentQty)
}

func TestRegisterPatient_RequiresNameAndNationalID(t *testing.T) {
	svc := dispensing.NewService(testdb.Open(t), 10)
	_, err := svc.RegisterPatient(context.Background(), dispensing.NewPatient{Name: "No ID"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAddStock(t *testing.T) {
	s := testdb.Open(t)
	svc := dispensing.NewService(s, 15)
	ctx := context.Background()
	med := testdb.Medication(t, s, "AMX500", "Amoxicillin")
	expiry := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	lot, created, err := svc.AddStock(ctx, domain.StockEntry{MedicationID: med.ID, Quantity: 30, LotNumber: "L1", ExpiryDate: expiry})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(15), lot.MinimumQty)

	lot, created, err = svc.AddStock(ctx, domain.StockEntry{MedicationID: med.ID, Quantity: 20, LotNumber: "L2", ExpiryDate: expiry})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(50), lot.CurrentQty)
	assert.Equal(t, "L1", lot.LotNumber)

	_, _, err = svc.AddStock(ctx, domain.StockEntry{MedicationID: med.ID, Quantity: 0, LotNumber: "L3", ExpiryDate: expiry})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, _, err = svc.AddStock(ctx, domain.StockEntry{MedicationID: med.ID, Quantity: 1, ExpiryDate: expiry})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = svc.AddStock(ctx, domain.StockEntry{MedicationID: "missing", Quantity: 1, LotNumber: "L", ExpiryDate: expiry})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
