package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacy/m/domain"
)

func sampleRows() []domain.DispensationDetail {
	return []domain.DispensationDetail{
		{PatientName: "Maria Silva", PatientNationalID: "123.456.789-09", MedicationName: "Amoxicillin", MedicationCode: "AMX500"},
		{PatientName: "Pedro Lima", PatientNationalID: "987.654.321-00", MedicationName: "Paracetamol", MedicationCode: "PAR750"},
		{PatientName: "Mariana Costa", PatientNationalID: "111.222.333-44", MedicationName: "Ibuprofen", MedicationCode: "IBU400"},
	}
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("2025-11-01", "2025-11-03", " maria ", "")
	require.NoError(t, err)
	assert.Equal(t, "maria", f.Patient)

	from, until := f.Bounds()
	require.NotNil(t, from)
	require.NotNil(t, until)
	assert.True(t, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC).Equal(*from))
	assert.True(t, time.Date(2025, 11, 4, 0, 0, 0, 0, time.UTC).Equal(*until))

	f, err = ParseFilter("", "", "", "")
	require.NoError(t, err)
	from, until = f.Bounds()
	assert.Nil(t, from)
	assert.Nil(t, until)
}

func TestParseFilter_Invalid(t *testing.T) {
	_, err := ParseFilter("03/11/2025", "", "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = ParseFilter("", "2025-13-01", "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = ParseFilter("2025-11-05", "2025-11-01", "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestApply_PatientIsCaseInsensitive(t *testing.T) {
	got := Filter{Patient: "MARIA"}.Apply(sampleRows())
	require.Len(t, got, 2)
	assert.Equal(t, "Maria Silva", got[0].PatientName)
	assert.Equal(t, "Mariana Costa", got[1].PatientName)
}

func TestApply_PatientByNationalID(t *testing.T) {
	got := Filter{Patient: "987.654"}.Apply(sampleRows())
	require.Len(t, got, 1)
	assert.Equal(t, "Pedro Lima", got[0].PatientName)
}

func TestApply_MedicationByNameOrCode(t *testing.T) {
	assert.Len(t, Filter{Medication: "amox"}.Apply(sampleRows()), 1)
	assert.Len(t, Filter{Medication: "par750"}.Apply(sampleRows()), 1)
	assert.Empty(t, Filter{Medication: "insulin"}.Apply(sampleRows()))
}

func TestApply_Combined(t *testing.T) {
	got := Filter{Patient: "mari", Medication: "ibu"}.Apply(sampleRows())
	require.Len(t, got, 1)
	assert.Equal(t, "Mariana Costa", got[0].PatientName)
}

func TestApply_NoFiltersReturnsAll(t *testing.T) {
	assert.Len(t, Filter{}.Apply(sampleRows()), 3)
}
