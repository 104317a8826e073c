package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	rows := sampleRows()
	rows[0].DispensedAt = time.Date(2025, 11, 3, 9, 15, 0, 0, time.UTC)
	rows[0].Quantity = 3
	rows[0].DispensingUser = "Ana Costa"
	rows[0].Notes = "after meals"

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, rows, "Medication Dispensing Report"))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(SheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Medication Dispensing Report", title)

	merged, err := f.GetMergeCells(SheetName)
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "A1", merged[0].GetStartAxis())
	assert.Equal(t, "J1", merged[0].GetEndAxis())

	all, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, all, 2+len(rows))
	assert.Equal(t, "Dispensed At", all[1][0])
	assert.Equal(t, "Notes", all[1][9])
	assert.Equal(t, []string{
		"03/11/2025 09:15:00", "Maria Silva", "123.456.789-09", "Amoxicillin", "AMX500",
		"", "", "3", "Ana Costa", "after meals",
	}, all[2])

	width, err := f.GetColWidth(SheetName, "J")
	require.NoError(t, err)
	assert.Equal(t, float64(30), width)
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, nil, "Empty"))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	all, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "dispensations_2025-11-03.xlsx", FileName(time.Date(2025, 11, 3, 23, 0, 0, 0, time.UTC)))
}
