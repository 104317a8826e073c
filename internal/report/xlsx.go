package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"pharmacy/m/domain"
)

const (
	// SheetName is the single worksheet of the export.
	SheetName = "Dispensations"
	// ContentType is the media type of the rendered workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	headerColor = "4F81BD"
)

var columns = []struct {
	title string
	width float64
}{
	{"Dispensed At", 20},
	{"Patient", 25},
	{"National ID", 15},
	{"Medication", 25},
	{"Code", 10},
	{"Active Ingredient", 25},
	{"Concentration", 15},
	{"Quantity", 10},
	{"Dispensed By", 20},
	{"Notes", 30},
}

// FileName is the attachment name for an export produced at now.
func FileName(now time.Time) string {
	return fmt.Sprintf("dispensations_%s.xlsx", now.Format(dateLayout))
}

func borders(color string) []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: color, Style: 1},
		{Type: "top", Color: color, Style: 1},
		{Type: "right", Color: color, Style: 1},
		{Type: "bottom", Color: color, Style: 1},
	}
}

// WriteXLSX renders rows as a workbook: a merged title row, a styled header row and one
// row per dispensation in a fixed column layout.
func WriteXLSX(w io.Writer, rows []domain.DispensationDetail, title string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerColor}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerColor}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    borders("999999"),
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true},
		Border:    borders("CCCCCC"),
	})
	if err != nil {
		return fmt.Errorf("body style: %w", err)
	}

	if err := f.MergeCell(SheetName, "A1", lastCol+"1"); err != nil {
		return fmt.Errorf("merge title: %w", err)
	}
	if err := f.SetCellValue(SheetName, "A1", title); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", titleStyle); err != nil {
		return err
	}
	if err := f.SetRowHeight(SheetName, 1, 30); err != nil {
		return err
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c.title
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, name, name, c.width); err != nil {
			return err
		}
	}
	if err := f.SetSheetRow(SheetName, "A2", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A2", lastCol+"2", headerStyle); err != nil {
		return err
	}

	for i, r := range rows {
		row := i + 3
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.DispensedAt.Format("02/01/2006 15:04:05"),
			r.PatientName,
			r.PatientNationalID,
			r.MedicationName,
			r.MedicationCode,
			r.ActiveIngredient,
			r.Concentration,
			r.Quantity,
			r.DispensingUser,
			r.Notes,
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		if err := f.SetCellStyle(SheetName, cell, fmt.Sprintf("%s%d", lastCol, row), bodyStyle); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
