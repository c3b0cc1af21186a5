// Package export renders tax returns as spreadsheet workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/stwalsh4118/rentaltax/internal/jurisdiction"
	"github.com/stwalsh4118/rentaltax/internal/models"
	"github.com/xuri/excelize/v2"
)

// Sheet names
const (
	SheetReturn     = "IR3"
	SheetSchedule   = "IR3R"
	SheetValidation = "Validation"
)

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FileName is the suggested download name for a return's workbook.
func FileName(tr *models.TaxReturn) string {
	return fmt.Sprintf("tax_return_%s.xlsx", tr.ID)
}

// Workbook builds the IR3 return, IR3R schedule and validation sheets.
// A return without a rental section yields header-only return sheets.
func Workbook(tr *models.TaxReturn) (*excelize.File, error) {
	f := excelize.NewFile()

	// The default sheet becomes the return sheet.
	if err := f.SetSheetName(f.GetSheetName(0), SheetReturn); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetSchedule); err != nil {
		return nil, fmt.Errorf("failed to create schedule sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetValidation); err != nil {
		return nil, fmt.Errorf("failed to create validation sheet: %w", err)
	}

	section := tr.RentalSection()
	var fields models.Fields
	var schedule []models.ScheduleEntry
	if section != nil {
		fields = section.Fields
		schedule = section.Schedule
	}

	if err := writeReturn(f, tr, fields); err != nil {
		return nil, err
	}
	if err := writeSchedule(f, schedule); err != nil {
		return nil, err
	}
	if err := writeValidation(f, tr.Validation); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Write streams the workbook for tr to w.
func Write(w io.Writer, tr *models.TaxReturn) error {
	f, err := Workbook(tr)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeReturn(f *excelize.File, tr *models.TaxReturn, fields models.Fields) error {
	rows := [][]interface{}{
		{"Tax return", tr.ID},
		{"Tax year", tr.TaxYear},
		{"Jurisdiction", string(tr.Jurisdiction)},
		{"Status", string(tr.Status)},
		{},
		{"Field", "Value"},
	}
	for _, key := range jurisdiction.IR3Fields {
		value, ok := fields[key]
		if !ok {
			rows = append(rows, []interface{}{key, ""})
			continue
		}
		rows = append(rows, []interface{}{key, cellValue(value)})
	}

	if err := writeRows(f, SheetReturn, rows); err != nil {
		return err
	}
	return f.SetColWidth(SheetReturn, "A", "B", 18)
}

func writeSchedule(f *excelize.File, schedule []models.ScheduleEntry) error {
	header := make([]interface{}, 0, len(jurisdiction.ScheduleFields)+1)
	header = append(header, "Property")
	for _, key := range jurisdiction.ScheduleFields {
		header = append(header, key)
	}

	rows := [][]interface{}{header}
	for _, entry := range schedule {
		row := make([]interface{}, 0, len(header))
		row = append(row, entry.PropertyID)
		for _, key := range jurisdiction.ScheduleFields {
			row = append(row, cellValue(entry.Fields[key]))
		}
		rows = append(rows, row)
	}

	if err := writeRows(f, SheetSchedule, rows); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetSchedule, "A", "A", 38); err != nil {
		return err
	}
	return f.SetColWidth(SheetSchedule, "B", "I", 12)
}

func writeValidation(f *excelize.File, v models.Validation) error {
	rows := [][]interface{}{{"Level", "Message"}}
	for _, msg := range v.Blocking {
		rows = append(rows, []interface{}{string(models.LevelBlocking), msg})
	}
	for _, msg := range v.Warnings {
		rows = append(rows, []interface{}{string(models.LevelWarning), msg})
	}

	if err := writeRows(f, SheetValidation, rows); err != nil {
		return err
	}
	return f.SetColWidth(SheetValidation, "B", "B", 60)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// cellValue writes amounts as numbers so the sheet can total them.
func cellValue(v models.FieldValue) interface{} {
	if v.IsAmount() {
		return v.AmountOrZero().InexactFloat64()
	}
	return v.String()
}
