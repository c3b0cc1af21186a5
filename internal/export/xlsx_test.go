package export

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/rentaltax/internal/jurisdiction"
	"github.com/stwalsh4118/rentaltax/internal/models"
	"github.com/xuri/excelize/v2"
)

func sampleReturn() *models.TaxReturn {
	mapper := jurisdiction.NewNZIRD()
	section := mapper.Map("2025/2026", []models.RentalSummary{
		{
			PropertyID:         "p1",
			PropertyType:       models.ClassificationResidential,
			GrossIncome:        decimal.RequireFromString("12000"),
			TotalIncome:        decimal.RequireFromString("12000"),
			DeductibleExpenses: decimal.RequireFromString("4500.25"),
			NetIncome:          decimal.RequireFromString("7499.75"),
		},
	}, models.RentalInputs{InterestReasonSelection: "Rental"})

	return &models.TaxReturn{
		ID:           "tr-1",
		TaxYear:      "2025/2026",
		Jurisdiction: models.JurisdictionNZIRD,
		Status:       models.TaxReturnDraft,
		Sections:     map[string]*models.RentalSection{models.RentalSectionKey: section},
		Validation: models.Validation{
			Blocking: []string{},
			Warnings: []string{"Deductions claimed with zero residential income."},
		},
	}
}

func TestWorkbook_Sheets(t *testing.T) {
	f, err := Workbook(sampleReturn())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetReturn, SheetSchedule, SheetValidation}, f.GetSheetList())

	year, err := f.GetCellValue(SheetReturn, "B2")
	require.NoError(t, err)
	assert.Equal(t, "2025/2026", year)

	// Fields start below the header block in form order.
	key, err := f.GetCellValue(SheetReturn, "A7")
	require.NoError(t, err)
	assert.Equal(t, jurisdiction.FieldQ22A, key)
	value, err := f.GetCellValue(SheetReturn, "B7")
	require.NoError(t, err)
	assert.Equal(t, "12000", value)

	reason, err := f.GetCellValue(SheetReturn, "B17")
	require.NoError(t, err)
	assert.Equal(t, jurisdiction.FieldQ23C, mustCell(t, f, SheetReturn, "A17"))
	assert.Equal(t, "Rental", reason)

	assert.Equal(t, "Property", mustCell(t, f, SheetSchedule, "A1"))
	assert.Equal(t, jurisdiction.FieldB1, mustCell(t, f, SheetSchedule, "B1"))
	assert.Equal(t, "p1", mustCell(t, f, SheetSchedule, "A2"))
	assert.Equal(t, "7499.75", mustCell(t, f, SheetSchedule, "I2"))

	assert.Equal(t, "warning", mustCell(t, f, SheetValidation, "A2"))
}

func TestWorkbook_MissingSectionWritesHeaders(t *testing.T) {
	f, err := Workbook(&models.TaxReturn{ID: "tr-2", Validation: models.Validation{Blocking: []string{"Rental section is missing from tax return."}}})
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, jurisdiction.FieldQ22A, mustCell(t, f, SheetReturn, "A7"))
	assert.Equal(t, "", mustCell(t, f, SheetReturn, "B7"))
	assert.Equal(t, "", mustCell(t, f, SheetSchedule, "A2"))
	assert.Equal(t, "blocking", mustCell(t, f, SheetValidation, "A2"))
}

func TestWrite_ProducesReadableWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReturn()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "tr-1", mustCell(t, f, SheetReturn, "B1"))
	assert.Equal(t, "tax_return_tr-1.xlsx", FileName(sampleReturn()))
}

func mustCell(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell)
	require.NoError(t, err)
	return v
}
