package jurisdiction

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/rentaltax/internal/models"
)

// IR3 return fields
const (
	FieldQ22A = "IR3.Q22.A"
	FieldQ22C = "IR3.Q22.C"
	FieldQ22D = "IR3.Q22.D"
	FieldQ22E = "IR3.Q22.E"
	FieldQ22F = "IR3.Q22.F"
	FieldQ22G = "IR3.Q22.G"
	FieldQ22H = "IR3.Q22.H"
	FieldQ22I = "IR3.Q22.I"
	FieldQ23A = "IR3.Q23.A"
	FieldQ23B = "IR3.Q23.B"
	FieldQ23C = "IR3.Q23.C"
	FieldQ24  = "IR3.Q24"
)

// IR3R schedule fields
const (
	FieldB1  = "IR3R.B1"
	FieldB2  = "IR3R.B2"
	FieldB4  = "IR3R.B4"
	FieldB7A = "IR3R.B7A"
	FieldB7B = "IR3R.B7B"
	FieldB7C = "IR3R.B7C"
	FieldB14 = "IR3R.B14"
	FieldB15 = "IR3R.B15"
)

// IR3Fields and ScheduleFields list the keys in form order.
var (
	IR3Fields = []string{
		FieldQ22A, FieldQ22C, FieldQ22D, FieldQ22E, FieldQ22F, FieldQ22G,
		FieldQ22H, FieldQ22I, FieldQ23A, FieldQ23B, FieldQ23C, FieldQ24,
	}
	ScheduleFields = []string{
		FieldB1, FieldB2, FieldB4, FieldB7A, FieldB7B, FieldB7C, FieldB14, FieldB15,
	}
)

// requiredIR3Fields must be present for a return to be lockable.
var requiredIR3Fields = []string{FieldQ22A, FieldQ22D, FieldQ22E, FieldQ22G, FieldQ22H, FieldQ22I}

// interestTolerance is the allowed difference between Q23 totals and the schedule.
var interestTolerance = decimal.RequireFromString("0.01")

// NZIRD maps into the New Zealand IR3 return and IR3R schedule.
type NZIRD struct{}

// NewNZIRD creates the NZ-IRD mapper.
func NewNZIRD() *NZIRD {
	return &NZIRD{}
}

// Jurisdiction implements Mapper.
func (*NZIRD) Jurisdiction() models.Jurisdiction {
	return models.JurisdictionNZIRD
}

// Map implements Mapper. Residential and MixedUse properties feed Q22/Q23;
// Commercial properties feed Q24. Every summary gets a schedule entry.
func (*NZIRD) Map(_ string, summaries []models.RentalSummary, inputs models.RentalInputs) *models.RentalSection {
	var (
		totalIncome      = decimal.Zero
		otherIncome      = decimal.Zero
		deductible       = decimal.Zero
		interestIncurred = decimal.Zero
		interestClaimed  = decimal.Zero
		commercialNet    = decimal.Zero
	)

	schedule := make([]models.ScheduleEntry, 0, len(summaries))
	for _, s := range summaries {
		switch {
		case s.PropertyType.IsResidential():
			totalIncome = totalIncome.Add(s.TotalIncome)
			otherIncome = otherIncome.Add(s.OtherIncome)
			deductible = deductible.Add(s.DeductibleExpenses)
			interestIncurred = interestIncurred.Add(s.InterestIncurred)
			interestClaimed = interestClaimed.Add(s.InterestClaimed)
		case s.PropertyType == models.ClassificationCommercial:
			commercialNet = commercialNet.Add(s.NetIncome)
		}

		schedule = append(schedule, models.ScheduleEntry{
			PropertyID: s.PropertyID,
			Fields: models.Fields{
				FieldB1:  models.AmountField(s.GrossIncome),
				FieldB2:  models.AmountField(s.OtherIncome),
				FieldB4:  models.AmountField(s.TotalIncome),
				FieldB7A: models.AmountField(s.InterestIncurred),
				FieldB7B: models.AmountField(s.InterestClaimed),
				FieldB7C: models.TextField(inputs.InterestReasonSelection),
				FieldB14: models.AmountField(s.DeductibleExpenses),
				FieldB15: models.AmountField(s.NetIncome),
			},
		})
	}

	// Q22.D intentionally repeats Q22.A.
	q22D := totalIncome
	q22F := inputs.PriorYearResidentialLossUsed
	q22G := deductible.Add(q22F)
	q22H := q22D.Sub(q22G)
	q22I := decimal.Zero
	if q22H.IsNegative() {
		q22I = q22H.Neg()
	}

	return &models.RentalSection{
		Fields: models.Fields{
			FieldQ22A: models.AmountField(totalIncome),
			FieldQ22C: models.AmountField(otherIncome),
			FieldQ22D: models.AmountField(q22D),
			FieldQ22E: models.AmountField(deductible),
			FieldQ22F: models.AmountField(q22F),
			FieldQ22G: models.AmountField(q22G),
			FieldQ22H: models.AmountField(q22H),
			FieldQ22I: models.AmountField(q22I),
			FieldQ23A: models.AmountField(interestIncurred),
			FieldQ23B: models.AmountField(interestClaimed),
			FieldQ23C: models.TextField(inputs.InterestReasonSelection),
			FieldQ24:  models.AmountField(commercialNet),
		},
		Schedule:   schedule,
		Validation: models.NewValidation(),
	}
}

// Validate implements Mapper.
func (*NZIRD) Validate(section *models.RentalSection) models.Validation {
	v := models.NewValidation()
	if section == nil {
		return v
	}
	fields := section.Fields

	for _, key := range requiredIR3Fields {
		if _, ok := fields.Amount(key); !ok {
			v.Blocking = append(v.Blocking, fmt.Sprintf("Required field %s is missing.", key))
		}
	}

	scheduleIncurred := decimal.Zero
	scheduleClaimed := decimal.Zero
	for _, entry := range section.Schedule {
		scheduleIncurred = scheduleIncurred.Add(entry.Fields[FieldB7A].AmountOrZero())
		scheduleClaimed = scheduleClaimed.Add(entry.Fields[FieldB7B].AmountOrZero())
	}

	if fields[FieldQ23A].AmountOrZero().Sub(scheduleIncurred).Abs().GreaterThan(interestTolerance) {
		v.Warnings = append(v.Warnings, "IR3.Q23.A does not match sum of IR3R.B7A across schedule.")
	}
	if fields[FieldQ23B].AmountOrZero().Sub(scheduleClaimed).Abs().GreaterThan(interestTolerance) {
		v.Warnings = append(v.Warnings, "IR3.Q23.B does not match sum of IR3R.B7B across schedule.")
	}

	if fields[FieldQ22D].AmountOrZero().IsZero() && fields[FieldQ22E].AmountOrZero().IsPositive() {
		v.Warnings = append(v.Warnings, "Deductions claimed with zero residential income.")
	}

	return v
}
