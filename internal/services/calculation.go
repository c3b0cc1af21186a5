package services

import (
	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/rentaltax/internal/models"
)

// CalculationInput is everything the calculation pipeline reads.
type CalculationInput struct {
	Lines                     []models.ExpenseLine
	Ownership                 decimal.Decimal
	GrossRentalIncome         decimal.Decimal
	OtherIncome               decimal.Decimal
	InterestDeductibilityRate decimal.Decimal
	DaysRented                int
	DaysPrivate               int
	MixedUse                  bool
}

// NewCalculationInput assembles the pipeline input for a workpaper. Ownership
// is clamped to [0,1] here; a missing property counts as full ownership.
func NewCalculationInput(wp *models.Workpaper, property *models.Property, rate decimal.Decimal) CalculationInput {
	return CalculationInput{
		Lines:                     wp.ExpenseLines,
		Ownership:                 property.EffectiveOwnership(),
		GrossRentalIncome:         wp.GrossRentalIncome,
		OtherIncome:               wp.OtherIncome,
		InterestDeductibilityRate: rate,
		DaysRented:                wp.DaysRented,
		DaysPrivate:               wp.DaysPrivate,
		MixedUse:                  wp.MixedUse,
	}
}

// Calculate runs the workpaper calculation pipeline. It is a pure function of
// its input and performs no rounding.
func Calculate(in CalculationInput) models.Derived {
	var d models.Derived

	totalExpenses := decimal.Zero
	capitalExcluded := decimal.Zero
	interestTotal := decimal.Zero
	for _, line := range in.Lines {
		totalExpenses = totalExpenses.Add(line.Amount)
		if line.IsCapital {
			capitalExcluded = capitalExcluded.Add(line.Amount)
			continue
		}
		if line.Category == models.CategoryInterest {
			interestTotal = interestTotal.Add(line.Amount)
		}
	}

	d.TotalExpenses = totalExpenses
	d.CapitalExcludedTotal = capitalExcluded
	d.HasCapitalExpenditure = capitalExcluded.IsPositive()
	d.CapitalExpenditureTotal = capitalExcluded
	d.DeductibleExpenseBase = totalExpenses.Sub(capitalExcluded)
	d.OwnedExpenses = d.DeductibleExpenseBase.Mul(in.Ownership)

	d.ApportionedExpenses = d.OwnedExpenses
	if in.MixedUse {
		if totalDays := in.DaysRented + in.DaysPrivate; totalDays > 0 {
			// Multiply first so exact ratios like 200/300 stay exact.
			d.ApportionedExpenses = d.OwnedExpenses.
				Mul(decimal.NewFromInt(int64(in.DaysRented))).
				Div(decimal.NewFromInt(int64(totalDays)))
		}
	}

	d.InterestTotal = interestTotal
	d.DeductibleInterest = interestTotal.Mul(in.InterestDeductibilityRate)

	// Interest is removed from the apportioned pool and added back at the
	// deductible rate, without re-applying the day ratio.
	d.AdjustedDeductibleExpenses = d.ApportionedExpenses.Sub(interestTotal).Add(d.DeductibleInterest)

	d.TotalIncome = in.GrossRentalIncome.Add(in.OtherIncome)
	d.AdjustedIncome = d.TotalIncome.Mul(in.Ownership)
	d.NetRentalIncome = d.AdjustedIncome.Sub(d.AdjustedDeductibleExpenses)

	d.LossCarryForward = decimal.Zero
	if d.NetRentalIncome.IsNegative() {
		d.LossCarryForward = d.NetRentalIncome.Neg()
	}

	return d
}
