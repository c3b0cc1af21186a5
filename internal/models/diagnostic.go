package models

import "github.com/shopspring/decimal"

// DiagnosticLevel is the severity of a diagnostic finding.
type DiagnosticLevel string

const (
	LevelBlocking DiagnosticLevel = "blocking"
	LevelWarning  DiagnosticLevel = "warning"
	LevelInfo     DiagnosticLevel = "info"
)

// Diagnostic is a single finding about a workpaper.
type Diagnostic struct {
	Level   DiagnosticLevel `json:"level"`
	Message string          `json:"message"`
}

// HasLevel reports whether any finding has one of the given levels.
func HasLevel(diags []Diagnostic, levels ...DiagnosticLevel) bool {
	for _, d := range diags {
		for _, l := range levels {
			if d.Level == l {
				return true
			}
		}
	}
	return false
}

// RentalSummary is the jurisdiction-agnostic result for one property and tax
// year, consumed by the jurisdiction mappers.
type RentalSummary struct {
	PropertyID                     string            `json:"propertyId"`
	TaxYear                        string            `json:"taxYear"`
	PropertyType                   TaxClassification `json:"propertyType"`
	Diagnostics                    []Diagnostic      `json:"diagnostics"`
	OwnershipPercentage            decimal.Decimal   `json:"ownershipPercentage"`
	GrossIncome                    decimal.Decimal   `json:"grossIncome"`
	OtherIncome                    decimal.Decimal   `json:"otherIncome"`
	TotalIncome                    decimal.Decimal   `json:"totalIncome"`
	TotalExpensesBeforeAdjustments decimal.Decimal   `json:"totalExpensesBeforeAdjustments"`
	CapitalExcludedTotal           decimal.Decimal   `json:"capitalExcludedTotal"`
	InterestIncurred               decimal.Decimal   `json:"interestIncurred"`
	InterestClaimed                decimal.Decimal   `json:"interestClaimed"`
	DeductibleExpenses             decimal.Decimal   `json:"deductibleExpenses"`
	NetIncome                      decimal.Decimal   `json:"netIncome"`
	LossCarryForward               decimal.Decimal   `json:"lossCarryForward"`
}

// PortfolioTotals is the cross-property rollup for a tax year.
type PortfolioTotals struct {
	TaxYear          string          `json:"taxYear"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	NetPosition      decimal.Decimal `json:"netPosition"`
	LossCarryForward decimal.Decimal `json:"lossCarryForward"`
	CompletedCount   int             `json:"completedCount"`
	WarningCount     int             `json:"warningCount"`
	PropertyCount    int             `json:"propertyCount"`
}
