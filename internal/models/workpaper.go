package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategory classifies an expense line.
type ExpenseCategory string

const (
	CategoryInterest           ExpenseCategory = "Interest"
	CategoryRates              ExpenseCategory = "Rates"
	CategoryInsurance          ExpenseCategory = "Insurance"
	CategoryPropertyManagement ExpenseCategory = "PropertyManagement"
	CategoryBodyCorporate      ExpenseCategory = "BodyCorporate"
	CategoryRepairsMaintenance ExpenseCategory = "RepairsMaintenance"
	CategoryCleaning           ExpenseCategory = "Cleaning"
	CategoryAdvertising        ExpenseCategory = "Advertising"
	CategoryLegalFees          ExpenseCategory = "LegalFees"
	CategoryAccountingFees     ExpenseCategory = "AccountingFees"
	CategoryUtilities          ExpenseCategory = "Utilities"
	CategoryTravel             ExpenseCategory = "Travel"
	CategoryOther              ExpenseCategory = "Other"
)

// ExpenseCategories is the fixed category list.
var ExpenseCategories = []ExpenseCategory{
	CategoryInterest,
	CategoryRates,
	CategoryInsurance,
	CategoryPropertyManagement,
	CategoryBodyCorporate,
	CategoryRepairsMaintenance,
	CategoryCleaning,
	CategoryAdvertising,
	CategoryLegalFees,
	CategoryAccountingFees,
	CategoryUtilities,
	CategoryTravel,
	CategoryOther,
}

// IsValid reports whether c is one of the fixed categories.
func (c ExpenseCategory) IsValid() bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ExpenseLine is a single expense owned by a workpaper.
type ExpenseLine struct {
	ID              string          `json:"lineId"`
	Category        ExpenseCategory `json:"category"`
	Description     string          `json:"description"`
	Notes           string          `json:"notes"`
	EvidenceIDs     []string        `json:"evidenceIds"`
	Amount          decimal.Decimal `json:"amount"`
	IsCapital       bool            `json:"isCapital"`
	IsApportionable bool            `json:"isApportionable"`
}

// HasEvidence reports whether id is already linked to the line.
func (l *ExpenseLine) HasEvidence(id string) bool {
	for _, existing := range l.EvidenceIDs {
		if existing == id {
			return true
		}
	}
	return false
}

// Derived holds the calculation pipeline outputs persisted on a workpaper.
type Derived struct {
	TotalExpenses              decimal.Decimal `json:"totalExpenses"`
	CapitalExcludedTotal       decimal.Decimal `json:"capitalExcludedTotal"`
	CapitalExpenditureTotal    decimal.Decimal `json:"capitalExpenditureTotal"`
	DeductibleExpenseBase      decimal.Decimal `json:"deductibleExpenseBase"`
	OwnedExpenses              decimal.Decimal `json:"ownedExpenses"`
	ApportionedExpenses        decimal.Decimal `json:"apportionedExpenses"`
	InterestTotal              decimal.Decimal `json:"interestTotal"`
	DeductibleInterest         decimal.Decimal `json:"deductibleInterest"`
	AdjustedDeductibleExpenses decimal.Decimal `json:"adjustedDeductibleExpenses"`
	TotalIncome                decimal.Decimal `json:"totalIncome"`
	AdjustedIncome             decimal.Decimal `json:"adjustedIncome"`
	NetRentalIncome            decimal.Decimal `json:"netRentalIncome"`
	LossCarryForward           decimal.Decimal `json:"lossCarryForward"`
	HasCapitalExpenditure      bool            `json:"hasCapitalExpenditure"`
}

// Equal reports whether two derived blocks carry the same values.
func (d Derived) Equal(other Derived) bool {
	return d.TotalExpenses.Equal(other.TotalExpenses) &&
		d.CapitalExcludedTotal.Equal(other.CapitalExcludedTotal) &&
		d.CapitalExpenditureTotal.Equal(other.CapitalExpenditureTotal) &&
		d.DeductibleExpenseBase.Equal(other.DeductibleExpenseBase) &&
		d.OwnedExpenses.Equal(other.OwnedExpenses) &&
		d.ApportionedExpenses.Equal(other.ApportionedExpenses) &&
		d.InterestTotal.Equal(other.InterestTotal) &&
		d.DeductibleInterest.Equal(other.DeductibleInterest) &&
		d.AdjustedDeductibleExpenses.Equal(other.AdjustedDeductibleExpenses) &&
		d.TotalIncome.Equal(other.TotalIncome) &&
		d.AdjustedIncome.Equal(other.AdjustedIncome) &&
		d.NetRentalIncome.Equal(other.NetRentalIncome) &&
		d.LossCarryForward.Equal(other.LossCarryForward) &&
		d.HasCapitalExpenditure == other.HasCapitalExpenditure
}

// Workpaper is the per-property, per-tax-year working calculation record.
// Status changes only through TransitionWorkpaper; the embedded Derived block
// is written only by the calculation pipeline.
type Workpaper struct {
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	ID                string          `json:"workpaperId"`
	PropertyID        string          `json:"propertyId"`
	TaxYear           string          `json:"taxYear"`
	Status            WorkpaperStatus `json:"status"`
	CreatedBy         string          `json:"createdBy"`
	LastModifiedBy    string          `json:"lastModifiedBy"`
	ExpenseLines      []ExpenseLine   `json:"expenseLines"`
	GrossRentalIncome decimal.Decimal `json:"grossRentalIncome"`
	OtherIncome       decimal.Decimal `json:"otherIncome"`
	Derived
	Version       int64 `json:"version"`
	DaysRented    int   `json:"daysRented"`
	DaysAvailable int   `json:"daysAvailable"`
	DaysPrivate   int   `json:"daysPrivate"`
	MixedUse      bool  `json:"mixedUse"`
}

// FindLine returns the index of the expense line with the given id, or -1.
func (w *Workpaper) FindLine(lineID string) int {
	for i := range w.ExpenseLines {
		if w.ExpenseLines[i].ID == lineID {
			return i
		}
	}
	return -1
}

// ReferencedEvidenceIDs returns every evidence id linked from any line,
// once each, in line order.
func (w *Workpaper) ReferencedEvidenceIDs() []string {
	var ids []string
	seen := make(map[string]struct{})
	for _, line := range w.ExpenseLines {
		for _, id := range line.EvidenceIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}
