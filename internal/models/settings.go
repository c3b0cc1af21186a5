package models

import "github.com/shopspring/decimal"

// Settings holds the engine-wide tax parameters.
type Settings struct {
	InterestRates             map[string]decimal.Decimal `json:"interestRates,omitempty"`
	TaxYear                   string                     `json:"taxYear"`
	InterestDeductibilityRate decimal.Decimal            `json:"interestDeductibilityRate"`
	Version                   int64                      `json:"version"`
}

// RateFor returns the interest deductibility rate for taxYear, falling back to
// the default rate when the year has no specific entry.
func (s Settings) RateFor(taxYear string) decimal.Decimal {
	if rate, ok := s.InterestRates[taxYear]; ok {
		return rate
	}
	return s.InterestDeductibilityRate
}
