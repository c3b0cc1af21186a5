package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Jurisdiction selects the tax-authority schema a return is mapped into.
type Jurisdiction string

// JurisdictionNZIRD is New Zealand Inland Revenue (IR3/IR3R).
const JurisdictionNZIRD Jurisdiction = "NZ-IRD"

// RentalSectionKey is the section name holding rental fields in a tax return.
const RentalSectionKey = "rental"

// RentalInputs are caller-supplied values the mapping cannot derive.
type RentalInputs struct {
	PriorYearResidentialLossUsed decimal.Decimal `json:"priorYearResidentialLossUsed"`
	InterestReasonSelection      string          `json:"interestReasonSelection"`
}

// ScheduleEntry is the per-property schedule (IR3R) record.
type ScheduleEntry struct {
	Fields     Fields `json:"fields"`
	PropertyID string `json:"propertyId"`
}

// Validation holds compliance findings. Blocking entries stop a lock;
// warnings are advisory.
type Validation struct {
	Blocking []string `json:"blocking"`
	Warnings []string `json:"warnings"`
}

// NewValidation returns a validation with non-nil empty lists.
func NewValidation() Validation {
	return Validation{Blocking: []string{}, Warnings: []string{}}
}

// HasBlocking reports whether any blocking issue exists.
func (v Validation) HasBlocking() bool {
	return len(v.Blocking) > 0
}

// RentalSection is the mapped rental part of a tax return.
type RentalSection struct {
	Fields     Fields          `json:"fields"`
	Schedule   []ScheduleEntry `json:"schedule"`
	Validation Validation      `json:"validation"`
}

// TaxReturn is a generated return. Its sections are a snapshot taken at
// generation time; its lifecycle is independent of the workpapers.
type TaxReturn struct {
	CreatedAt    time.Time                 `json:"createdAt"`
	UpdatedAt    time.Time                 `json:"updatedAt"`
	Sections     map[string]*RentalSection `json:"sections"`
	ID           string                    `json:"taxReturnId"`
	TaxpayerID   string                    `json:"taxpayerId"`
	TaxYear      string                    `json:"taxYear"`
	Jurisdiction Jurisdiction              `json:"jurisdiction"`
	Status       TaxReturnStatus           `json:"status"`
	Validation   Validation                `json:"validation"`
	Version      int64                     `json:"version"`
}

// RentalSection returns the rental section, or nil when absent.
func (t *TaxReturn) RentalSection() *RentalSection {
	if t == nil || t.Sections == nil {
		return nil
	}
	return t.Sections[RentalSectionKey]
}
