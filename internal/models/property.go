package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxClassification determines which IR3 question a property's results feed.
type TaxClassification string

const (
	ClassificationResidential TaxClassification = "Residential"
	ClassificationCommercial  TaxClassification = "Commercial"
	ClassificationMixedUse    TaxClassification = "MixedUse"
)

// TaxClassifications lists the accepted classifications in display order.
var TaxClassifications = []TaxClassification{
	ClassificationResidential,
	ClassificationCommercial,
	ClassificationMixedUse,
}

// IsValid reports whether c is one of the known classifications.
func (c TaxClassification) IsValid() bool {
	for _, known := range TaxClassifications {
		if c == known {
			return true
		}
	}
	return false
}

// IsResidential reports whether the classification is reported under the
// residential rental questions (Residential and MixedUse).
func (c TaxClassification) IsResidential() bool {
	return c == ClassificationResidential || c == ClassificationMixedUse
}

// Property is a rental property record.
// OwnershipPercentage is a fraction in [0,1]; the bound is not enforced on
// write and is applied when the property feeds a calculation.
type Property struct {
	AcquisitionDate     *time.Time        `json:"acquisitionDate,omitempty"`
	DisposalDate        *time.Time        `json:"disposalDate,omitempty"`
	ID                  string            `json:"propertyId"`
	DisplayName         string            `json:"displayName"`
	AddressLine1        string            `json:"addressLine1"`
	City                string            `json:"city"`
	PropertyType        string            `json:"propertyType"`
	TaxClassification   TaxClassification `json:"taxClassification"`
	OwnershipPercentage decimal.Decimal   `json:"ownershipPercentage"`
	Version             int64             `json:"version"`
	IsMainHome          bool              `json:"isMainHome"`
	IsNewBuild          bool              `json:"isNewBuild"`
	IsActive            bool              `json:"isActive"`
}

// DefaultPropertyType is used when a property is created without a type.
const DefaultPropertyType = "House"

// EffectiveOwnership returns the ownership fraction clamped to [0,1].
func (p *Property) EffectiveOwnership() decimal.Decimal {
	if p == nil {
		return decimal.NewFromInt(1)
	}
	switch {
	case p.OwnershipPercentage.IsNegative():
		return decimal.Zero
	case p.OwnershipPercentage.GreaterThan(decimal.NewFromInt(1)):
		return decimal.NewFromInt(1)
	default:
		return p.OwnershipPercentage
	}
}
