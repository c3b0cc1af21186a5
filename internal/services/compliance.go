package services

import (
	"github.com/stwalsh4118/rentaltax/internal/jurisdiction"
	"github.com/stwalsh4118/rentaltax/internal/models"
)

// MsgRentalSectionMissing is the blocking finding for a return with no rental section.
const MsgRentalSectionMissing = "Rental section is missing from tax return."

// ValidateCompliance runs the cross-field checks of the return's jurisdiction
// against its rental section. It never fails; problems are reported as findings.
func ValidateCompliance(registry *jurisdiction.Registry, taxReturn *models.TaxReturn) models.Validation {
	section := taxReturn.RentalSection()
	if section == nil {
		v := models.NewValidation()
		v.Blocking = append(v.Blocking, MsgRentalSectionMissing)
		return v
	}

	mapper, err := registry.Lookup(taxReturn.Jurisdiction)
	if err != nil {
		v := models.NewValidation()
		v.Blocking = append(v.Blocking, err.Error())
		return v
	}
	return mapper.Validate(section)
}
