package services

import (
	"errors"

	"github.com/stwalsh4118/rentaltax/internal/jurisdiction"
	"github.com/stwalsh4118/rentaltax/internal/models"
)

// Service-level errors
var (
	ErrPropertyNotFound    = errors.New("property not found")
	ErrWorkpaperNotFound   = errors.New("workpaper not found")
	ErrExpenseLineNotFound = errors.New("expense line not found")
	ErrEvidenceNotFound    = errors.New("evidence not found")
	ErrContributorNotFound = errors.New("contributor not found")
	ErrTaxReturnNotFound   = errors.New("Tax return not found")

	ErrInvalidTransition       = errors.New("invalid status transition")
	ErrWorkpaperLocked         = errors.New("workpaper is locked")
	ErrUnsupportedJurisdiction = jurisdiction.ErrUnsupported
	ErrTaxReturnNotComplete    = errors.New("Tax return must be in Complete status to lock")
	ErrInvalidInput            = errors.New("invalid input")
)

// LockRefusedError is returned when a tax return cannot be locked because
// compliance validation found blocking issues.
type LockRefusedError struct {
	Validation models.Validation
}

func (e *LockRefusedError) Error() string {
	return "Cannot lock: blocking validation issues exist"
}
