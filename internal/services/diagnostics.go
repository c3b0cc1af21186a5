package services

import (
	"fmt"

	"github.com/stwalsh4118/rentaltax/internal/models"
)

// Diagnostic messages
const (
	MsgGrossIncomeMissing   = "Gross rental income is missing or zero."
	MsgDaysRentedMissing    = "Days rented is missing or zero."
	MsgDaysRentedExceeded   = "Days rented exceeds 365."
	MsgDaysPrivateMissing   = "Mixed use is enabled but days private is missing or zero."
	MsgDaysPrivateExceeded  = "Days private exceeds 365."
	MsgTotalDaysExceeded    = "Total days (rented + private) exceeds 365."
	MsgMixedUseActive       = "Mixed-use apportionment is active."
	MsgCapitalExcluded      = "Capital expenses are present and excluded from deductions."
	MsgNotCalculated        = "Workpaper has not yet been calculated."
	msgLinesWithoutEvidence = "%d expense line(s) have no linked evidence."
)

const daysInYear = 365

// EvaluateDiagnostics returns every finding for a workpaper in a fixed order.
// evidence is the set of evidence records visible to the workpaper; a line is
// considered evidenced when any of its ids resolves into that set.
func EvaluateDiagnostics(wp *models.Workpaper, evidence []*models.Evidence) []models.Diagnostic {
	diags := make([]models.Diagnostic, 0)
	add := func(level models.DiagnosticLevel, msg string) {
		diags = append(diags, models.Diagnostic{Level: level, Message: msg})
	}

	if !wp.GrossRentalIncome.IsPositive() {
		add(models.LevelBlocking, MsgGrossIncomeMissing)
	}
	if wp.DaysRented <= 0 {
		add(models.LevelBlocking, MsgDaysRentedMissing)
	}
	if wp.DaysRented > daysInYear {
		add(models.LevelBlocking, MsgDaysRentedExceeded)
	}
	if wp.MixedUse {
		if wp.DaysPrivate <= 0 {
			add(models.LevelBlocking, MsgDaysPrivateMissing)
		}
		if wp.DaysPrivate > daysInYear {
			add(models.LevelBlocking, MsgDaysPrivateExceeded)
		}
		if wp.DaysRented+wp.DaysPrivate > daysInYear {
			add(models.LevelBlocking, MsgTotalDaysExceeded)
		}
		add(models.LevelWarning, MsgMixedUseActive)
	}

	known := make(map[string]struct{}, len(evidence))
	for _, e := range evidence {
		known[e.ID] = struct{}{}
	}

	hasCapital := false
	unevidenced := 0
	for _, line := range wp.ExpenseLines {
		if line.IsCapital {
			hasCapital = true
		}
		resolved := false
		for _, id := range line.EvidenceIDs {
			if _, ok := known[id]; ok {
				resolved = true
				break
			}
		}
		if !resolved {
			unevidenced++
		}
	}
	if hasCapital {
		add(models.LevelWarning, MsgCapitalExcluded)
	}
	if unevidenced > 0 {
		add(models.LevelWarning, fmt.Sprintf(msgLinesWithoutEvidence, unevidenced))
	}

	if wp.Status == models.WorkpaperNotStarted {
		add(models.LevelInfo, MsgNotCalculated)
	}

	return diags
}
