package models

// WorkpaperStatus is the lifecycle state of a workpaper.
type WorkpaperStatus string

const (
	WorkpaperNotStarted    WorkpaperStatus = "NotStarted"
	WorkpaperInProgress    WorkpaperStatus = "InProgress"
	WorkpaperReadyToReview WorkpaperStatus = "ReadyToReview"
	WorkpaperComplete      WorkpaperStatus = "Complete"
	WorkpaperLocked        WorkpaperStatus = "Locked"
)

// WorkpaperStatusOrder is the forward order of workpaper states.
var WorkpaperStatusOrder = []WorkpaperStatus{
	WorkpaperNotStarted,
	WorkpaperInProgress,
	WorkpaperReadyToReview,
	WorkpaperComplete,
	WorkpaperLocked,
}

// TaxReturnStatus is the lifecycle state of a tax return.
type TaxReturnStatus string

const (
	TaxReturnDraft         TaxReturnStatus = "Draft"
	TaxReturnReadyToReview TaxReturnStatus = "ReadyToReview"
	TaxReturnComplete      TaxReturnStatus = "Complete"
	TaxReturnLocked        TaxReturnStatus = "Locked"
)

// TaxReturnStatusOrder is the forward order of tax return states.
var TaxReturnStatusOrder = []TaxReturnStatus{
	TaxReturnDraft,
	TaxReturnReadyToReview,
	TaxReturnComplete,
	TaxReturnLocked,
}

func indexOf[S ~string](order []S, s S) int {
	for i, candidate := range order {
		if candidate == s {
			return i
		}
	}
	return -1
}

// canAdvance implements the shared lifecycle rule: the target must be known
// and strictly after the current state, except for the single permitted
// back-edge.
func canAdvance[S ~string](order []S, from, to, backFrom, backTo S) bool {
	toIdx := indexOf(order, to)
	if toIdx == -1 {
		return false
	}
	if from == backFrom && to == backTo {
		return true
	}
	return toIdx > indexOf(order, from)
}

// IsValid reports whether s is a known workpaper state.
func (s WorkpaperStatus) IsValid() bool {
	return indexOf(WorkpaperStatusOrder, s) != -1
}

// CanTransitionTo reports whether a workpaper may move from s to target.
// ReadyToReview -> InProgress is the only backwards move.
func (s WorkpaperStatus) CanTransitionTo(target WorkpaperStatus) bool {
	return canAdvance(WorkpaperStatusOrder, s, target, WorkpaperReadyToReview, WorkpaperInProgress)
}

// IsDone reports whether the workpaper counts as completed in portfolio totals.
func (s WorkpaperStatus) IsDone() bool {
	return s == WorkpaperComplete || s == WorkpaperLocked
}

// IsValid reports whether s is a known tax return state.
func (s TaxReturnStatus) IsValid() bool {
	return indexOf(TaxReturnStatusOrder, s) != -1
}

// CanTransitionTo reports whether a tax return may move from s to target.
// ReadyToReview -> Draft is the only backwards move.
func (s TaxReturnStatus) CanTransitionTo(target TaxReturnStatus) bool {
	return canAdvance(TaxReturnStatusOrder, s, target, TaxReturnReadyToReview, TaxReturnDraft)
}
