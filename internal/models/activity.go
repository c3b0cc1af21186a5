package models

import "time"

// ActivityAction names the kind of change an activity entry records.
type ActivityAction string

const (
	ActionCreated          ActivityAction = "Created"
	ActionStatusChange     ActivityAction = "StatusChange"
	ActionInputsUpdated    ActivityAction = "InputsUpdated"
	ActionAddedExpense     ActivityAction = "AddedExpense"
	ActionUpdatedExpense   ActivityAction = "UpdatedExpense"
	ActionRemovedExpense   ActivityAction = "RemovedExpense"
	ActionAddedEvidence    ActivityAction = "AddedEvidence"
	ActionRemovedEvidence  ActivityAction = "RemovedEvidence"
	ActionLinkedEvidence   ActivityAction = "LinkedEvidence"
	ActionUnlinkedEvidence ActivityAction = "UnlinkedEvidence"
)

// ActivityEntry is one append-only audit record.
type ActivityEntry struct {
	Timestamp   time.Time      `json:"timestamp"`
	OldValue    *string        `json:"oldValue"`
	NewValue    *string        `json:"newValue"`
	ID          string         `json:"activityId"`
	WorkpaperID string         `json:"workpaperId"`
	UserID      string         `json:"userId"`
	ActionType  ActivityAction `json:"actionType"`
	FieldName   string         `json:"fieldName,omitempty"`
}
