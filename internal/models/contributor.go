package models

import "time"

// ContributorRole describes what a user does on a workpaper.
type ContributorRole string

const (
	RolePreparer    ContributorRole = "Preparer"
	RoleReviewer    ContributorRole = "Reviewer"
	RoleContributor ContributorRole = "Contributor"
)

// IsValid reports whether r is a known role.
func (r ContributorRole) IsValid() bool {
	switch r {
	case RolePreparer, RoleReviewer, RoleContributor:
		return true
	default:
		return false
	}
}

// Contributor records a user's involvement in a workpaper.
type Contributor struct {
	FirstActivityAt time.Time       `json:"firstActivityAt"`
	LastActivityAt  time.Time       `json:"lastActivityAt"`
	ID              string          `json:"contributorId"`
	WorkpaperID     string          `json:"workpaperId"`
	UserID          string          `json:"userId"`
	Role            ContributorRole `json:"role"`
	IsCurrentOwner  bool            `json:"isCurrentOwner"`
	IsActive        bool            `json:"isActive"`
}

// ContributorRoster is every contributor of one workpaper, stored as a single
// record so that at most one of them can be the current owner.
type ContributorRoster struct {
	WorkpaperID  string        `json:"workpaperId"`
	Contributors []Contributor `json:"contributors"`
	Version      int64         `json:"version"`
}

// FindActive returns the active contributor for userID, or nil.
func (r *ContributorRoster) FindActive(userID string) *Contributor {
	for i := range r.Contributors {
		c := &r.Contributors[i]
		if c.UserID == userID && c.IsActive {
			return c
		}
	}
	return nil
}

// Find returns the contributor with the given id, or nil.
func (r *ContributorRoster) Find(contributorID string) *Contributor {
	for i := range r.Contributors {
		if r.Contributors[i].ID == contributorID {
			return &r.Contributors[i]
		}
	}
	return nil
}

// AssignOwner marks contributorID as the only current owner.
// It reports false, leaving the roster untouched, when the id is unknown.
func (r *ContributorRoster) AssignOwner(contributorID string) bool {
	if r.Find(contributorID) == nil {
		return false
	}
	for i := range r.Contributors {
		r.Contributors[i].IsCurrentOwner = r.Contributors[i].ID == contributorID
	}
	return true
}
