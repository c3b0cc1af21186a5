package repository

import (
	"context"
	"sort"

	"github.com/stwalsh4118/rentaltax/internal/models"
	"github.com/stwalsh4118/rentaltax/internal/store"
)

// ActivityRepository is an append-only audit trail.
type ActivityRepository interface {
	// Append inserts a new entry. Entries are never updated.
	Append(ctx context.Context, entry *models.ActivityEntry) error

	// ListByWorkpaper returns the entries of a workpaper, newest first.
	ListByWorkpaper(ctx context.Context, workpaperID string) ([]*models.ActivityEntry, error)
}

type activityRepository struct {
	records collection[models.ActivityEntry]
}

// NewActivityRepository creates a new instance of ActivityRepository.
func NewActivityRepository(s store.Store) ActivityRepository {
	return &activityRepository{
		records: collection[models.ActivityEntry]{
			store: s,
			ns:    store.NamespaceActivities,
			id:    func(e *models.ActivityEntry) string { return e.ID },
		},
	}
}

func (r *activityRepository) Append(ctx context.Context, entry *models.ActivityEntry) error {
	return r.records.save(ctx, entry)
}

func (r *activityRepository) ListByWorkpaper(ctx context.Context, workpaperID string) ([]*models.ActivityEntry, error) {
	entries, err := r.records.list(ctx, func(e *models.ActivityEntry) bool { return e.WorkpaperID == workpaperID })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}
