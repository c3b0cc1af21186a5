package repository

import (
	"context"

	"github.com/stwalsh4118/rentaltax/internal/models"
	"github.com/stwalsh4118/rentaltax/internal/store"
)

// ContributorRepository stores one roster per workpaper.
type ContributorRepository interface {
	// FindRoster returns nil, nil if the workpaper has no contributors yet.
	FindRoster(ctx context.Context, workpaperID string) (*models.ContributorRoster, error)

	// SaveRoster inserts (Version 0) or updates the roster.
	SaveRoster(ctx context.Context, roster *models.ContributorRoster) error
}

type contributorRepository struct {
	records collection[models.ContributorRoster]
}

// NewContributorRepository creates a new instance of ContributorRepository.
func NewContributorRepository(s store.Store) ContributorRepository {
	return &contributorRepository{
		records: collection[models.ContributorRoster]{
			store:   s,
			ns:      store.NamespaceContributors,
			id:      func(r *models.ContributorRoster) string { return r.WorkpaperID },
			version: func(r *models.ContributorRoster) *int64 { return &r.Version },
		},
	}
}

func (r *contributorRepository) FindRoster(ctx context.Context, workpaperID string) (*models.ContributorRoster, error) {
	return r.records.get(ctx, workpaperID)
}

func (r *contributorRepository) SaveRoster(ctx context.Context, roster *models.ContributorRoster) error {
	return r.records.save(ctx, roster)
}
