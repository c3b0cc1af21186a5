package repository

import (
	"context"

	"github.com/stwalsh4118/rentaltax/internal/models"
	"github.com/stwalsh4118/rentaltax/internal/store"
)

// WorkpaperRepository defines the interface for workpaper data access operations.
// A workpaper record includes its expense lines.
type WorkpaperRepository interface {
	// FindByID returns nil, nil if the workpaper does not exist.
	FindByID(ctx context.Context, id string) (*models.Workpaper, error)

	// FindByPropertyAndYear returns the workpaper for (propertyID, taxYear),
	// or nil, nil if there is none.
	FindByPropertyAndYear(ctx context.Context, propertyID, taxYear string) (*models.Workpaper, error)

	// ListByProperty returns every workpaper of a property.
	ListByProperty(ctx context.Context, propertyID string) ([]*models.Workpaper, error)

	// ListByYear returns every workpaper for a tax year.
	ListByYear(ctx context.Context, taxYear string) ([]*models.Workpaper, error)

	// Save inserts (Version 0) or updates the workpaper.
	Save(ctx context.Context, workpaper *models.Workpaper) error

	// Delete removes the workpaper. Missing workpapers are ignored.
	Delete(ctx context.Context, id string) error
}

type workpaperRepository struct {
	records collection[models.Workpaper]
}

// NewWorkpaperRepository creates a new instance of WorkpaperRepository.
func NewWorkpaperRepository(s store.Store) WorkpaperRepository {
	return &workpaperRepository{
		records: collection[models.Workpaper]{
			store:   s,
			ns:      store.NamespaceWorkpapers,
			id:      func(w *models.Workpaper) string { return w.ID },
			version: func(w *models.Workpaper) *int64 { return &w.Version },
		},
	}
}

func (r *workpaperRepository) FindByID(ctx context.Context, id string) (*models.Workpaper, error) {
	return r.records.get(ctx, id)
}

func (r *workpaperRepository) FindByPropertyAndYear(ctx context.Context, propertyID, taxYear string) (*models.Workpaper, error) {
	matches, err := r.records.list(ctx, func(w *models.Workpaper) bool {
		return w.PropertyID == propertyID && w.TaxYear == taxYear
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

func (r *workpaperRepository) ListByProperty(ctx context.Context, propertyID string) ([]*models.Workpaper, error) {
	return r.records.list(ctx, func(w *models.Workpaper) bool { return w.PropertyID == propertyID })
}

func (r *workpaperRepository) ListByYear(ctx context.Context, taxYear string) ([]*models.Workpaper, error) {
	return r.records.list(ctx, func(w *models.Workpaper) bool { return w.TaxYear == taxYear })
}

func (r *workpaperRepository) Save(ctx context.Context, workpaper *models.Workpaper) error {
	return r.records.save(ctx, workpaper)
}

func (r *workpaperRepository) Delete(ctx context.Context, id string) error {
	return r.records.delete(ctx, id)
}
