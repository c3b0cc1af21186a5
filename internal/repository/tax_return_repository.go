package repository

import (
	"context"

	"github.com/stwalsh4118/rentaltax/internal/models"
	"github.com/stwalsh4118/rentaltax/internal/store"
)

// TaxReturnRepository defines the interface for tax return data access operations.
type TaxReturnRepository interface {
	// FindByID returns nil, nil if the tax return does not exist.
	FindByID(ctx context.Context, id string) (*models.TaxReturn, error)

	// List returns every tax return ordered by id.
	List(ctx context.Context) ([]*models.TaxReturn, error)

	Save(ctx context.Context, taxReturn *models.TaxReturn) error
}

type taxReturnRepository struct {
	records collection[models.TaxReturn]
}

// NewTaxReturnRepository creates a new instance of TaxReturnRepository.
func NewTaxReturnRepository(s store.Store) TaxReturnRepository {
	return &taxReturnRepository{
		records: collection[models.TaxReturn]{
			store:   s,
			ns:      store.NamespaceTaxReturns,
			id:      func(t *models.TaxReturn) string { return t.ID },
			version: func(t *models.TaxReturn) *int64 { return &t.Version },
		},
	}
}

func (r *taxReturnRepository) FindByID(ctx context.Context, id string) (*models.TaxReturn, error) {
	return r.records.get(ctx, id)
}

func (r *taxReturnRepository) List(ctx context.Context) ([]*models.TaxReturn, error) {
	return r.records.list(ctx, nil)
}

func (r *taxReturnRepository) Save(ctx context.Context, taxReturn *models.TaxReturn) error {
	return r.records.save(ctx, taxReturn)
}
