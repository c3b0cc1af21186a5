package repository

import (
	"context"

	"github.com/stwalsh4118/rentaltax/internal/models"
	"github.com/stwalsh4118/rentaltax/internal/store"
)

// PropertyRepository defines the interface for property data access operations.
type PropertyRepository interface {
	// FindByID returns nil, nil if the property does not exist.
	FindByID(ctx context.Context, id string) (*models.Property, error)

	// List returns every property ordered by id.
	List(ctx context.Context) ([]*models.Property, error)

	// Save inserts (Version 0) or updates the property.
	// Returns store.ErrVersionConflict if it changed since it was read.
	Save(ctx context.Context, property *models.Property) error

	// Delete removes the property. Missing properties are ignored.
	Delete(ctx context.Context, id string) error
}

type propertyRepository struct {
	records collection[models.Property]
}

// NewPropertyRepository creates a new instance of PropertyRepository.
func NewPropertyRepository(s store.Store) PropertyRepository {
	return &propertyRepository{
		records: collection[models.Property]{
			store:   s,
			ns:      store.NamespaceProperties,
			id:      func(p *models.Property) string { return p.ID },
			version: func(p *models.Property) *int64 { return &p.Version },
		},
	}
}

func (r *propertyRepository) FindByID(ctx context.Context, id string) (*models.Property, error) {
	return r.records.get(ctx, id)
}

func (r *propertyRepository) List(ctx context.Context) ([]*models.Property, error) {
	return r.records.list(ctx, nil)
}

func (r *propertyRepository) Save(ctx context.Context, property *models.Property) error {
	return r.records.save(ctx, property)
}

func (r *propertyRepository) Delete(ctx context.Context, id string) error {
	return r.records.delete(ctx, id)
}
