package repository

import (
	"context"

	"github.com/stwalsh4118/rentaltax/internal/models"
	"github.com/stwalsh4118/rentaltax/internal/store"
)

// EvidenceRepository defines the interface for evidence data access operations.
type EvidenceRepository interface {
	// FindByID returns nil, nil if the evidence does not exist.
	FindByID(ctx context.Context, id string) (*models.Evidence, error)

	// ListByWorkpaper returns the evidence attached to a workpaper.
	ListByWorkpaper(ctx context.Context, workpaperID string) ([]*models.Evidence, error)

	Save(ctx context.Context, evidence *models.Evidence) error
	Delete(ctx context.Context, id string) error
}

type evidenceRepository struct {
	records collection[models.Evidence]
}

// NewEvidenceRepository creates a new instance of EvidenceRepository.
func NewEvidenceRepository(s store.Store) EvidenceRepository {
	return &evidenceRepository{
		records: collection[models.Evidence]{
			store:   s,
			ns:      store.NamespaceEvidence,
			id:      func(e *models.Evidence) string { return e.ID },
			version: func(e *models.Evidence) *int64 { return &e.Version },
		},
	}
}

func (r *evidenceRepository) FindByID(ctx context.Context, id string) (*models.Evidence, error) {
	return r.records.get(ctx, id)
}

func (r *evidenceRepository) ListByWorkpaper(ctx context.Context, workpaperID string) ([]*models.Evidence, error) {
	return r.records.list(ctx, func(e *models.Evidence) bool { return e.WorkpaperID == workpaperID })
}

func (r *evidenceRepository) Save(ctx context.Context, evidence *models.Evidence) error {
	return r.records.save(ctx, evidence)
}

func (r *evidenceRepository) Delete(ctx context.Context, id string) error {
	return r.records.delete(ctx, id)
}
