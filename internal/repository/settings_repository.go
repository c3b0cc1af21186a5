package repository

import (
	"context"

	"github.com/stwalsh4118/rentaltax/internal/models"
	"github.com/stwalsh4118/rentaltax/internal/store"
)

// settingsID is the single record id in the settings namespace.
const settingsID = "current"

// SettingsRepository persists the engine-wide settings overrides.
type SettingsRepository interface {
	// Get returns nil, nil if no settings have been saved.
	Get(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, settings *models.Settings) error
}

type settingsRepository struct {
	records collection[models.Settings]
}

// NewSettingsRepository creates a new instance of SettingsRepository.
func NewSettingsRepository(s store.Store) SettingsRepository {
	return &settingsRepository{
		records: collection[models.Settings]{
			store:   s,
			ns:      store.NamespaceSettings,
			id:      func(*models.Settings) string { return settingsID },
			version: func(s *models.Settings) *int64 { return &s.Version },
		},
	}
}

func (r *settingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	return r.records.get(ctx, settingsID)
}

func (r *settingsRepository) Save(ctx context.Context, settings *models.Settings) error {
	return r.records.save(ctx, settings)
}
