package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/rentaltax/internal/config"
	"github.com/stwalsh4118/rentaltax/internal/logger"
	"github.com/stwalsh4118/rentaltax/internal/models"
	"github.com/stwalsh4118/rentaltax/internal/repository"
)

// SettingsPatch is a partial settings update. Nil fields are left unchanged;
// a non-nil InterestRates replaces the whole per-year table.
type SettingsPatch struct {
	TaxYear                   *string
	InterestDeductibilityRate *decimal.Decimal
	InterestRates             map[string]decimal.Decimal
}

// SettingsService exposes the current tax year and interest deductibility rate.
type SettingsService interface {
	// Get returns the saved settings, or the configured defaults if none were saved.
	Get(ctx context.Context) (*models.Settings, error)

	// Update applies a patch. Returns ErrInvalidInput for an empty tax year or
	// a rate outside [0,1].
	Update(ctx context.Context, patch SettingsPatch, actor models.Actor) (*models.Settings, error)
}

type settingsService struct {
	repo     repository.SettingsRepository
	defaults config.TaxConfig
	log      *logger.Logger
}

// NewSettingsService creates a new instance of SettingsService.
func NewSettingsService(repo repository.SettingsRepository, defaults config.TaxConfig, log *logger.Logger) SettingsService {
	return &settingsService{
		repo:     repo,
		defaults: defaults,
		log:      log,
	}
}

func (s *settingsService) Get(ctx context.Context) (*models.Settings, error) {
	saved, err := s.repo.Get(ctx)
	if err != nil {
		s.log.Error("Failed to load settings", err, nil)
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if saved != nil {
		return saved, nil
	}
	return &models.Settings{
		TaxYear:                   s.defaults.TaxYear,
		InterestDeductibilityRate: s.defaults.InterestDeductibilityRate,
	}, nil
}

func (s *settingsService) Update(ctx context.Context, patch SettingsPatch, actor models.Actor) (*models.Settings, error) {
	if patch.TaxYear != nil && *patch.TaxYear == "" {
		return nil, fmt.Errorf("%w: tax year must not be empty", ErrInvalidInput)
	}
	if patch.InterestDeductibilityRate != nil && !isRate(*patch.InterestDeductibilityRate) {
		return nil, fmt.Errorf("%w: interest deductibility rate must be between 0 and 1", ErrInvalidInput)
	}
	for year, rate := range patch.InterestRates {
		if !isRate(rate) {
			return nil, fmt.Errorf("%w: interest rate for %s must be between 0 and 1", ErrInvalidInput, year)
		}
	}

	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if patch.TaxYear != nil {
		settings.TaxYear = *patch.TaxYear
	}
	if patch.InterestDeductibilityRate != nil {
		settings.InterestDeductibilityRate = *patch.InterestDeductibilityRate
	}
	if patch.InterestRates != nil {
		settings.InterestRates = patch.InterestRates
	}

	if err := s.repo.Save(ctx, settings); err != nil {
		s.log.Error("Failed to save settings", err, nil)
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	s.log.Info("Settings updated", map[string]interface{}{
		"tax_year": settings.TaxYear,
		"rate":     settings.InterestDeductibilityRate.String(),
		"actor":    actor.OrDefault().UserID,
	})
	return settings, nil
}

func isRate(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(1))
}
