package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/stwalsh4118/rentaltax/internal/logger"
	"github.com/stwalsh4118/rentaltax/internal/models"
	"github.com/stwalsh4118/rentaltax/internal/repository"
)

// SummaryService produces jurisdiction-agnostic rental summaries.
type SummaryService interface {
	// Summary recalculates the workpaper and flattens it with fresh diagnostics.
	Summary(ctx context.Context, workpaperID string, actor models.Actor) (*models.RentalSummary, error)

	// Summaries returns one summary per active property that has a workpaper
	// for taxYear. An empty taxYear means the current settings year.
	Summaries(ctx context.Context, taxYear string, actor models.Actor) ([]*models.RentalSummary, error)
}

type summaryService struct {
	workpapers WorkpaperService
	properties repository.PropertyRepository
	settings   SettingsService
	log        *logger.Logger
}

// NewSummaryService creates a new instance of SummaryService.
func NewSummaryService(workpapers WorkpaperService, properties repository.PropertyRepository, settings SettingsService, log *logger.Logger) SummaryService {
	return &summaryService{
		workpapers: workpapers,
		properties: properties,
		settings:   settings,
		log:        log,
	}
}

func (s *summaryService) Summary(ctx context.Context, workpaperID string, actor models.Actor) (*models.RentalSummary, error) {
	wp, err := s.workpapers.Calculate(ctx, workpaperID, actor)
	if err != nil {
		return nil, err
	}
	diags, err := s.workpapers.Diagnostics(ctx, workpaperID)
	if err != nil {
		return nil, err
	}
	property, err := s.properties.FindByID(ctx, wp.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property: %w", err)
	}
	return flattenSummary(wp, property, diags), nil
}

func (s *summaryService) Summaries(ctx context.Context, taxYear string, actor models.Actor) ([]*models.RentalSummary, error) {
	taxYear, err := currentYear(ctx, s.settings, taxYear)
	if err != nil {
		return nil, err
	}

	properties, err := s.properties.List(ctx)
	if err != nil {
		s.log.Error("Failed to list properties", err, nil)
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}

	summaries := make([]*models.RentalSummary, 0, len(properties))
	for _, property := range properties {
		if !property.IsActive {
			continue
		}
		wp, err := s.workpapers.GetForYear(ctx, property.ID, taxYear)
		if errors.Is(err, ErrWorkpaperNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		summary, err := s.Summary(ctx, wp.ID, actor)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	s.log.Debug("Rental summaries generated", map[string]interface{}{
		"tax_year": taxYear,
		"count":    len(summaries),
	})
	return summaries, nil
}

// flattenSummary maps a calculated workpaper onto the summary record. A
// missing property yields Residential at full ownership.
func flattenSummary(wp *models.Workpaper, property *models.Property, diags []models.Diagnostic) *models.RentalSummary {
	classification := models.ClassificationResidential
	if property != nil {
		classification = property.TaxClassification
	}
	if diags == nil {
		diags = []models.Diagnostic{}
	}
	return &models.RentalSummary{
		PropertyID:                     wp.PropertyID,
		TaxYear:                        wp.TaxYear,
		PropertyType:                   classification,
		OwnershipPercentage:            property.EffectiveOwnership(),
		GrossIncome:                    wp.GrossRentalIncome,
		OtherIncome:                    wp.OtherIncome,
		TotalIncome:                    wp.TotalIncome,
		TotalExpensesBeforeAdjustments: wp.DeductibleExpenseBase,
		CapitalExcludedTotal:           wp.CapitalExcludedTotal,
		InterestIncurred:               wp.InterestTotal,
		InterestClaimed:                wp.DeductibleInterest,
		DeductibleExpenses:             wp.AdjustedDeductibleExpenses,
		NetIncome:                      wp.NetRentalIncome,
		LossCarryForward:               wp.LossCarryForward,
		Diagnostics:                    diags,
	}
}

func currentYear(ctx context.Context, settings SettingsService, taxYear string) (string, error) {
	if taxYear != "" {
		return taxYear, nil
	}
	current, err := settings.Get(ctx)
	if err != nil {
		return "", err
	}
	return current.TaxYear, nil
}
