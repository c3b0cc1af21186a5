package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/rentaltax/internal/logger"
	"github.com/stwalsh4118/rentaltax/internal/models"
	"github.com/stwalsh4118/rentaltax/internal/repository"
)

// PortfolioService rolls workpapers up across the property register.
type PortfolioService interface {
	// Totals sums the stored results of every active property's workpaper for
	// taxYear. Properties without a workpaper for the year still count towards
	// PropertyCount. Nothing is recalculated or written.
	Totals(ctx context.Context, taxYear string) (*models.PortfolioTotals, error)
}

type portfolioService struct {
	properties repository.PropertyRepository
	workpapers repository.WorkpaperRepository
	evidence   repository.EvidenceRepository
	settings   SettingsService
	log        *logger.Logger
}

// NewPortfolioService creates a new instance of PortfolioService.
func NewPortfolioService(
	properties repository.PropertyRepository,
	workpapers repository.WorkpaperRepository,
	evidence repository.EvidenceRepository,
	settings SettingsService,
	log *logger.Logger,
) PortfolioService {
	return &portfolioService{
		properties: properties,
		workpapers: workpapers,
		evidence:   evidence,
		settings:   settings,
		log:        log,
	}
}

func (s *portfolioService) Totals(ctx context.Context, taxYear string) (*models.PortfolioTotals, error) {
	taxYear, err := currentYear(ctx, s.settings, taxYear)
	if err != nil {
		return nil, err
	}

	properties, err := s.properties.List(ctx)
	if err != nil {
		s.log.Error("Failed to list properties", err, nil)
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}

	totals := &models.PortfolioTotals{
		TaxYear:          taxYear,
		TotalIncome:      decimal.Zero,
		TotalExpenses:    decimal.Zero,
		NetPosition:      decimal.Zero,
		LossCarryForward: decimal.Zero,
	}

	for _, property := range properties {
		if !property.IsActive {
			continue
		}
		totals.PropertyCount++

		wp, err := s.workpapers.FindByPropertyAndYear(ctx, property.ID, taxYear)
		if err != nil {
			return nil, fmt.Errorf("failed to look up workpaper: %w", err)
		}
		if wp == nil {
			continue
		}

		totals.TotalIncome = totals.TotalIncome.Add(wp.AdjustedIncome)
		totals.TotalExpenses = totals.TotalExpenses.Add(wp.AdjustedDeductibleExpenses)
		totals.NetPosition = totals.NetPosition.Add(wp.NetRentalIncome)
		totals.LossCarryForward = totals.LossCarryForward.Add(wp.LossCarryForward)
		if wp.Status.IsDone() {
			totals.CompletedCount++
		}

		evidence, err := visibleEvidence(ctx, s.evidence, wp)
		if err != nil {
			return nil, err
		}
		if models.HasLevel(EvaluateDiagnostics(wp, evidence), models.LevelWarning, models.LevelBlocking) {
			totals.WarningCount++
		}
	}

	return totals, nil
}
