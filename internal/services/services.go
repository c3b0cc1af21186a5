package services

import (
	"github.com/stwalsh4118/rentaltax/internal/config"
	"github.com/stwalsh4118/rentaltax/internal/jurisdiction"
	"github.com/stwalsh4118/rentaltax/internal/logger"
	"github.com/stwalsh4118/rentaltax/internal/repository"
	"github.com/stwalsh4118/rentaltax/internal/store"
)

// Services groups every service wired over a single store.
type Services struct {
	Settings     SettingsService
	Properties   PropertyService
	Workpapers   WorkpaperService
	Expenses     ExpenseService
	Evidence     EvidenceService
	Contributors ContributorService
	Activities   ActivityService
	Summaries    SummaryService
	Portfolio    PortfolioService
	TaxReturns   TaxReturnService
	Registry     *jurisdiction.Registry
}

// New wires the repositories and services on top of s.
func New(s store.Store, tax config.TaxConfig, registry *jurisdiction.Registry, log *logger.Logger) *Services {
	propertyRepo := repository.NewPropertyRepository(s)
	workpaperRepo := repository.NewWorkpaperRepository(s)
	evidenceRepo := repository.NewEvidenceRepository(s)
	contributorRepo := repository.NewContributorRepository(s)
	activityRepo := repository.NewActivityRepository(s)
	taxReturnRepo := repository.NewTaxReturnRepository(s)
	settingsRepo := repository.NewSettingsRepository(s)

	settings := NewSettingsService(settingsRepo, tax, log)
	contributors := NewContributorService(contributorRepo, workpaperRepo, log)
	activities := NewActivityService(activityRepo, contributors, log)
	workpapers := NewWorkpaperService(workpaperRepo, propertyRepo, evidenceRepo, settings, activities, contributors, log)
	summaries := NewSummaryService(workpapers, propertyRepo, settings, log)

	return &Services{
		Settings:     settings,
		Properties:   NewPropertyService(propertyRepo, workpapers, log),
		Workpapers:   workpapers,
		Expenses:     NewExpenseService(workpaperRepo, evidenceRepo, activities, log),
		Evidence:     NewEvidenceService(evidenceRepo, workpaperRepo, activities, log),
		Contributors: contributors,
		Activities:   activities,
		Summaries:    summaries,
		Portfolio:    NewPortfolioService(propertyRepo, workpaperRepo, evidenceRepo, settings, log),
		TaxReturns:   NewTaxReturnService(taxReturnRepo, summaries, settings, registry, log),
		Registry:     registry,
	}
}
