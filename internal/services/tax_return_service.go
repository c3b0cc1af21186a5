package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/rentaltax/internal/jurisdiction"
	"github.com/stwalsh4118/rentaltax/internal/logger"
	"github.com/stwalsh4118/rentaltax/internal/models"
	"github.com/stwalsh4118/rentaltax/internal/repository"
)

// GenerateRequest selects the year, jurisdiction and rental inputs of a new return.
type GenerateRequest struct {
	TaxYear      string
	Jurisdiction models.Jurisdiction
	Inputs       models.RentalInputs
}

// TaxReturnService generates returns and drives their lifecycle.
type TaxReturnService interface {
	// Generate maps the year's rental summaries into a new Draft return. An
	// unsupported jurisdiction fails before anything is persisted.
	Generate(ctx context.Context, req GenerateRequest, actor models.Actor) (*models.TaxReturn, error)

	Get(ctx context.Context, id string) (*models.TaxReturn, error)
	List(ctx context.Context) ([]*models.TaxReturn, error)

	// Validate recomputes compliance findings and stores them on the return.
	Validate(ctx context.Context, id string, actor models.Actor) (models.Validation, error)

	// Transition moves the return to target. Locked is routed through Lock.
	Transition(ctx context.Context, id string, target models.TaxReturnStatus, actor models.Actor) (*models.TaxReturn, error)

	// Lock freezes a Complete return. Blocking findings yield a
	// *LockRefusedError and leave the status unchanged.
	Lock(ctx context.Context, id string, actor models.Actor) (*models.TaxReturn, error)
}

type taxReturnService struct {
	repo      repository.TaxReturnRepository
	summaries SummaryService
	settings  SettingsService
	registry  *jurisdiction.Registry
	log       *logger.Logger
	now       func() time.Time
}

// NewTaxReturnService creates a new instance of TaxReturnService.
func NewTaxReturnService(
	repo repository.TaxReturnRepository,
	summaries SummaryService,
	settings SettingsService,
	registry *jurisdiction.Registry,
	log *logger.Logger,
) TaxReturnService {
	return &taxReturnService{
		repo:      repo,
		summaries: summaries,
		settings:  settings,
		registry:  registry,
		log:       log,
		now:       time.Now,
	}
}

func (s *taxReturnService) Generate(ctx context.Context, req GenerateRequest, actor models.Actor) (*models.TaxReturn, error) {
	actor = actor.OrDefault()

	if req.Jurisdiction == "" {
		req.Jurisdiction = models.JurisdictionNZIRD
	}
	mapper, err := s.registry.Lookup(req.Jurisdiction)
	if err != nil {
		s.log.Warn("Rejected tax return generation", map[string]interface{}{
			"jurisdiction": req.Jurisdiction,
		})
		return nil, err
	}

	taxYear, err := currentYear(ctx, s.settings, req.TaxYear)
	if err != nil {
		return nil, err
	}

	summaries, err := s.summaries.Summaries(ctx, taxYear, actor)
	if err != nil {
		return nil, err
	}
	flat := make([]models.RentalSummary, 0, len(summaries))
	for _, summary := range summaries {
		flat = append(flat, *summary)
	}

	section := mapper.Map(taxYear, flat, req.Inputs)
	section.Validation = mapper.Validate(section)

	now := s.now().UTC()
	taxReturn := &models.TaxReturn{
		ID:           uuid.New().String(),
		TaxpayerID:   actor.UserID,
		TaxYear:      taxYear,
		Jurisdiction: req.Jurisdiction,
		Status:       models.TaxReturnDraft,
		Sections:     map[string]*models.RentalSection{models.RentalSectionKey: section},
		Validation:   section.Validation,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Save(ctx, taxReturn); err != nil {
		s.log.Error("Failed to create tax return", err, map[string]interface{}{"tax_year": taxYear})
		return nil, fmt.Errorf("failed to create tax return: %w", err)
	}

	taxReturnsGenerated.WithLabelValues(string(req.Jurisdiction)).Inc()
	s.log.Info("Tax return generated", map[string]interface{}{
		"tax_return_id": taxReturn.ID,
		"tax_year":      taxYear,
		"jurisdiction":  req.Jurisdiction,
		"properties":    len(flat),
		"blocking":      len(taxReturn.Validation.Blocking),
		"actor":         actor.UserID,
	})
	return taxReturn, nil
}

func (s *taxReturnService) Get(ctx context.Context, id string) (*models.TaxReturn, error) {
	taxReturn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to load tax return", err, map[string]interface{}{"tax_return_id": id})
		return nil, fmt.Errorf("failed to load tax return: %w", err)
	}
	if taxReturn == nil {
		return nil, ErrTaxReturnNotFound
	}
	return taxReturn, nil
}

func (s *taxReturnService) List(ctx context.Context) ([]*models.TaxReturn, error) {
	returns, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("Failed to list tax returns", err, nil)
		return nil, fmt.Errorf("failed to list tax returns: %w", err)
	}
	return returns, nil
}

func (s *taxReturnService) Validate(ctx context.Context, id string, actor models.Actor) (models.Validation, error) {
	actor = actor.OrDefault()

	taxReturn, err := s.Get(ctx, id)
	if err != nil {
		return models.Validation{}, err
	}

	validation := ValidateCompliance(s.registry, taxReturn)
	if err := s.storeValidation(ctx, taxReturn, validation); err != nil {
		return models.Validation{}, err
	}

	s.log.Info("Tax return validated", map[string]interface{}{
		"tax_return_id": id,
		"blocking":      len(validation.Blocking),
		"warnings":      len(validation.Warnings),
		"actor":         actor.UserID,
	})
	return validation, nil
}

func (s *taxReturnService) Transition(ctx context.Context, id string, target models.TaxReturnStatus, actor models.Actor) (*models.TaxReturn, error) {
	if target == models.TaxReturnLocked {
		return s.Lock(ctx, id, actor)
	}
	actor = actor.OrDefault()

	taxReturn, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := taxReturn.Status
	if !from.CanTransitionTo(target) {
		s.log.Warn("Rejected tax return transition", map[string]interface{}{
			"tax_return_id": id,
			"from":          from,
			"to":            target,
		})
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, target)
	}

	taxReturn.Status = target
	taxReturn.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, taxReturn); err != nil {
		s.log.Error("Failed to save tax return transition", err, map[string]interface{}{"tax_return_id": id})
		return nil, fmt.Errorf("failed to save tax return: %w", err)
	}

	s.log.Info("Tax return status changed", map[string]interface{}{
		"tax_return_id": id,
		"from":          from,
		"to":            target,
		"actor":         actor.UserID,
	})
	return taxReturn, nil
}

func (s *taxReturnService) Lock(ctx context.Context, id string, actor models.Actor) (*models.TaxReturn, error) {
	actor = actor.OrDefault()

	taxReturn, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if taxReturn.Status != models.TaxReturnComplete {
		s.log.Warn("Rejected lock of incomplete tax return", map[string]interface{}{
			"tax_return_id": id,
			"status":        taxReturn.Status,
		})
		taxReturnLocks.WithLabelValues("not_complete").Inc()
		return nil, fmt.Errorf("%w. Current: %s", ErrTaxReturnNotComplete, taxReturn.Status)
	}

	validation := ValidateCompliance(s.registry, taxReturn)
	if validation.HasBlocking() {
		if err := s.storeValidation(ctx, taxReturn, validation); err != nil {
			return nil, err
		}
		s.log.Warn("Rejected lock with blocking issues", map[string]interface{}{
			"tax_return_id": id,
			"blocking":      len(validation.Blocking),
		})
		taxReturnLocks.WithLabelValues("refused").Inc()
		return nil, &LockRefusedError{Validation: validation}
	}

	taxReturn.Status = models.TaxReturnLocked
	taxReturn.Validation = validation
	taxReturn.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, taxReturn); err != nil {
		s.log.Error("Failed to lock tax return", err, map[string]interface{}{"tax_return_id": id})
		return nil, fmt.Errorf("failed to lock tax return: %w", err)
	}

	taxReturnLocks.WithLabelValues("locked").Inc()
	s.log.Info("Tax return locked", map[string]interface{}{
		"tax_return_id": id,
		"actor":         actor.UserID,
	})
	return taxReturn, nil
}

// storeValidation persists findings without touching the status.
func (s *taxReturnService) storeValidation(ctx context.Context, taxReturn *models.TaxReturn, validation models.Validation) error {
	taxReturn.Validation = validation
	if section := taxReturn.RentalSection(); section != nil {
		section.Validation = validation
	}
	taxReturn.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, taxReturn); err != nil {
		s.log.Error("Failed to save tax return validation", err, map[string]interface{}{"tax_return_id": taxReturn.ID})
		return fmt.Errorf("failed to save tax return: %w", err)
	}
	return nil
}

// IsLockRefused reports whether err is a lock refusal and returns it.
func IsLockRefused(err error) (*LockRefusedError, bool) {
	var refused *LockRefusedError
	if errors.As(err, &refused) {
		return refused, true
	}
	return nil, false
}
