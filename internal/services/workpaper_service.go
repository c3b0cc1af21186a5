package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/rentaltax/internal/logger"
	"github.com/stwalsh4118/rentaltax/internal/models"
	"github.com/stwalsh4118/rentaltax/internal/repository"
	"github.com/stwalsh4118/rentaltax/internal/store"
)

// workpaperNamespace seeds workpaper ids. A workpaper id is a function of
// (propertyID, taxYear), so the store's insert check keeps that pair unique.
var workpaperNamespace = uuid.MustParse("6f1c2d7e-4b8a-5e3f-9a10-2c4d6e8f0a1b")

// workpaperID returns the id of the workpaper for (propertyID, taxYear).
func workpaperID(propertyID, taxYear string) string {
	return uuid.NewSHA1(workpaperNamespace, []byte(propertyID+"|"+taxYear)).String()
}

// WorkpaperInputs is a partial update of a workpaper's income and day fields.
// Nil fields are left unchanged. Status and derived totals cannot be set here.
type WorkpaperInputs struct {
	GrossRentalIncome *decimal.Decimal
	OtherIncome       *decimal.Decimal
	DaysRented        *int
	DaysAvailable     *int
	DaysPrivate       *int
	MixedUse          *bool
}

// WorkpaperService owns workpapers, their calculation and their status.
type WorkpaperService interface {
	// Create returns the property's workpaper for taxYear, creating it if needed.
	// An empty taxYear means the current settings year.
	Create(ctx context.Context, propertyID, taxYear string, actor models.Actor) (*models.Workpaper, error)

	// Get returns ErrWorkpaperNotFound for an unknown id.
	Get(ctx context.Context, id string) (*models.Workpaper, error)

	// GetForYear returns the workpaper for (propertyID, taxYear), or ErrWorkpaperNotFound.
	GetForYear(ctx context.Context, propertyID, taxYear string) (*models.Workpaper, error)

	// ListByProperty returns every workpaper of a property.
	ListByProperty(ctx context.Context, propertyID string) ([]*models.Workpaper, error)

	// UpdateInputs applies a partial update. Returns ErrWorkpaperLocked for a locked workpaper.
	UpdateInputs(ctx context.Context, id string, inputs WorkpaperInputs, actor models.Actor) (*models.Workpaper, error)

	// Calculate runs the calculation pipeline and persists the derived totals.
	// A NotStarted workpaper moves to InProgress.
	Calculate(ctx context.Context, id string, actor models.Actor) (*models.Workpaper, error)

	// Transition moves the workpaper to target. Returns ErrInvalidTransition
	// when the state machine does not allow it.
	Transition(ctx context.Context, id string, target models.WorkpaperStatus, actor models.Actor) (*models.Workpaper, error)

	// Diagnostics evaluates the workpaper without changing it.
	Diagnostics(ctx context.Context, id string) ([]models.Diagnostic, error)

	// DeleteForProperty removes every workpaper of a property and returns how many were removed.
	DeleteForProperty(ctx context.Context, propertyID string) (int, error)
}

type workpaperService struct {
	workpapers   repository.WorkpaperRepository
	properties   repository.PropertyRepository
	evidence     repository.EvidenceRepository
	settings     SettingsService
	activities   ActivityService
	contributors ContributorService
	log          *logger.Logger
	now          func() time.Time
}

// NewWorkpaperService creates a new instance of WorkpaperService.
func NewWorkpaperService(
	workpapers repository.WorkpaperRepository,
	properties repository.PropertyRepository,
	evidence repository.EvidenceRepository,
	settings SettingsService,
	activities ActivityService,
	contributors ContributorService,
	log *logger.Logger,
) WorkpaperService {
	return &workpaperService{
		workpapers:   workpapers,
		properties:   properties,
		evidence:     evidence,
		settings:     settings,
		activities:   activities,
		contributors: contributors,
		log:          log,
		now:          time.Now,
	}
}

func (s *workpaperService) Create(ctx context.Context, propertyID, taxYear string, actor models.Actor) (*models.Workpaper, error) {
	actor = actor.OrDefault()

	property, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property: %w", err)
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}

	taxYear, err = currentYear(ctx, s.settings, taxYear)
	if err != nil {
		return nil, err
	}

	existing, err := s.workpapers.FindByPropertyAndYear(ctx, propertyID, taxYear)
	if err != nil {
		return nil, fmt.Errorf("failed to look up workpaper: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	now := s.now().UTC()
	wp := &models.Workpaper{
		ID:             workpaperID(propertyID, taxYear),
		PropertyID:     propertyID,
		TaxYear:        taxYear,
		Status:         models.WorkpaperNotStarted,
		ExpenseLines:   []models.ExpenseLine{},
		CreatedBy:      actor.UserID,
		LastModifiedBy: actor.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.workpapers.Save(ctx, wp); err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			// Lost the insert to a concurrent create of the same year.
			existing, findErr := s.workpapers.FindByPropertyAndYear(ctx, propertyID, taxYear)
			if findErr != nil {
				return nil, fmt.Errorf("failed to look up workpaper: %w", findErr)
			}
			if existing != nil {
				return existing, nil
			}
		}
		s.log.Error("Failed to create workpaper", err, map[string]interface{}{
			"property_id": propertyID,
			"tax_year":    taxYear,
		})
		return nil, fmt.Errorf("failed to create workpaper: %w", err)
	}

	if err := s.initialise(ctx, wp, actor); err != nil {
		s.log.Error("Workpaper creation incomplete, removing workpaper", err, map[string]interface{}{
			"workpaper_id": wp.ID,
			"property_id":  propertyID,
			"tax_year":     taxYear,
		})
		if delErr := s.workpapers.Delete(ctx, wp.ID); delErr != nil {
			s.log.Error("Failed to remove incomplete workpaper", delErr, map[string]interface{}{
				"workpaper_id": wp.ID,
			})
		}
		return nil, err
	}

	s.log.Info("Workpaper created", map[string]interface{}{
		"workpaper_id": wp.ID,
		"property_id":  propertyID,
		"tax_year":     taxYear,
		"actor":        actor.UserID,
	})
	return wp, nil
}

// initialise enrols the creator as owning preparer and records the Created
// activity.
func (s *workpaperService) initialise(ctx context.Context, wp *models.Workpaper, actor models.Actor) error {
	preparer, err := s.contributors.Add(ctx, wp.ID, actor.UserID, models.RolePreparer)
	if err != nil {
		return err
	}
	if _, err := s.contributors.AssignOwner(ctx, wp.ID, preparer.ID); err != nil {
		return err
	}
	_, err = s.activities.Log(ctx, wp.ID, actor, models.ActionCreated, "status", nil, strPtr(string(models.WorkpaperNotStarted)))
	return err
}

func (s *workpaperService) Get(ctx context.Context, id string) (*models.Workpaper, error) {
	wp, err := s.workpapers.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to load workpaper", err, map[string]interface{}{"workpaper_id": id})
		return nil, fmt.Errorf("failed to load workpaper: %w", err)
	}
	if wp == nil {
		return nil, ErrWorkpaperNotFound
	}
	return wp, nil
}

func (s *workpaperService) GetForYear(ctx context.Context, propertyID, taxYear string) (*models.Workpaper, error) {
	wp, err := s.workpapers.FindByPropertyAndYear(ctx, propertyID, taxYear)
	if err != nil {
		return nil, fmt.Errorf("failed to look up workpaper: %w", err)
	}
	if wp == nil {
		return nil, ErrWorkpaperNotFound
	}
	return wp, nil
}

func (s *workpaperService) ListByProperty(ctx context.Context, propertyID string) ([]*models.Workpaper, error) {
	wps, err := s.workpapers.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workpapers: %w", err)
	}
	return wps, nil
}

type inputChange struct {
	field    string
	oldValue string
	newValue string
}

func (s *workpaperService) UpdateInputs(ctx context.Context, id string, inputs WorkpaperInputs, actor models.Actor) (*models.Workpaper, error) {
	actor = actor.OrDefault()

	wp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if wp.Status == models.WorkpaperLocked {
		s.log.Warn("Rejected update of locked workpaper", map[string]interface{}{"workpaper_id": id})
		return nil, ErrWorkpaperLocked
	}

	var changes []inputChange
	setDecimal := func(field string, dst *decimal.Decimal, v *decimal.Decimal) {
		if v != nil && !dst.Equal(*v) {
			changes = append(changes, inputChange{field, dst.String(), v.String()})
			*dst = *v
		}
	}
	setInt := func(field string, dst *int, v *int) {
		if v != nil && *dst != *v {
			changes = append(changes, inputChange{field, strconv.Itoa(*dst), strconv.Itoa(*v)})
			*dst = *v
		}
	}

	setDecimal("grossRentalIncome", &wp.GrossRentalIncome, inputs.GrossRentalIncome)
	setDecimal("otherIncome", &wp.OtherIncome, inputs.OtherIncome)
	setInt("daysRented", &wp.DaysRented, inputs.DaysRented)
	setInt("daysAvailable", &wp.DaysAvailable, inputs.DaysAvailable)
	setInt("daysPrivate", &wp.DaysPrivate, inputs.DaysPrivate)
	if inputs.MixedUse != nil && wp.MixedUse != *inputs.MixedUse {
		changes = append(changes, inputChange{"mixedUse", strconv.FormatBool(wp.MixedUse), strconv.FormatBool(*inputs.MixedUse)})
		wp.MixedUse = *inputs.MixedUse
	}

	if len(changes) == 0 {
		return wp, nil
	}

	wp.LastModifiedBy = actor.UserID
	wp.UpdatedAt = s.now().UTC()
	if err := s.workpapers.Save(ctx, wp); err != nil {
		s.log.Error("Failed to update workpaper", err, map[string]interface{}{"workpaper_id": id})
		return nil, fmt.Errorf("failed to update workpaper: %w", err)
	}

	for _, c := range changes {
		if _, err := s.activities.Log(ctx, id, actor, models.ActionInputsUpdated, c.field, strPtr(c.oldValue), strPtr(c.newValue)); err != nil {
			return nil, err
		}
	}

	s.log.Info("Workpaper inputs updated", map[string]interface{}{
		"workpaper_id": id,
		"changes":      len(changes),
		"actor":        actor.UserID,
	})
	return wp, nil
}

func (s *workpaperService) Calculate(ctx context.Context, id string, actor models.Actor) (*models.Workpaper, error) {
	actor = actor.OrDefault()

	wp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Locked figures were fixed when the workpaper was locked.
	if wp.Status == models.WorkpaperLocked {
		workpaperCalculations.WithLabelValues("locked").Inc()
		return wp, nil
	}

	derived, err := s.derive(ctx, wp)
	if err != nil {
		return nil, err
	}
	started := wp.Status == models.WorkpaperNotStarted

	// An unchanged, already started workpaper needs no write.
	if !started && wp.Derived.Equal(derived) {
		workpaperCalculations.WithLabelValues("unchanged").Inc()
		return wp, nil
	}

	wp.Derived = derived
	if started {
		wp.Status = models.WorkpaperInProgress
	}
	wp.LastModifiedBy = actor.UserID
	wp.UpdatedAt = s.now().UTC()

	if err := s.workpapers.Save(ctx, wp); err != nil {
		s.log.Error("Failed to save calculation", err, map[string]interface{}{"workpaper_id": id})
		return nil, fmt.Errorf("failed to save calculation: %w", err)
	}

	if started {
		_, err := s.activities.Log(ctx, id, actor, models.ActionStatusChange, "status",
			strPtr(string(models.WorkpaperNotStarted)), strPtr(string(models.WorkpaperInProgress)))
		if err != nil {
			return nil, err
		}
	}

	workpaperCalculations.WithLabelValues("changed").Inc()
	s.log.Info("Workpaper calculated", map[string]interface{}{
		"workpaper_id": id,
		"net":          derived.NetRentalIncome.String(),
		"actor":        actor.UserID,
	})
	return wp, nil
}

// derive runs the calculation pipeline with the current settings.
func (s *workpaperService) derive(ctx context.Context, wp *models.Workpaper) (models.Derived, error) {
	property, err := s.properties.FindByID(ctx, wp.PropertyID)
	if err != nil {
		return models.Derived{}, fmt.Errorf("failed to load property: %w", err)
	}
	if property == nil {
		return models.Derived{}, ErrPropertyNotFound
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return models.Derived{}, err
	}
	return Calculate(NewCalculationInput(wp, property, settings.RateFor(wp.TaxYear))), nil
}

func (s *workpaperService) Transition(ctx context.Context, id string, target models.WorkpaperStatus, actor models.Actor) (*models.Workpaper, error) {
	actor = actor.OrDefault()

	wp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := wp.Status
	if !from.CanTransitionTo(target) {
		s.log.Warn("Rejected workpaper transition", map[string]interface{}{
			"workpaper_id": id,
			"from":         from,
			"to":           target,
		})
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, target)
	}

	if target == models.WorkpaperLocked {
		derived, err := s.derive(ctx, wp)
		if err != nil {
			return nil, err
		}
		wp.Derived = derived
	}

	wp.Status = target
	wp.LastModifiedBy = actor.UserID
	wp.UpdatedAt = s.now().UTC()
	if err := s.workpapers.Save(ctx, wp); err != nil {
		s.log.Error("Failed to save transition", err, map[string]interface{}{"workpaper_id": id})
		return nil, fmt.Errorf("failed to save transition: %w", err)
	}

	if _, err := s.activities.Log(ctx, id, actor, models.ActionStatusChange, "status", strPtr(string(from)), strPtr(string(target))); err != nil {
		return nil, err
	}

	s.log.Info("Workpaper status changed", map[string]interface{}{
		"workpaper_id": id,
		"from":         from,
		"to":           target,
		"actor":        actor.UserID,
	})
	return wp, nil
}

func (s *workpaperService) Diagnostics(ctx context.Context, id string) ([]models.Diagnostic, error) {
	wp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	evidence, err := visibleEvidence(ctx, s.evidence, wp)
	if err != nil {
		return nil, err
	}
	return EvaluateDiagnostics(wp, evidence), nil
}

func (s *workpaperService) DeleteForProperty(ctx context.Context, propertyID string) (int, error) {
	wps, err := s.workpapers.ListByProperty(ctx, propertyID)
	if err != nil {
		return 0, fmt.Errorf("failed to list workpapers: %w", err)
	}
	for _, wp := range wps {
		if err := s.workpapers.Delete(ctx, wp.ID); err != nil {
			s.log.Error("Failed to delete workpaper", err, map[string]interface{}{"workpaper_id": wp.ID})
			return 0, fmt.Errorf("failed to delete workpaper: %w", err)
		}
	}
	return len(wps), nil
}
