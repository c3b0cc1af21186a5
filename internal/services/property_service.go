package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/rentaltax/internal/logger"
	"github.com/stwalsh4118/rentaltax/internal/models"
	"github.com/stwalsh4118/rentaltax/internal/repository"
)

// NewProperty describes a property to register. Ownership defaults to 1.0,
// classification to Residential, type to House and IsActive to true.
// Ownership bounds are not checked here.
type NewProperty struct {
	AcquisitionDate     *time.Time
	DisposalDate        *time.Time
	OwnershipPercentage *decimal.Decimal
	IsActive            *bool
	DisplayName         string
	AddressLine1        string
	City                string
	PropertyType        string
	TaxClassification   models.TaxClassification
	IsMainHome          bool
	IsNewBuild          bool
}

// PropertyPatch is a partial property update. Nil fields are left unchanged.
type PropertyPatch struct {
	AcquisitionDate     *time.Time
	DisposalDate        *time.Time
	OwnershipPercentage *decimal.Decimal
	DisplayName         *string
	AddressLine1        *string
	City                *string
	PropertyType        *string
	TaxClassification   *models.TaxClassification
	IsMainHome          *bool
	IsNewBuild          *bool
	IsActive            *bool
}

// PropertyService manages the property register.
type PropertyService interface {
	// Create registers a property and its workpaper for the current tax year.
	Create(ctx context.Context, in NewProperty, actor models.Actor) (*models.Property, error)

	// Get returns ErrPropertyNotFound for an unknown id.
	Get(ctx context.Context, id string) (*models.Property, error)

	// List returns every property, or only active ones when activeOnly is set.
	List(ctx context.Context, activeOnly bool) ([]*models.Property, error)

	Update(ctx context.Context, id string, patch PropertyPatch, actor models.Actor) (*models.Property, error)

	// Delete removes the property and its workpapers. Evidence, activity and
	// contributor records of those workpapers are kept.
	Delete(ctx context.Context, id string, actor models.Actor) error
}

type propertyService struct {
	repo       repository.PropertyRepository
	workpapers WorkpaperService
	log        *logger.Logger
}

// NewPropertyService creates a new instance of PropertyService.
func NewPropertyService(repo repository.PropertyRepository, workpapers WorkpaperService, log *logger.Logger) PropertyService {
	return &propertyService{
		repo:       repo,
		workpapers: workpapers,
		log:        log,
	}
}

func (s *propertyService) Create(ctx context.Context, in NewProperty, actor models.Actor) (*models.Property, error) {
	actor = actor.OrDefault()

	if in.TaxClassification == "" {
		in.TaxClassification = models.ClassificationResidential
	}
	if !in.TaxClassification.IsValid() {
		return nil, fmt.Errorf("%w: unknown tax classification %q", ErrInvalidInput, in.TaxClassification)
	}

	property := &models.Property{
		ID:                  uuid.New().String(),
		DisplayName:         in.DisplayName,
		AddressLine1:        in.AddressLine1,
		City:                in.City,
		PropertyType:        in.PropertyType,
		TaxClassification:   in.TaxClassification,
		OwnershipPercentage: decimal.NewFromInt(1),
		AcquisitionDate:     in.AcquisitionDate,
		DisposalDate:        in.DisposalDate,
		IsMainHome:          in.IsMainHome,
		IsNewBuild:          in.IsNewBuild,
		IsActive:            in.IsActive == nil || *in.IsActive,
	}
	if property.PropertyType == "" {
		property.PropertyType = models.DefaultPropertyType
	}
	if in.OwnershipPercentage != nil {
		property.OwnershipPercentage = *in.OwnershipPercentage
	}

	if err := s.repo.Save(ctx, property); err != nil {
		s.log.Error("Failed to create property", err, nil)
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	if _, err := s.workpapers.Create(ctx, property.ID, "", actor); err != nil {
		return nil, err
	}

	s.log.Info("Property created", map[string]interface{}{
		"property_id":    property.ID,
		"classification": property.TaxClassification,
		"actor":          actor.UserID,
	})
	return property, nil
}

func (s *propertyService) Get(ctx context.Context, id string) (*models.Property, error) {
	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to load property", err, map[string]interface{}{"property_id": id})
		return nil, fmt.Errorf("failed to load property: %w", err)
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}
	return property, nil
}

func (s *propertyService) List(ctx context.Context, activeOnly bool) ([]*models.Property, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("Failed to list properties", err, nil)
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	if !activeOnly {
		return all, nil
	}

	active := make([]*models.Property, 0, len(all))
	for _, p := range all {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active, nil
}

func (s *propertyService) Update(ctx context.Context, id string, patch PropertyPatch, actor models.Actor) (*models.Property, error) {
	actor = actor.OrDefault()

	if patch.TaxClassification != nil && !patch.TaxClassification.IsValid() {
		return nil, fmt.Errorf("%w: unknown tax classification %q", ErrInvalidInput, *patch.TaxClassification)
	}

	property, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.DisplayName != nil {
		property.DisplayName = *patch.DisplayName
	}
	if patch.AddressLine1 != nil {
		property.AddressLine1 = *patch.AddressLine1
	}
	if patch.City != nil {
		property.City = *patch.City
	}
	if patch.PropertyType != nil {
		property.PropertyType = *patch.PropertyType
	}
	if patch.TaxClassification != nil {
		property.TaxClassification = *patch.TaxClassification
	}
	if patch.OwnershipPercentage != nil {
		property.OwnershipPercentage = *patch.OwnershipPercentage
	}
	if patch.AcquisitionDate != nil {
		property.AcquisitionDate = patch.AcquisitionDate
	}
	if patch.DisposalDate != nil {
		property.DisposalDate = patch.DisposalDate
	}
	if patch.IsMainHome != nil {
		property.IsMainHome = *patch.IsMainHome
	}
	if patch.IsNewBuild != nil {
		property.IsNewBuild = *patch.IsNewBuild
	}
	if patch.IsActive != nil {
		property.IsActive = *patch.IsActive
	}

	if err := s.repo.Save(ctx, property); err != nil {
		s.log.Error("Failed to update property", err, map[string]interface{}{"property_id": id})
		return nil, fmt.Errorf("failed to update property: %w", err)
	}

	s.log.Info("Property updated", map[string]interface{}{
		"property_id": id,
		"actor":       actor.UserID,
	})
	return property, nil
}

func (s *propertyService) Delete(ctx context.Context, id string, actor models.Actor) error {
	actor = actor.OrDefault()

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete property", err, map[string]interface{}{"property_id": id})
		return fmt.Errorf("failed to delete property: %w", err)
	}

	removed, err := s.workpapers.DeleteForProperty(ctx, id)
	if err != nil {
		return err
	}

	s.log.Info("Property deleted", map[string]interface{}{
		"property_id":        id,
		"workpapers_removed": removed,
		"actor":              actor.UserID,
	})
	return nil
}
