package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/rentaltax/internal/logger"
	"github.com/stwalsh4118/rentaltax/internal/models"
	"github.com/stwalsh4118/rentaltax/internal/repository"
)

// ContributorService tracks who works on a workpaper.
type ContributorService interface {
	// List returns the contributors of a workpaper in enrollment order.
	List(ctx context.Context, workpaperID string) ([]models.Contributor, error)

	// Add enrolls userID with role. An already active contributor is returned unchanged.
	Add(ctx context.Context, workpaperID, userID string, role models.ContributorRole) (*models.Contributor, error)

	// AssignOwner makes contributorID the only current owner.
	AssignOwner(ctx context.Context, workpaperID, contributorID string) (*models.Contributor, error)

	// UpdateRole changes a contributor's role.
	UpdateRole(ctx context.Context, workpaperID, contributorID string, role models.ContributorRole) (*models.Contributor, error)

	// Ensure enrolls userID as a Contributor if needed and stamps its last activity.
	Ensure(ctx context.Context, workpaperID, userID string) (*models.Contributor, error)
}

type contributorService struct {
	repo       repository.ContributorRepository
	workpapers repository.WorkpaperRepository
	log        *logger.Logger
	now        func() time.Time
}

// NewContributorService creates a new instance of ContributorService.
func NewContributorService(repo repository.ContributorRepository, workpapers repository.WorkpaperRepository, log *logger.Logger) ContributorService {
	return &contributorService{
		repo:       repo,
		workpapers: workpapers,
		log:        log,
		now:        time.Now,
	}
}

func (s *contributorService) roster(ctx context.Context, workpaperID string) (*models.ContributorRoster, error) {
	roster, err := s.repo.FindRoster(ctx, workpaperID)
	if err != nil {
		s.log.Error("Failed to load contributors", err, map[string]interface{}{"workpaper_id": workpaperID})
		return nil, fmt.Errorf("failed to load contributors: %w", err)
	}
	if roster == nil {
		roster = &models.ContributorRoster{WorkpaperID: workpaperID, Contributors: []models.Contributor{}}
	}
	return roster, nil
}

func (s *contributorService) save(ctx context.Context, roster *models.ContributorRoster) error {
	if err := s.repo.SaveRoster(ctx, roster); err != nil {
		s.log.Error("Failed to save contributors", err, map[string]interface{}{"workpaper_id": roster.WorkpaperID})
		return fmt.Errorf("failed to save contributors: %w", err)
	}
	return nil
}

func (s *contributorService) requireWorkpaper(ctx context.Context, workpaperID string) error {
	wp, err := s.workpapers.FindByID(ctx, workpaperID)
	if err != nil {
		return fmt.Errorf("failed to load workpaper: %w", err)
	}
	if wp == nil {
		return ErrWorkpaperNotFound
	}
	return nil
}

func (s *contributorService) List(ctx context.Context, workpaperID string) ([]models.Contributor, error) {
	if err := s.requireWorkpaper(ctx, workpaperID); err != nil {
		return nil, err
	}
	roster, err := s.roster(ctx, workpaperID)
	if err != nil {
		return nil, err
	}
	return roster.Contributors, nil
}

func (s *contributorService) Add(ctx context.Context, workpaperID, userID string, role models.ContributorRole) (*models.Contributor, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if role == "" {
		role = models.RoleContributor
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	if err := s.requireWorkpaper(ctx, workpaperID); err != nil {
		return nil, err
	}

	roster, err := s.roster(ctx, workpaperID)
	if err != nil {
		return nil, err
	}
	if existing := roster.FindActive(userID); existing != nil {
		out := *existing
		return &out, nil
	}

	c := s.enroll(roster, userID, role)
	if err := s.save(ctx, roster); err != nil {
		return nil, err
	}

	s.log.Info("Contributor added", map[string]interface{}{
		"workpaper_id": workpaperID,
		"user_id":      userID,
		"role":         role,
	})
	return &c, nil
}

func (s *contributorService) enroll(roster *models.ContributorRoster, userID string, role models.ContributorRole) models.Contributor {
	now := s.now().UTC()
	c := models.Contributor{
		ID:              uuid.New().String(),
		WorkpaperID:     roster.WorkpaperID,
		UserID:          userID,
		Role:            role,
		FirstActivityAt: now,
		LastActivityAt:  now,
		IsActive:        true,
	}
	roster.Contributors = append(roster.Contributors, c)
	return c
}

func (s *contributorService) AssignOwner(ctx context.Context, workpaperID, contributorID string) (*models.Contributor, error) {
	roster, err := s.roster(ctx, workpaperID)
	if err != nil {
		return nil, err
	}
	if !roster.AssignOwner(contributorID) {
		return nil, ErrContributorNotFound
	}
	if err := s.save(ctx, roster); err != nil {
		return nil, err
	}

	s.log.Info("Workpaper owner assigned", map[string]interface{}{
		"workpaper_id":   workpaperID,
		"contributor_id": contributorID,
	})
	out := *roster.Find(contributorID)
	return &out, nil
}

func (s *contributorService) UpdateRole(ctx context.Context, workpaperID, contributorID string, role models.ContributorRole) (*models.Contributor, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	roster, err := s.roster(ctx, workpaperID)
	if err != nil {
		return nil, err
	}
	c := roster.Find(contributorID)
	if c == nil {
		return nil, ErrContributorNotFound
	}
	c.Role = role
	if err := s.save(ctx, roster); err != nil {
		return nil, err
	}

	out := *c
	return &out, nil
}

func (s *contributorService) Ensure(ctx context.Context, workpaperID, userID string) (*models.Contributor, error) {
	roster, err := s.roster(ctx, workpaperID)
	if err != nil {
		return nil, err
	}

	var c models.Contributor
	if existing := roster.FindActive(userID); existing != nil {
		existing.LastActivityAt = s.now().UTC()
		c = *existing
	} else {
		c = s.enroll(roster, userID, models.RoleContributor)
	}

	if err := s.save(ctx, roster); err != nil {
		return nil, err
	}
	return &c, nil
}
