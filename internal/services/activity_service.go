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

// ActivityService records the audit trail of a workpaper.
type ActivityService interface {
	// Log appends an entry attributed to actor and enrolls the actor as a
	// contributor of the workpaper.
	Log(ctx context.Context, workpaperID string, actor models.Actor, action models.ActivityAction, field string, oldValue, newValue *string) (*models.ActivityEntry, error)

	// List returns the workpaper's entries, newest first.
	List(ctx context.Context, workpaperID string) ([]*models.ActivityEntry, error)
}

type activityService struct {
	repo         repository.ActivityRepository
	contributors ContributorService
	log          *logger.Logger
	now          func() time.Time
}

// NewActivityService creates a new instance of ActivityService.
func NewActivityService(repo repository.ActivityRepository, contributors ContributorService, log *logger.Logger) ActivityService {
	return &activityService{
		repo:         repo,
		contributors: contributors,
		log:          log,
		now:          time.Now,
	}
}

func (s *activityService) Log(ctx context.Context, workpaperID string, actor models.Actor, action models.ActivityAction, field string, oldValue, newValue *string) (*models.ActivityEntry, error) {
	actor = actor.OrDefault()
	entry := &models.ActivityEntry{
		ID:          uuid.New().String(),
		WorkpaperID: workpaperID,
		UserID:      actor.UserID,
		ActionType:  action,
		FieldName:   field,
		OldValue:    oldValue,
		NewValue:    newValue,
		Timestamp:   s.now().UTC(),
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		s.log.Error("Failed to append activity", err, map[string]interface{}{
			"workpaper_id": workpaperID,
			"action":       action,
		})
		return nil, fmt.Errorf("failed to append activity: %w", err)
	}

	if _, err := s.contributors.Ensure(ctx, workpaperID, actor.UserID); err != nil {
		return nil, err
	}

	s.log.Debug("Activity logged", map[string]interface{}{
		"workpaper_id": workpaperID,
		"action":       action,
		"actor":        actor.UserID,
	})
	return entry, nil
}

func (s *activityService) List(ctx context.Context, workpaperID string) ([]*models.ActivityEntry, error) {
	entries, err := s.repo.ListByWorkpaper(ctx, workpaperID)
	if err != nil {
		s.log.Error("Failed to list activities", err, map[string]interface{}{"workpaper_id": workpaperID})
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return entries, nil
}

// strPtr returns a pointer to s for nullable activity values.
func strPtr(s string) *string {
	return &s
}
