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

// NewEvidence describes an uploaded attachment. Only its metadata is kept.
type NewEvidence struct {
	FileName    string
	ContentType string
	SizeBytes   int64
}

// EvidenceService manages attachment records of a workpaper.
type EvidenceService interface {
	Add(ctx context.Context, workpaperID string, in NewEvidence, actor models.Actor) (*models.Evidence, error)

	// List returns evidence attached to the workpaper and evidence referenced by its lines.
	List(ctx context.Context, workpaperID string) ([]*models.Evidence, error)

	// Remove deletes the record. Lines keep their now dangling references.
	Remove(ctx context.Context, evidenceID string, actor models.Actor) error
}

type evidenceService struct {
	repo       repository.EvidenceRepository
	workpapers repository.WorkpaperRepository
	activities ActivityService
	log        *logger.Logger
	now        func() time.Time
}

// NewEvidenceService creates a new instance of EvidenceService.
func NewEvidenceService(repo repository.EvidenceRepository, workpapers repository.WorkpaperRepository, activities ActivityService, log *logger.Logger) EvidenceService {
	return &evidenceService{
		repo:       repo,
		workpapers: workpapers,
		activities: activities,
		log:        log,
		now:        time.Now,
	}
}

func (s *evidenceService) workpaper(ctx context.Context, id string) (*models.Workpaper, error) {
	wp, err := s.workpapers.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load workpaper: %w", err)
	}
	if wp == nil {
		return nil, ErrWorkpaperNotFound
	}
	return wp, nil
}

func (s *evidenceService) Add(ctx context.Context, workpaperID string, in NewEvidence, actor models.Actor) (*models.Evidence, error) {
	actor = actor.OrDefault()

	if in.SizeBytes < 0 {
		return nil, fmt.Errorf("%w: size must not be negative", ErrInvalidInput)
	}
	if _, err := s.workpaper(ctx, workpaperID); err != nil {
		return nil, err
	}

	evidence := &models.Evidence{
		ID:          uuid.New().String(),
		WorkpaperID: workpaperID,
		FileName:    in.FileName,
		ContentType: in.ContentType,
		SizeBytes:   in.SizeBytes,
		UploadedAt:  s.now().UTC(),
		UploadedBy:  actor.UserID,
	}
	if evidence.FileName == "" {
		evidence.FileName = models.DefaultEvidenceFileName
	}
	if evidence.ContentType == "" {
		evidence.ContentType = models.DefaultEvidenceContentType
	}

	if err := s.repo.Save(ctx, evidence); err != nil {
		s.log.Error("Failed to save evidence", err, map[string]interface{}{"workpaper_id": workpaperID})
		return nil, fmt.Errorf("failed to save evidence: %w", err)
	}
	if _, err := s.activities.Log(ctx, workpaperID, actor, models.ActionAddedEvidence, "evidence", nil, strPtr(evidence.FileName)); err != nil {
		return nil, err
	}

	s.log.Info("Evidence added", map[string]interface{}{
		"workpaper_id": workpaperID,
		"evidence_id":  evidence.ID,
		"size_bytes":   evidence.SizeBytes,
	})
	return evidence, nil
}

func (s *evidenceService) List(ctx context.Context, workpaperID string) ([]*models.Evidence, error) {
	wp, err := s.workpaper(ctx, workpaperID)
	if err != nil {
		return nil, err
	}

	return visibleEvidence(ctx, s.repo, wp)
}

// visibleEvidence returns the evidence attached to the workpaper plus any
// evidence referenced from its lines.
func visibleEvidence(ctx context.Context, repo repository.EvidenceRepository, wp *models.Workpaper) ([]*models.Evidence, error) {
	items, err := repo.ListByWorkpaper(ctx, wp.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evidence: %w", err)
	}

	seen := make(map[string]struct{}, len(items))
	for _, e := range items {
		seen[e.ID] = struct{}{}
	}
	for _, id := range wp.ReferencedEvidenceIDs() {
		if _, ok := seen[id]; ok {
			continue
		}
		e, err := repo.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load evidence: %w", err)
		}
		if e != nil {
			items = append(items, e)
			seen[id] = struct{}{}
		}
	}
	return items, nil
}

func (s *evidenceService) Remove(ctx context.Context, evidenceID string, actor models.Actor) error {
	actor = actor.OrDefault()

	evidence, err := s.repo.FindByID(ctx, evidenceID)
	if err != nil {
		return fmt.Errorf("failed to load evidence: %w", err)
	}
	if evidence == nil {
		return ErrEvidenceNotFound
	}

	if err := s.repo.Delete(ctx, evidenceID); err != nil {
		s.log.Error("Failed to delete evidence", err, map[string]interface{}{"evidence_id": evidenceID})
		return fmt.Errorf("failed to delete evidence: %w", err)
	}
	if _, err := s.activities.Log(ctx, evidence.WorkpaperID, actor, models.ActionRemovedEvidence, "evidence", strPtr(evidence.FileName), nil); err != nil {
		return err
	}

	s.log.Info("Evidence removed", map[string]interface{}{
		"workpaper_id": evidence.WorkpaperID,
		"evidence_id":  evidenceID,
	})
	return nil
}
