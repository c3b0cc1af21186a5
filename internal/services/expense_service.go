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

// NewExpenseLine describes a line to add. An empty category means Other and
// a nil IsApportionable means true.
type NewExpenseLine struct {
	Category        models.ExpenseCategory
	Description     string
	Notes           string
	Amount          decimal.Decimal
	IsCapital       bool
	IsApportionable *bool
}

// ExpensePatch is a partial update of an expense line. Nil fields are left unchanged.
type ExpensePatch struct {
	Category        *models.ExpenseCategory
	Description     *string
	Notes           *string
	Amount          *decimal.Decimal
	IsCapital       *bool
	IsApportionable *bool
}

// ExpenseService manages the expense lines of a workpaper.
type ExpenseService interface {
	Add(ctx context.Context, workpaperID string, line NewExpenseLine, actor models.Actor) (*models.ExpenseLine, error)
	Update(ctx context.Context, workpaperID, lineID string, patch ExpensePatch, actor models.Actor) (*models.ExpenseLine, error)
	Remove(ctx context.Context, workpaperID, lineID string, actor models.Actor) error

	// LinkEvidence adds evidenceID to the line's evidence set; linking twice is a no-op.
	LinkEvidence(ctx context.Context, workpaperID, lineID, evidenceID string, actor models.Actor) (*models.ExpenseLine, error)

	// UnlinkEvidence removes evidenceID from the line; unlinking an absent id is a no-op.
	UnlinkEvidence(ctx context.Context, workpaperID, lineID, evidenceID string, actor models.Actor) (*models.ExpenseLine, error)
}

type expenseService struct {
	workpapers repository.WorkpaperRepository
	evidence   repository.EvidenceRepository
	activities ActivityService
	log        *logger.Logger
	now        func() time.Time
}

// NewExpenseService creates a new instance of ExpenseService.
func NewExpenseService(workpapers repository.WorkpaperRepository, evidence repository.EvidenceRepository, activities ActivityService, log *logger.Logger) ExpenseService {
	return &expenseService{
		workpapers: workpapers,
		evidence:   evidence,
		activities: activities,
		log:        log,
		now:        time.Now,
	}
}

// editable loads a workpaper that may still be changed.
func (s *expenseService) editable(ctx context.Context, workpaperID string) (*models.Workpaper, error) {
	wp, err := s.workpapers.FindByID(ctx, workpaperID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workpaper: %w", err)
	}
	if wp == nil {
		return nil, ErrWorkpaperNotFound
	}
	if wp.Status == models.WorkpaperLocked {
		s.log.Warn("Rejected expense change on locked workpaper", map[string]interface{}{"workpaper_id": workpaperID})
		return nil, ErrWorkpaperLocked
	}
	return wp, nil
}

func (s *expenseService) save(ctx context.Context, wp *models.Workpaper, actor models.Actor) error {
	wp.LastModifiedBy = actor.UserID
	wp.UpdatedAt = s.now().UTC()
	if err := s.workpapers.Save(ctx, wp); err != nil {
		s.log.Error("Failed to save expense lines", err, map[string]interface{}{"workpaper_id": wp.ID})
		return fmt.Errorf("failed to save workpaper: %w", err)
	}
	return nil
}

func (s *expenseService) Add(ctx context.Context, workpaperID string, in NewExpenseLine, actor models.Actor) (*models.ExpenseLine, error) {
	actor = actor.OrDefault()

	if in.Category == "" {
		in.Category = models.CategoryOther
	}
	if !in.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, in.Category)
	}

	wp, err := s.editable(ctx, workpaperID)
	if err != nil {
		return nil, err
	}

	line := models.ExpenseLine{
		ID:              uuid.New().String(),
		Category:        in.Category,
		Description:     in.Description,
		Notes:           in.Notes,
		Amount:          in.Amount,
		IsCapital:       in.IsCapital,
		IsApportionable: in.IsApportionable == nil || *in.IsApportionable,
		EvidenceIDs:     []string{},
	}
	wp.ExpenseLines = append(wp.ExpenseLines, line)

	if err := s.save(ctx, wp, actor); err != nil {
		return nil, err
	}
	if _, err := s.activities.Log(ctx, workpaperID, actor, models.ActionAddedExpense, "expenseLine", nil, strPtr(describeLine(line.Category, line.Amount))); err != nil {
		return nil, err
	}

	s.log.Info("Expense line added", map[string]interface{}{
		"workpaper_id": workpaperID,
		"line_id":      line.ID,
		"category":     line.Category,
	})
	return &line, nil
}

func (s *expenseService) Update(ctx context.Context, workpaperID, lineID string, patch ExpensePatch, actor models.Actor) (*models.ExpenseLine, error) {
	actor = actor.OrDefault()

	if patch.Category != nil && !patch.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, *patch.Category)
	}

	wp, err := s.editable(ctx, workpaperID)
	if err != nil {
		return nil, err
	}
	idx := wp.FindLine(lineID)
	if idx == -1 {
		return nil, ErrExpenseLineNotFound
	}

	line := &wp.ExpenseLines[idx]
	before := describeLine(line.Category, line.Amount)

	if patch.Category != nil {
		line.Category = *patch.Category
	}
	if patch.Description != nil {
		line.Description = *patch.Description
	}
	if patch.Notes != nil {
		line.Notes = *patch.Notes
	}
	if patch.Amount != nil {
		line.Amount = *patch.Amount
	}
	if patch.IsCapital != nil {
		line.IsCapital = *patch.IsCapital
	}
	if patch.IsApportionable != nil {
		line.IsApportionable = *patch.IsApportionable
	}
	updated := *line

	if err := s.save(ctx, wp, actor); err != nil {
		return nil, err
	}
	if _, err := s.activities.Log(ctx, workpaperID, actor, models.ActionUpdatedExpense, "expenseLine",
		strPtr(before), strPtr(describeLine(updated.Category, updated.Amount))); err != nil {
		return nil, err
	}

	s.log.Info("Expense line updated", map[string]interface{}{
		"workpaper_id": workpaperID,
		"line_id":      lineID,
	})
	return &updated, nil
}

func (s *expenseService) Remove(ctx context.Context, workpaperID, lineID string, actor models.Actor) error {
	actor = actor.OrDefault()

	wp, err := s.editable(ctx, workpaperID)
	if err != nil {
		return err
	}
	idx := wp.FindLine(lineID)
	if idx == -1 {
		return ErrExpenseLineNotFound
	}

	removed := wp.ExpenseLines[idx]
	wp.ExpenseLines = append(wp.ExpenseLines[:idx], wp.ExpenseLines[idx+1:]...)

	if err := s.save(ctx, wp, actor); err != nil {
		return err
	}
	if _, err := s.activities.Log(ctx, workpaperID, actor, models.ActionRemovedExpense, "expenseLine",
		strPtr(describeLine(removed.Category, removed.Amount)), nil); err != nil {
		return err
	}

	s.log.Info("Expense line removed", map[string]interface{}{
		"workpaper_id": workpaperID,
		"line_id":      lineID,
	})
	return nil
}

func (s *expenseService) LinkEvidence(ctx context.Context, workpaperID, lineID, evidenceID string, actor models.Actor) (*models.ExpenseLine, error) {
	actor = actor.OrDefault()

	wp, err := s.editable(ctx, workpaperID)
	if err != nil {
		return nil, err
	}
	idx := wp.FindLine(lineID)
	if idx == -1 {
		return nil, ErrExpenseLineNotFound
	}

	evidence, err := s.evidence.FindByID(ctx, evidenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load evidence: %w", err)
	}
	if evidence == nil {
		return nil, ErrEvidenceNotFound
	}

	line := &wp.ExpenseLines[idx]
	if line.HasEvidence(evidenceID) {
		out := *line
		return &out, nil
	}
	line.EvidenceIDs = append(line.EvidenceIDs, evidenceID)
	out := *line

	if err := s.save(ctx, wp, actor); err != nil {
		return nil, err
	}
	if _, err := s.activities.Log(ctx, workpaperID, actor, models.ActionLinkedEvidence, "evidence", nil, strPtr(evidence.FileName)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *expenseService) UnlinkEvidence(ctx context.Context, workpaperID, lineID, evidenceID string, actor models.Actor) (*models.ExpenseLine, error) {
	actor = actor.OrDefault()

	wp, err := s.editable(ctx, workpaperID)
	if err != nil {
		return nil, err
	}
	idx := wp.FindLine(lineID)
	if idx == -1 {
		return nil, ErrExpenseLineNotFound
	}

	line := &wp.ExpenseLines[idx]
	if !line.HasEvidence(evidenceID) {
		out := *line
		return &out, nil
	}
	kept := make([]string, 0, len(line.EvidenceIDs)-1)
	for _, id := range line.EvidenceIDs {
		if id != evidenceID {
			kept = append(kept, id)
		}
	}
	line.EvidenceIDs = kept
	out := *line

	if err := s.save(ctx, wp, actor); err != nil {
		return nil, err
	}
	if _, err := s.activities.Log(ctx, workpaperID, actor, models.ActionUnlinkedEvidence, "evidence", strPtr(evidenceID), nil); err != nil {
		return nil, err
	}
	return &out, nil
}
