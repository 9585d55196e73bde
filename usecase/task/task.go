package task

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/smarttask/backend/domain"
	"github.com/smarttask/backend/repository"
	"github.com/smarttask/backend/usecase"
)

// UseCase implements the ingestion pipeline and the lifecycle operations over
// owner-scoped tasks.
type UseCase struct {
	tasks     repository.TaskRepository
	extractor usecase.Extractor
	cache     repository.ExtractionCache
	logger    *zap.Logger
}

// New wires the task use case. The cache is optional; a nil cache means every
// ingest goes straight to the extractor.
func New(tasks repository.TaskRepository, extractor usecase.Extractor, cache repository.ExtractionCache, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:     tasks,
		extractor: extractor,
		cache:     cache,
		logger:    logger,
	}
}

// CreateInput carries the fields of a direct (non-ingested) task creation.
type CreateInput struct {
	Title    string
	Assignee string
	DueDate  string
	Priority string
}

// Ingest runs raw text through extraction and normalization, then persists the
// canonical task. A failure at any stage leaves the store unchanged.
func (uc *UseCase) Ingest(ctx context.Context, ownerID, text string) (*domain.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.NewValidationError("text")
	}

	reference := time.Now().UTC()

	candidate, err := uc.extract(ctx, text, reference)
	if err != nil {
		return nil, err
	}

	draft, err := Normalize(candidate, text, reference)
	if err != nil {
		return nil, err
	}
	draft.OwnerID = ownerID

	return uc.tasks.Create(ctx, draft)
}

// Create persists a task from explicit fields, applying the same defaulting
// and mandatory-due-date rules as ingestion.
func (uc *UseCase) Create(ctx context.Context, ownerID string, input CreateInput) (*domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.NewValidationError("title")
	}
	if strings.TrimSpace(input.DueDate) == "" {
		return nil, domain.ErrMissingDueDate
	}
	due, err := time.Parse(time.RFC3339, input.DueDate)
	if err != nil {
		return nil, domain.ErrInvalidDueDate
	}

	draft := domain.TaskDraft{
		OwnerID:  ownerID,
		Title:    title,
		Assignee: strings.TrimSpace(input.Assignee),
		DueDate:  due.UTC(),
		Priority: NormalizePriority(input.Priority),
		Status:   domain.StatusPending,
	}
	return uc.tasks.Create(ctx, draft)
}

// ListQuery narrows and orders a listing. Status accepts the derived overdue
// value in addition to the stored states; Limit and Offset page the sorted
// sequence.
type ListQuery struct {
	OwnerID  string
	Status   domain.Status
	Priority domain.Priority
	Sort     SortOrder
	Limit    int
	Offset   int
}

// List returns a page of the owner's tasks in the requested order. Sorting
// happens over the full filtered set before the page is cut, so every page is
// a window into one consistently ordered sequence.
func (uc *UseCase) List(ctx context.Context, query ListQuery) ([]domain.Task, error) {
	if query.Status != "" && !query.Status.Valid() && query.Status != domain.StatusOverdue {
		return nil, domain.NewValidationError("status")
	}
	if query.Priority != "" && !query.Priority.Valid() {
		return nil, domain.NewValidationError("priority")
	}

	filter := repository.TaskFilter{
		OwnerID:  query.OwnerID,
		Status:   query.Status,
		Priority: query.Priority,
	}
	// Overdue is never stored; fetch pending and derive below.
	if query.Status == domain.StatusOverdue {
		filter.Status = domain.StatusPending
	}

	tasks, err := uc.tasks.ListByOwner(ctx, filter)
	if err != nil {
		return nil, err
	}

	if query.Status == domain.StatusOverdue {
		now := time.Now().UTC()
		overdue := tasks[:0]
		for _, t := range tasks {
			if t.IsOverdue(now) {
				overdue = append(overdue, t)
			}
		}
		tasks = overdue
	}

	SortTasks(tasks, query.Sort)

	if query.Offset > 0 {
		if query.Offset >= len(tasks) {
			return nil, nil
		}
		tasks = tasks[query.Offset:]
	}
	if query.Limit > 0 && query.Limit < len(tasks) {
		tasks = tasks[:query.Limit]
	}
	return tasks, nil
}

// Get returns a single task scoped to its owner.
func (uc *UseCase) Get(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, id, ownerID)
}

// Update applies a partial merge to an owned task.
func (uc *UseCase) Update(ctx context.Context, id, ownerID string, patch domain.TaskPatch) (*domain.Task, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	return uc.tasks.Update(ctx, id, ownerID, patch)
}

// ToggleComplete flips a task between pending and completed. Both directions
// are always permitted regardless of the due date.
func (uc *UseCase) ToggleComplete(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	return uc.tasks.Toggle(ctx, id, ownerID)
}

// Delete removes an owned task.
func (uc *UseCase) Delete(ctx context.Context, id, ownerID string) error {
	return uc.tasks.Delete(ctx, id, ownerID)
}

func (uc *UseCase) extract(ctx context.Context, text string, reference time.Time) (domain.Candidate, error) {
	if uc.cache != nil {
		candidate, hit, err := uc.cache.Get(ctx, text, reference)
		if err != nil {
			uc.logger.Debug("extraction cache read failed", zap.Error(err))
		} else if hit {
			return candidate, nil
		}
	}

	candidate, err := uc.extractor.Extract(ctx, text, reference)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Put(ctx, text, reference, candidate); err != nil {
			uc.logger.Debug("extraction cache write failed", zap.Error(err))
		}
	}
	return candidate, nil
}

func validatePatch(patch domain.TaskPatch) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return domain.NewValidationError("title")
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return domain.NewValidationError("priority")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return domain.NewValidationError("status")
	}
	return nil
}
