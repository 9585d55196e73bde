package repository

import (
	"context"
	"time"

	"github.com/smarttask/backend/domain"
)

// TaskFilter narrows listing. OwnerID is mandatory: every read is scoped to a
// single owner. Repositories return the full filtered set in creation order;
// ordering and pagination are presentation concerns applied above them.
type TaskFilter struct {
	OwnerID  string
	Status   domain.Status
	Priority domain.Priority
}

// TaskRepository persists tasks with the ownership check folded into every
// operation: id lookups that miss and lookups against a foreign owner both
// return domain.ErrTaskNotFound. Update and Toggle perform their
// read-modify-write atomically per id.
type TaskRepository interface {
	Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error)
	GetByID(ctx context.Context, id, ownerID string) (*domain.Task, error)
	ListByOwner(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Update(ctx context.Context, id, ownerID string, patch domain.TaskPatch) (*domain.Task, error)
	Toggle(ctx context.Context, id, ownerID string) (*domain.Task, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// ExtractionCache memoizes oracle candidates for identical (text, reference
// day) pairs. A cache failure is never fatal to ingestion.
type ExtractionCache interface {
	Get(ctx context.Context, text string, reference time.Time) (domain.Candidate, bool, error)
	Put(ctx context.Context, text string, reference time.Time, candidate domain.Candidate) error
}
