package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smarttask/backend/domain"
	"github.com/smarttask/backend/repository"
)

type taskRepository struct {
	mu    sync.RWMutex
	tasks map[string]*domain.Task
	order []string
}

// NewTaskRepository returns an in-memory TaskRepository. All mutations run
// under a single mutex, so read-modify-write on one id never interleaves.
func NewTaskRepository() repository.TaskRepository {
	return &taskRepository{
		tasks: make(map[string]*domain.Task),
	}
}

func (r *taskRepository) Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	due := draft.DueDate
	task := &domain.Task{
		ID:        uuid.NewString(),
		OwnerID:   draft.OwnerID,
		Title:     draft.Title,
		Assignee:  draft.Assignee,
		Priority:  draft.Priority,
		Status:    draft.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if !due.IsZero() {
		task.DueDate = &due
	}
	if task.Status == "" {
		task.Status = domain.StatusPending
	}

	r.tasks[task.ID] = task
	r.order = append(r.order, task.ID)

	out := *task
	return &out, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return nil, domain.ErrTaskNotFound
	}
	out := *task
	return &out, nil
}

func (r *taskRepository) ListByOwner(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tasks []domain.Task
	for _, id := range r.order {
		task, ok := r.tasks[id]
		if !ok || task.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && task.Priority != filter.Priority {
			continue
		}
		tasks = append(tasks, *task)
	}
	return tasks, nil
}

func (r *taskRepository) Update(ctx context.Context, id, ownerID string, patch domain.TaskPatch) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return nil, domain.ErrTaskNotFound
	}

	patch.Apply(task)
	task.UpdatedAt = touch(task.UpdatedAt)

	out := *task
	return &out, nil
}

func (r *taskRepository) Toggle(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return nil, domain.ErrTaskNotFound
	}

	if task.Status == domain.StatusCompleted {
		task.Status = domain.StatusPending
	} else {
		task.Status = domain.StatusCompleted
	}
	task.UpdatedAt = touch(task.UpdatedAt)

	out := *task
	return &out, nil
}

func (r *taskRepository) Delete(ctx context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return domain.ErrTaskNotFound
	}

	delete(r.tasks, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// touch returns a timestamp strictly after prev even on coarse clocks.
func touch(prev time.Time) time.Time {
	now := time.Now().UTC()
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	return now
}
