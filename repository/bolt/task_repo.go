package bolt

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	boltdb "go.etcd.io/bbolt"

	"github.com/smarttask/backend/domain"
	"github.com/smarttask/backend/repository"
)

type taskRepository struct {
	store *Store
}

// NewTaskRepository returns a bbolt-backed TaskRepository. Every mutation is a
// single bolt write transaction, which serializes read-modify-write per
// database and therefore per id.
func NewTaskRepository(store *Store) repository.TaskRepository {
	return &taskRepository{store: store}
}

func (r *taskRepository) Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	now := time.Now().UTC()
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
	if task.Status == "" {
		task.Status = domain.StatusPending
	}
	if !draft.DueDate.IsZero() {
		due := draft.DueDate
		task.DueDate = &due
	}

	err := r.store.db.Update(func(tx *boltdb.Tx) error {
		return putTask(tx, task)
	})
	if err != nil {
		return nil, domain.NewStorageError(err)
	}
	return task, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	var task *domain.Task
	err := r.store.db.View(func(tx *boltdb.Tx) error {
		found, err := readTask(tx, id, ownerID)
		if err != nil {
			return err
		}
		task = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) ListByOwner(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.store.db.View(func(tx *boltdb.Tx) error {
		return tx.Bucket(bucketTasks).ForEach(func(k, v []byte) error {
			var task domain.Task
			if err := json.Unmarshal(v, &task); err != nil {
				return err
			}
			if task.OwnerID != filter.OwnerID {
				return nil
			}
			if filter.Status != "" && task.Status != filter.Status {
				return nil
			}
			if filter.Priority != "" && task.Priority != filter.Priority {
				return nil
			}
			tasks = append(tasks, task)
			return nil
		})
	})
	if err != nil {
		return nil, domain.NewStorageError(err)
	}

	// Bucket iteration is keyed by uuid; restore creation order so all
	// drivers present the same base ordering.
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (r *taskRepository) Update(ctx context.Context, id, ownerID string, patch domain.TaskPatch) (*domain.Task, error) {
	var task *domain.Task
	err := r.store.db.Update(func(tx *boltdb.Tx) error {
		found, err := readTask(tx, id, ownerID)
		if err != nil {
			return err
		}
		patch.Apply(found)
		found.UpdatedAt = touch(found.UpdatedAt)
		if err := putTask(tx, found); err != nil {
			return domain.NewStorageError(err)
		}
		task = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Toggle(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	var task *domain.Task
	err := r.store.db.Update(func(tx *boltdb.Tx) error {
		found, err := readTask(tx, id, ownerID)
		if err != nil {
			return err
		}
		if found.Status == domain.StatusCompleted {
			found.Status = domain.StatusPending
		} else {
			found.Status = domain.StatusCompleted
		}
		found.UpdatedAt = touch(found.UpdatedAt)
		if err := putTask(tx, found); err != nil {
			return domain.NewStorageError(err)
		}
		task = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Delete(ctx context.Context, id, ownerID string) error {
	return r.store.db.Update(func(tx *boltdb.Tx) error {
		if _, err := readTask(tx, id, ownerID); err != nil {
			return err
		}
		if err := tx.Bucket(bucketTasks).Delete([]byte(id)); err != nil {
			return domain.NewStorageError(err)
		}
		return nil
	})
}

func readTask(tx *boltdb.Tx, id, ownerID string) (*domain.Task, error) {
	raw := tx.Bucket(bucketTasks).Get([]byte(id))
	if raw == nil {
		return nil, domain.ErrTaskNotFound
	}
	var task domain.Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return nil, domain.NewStorageError(err)
	}
	if task.OwnerID != ownerID {
		return nil, domain.ErrTaskNotFound
	}
	return &task, nil
}

func putTask(tx *boltdb.Tx, task *domain.Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return tx.Bucket(bucketTasks).Put([]byte(task.ID), payload)
}

func touch(prev time.Time) time.Time {
	now := time.Now().UTC()
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	return now
}
