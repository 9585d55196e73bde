package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smarttask/backend/domain"
	"github.com/smarttask/backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `id, user_id, title, assignee, due_date, priority, status, created_at, updated_at`

func (r *taskRepository) Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	const query = `
	INSERT INTO tasks (id, user_id, title, assignee, due_date, priority, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING created_at, updated_at
	`

	task := &domain.Task{
		ID:       uuid.NewString(),
		OwnerID:  draft.OwnerID,
		Title:    draft.Title,
		Assignee: draft.Assignee,
		Priority: draft.Priority,
		Status:   draft.Status,
	}
	if task.Status == "" {
		task.Status = domain.StatusPending
	}
	if !draft.DueDate.IsZero() {
		due := draft.DueDate
		task.DueDate = &due
	}

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.OwnerID,
		task.Title,
		nullString(task.Assignee),
		task.DueDate,
		task.Priority,
		task.Status,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, domain.NewStorageError(err)
	}

	return task, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE id = $1 AND user_id = $2
	`
	return scanTask(r.pool.QueryRow(ctx, query, id, ownerID))
}

func (r *taskRepository) ListByOwner(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE user_id = $1
	  AND ($2 = '' OR status = $2)
	  AND ($3 = '' OR priority = $3)
	ORDER BY created_at ASC, id ASC
	`
	rows, err := r.pool.Query(ctx, query,
		filter.OwnerID,
		string(filter.Status),
		string(filter.Priority),
	)
	if err != nil {
		return nil, domain.NewStorageError(err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError(err)
	}
	return tasks, nil
}

// Update runs the read-merge-write inside a transaction with the row locked,
// so two concurrent partial updates to the same id cannot drop each other's
// fields.
func (r *taskRepository) Update(ctx context.Context, id, ownerID string, patch domain.TaskPatch) (*domain.Task, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, domain.NewStorageError(err)
	}
	defer tx.Rollback(ctx)

	const selectQuery = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE id = $1 AND user_id = $2
	FOR UPDATE
	`
	task, err := scanTask(tx.QueryRow(ctx, selectQuery, id, ownerID))
	if err != nil {
		return nil, err
	}

	patch.Apply(task)

	const updateQuery = `
	UPDATE tasks
	SET title = $3,
		assignee = $4,
		due_date = $5,
		priority = $6,
		status = $7,
		updated_at = clock_timestamp()
	WHERE id = $1 AND user_id = $2
	RETURNING updated_at
	`
	if err := tx.QueryRow(ctx, updateQuery,
		id,
		ownerID,
		task.Title,
		nullString(task.Assignee),
		task.DueDate,
		task.Priority,
		task.Status,
	).Scan(&task.UpdatedAt); err != nil {
		return nil, domain.NewStorageError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.NewStorageError(err)
	}
	return task, nil
}

func (r *taskRepository) Toggle(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	const query = `
	UPDATE tasks
	SET status = CASE WHEN status = 'completed' THEN 'pending' ELSE 'completed' END,
		updated_at = clock_timestamp()
	WHERE id = $1 AND user_id = $2
	RETURNING ` + taskColumns + `
	`
	return scanTask(r.pool.QueryRow(ctx, query, id, ownerID))
}

func (r *taskRepository) Delete(ctx context.Context, id, ownerID string) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return domain.NewStorageError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var (
		assignee *string
		due      *time.Time
	)

	if err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&assignee,
		&due,
		&task.Priority,
		&task.Status,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, domain.NewStorageError(err)
	}

	if assignee != nil {
		task.Assignee = *assignee
	}
	task.DueDate = due
	return &task, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
