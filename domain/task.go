package domain

import "time"

// Priority is the ordered urgency scale, P1 highest.
type Priority string

const (
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
	PriorityP4 Priority = "P4"

	DefaultPriority = PriorityP3
)

// Rank returns the sort weight of the priority, lower is more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityP1:
		return 1
	case PriorityP2:
		return 2
	case PriorityP3:
		return 3
	case PriorityP4:
		return 4
	default:
		return 5
	}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityP1, PriorityP2, PriorityP3, PriorityP4:
		return true
	}
	return false
}

// Status is a stored task state. Overdue is derived at read time, never stored.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"

	// StatusOverdue only ever appears as a display status.
	StatusOverdue Status = "overdue"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Task represents a user-owned schedulable item.
type Task struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"owner_id"`
	Title     string     `json:"title"`
	Assignee  string     `json:"assignee,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Priority  Priority   `json:"priority"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// IsOverdue reports whether the task is pending with a due instant in the past.
func (t *Task) IsOverdue(reference time.Time) bool {
	if t == nil || t.Status != StatusPending || t.DueDate == nil {
		return false
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return t.DueDate.Before(reference)
}

// DisplayStatus folds the derived overdue state into the stored status.
func (t *Task) DisplayStatus(reference time.Time) Status {
	if t.IsOverdue(reference) {
		return StatusOverdue
	}
	return t.Status
}

// TaskDraft is a normalized, validated task ready for persistence.
// The store assigns id and timestamps.
type TaskDraft struct {
	OwnerID  string
	Title    string
	Assignee string
	DueDate  time.Time
	Priority Priority
	Status   Status
}

// TaskPatch is a partial update. Nil fields keep their stored values;
// a pointer to the empty string clears Assignee back to "self".
type TaskPatch struct {
	Title    *string
	Assignee *string
	DueDate  *time.Time
	Priority *Priority
	Status   *Status
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Assignee == nil && p.DueDate == nil && p.Priority == nil && p.Status == nil
}

// Apply merges the patch into the task in place.
func (p TaskPatch) Apply(t *Task) {
	if t == nil {
		return
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Assignee != nil {
		t.Assignee = *p.Assignee
	}
	if p.DueDate != nil {
		due := *p.DueDate
		t.DueDate = &due
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
}
