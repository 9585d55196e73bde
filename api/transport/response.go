package transport

import (
	"encoding/json"
	"time"

	"github.com/smarttask/backend/domain"
)

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope with optional metadata.
func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}

// TaskView is the wire shape of a task, carrying the derived display status
// alongside the stored one.
type TaskView struct {
	ID            string          `json:"id"`
	OwnerID       string          `json:"owner_id"`
	Title         string          `json:"title"`
	Assignee      string          `json:"assignee,omitempty"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	Priority      domain.Priority `json:"priority"`
	Status        domain.Status   `json:"status"`
	DisplayStatus domain.Status   `json:"display_status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewTaskView renders a task with overdue derived against the given instant.
func NewTaskView(task *domain.Task, now time.Time) TaskView {
	return TaskView{
		ID:            task.ID,
		OwnerID:       task.OwnerID,
		Title:         task.Title,
		Assignee:      task.Assignee,
		DueDate:       task.DueDate,
		Priority:      task.Priority,
		Status:        task.Status,
		DisplayStatus: task.DisplayStatus(now),
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}
}

// NewTaskViews renders a slice of tasks against one shared instant.
func NewTaskViews(tasks []domain.Task, now time.Time) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		views = append(views, NewTaskView(&tasks[i], now))
	}
	return views
}
