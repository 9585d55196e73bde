package task

import (
	"testing"
	"time"

	"github.com/smarttask/backend/domain"
)

func taskWith(id string, priority domain.Priority, due *time.Time, created time.Time) domain.Task {
	return domain.Task{
		ID:        id,
		Title:     id,
		Priority:  priority,
		Status:    domain.StatusPending,
		DueDate:   due,
		CreatedAt: created,
	}
}

func datePtr(t time.Time) *time.Time { return &t }

func TestSortTasks_ByPriority(t *testing.T) {
	base := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	// Inserted in reverse priority order.
	tasks := []domain.Task{
		taskWith("low", domain.PriorityP4, nil, base),
		taskWith("medium", domain.PriorityP3, nil, base),
		taskWith("high", domain.PriorityP2, nil, base),
		taskWith("urgent", domain.PriorityP1, nil, base),
	}

	SortTasks(tasks, SortByPriority)

	want := []string{"urgent", "high", "medium", "low"}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Errorf("tasks[%d].ID = %q, want %q", i, tasks[i].ID, id)
		}
	}
}

func TestSortTasks_ByDueDate_NilLast(t *testing.T) {
	base := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	tasks := []domain.Task{
		taskWith("none", domain.PriorityP3, nil, base),
		taskWith("later", domain.PriorityP3, datePtr(base.Add(48*time.Hour)), base),
		taskWith("soon", domain.PriorityP3, datePtr(base.Add(time.Hour)), base),
	}

	SortTasks(tasks, SortByDueDate)

	want := []string{"soon", "later", "none"}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Errorf("tasks[%d].ID = %q, want %q", i, tasks[i].ID, id)
		}
	}
}

func TestSortTasks_ByCreated_NewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	tasks := []domain.Task{
		taskWith("oldest", domain.PriorityP3, nil, base),
		taskWith("newest", domain.PriorityP3, nil, base.Add(2*time.Hour)),
		taskWith("middle", domain.PriorityP3, nil, base.Add(time.Hour)),
	}

	SortTasks(tasks, SortByCreated)

	want := []string{"newest", "middle", "oldest"}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Errorf("tasks[%d].ID = %q, want %q", i, tasks[i].ID, id)
		}
	}
}

func TestSortTasks_StableOnEqualKeys(t *testing.T) {
	base := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	due := datePtr(base.Add(time.Hour))
	tasks := []domain.Task{
		taskWith("first", domain.PriorityP2, due, base),
		taskWith("second", domain.PriorityP2, due, base),
		taskWith("third", domain.PriorityP2, due, base),
	}

	for _, order := range []SortOrder{SortByDueDate, SortByPriority, SortByCreated} {
		SortTasks(tasks, order)
		want := []string{"first", "second", "third"}
		for i, id := range want {
			if tasks[i].ID != id {
				t.Errorf("order %s: tasks[%d].ID = %q, want %q", order, i, tasks[i].ID, id)
			}
		}
	}
}

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		raw  string
		want SortOrder
	}{
		{"priority", SortByPriority},
		{"created_at", SortByCreated},
		{"due_date", SortByDueDate},
		{"", SortByDueDate},
		{"garbage", SortByDueDate},
	}
	for _, tt := range tests {
		if got := ParseSortOrder(tt.raw); got != tt.want {
			t.Errorf("ParseSortOrder(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
