package domain

import (
	"testing"
	"time"
)

func TestPriorityRankOrdering(t *testing.T) {
	if !(PriorityP1.Rank() < PriorityP2.Rank() &&
		PriorityP2.Rank() < PriorityP3.Rank() &&
		PriorityP3.Rank() < PriorityP4.Rank()) {
		t.Error("priority ranks are not strictly ordered P1 < P2 < P3 < P4")
	}
	if Priority("P9").Rank() <= PriorityP4.Rank() {
		t.Error("unknown priority must rank after P4")
	}
}

func TestPriorityValid(t *testing.T) {
	for _, p := range []Priority{PriorityP1, PriorityP2, PriorityP3, PriorityP4} {
		if !p.Valid() {
			t.Errorf("%s reported invalid", p)
		}
	}
	for _, p := range []Priority{"", "p1", "P5", "urgent"} {
		if p.Valid() {
			t.Errorf("%q reported valid", p)
		}
	}
}

func TestStatusValid(t *testing.T) {
	if !StatusPending.Valid() || !StatusCompleted.Valid() {
		t.Error("stored statuses reported invalid")
	}
	// Overdue is derived only and must never be persisted.
	if StatusOverdue.Valid() {
		t.Error("overdue must not be a storable status")
	}
}

func TestTaskIsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"pending past due", Task{Status: StatusPending, DueDate: &past}, true},
		{"pending future due", Task{Status: StatusPending, DueDate: &future}, false},
		{"completed past due", Task{Status: StatusCompleted, DueDate: &past}, false},
		{"pending no due", Task{Status: StatusPending}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.IsOverdue(now); got != tt.want {
				t.Errorf("IsOverdue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTaskDisplayStatus(t *testing.T) {
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	task := Task{Status: StatusPending, DueDate: &past}
	if got := task.DisplayStatus(now); got != StatusOverdue {
		t.Errorf("DisplayStatus = %q, want overdue", got)
	}

	task.Status = StatusCompleted
	if got := task.DisplayStatus(now); got != StatusCompleted {
		t.Errorf("DisplayStatus = %q, want completed", got)
	}
}

func TestTaskPatchApply(t *testing.T) {
	due := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	task := Task{
		Title:    "original",
		Assignee: "Priya",
		DueDate:  &due,
		Priority: PriorityP3,
		Status:   StatusPending,
	}

	title := "renamed"
	clear := ""
	p1 := PriorityP1
	patch := TaskPatch{Title: &title, Assignee: &clear, Priority: &p1}
	patch.Apply(&task)

	if task.Title != "renamed" {
		t.Errorf("Title = %q", task.Title)
	}
	if task.Assignee != "" {
		t.Errorf("Assignee = %q, want cleared", task.Assignee)
	}
	if task.Priority != PriorityP1 {
		t.Errorf("Priority = %q", task.Priority)
	}
	if !task.DueDate.Equal(due) {
		t.Error("untouched due date changed")
	}
	if task.Status != StatusPending {
		t.Error("untouched status changed")
	}
}

func TestTaskPatchEmpty(t *testing.T) {
	if !(TaskPatch{}).Empty() {
		t.Error("zero patch reported non-empty")
	}
	title := "x"
	if (TaskPatch{Title: &title}).Empty() {
		t.Error("patch with title reported empty")
	}
}
