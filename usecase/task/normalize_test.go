package task

import (
	"errors"
	"testing"
	"time"

	"github.com/smarttask/backend/domain"
)

// reference date used across tests: Friday 2026-03-20 09:00 UTC.
var testReference = time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)

func TestNormalize_FullCandidate(t *testing.T) {
	candidate := domain.Candidate{
		"title":    "Call client Rajeev",
		"assignee": "Rajeev",
		"dueDate":  "2026-03-21T17:00:00Z",
		"priority": "P2",
	}

	draft, err := Normalize(candidate, "Call client Rajeev tomorrow 5pm P2", testReference)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if draft.Title != "Call client Rajeev" {
		t.Errorf("Title = %q, want %q", draft.Title, "Call client Rajeev")
	}
	if draft.Assignee != "Rajeev" {
		t.Errorf("Assignee = %q, want %q", draft.Assignee, "Rajeev")
	}
	want := testReference.AddDate(0, 0, 1).Truncate(24 * time.Hour).Add(17 * time.Hour)
	if !draft.DueDate.Equal(want) {
		t.Errorf("DueDate = %v, want %v", draft.DueDate, want)
	}
	if draft.Priority != domain.PriorityP2 {
		t.Errorf("Priority = %q, want P2", draft.Priority)
	}
	if draft.Status != domain.StatusPending {
		t.Errorf("Status = %q, want pending", draft.Status)
	}
}

func TestNormalize_DefaultsAndFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		candidate domain.Candidate
		text      string
		check     func(t *testing.T, draft domain.TaskDraft)
	}{
		{
			name: "missing title falls back to raw text",
			candidate: domain.Candidate{
				"dueDate": "2026-03-20T18:00:00Z",
			},
			text: "Review code by 6pm today",
			check: func(t *testing.T, draft domain.TaskDraft) {
				if draft.Title != "Review code by 6pm today" {
					t.Errorf("Title = %q, want raw text", draft.Title)
				}
			},
		},
		{
			name: "null title falls back to raw text",
			candidate: domain.Candidate{
				"title":   nil,
				"dueDate": "2026-03-20T18:00:00Z",
			},
			text: "Review code by 6pm today",
			check: func(t *testing.T, draft domain.TaskDraft) {
				if draft.Title != "Review code by 6pm today" {
					t.Errorf("Title = %q, want raw text", draft.Title)
				}
			},
		},
		{
			name: "unset priority defaults to P3",
			candidate: domain.Candidate{
				"title":   "Review code",
				"dueDate": "2026-03-20T18:00:00Z",
			},
			text: "Review code by 6pm today",
			check: func(t *testing.T, draft domain.TaskDraft) {
				if draft.Priority != domain.PriorityP3 {
					t.Errorf("Priority = %q, want P3", draft.Priority)
				}
			},
		},
		{
			name: "unrecognized priority defaults to P3",
			candidate: domain.Candidate{
				"title":    "Review code",
				"dueDate":  "2026-03-20T18:00:00Z",
				"priority": "urgent",
			},
			text: "Review code",
			check: func(t *testing.T, draft domain.TaskDraft) {
				if draft.Priority != domain.PriorityP3 {
					t.Errorf("Priority = %q, want P3", draft.Priority)
				}
			},
		},
		{
			name: "lowercase priority is normalized",
			candidate: domain.Candidate{
				"title":    "Review code",
				"dueDate":  "2026-03-20T18:00:00Z",
				"priority": "p1",
			},
			text: "Review code",
			check: func(t *testing.T, draft domain.TaskDraft) {
				if draft.Priority != domain.PriorityP1 {
					t.Errorf("Priority = %q, want P1", draft.Priority)
				}
			},
		},
		{
			name: "empty assignee means self",
			candidate: domain.Candidate{
				"title":    "Review code",
				"assignee": "",
				"dueDate":  "2026-03-20T18:00:00Z",
			},
			text: "Review code",
			check: func(t *testing.T, draft domain.TaskDraft) {
				if draft.Assignee != "" {
					t.Errorf("Assignee = %q, want empty", draft.Assignee)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft, err := Normalize(tt.candidate, tt.text, testReference)
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			tt.check(t, draft)
		})
	}
}

func TestNormalize_DueDateErrors(t *testing.T) {
	tests := []struct {
		name      string
		candidate domain.Candidate
		wantErr   error
	}{
		{
			name:      "absent due date",
			candidate: domain.Candidate{"title": "x"},
			wantErr:   domain.ErrMissingDueDate,
		},
		{
			name:      "null due date",
			candidate: domain.Candidate{"title": "x", "dueDate": nil},
			wantErr:   domain.ErrMissingDueDate,
		},
		{
			name:      "empty due date",
			candidate: domain.Candidate{"title": "x", "dueDate": ""},
			wantErr:   domain.ErrMissingDueDate,
		},
		{
			name:      "unparseable due date",
			candidate: domain.Candidate{"title": "x", "dueDate": "next thursday"},
			wantErr:   domain.ErrInvalidDueDate,
		},
		{
			name:      "calendar-invalid due date",
			candidate: domain.Candidate{"title": "x", "dueDate": "2026-02-30T12:00:00Z"},
			wantErr:   domain.ErrInvalidDueDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.candidate, "some task", testReference)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Normalize error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalize_WrongTypedFields(t *testing.T) {
	tests := []struct {
		name      string
		candidate domain.Candidate
	}{
		{"numeric title", domain.Candidate{"title": 42, "dueDate": "2026-03-20T18:00:00Z"}},
		{"object assignee", domain.Candidate{"title": "x", "assignee": map[string]any{}, "dueDate": "2026-03-20T18:00:00Z"}},
		{"numeric due date", domain.Candidate{"title": "x", "dueDate": 1742490000}},
		{"array priority", domain.Candidate{"title": "x", "dueDate": "2026-03-20T18:00:00Z", "priority": []any{"P1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.candidate, "some task", testReference)
			if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
				t.Fatalf("Normalize error = %v, want a validation error", err)
			}
		})
	}
}

func TestNormalize_ToleratesUnknownFields(t *testing.T) {
	candidate := domain.Candidate{
		"title":      "Review code",
		"dueDate":    "2026-03-20T18:00:00Z",
		"confidence": 0.93,
	}
	if _, err := Normalize(candidate, "Review code", testReference); err != nil {
		t.Fatalf("Normalize failed on extra field: %v", err)
	}
}

func TestNormalize_WeekdayRollsForward(t *testing.T) {
	// The reference Friday 2026-03-20; the oracle resolved "Monday" to the
	// Monday of the same week (2026-03-16), which is in the past.
	candidate := domain.Candidate{
		"title":   "Submit report",
		"dueDate": "2026-03-16T10:00:00Z",
	}

	draft, err := Normalize(candidate, "Submit report by 10am Monday", testReference)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	want := time.Date(2026, 3, 23, 10, 0, 0, 0, time.UTC)
	if !draft.DueDate.Equal(want) {
		t.Errorf("DueDate = %v, want next Monday %v", draft.DueDate, want)
	}
}

func TestNormalize_WeekdayInFutureIsKept(t *testing.T) {
	candidate := domain.Candidate{
		"title":   "Submit report",
		"dueDate": "2026-03-23T10:00:00Z",
	}

	draft, err := Normalize(candidate, "Submit report by 10am Monday", testReference)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	want := time.Date(2026, 3, 23, 10, 0, 0, 0, time.UTC)
	if !draft.DueDate.Equal(want) {
		t.Errorf("DueDate = %v, want %v", draft.DueDate, want)
	}
}

func TestNormalize_TimePreservedVerbatim(t *testing.T) {
	candidate := domain.Candidate{
		"title":   "Meeting",
		"dueDate": "2026-03-21T14:30:00Z",
	}

	draft, err := Normalize(candidate, "Meeting at 2:30pm tomorrow", testReference)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if h, m, _ := draft.DueDate.Clock(); h != 14 || m != 30 {
		t.Errorf("time of day = %02d:%02d, want 14:30", h, m)
	}
}
