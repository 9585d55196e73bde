package task

import (
	"strings"
	"time"

	"github.com/smarttask/backend/domain"
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Normalize turns an oracle candidate into a validated task draft. It is
// deterministic and performs every semantic check the adapter deliberately
// skips: the oracle output is a guess, this is the contract.
//
// Rules:
//   - a missing title falls back to the raw input text verbatim
//   - an empty assignee means "self" and is stored as absent
//   - the due date is mandatory and must be an RFC 3339 instant
//   - a weekday mentioned in the text resolves to its next occurrence,
//     never a past one
//   - unknown priorities default to P3
//   - a wrong-typed candidate field is a validation failure naming the field
func Normalize(candidate domain.Candidate, rawText string, reference time.Time) (domain.TaskDraft, error) {
	var draft domain.TaskDraft

	title, _, ok := candidate.StringField("title")
	if !ok {
		return draft, domain.NewValidationError("title")
	}
	if strings.TrimSpace(title) == "" {
		title = rawText
	}
	draft.Title = title

	assignee, _, ok := candidate.StringField("assignee")
	if !ok {
		return draft, domain.NewValidationError("assignee")
	}
	draft.Assignee = strings.TrimSpace(assignee)

	dueRaw, present, ok := candidate.StringField("dueDate")
	if !ok {
		return draft, domain.NewValidationError("dueDate")
	}
	if !present || strings.TrimSpace(dueRaw) == "" {
		return draft, domain.ErrMissingDueDate
	}
	due, err := time.Parse(time.RFC3339, dueRaw)
	if err != nil {
		return draft, domain.ErrInvalidDueDate
	}
	draft.DueDate = resolveWeekday(due.UTC(), rawText, reference.UTC())

	priority, _, ok := candidate.StringField("priority")
	if !ok {
		return draft, domain.NewValidationError("priority")
	}
	draft.Priority = NormalizePriority(priority)

	// Ingested tasks always start pending; the path cannot set status.
	draft.Status = domain.StatusPending

	return draft, nil
}

// NormalizePriority maps free-form priority text onto the enum, defaulting to
// P3 for anything unrecognized.
func NormalizePriority(raw string) domain.Priority {
	p := domain.Priority(strings.ToUpper(strings.TrimSpace(raw)))
	if !p.Valid() {
		return domain.DefaultPriority
	}
	return p
}

// resolveWeekday re-validates the oracle's relative-date resolution: when the
// text names a weekday and the resolved date landed on that weekday but in the
// past relative to the reference date, roll it forward to the next occurrence.
func resolveWeekday(due time.Time, rawText string, reference time.Time) time.Time {
	lower := strings.ToLower(rawText)
	for name, weekday := range weekdays {
		if !strings.Contains(lower, name) {
			continue
		}
		if due.Weekday() != weekday {
			continue
		}
		if dateOnly(due).Before(dateOnly(reference)) {
			return due.AddDate(0, 0, 7)
		}
	}
	return due
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
