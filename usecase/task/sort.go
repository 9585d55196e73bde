package task

import (
	"sort"

	"github.com/smarttask/backend/domain"
)

// SortOrder selects one of the supported presentation orderings.
type SortOrder string

const (
	SortByDueDate  SortOrder = "due_date"
	SortByPriority SortOrder = "priority"
	SortByCreated  SortOrder = "created_at"
)

// ParseSortOrder maps a request parameter onto a SortOrder, defaulting to due
// date ascending.
func ParseSortOrder(raw string) SortOrder {
	switch SortOrder(raw) {
	case SortByPriority:
		return SortByPriority
	case SortByCreated:
		return SortByCreated
	default:
		return SortByDueDate
	}
}

// SortTasks orders tasks in place. All orderings are stable: equal keys keep
// their relative input order so repeated calls over unchanged data paginate
// predictably.
func SortTasks(tasks []domain.Task, order SortOrder) {
	switch order {
	case SortByPriority:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Priority.Rank() < tasks[j].Priority.Rank()
		})
	case SortByCreated:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		})
	default:
		// Tasks without a due date should not exist, but sort them last
		// rather than crash on a bad row.
		sort.SliceStable(tasks, func(i, j int) bool {
			a, b := tasks[i].DueDate, tasks[j].DueDate
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.Before(*b)
			}
		})
	}
}
