package bolt

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/smarttask/backend/domain"
	"github.com/smarttask/backend/repository"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func draft(owner, title string) domain.TaskDraft {
	return domain.TaskDraft{
		OwnerID:  owner,
		Title:    title,
		DueDate:  time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
		Priority: domain.PriorityP3,
		Status:   domain.StatusPending,
	}
}

func TestTaskRepository_RoundTrip(t *testing.T) {
	repo := NewTaskRepository(openTestStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, draft("owner-1", "file expense report"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create did not assign an id")
	}

	got, err := repo.GetByID(ctx, created.ID, "owner-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "file expense report" {
		t.Errorf("Title = %q after reload", got.Title)
	}
	if got.DueDate == nil || !got.DueDate.Equal(time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("DueDate did not survive the round trip: %v", got.DueDate)
	}
}

func TestTaskRepository_OwnershipIsOpaque(t *testing.T) {
	repo := NewTaskRepository(openTestStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, draft("owner-1", "rotate credentials"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// A foreign owner and a missing id must produce the same error, so a
	// caller cannot probe for other users' task ids.
	_, foreignErr := repo.GetByID(ctx, created.ID, "owner-2")
	_, missingErr := repo.GetByID(ctx, "no-such-id", "owner-2")
	if !errors.Is(foreignErr, domain.ErrTaskNotFound) || !errors.Is(missingErr, domain.ErrTaskNotFound) {
		t.Fatalf("errors = %v / %v, want %v for both", foreignErr, missingErr, domain.ErrTaskNotFound)
	}
	if foreignErr.Error() != missingErr.Error() {
		t.Errorf("foreign-owner error %q differs from missing-id error %q", foreignErr, missingErr)
	}

	title := "stolen"
	if _, err := repo.Update(ctx, created.ID, "owner-2", domain.TaskPatch{Title: &title}); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("Update as foreign owner = %v, want %v", err, domain.ErrTaskNotFound)
	}
	if _, err := repo.Toggle(ctx, created.ID, "owner-2"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("Toggle as foreign owner = %v, want %v", err, domain.ErrTaskNotFound)
	}
	if err := repo.Delete(ctx, created.ID, "owner-2"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("Delete as foreign owner = %v, want %v", err, domain.ErrTaskNotFound)
	}

	// The real owner still sees the task untouched.
	got, err := repo.GetByID(ctx, created.ID, "owner-1")
	if err != nil {
		t.Fatalf("GetByID as real owner failed: %v", err)
	}
	if got.Title != "rotate credentials" || got.Status != domain.StatusPending {
		t.Errorf("task was modified by foreign-owner calls: %+v", got)
	}
}

func TestTaskRepository_ToggleFlipsAndRestores(t *testing.T) {
	repo := NewTaskRepository(openTestStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, draft("owner-1", "water plants"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	flipped, err := repo.Toggle(ctx, created.ID, "owner-1")
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if flipped.Status != domain.StatusCompleted {
		t.Errorf("Status after first toggle = %q, want %q", flipped.Status, domain.StatusCompleted)
	}
	if !flipped.UpdatedAt.After(created.UpdatedAt) {
		t.Error("UpdatedAt did not advance on toggle")
	}

	restored, err := repo.Toggle(ctx, created.ID, "owner-1")
	if err != nil {
		t.Fatalf("second Toggle failed: %v", err)
	}
	if restored.Status != domain.StatusPending {
		t.Errorf("Status after second toggle = %q, want %q", restored.Status, domain.StatusPending)
	}
	if !restored.UpdatedAt.After(flipped.UpdatedAt) {
		t.Error("UpdatedAt did not advance on second toggle")
	}
}

func TestTaskRepository_ListRestoresCreationOrder(t *testing.T) {
	repo := NewTaskRepository(openTestStore(t))
	ctx := context.Background()

	titles := []string{"first", "second", "third"}
	for _, title := range titles {
		if _, err := repo.Create(ctx, draft("owner-1", title)); err != nil {
			t.Fatalf("Create(%q) failed: %v", title, err)
		}
	}
	if _, err := repo.Create(ctx, draft("owner-2", "other owner")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	tasks, err := repo.ListByOwner(ctx, repository.TaskFilter{OwnerID: "owner-1"})
	if err != nil {
		t.Fatalf("ListByOwner failed: %v", err)
	}
	if len(tasks) != len(titles) {
		t.Fatalf("ListByOwner returned %d tasks, want %d", len(tasks), len(titles))
	}
	for i, title := range titles {
		if tasks[i].Title != title {
			t.Errorf("tasks[%d].Title = %q, want %q", i, tasks[i].Title, title)
		}
	}
}

func TestTaskRepository_Filters(t *testing.T) {
	repo := NewTaskRepository(openTestStore(t))
	ctx := context.Background()

	urgent := draft("owner-1", "page the on-call")
	urgent.Priority = domain.PriorityP1
	if _, err := repo.Create(ctx, urgent); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	for _, title := range []string{"a", "b", "c"} {
		if _, err := repo.Create(ctx, draft("owner-1", title)); err != nil {
			t.Fatalf("Create(%q) failed: %v", title, err)
		}
	}

	byPriority, err := repo.ListByOwner(ctx, repository.TaskFilter{OwnerID: "owner-1", Priority: domain.PriorityP1})
	if err != nil {
		t.Fatalf("ListByOwner failed: %v", err)
	}
	if len(byPriority) != 1 || byPriority[0].Title != "page the on-call" {
		t.Errorf("priority filter returned %+v", byPriority)
	}

	all, err := repo.ListByOwner(ctx, repository.TaskFilter{OwnerID: "owner-1"})
	if err != nil {
		t.Fatalf("ListByOwner failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("unfiltered list returned %d tasks, want the full set of 4", len(all))
	}
}

func TestUserRepository_UsernameUniqueness(t *testing.T) {
	store := openTestStore(t)
	repo := NewUserRepository(store)
	ctx := context.Background()

	user, err := repo.Create(ctx, &domain.User{Username: "alice", PasswordHash: "hash-1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if user.ID == "" {
		t.Fatal("Create did not assign an id")
	}

	if _, err := repo.Create(ctx, &domain.User{Username: "alice", PasswordHash: "hash-2"}); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("duplicate Create = %v, want %v", err, domain.ErrUsernameTaken)
	}

	byName, err := repo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if byName.ID != user.ID || byName.PasswordHash != "hash-1" {
		t.Errorf("GetByUsername returned %+v, want the original record", byName)
	}
}
