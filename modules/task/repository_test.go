package task

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/example/taskflow/domain/task"
)

// setupTestStore creates an in-memory SQLite store for testing.
func setupTestStore(t *testing.T) *GormStore {
	t.Helper()

	store, err := OpenGormStore(":memory:", false)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func createTestTask(t *testing.T, store Store, title string, createdAt time.Time) *domain.Task {
	t.Helper()

	task := &domain.Task{
		Title:     title,
		Status:    domain.StatusActive,
		CreatedAt: createdAt,
	}
	if err := store.Create(context.Background(), task); err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}
	return task
}

func TestGormStore_Create(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	description := "two litres"
	task := &domain.Task{
		Title:       "Buy milk",
		Description: &description,
		Status:      domain.StatusActive,
		CreatedAt:   baseTime,
	}

	if err := store.Create(ctx, task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if task.ID == 0 {
		t.Fatal("expected store-assigned ID, got 0")
	}

	found, err := store.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.Title != "Buy milk" {
		t.Errorf("expected title %q, got %q", "Buy milk", found.Title)
	}
	if found.Description == nil || *found.Description != description {
		t.Errorf("expected description %q, got %v", description, found.Description)
	}
	if found.Status != domain.StatusActive {
		t.Errorf("expected status %q, got %q", domain.StatusActive, found.Status)
	}
	if !found.CreatedAt.Equal(baseTime) {
		t.Errorf("expected createdAt %v, got %v", baseTime, found.CreatedAt)
	}
	if found.CompletedAt != nil {
		t.Errorf("expected nil completedAt, got %v", found.CompletedAt)
	}
}

func TestGormStore_CreateAssignsIncreasingIDs(t *testing.T) {
	store := setupTestStore(t)

	first := createTestTask(t, store, "first", baseTime)
	second := createTestTask(t, store, "second", baseTime)

	if second.ID <= first.ID {
		t.Errorf("expected second ID > first ID, got %d <= %d", second.ID, first.ID)
	}
}

func TestGormStore_FindByID(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.FindByID(context.Background(), 9999)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGormStore_ListActive(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	t.Run("empty database", func(t *testing.T) {
		tasks, err := store.ListActive(ctx)
		if err != nil {
			t.Fatalf("ListActive() error = %v", err)
		}
		if tasks == nil {
			t.Error("expected empty slice, got nil")
		}
		if len(tasks) != 0 {
			t.Errorf("expected 0 tasks, got %d", len(tasks))
		}
	})

	older := createTestTask(t, store, "older", baseTime)
	newer := createTestTask(t, store, "newer", baseTime.Add(time.Minute))
	done := createTestTask(t, store, "done", baseTime.Add(2*time.Minute))
	if _, err := store.Complete(ctx, done.ID, baseTime.Add(3*time.Minute)); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	t.Run("newest first, completed excluded", func(t *testing.T) {
		tasks, err := store.ListActive(ctx)
		if err != nil {
			t.Fatalf("ListActive() error = %v", err)
		}
		if len(tasks) != 2 {
			t.Fatalf("expected 2 tasks, got %d", len(tasks))
		}
		if tasks[0].ID != newer.ID || tasks[1].ID != older.ID {
			t.Errorf("expected order [%d %d], got [%d %d]", newer.ID, older.ID, tasks[0].ID, tasks[1].ID)
		}
	})
}

func TestGormStore_ListCompleted(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a := createTestTask(t, store, "a", baseTime)
	b := createTestTask(t, store, "b", baseTime.Add(time.Minute))
	c := createTestTask(t, store, "c", baseTime.Add(2*time.Minute))
	createTestTask(t, store, "still active", baseTime.Add(3*time.Minute))

	// a and b share a completion time; b was created later so it sorts first.
	sameInstant := baseTime.Add(time.Hour)
	for _, id := range []int64{a.ID, b.ID} {
		if _, err := store.Complete(ctx, id, sameInstant); err != nil {
			t.Fatalf("Complete(%d) error = %v", id, err)
		}
	}
	if _, err := store.Complete(ctx, c.ID, baseTime.Add(30*time.Minute)); err != nil {
		t.Fatalf("Complete(%d) error = %v", c.ID, err)
	}

	tasks, err := store.ListCompleted(ctx)
	if err != nil {
		t.Fatalf("ListCompleted() error = %v", err)
	}

	want := []int64{b.ID, a.ID, c.ID}
	if len(tasks) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(tasks))
	}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Errorf("position %d: expected ID %d, got %d", i, id, tasks[i].ID)
		}
		if tasks[i].Status != domain.StatusCompleted {
			t.Errorf("position %d: expected completed status, got %q", i, tasks[i].Status)
		}
	}
}

func TestGormStore_Complete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	task := createTestTask(t, store, "finish report", baseTime)

	t.Run("complete active task", func(t *testing.T) {
		at := baseTime.Add(time.Hour)
		completed, err := store.Complete(ctx, task.ID, at)
		if err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if completed.Status != domain.StatusCompleted {
			t.Errorf("expected status %q, got %q", domain.StatusCompleted, completed.Status)
		}
		if completed.CompletedAt == nil || !completed.CompletedAt.Equal(at) {
			t.Errorf("expected completedAt %v, got %v", at, completed.CompletedAt)
		}
		if !completed.CreatedAt.Equal(baseTime) {
			t.Errorf("createdAt changed: %v", completed.CreatedAt)
		}
	})

	t.Run("second completion keeps first time", func(t *testing.T) {
		completed, err := store.Complete(ctx, task.ID, baseTime.Add(2*time.Hour))
		if err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if completed.CompletedAt == nil || !completed.CompletedAt.Equal(baseTime.Add(time.Hour)) {
			t.Errorf("expected original completedAt, got %v", completed.CompletedAt)
		}
	})

	t.Run("complete non-existent task", func(t *testing.T) {
		_, err := store.Complete(ctx, 9999, baseTime)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestGormStore_Update(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	task := createTestTask(t, store, "Original title", baseTime)

	t.Run("update existing task", func(t *testing.T) {
		description := "new details"
		updated, err := store.Update(ctx, task.ID, "Updated title", &description)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.Title != "Updated title" {
			t.Errorf("expected title %q, got %q", "Updated title", updated.Title)
		}
		if updated.Description == nil || *updated.Description != description {
			t.Errorf("expected description %q, got %v", description, updated.Description)
		}
		if updated.Status != domain.StatusActive || updated.CompletedAt != nil {
			t.Errorf("status fields changed: %q %v", updated.Status, updated.CompletedAt)
		}
	})

	t.Run("clear description", func(t *testing.T) {
		updated, err := store.Update(ctx, task.ID, "Updated title", nil)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.Description != nil {
			t.Errorf("expected nil description, got %q", *updated.Description)
		}
	})

	t.Run("update completed task", func(t *testing.T) {
		at := baseTime.Add(time.Hour)
		if _, err := store.Complete(ctx, task.ID, at); err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		updated, err := store.Update(ctx, task.ID, "Renamed after completion", nil)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.Status != domain.StatusCompleted {
			t.Errorf("expected status to stay completed, got %q", updated.Status)
		}
		if updated.CompletedAt == nil || !updated.CompletedAt.Equal(at) {
			t.Errorf("expected completedAt %v, got %v", at, updated.CompletedAt)
		}
	})

	t.Run("update non-existent task", func(t *testing.T) {
		before, err := store.Count(ctx)
		if err != nil {
			t.Fatalf("Count() error = %v", err)
		}
		_, err = store.Update(ctx, 9999, "Should Not Work", nil)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		after, err := store.Count(ctx)
		if err != nil {
			t.Fatalf("Count() error = %v", err)
		}
		if before != after {
			t.Errorf("row count changed from %d to %d", before, after)
		}
	})
}

func TestGormStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	active := createTestTask(t, store, "active", baseTime)
	completed := createTestTask(t, store, "completed", baseTime)
	if _, err := store.Complete(ctx, completed.ID, baseTime.Add(time.Minute)); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	for _, task := range []*domain.Task{active, completed} {
		if err := store.Delete(ctx, task.ID); err != nil {
			t.Fatalf("Delete(%d) error = %v", task.ID, err)
		}
		if _, err := store.FindByID(ctx, task.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
		if err := store.Delete(ctx, task.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("expected hard delete to leave 0 rows, got %d", count)
	}
}

func TestGormStore_DeleteThenComplete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	task := createTestTask(t, store, "racing", baseTime)

	if err := store.Delete(ctx, task.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Complete(ctx, task.ID, baseTime.Add(time.Minute)); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for completion after delete, got %v", err)
	}
}

func TestOpenStore_UnsupportedDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), StoreConfig{Driver: "oracle"})
	if err == nil {
		t.Fatal("expected error for unsupported driver, got nil")
	}
}
