package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/example/taskflow/domain/task"
)

// Service applies the task lifecycle rules on top of a Store.
type Service struct {
	store                Store
	now                  func() time.Time
	allowDeleteCompleted bool
}

var _ TaskPort = (*Service)(nil)

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock overrides the clock used for createdAt and completedAt.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// WithDeleteCompleted sets whether completed tasks may be deleted.
func WithDeleteCompleted(allow bool) ServiceOption {
	return func(s *Service) {
		s.allowDeleteCompleted = allow
	}
}

// NewService creates a task service backed by store. Completed tasks are
// deletable unless WithDeleteCompleted(false) is given.
func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:                store,
		now:                  time.Now,
		allowDeleteCompleted: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTask validates and stores a new active task.
func (s *Service) CreateTask(ctx context.Context, title string, description *string) (*domain.Task, error) {
	title, err := domain.ValidateTitle(title)
	if err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:       title,
		Description: domain.NormalizeDescription(description),
		Status:      domain.StatusActive,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.Create(ctx, task); err != nil {
		return nil, storageError(err)
	}
	return task, nil
}

// ListActive returns all active tasks, newest first.
func (s *Service) ListActive(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	return tasks, nil
}

// ListCompleted returns all completed tasks, most recently completed first.
func (s *Service) ListCompleted(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.store.ListCompleted(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	return tasks, nil
}

// CompleteTask marks a task completed. Completing twice is a no-op that
// returns the first completion time.
func (s *Service) CompleteTask(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.store.Complete(ctx, id, s.now().UTC())
	if err != nil {
		return nil, storageError(err)
	}
	return task, nil
}

// UpdateTask replaces title and description of a task in either state.
func (s *Service) UpdateTask(ctx context.Context, id int64, title string, description *string) (*domain.Task, error) {
	title, err := domain.ValidateTitle(title)
	if err != nil {
		return nil, err
	}

	task, err := s.store.Update(ctx, id, title, domain.NormalizeDescription(description))
	if err != nil {
		return nil, storageError(err)
	}
	return task, nil
}

// DeleteTask permanently removes a task.
func (s *Service) DeleteTask(ctx context.Context, id int64) error {
	if !s.allowDeleteCompleted {
		task, err := s.store.FindByID(ctx, id)
		if err != nil {
			return storageError(err)
		}
		if task.IsCompleted() {
			return domain.ErrCompletedLocked
		}
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return storageError(err)
	}
	return nil
}

// storageError marks unexpected store failures with ErrStorage and passes
// domain errors through.
func storageError(err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrStorage) || domain.IsValidation(err) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStorage, err)
}
