package task

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/example/taskflow/domain/task"
)

// Service names registered by the task module. The framework prefixes them
// with "services.task.".
const (
	ServiceCreateTask    = "create-task"
	ServiceListActive    = "list-active-tasks"
	ServiceListCompleted = "list-completed-tasks"
	ServiceCompleteTask  = "complete-task"
	ServiceUpdateTask    = "update-task"
	ServiceDeleteTask    = "delete-task"
)

// ErrorCode classifies a failed service call.
type ErrorCode string

const (
	CodeValidation ErrorCode = "validation_error"
	CodeNotFound   ErrorCode = "not_found"
	CodeStorage    ErrorCode = "storage_error"
)

// ServiceError carries a domain error across the request-reply boundary.
type ServiceError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func newServiceError(err error) *ServiceError {
	if err == nil {
		return nil
	}
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return &ServiceError{Code: CodeValidation, Message: verr.Message, Field: verr.Field}
	case errors.Is(err, domain.ErrNotFound):
		return &ServiceError{Code: CodeNotFound, Message: domain.ErrNotFound.Error()}
	default:
		return &ServiceError{Code: CodeStorage, Message: err.Error()}
	}
}

// Err converts the envelope back into the matching domain error.
func (e *ServiceError) Err() error {
	if e == nil {
		return nil
	}
	switch e.Code {
	case CodeValidation:
		return &domain.ValidationError{Field: e.Field, Message: e.Message}
	case CodeNotFound:
		return domain.ErrNotFound
	default:
		return fmt.Errorf("%w: %s", domain.ErrStorage, e.Message)
	}
}

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// ListTasksRequest is the request for listing active or completed tasks.
type ListTasksRequest struct{}

// CompleteTaskRequest is the request for completing a task.
type CompleteTaskRequest struct {
	ID int64 `json:"id"`
}

// UpdateTaskRequest is the request for updating a task.
type UpdateTaskRequest struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	ID int64 `json:"id"`
}

// TaskResponse is the response for operations returning a single task.
type TaskResponse struct {
	Task  *domain.Task  `json:"task,omitempty"`
	Error *ServiceError `json:"error,omitempty"`
}

// ListTasksResponse is the response for listing tasks.
type ListTasksResponse struct {
	Tasks []*domain.Task `json:"tasks"`
	Total int            `json:"total"`
	Error *ServiceError  `json:"error,omitempty"`
}

// DeleteTaskResponse is the response for deleting a task.
type DeleteTaskResponse struct {
	Deleted bool          `json:"deleted"`
	ID      int64         `json:"id"`
	Error   *ServiceError `json:"error,omitempty"`
}

// TaskPort defines the task operations available to driving adapters such as
// the HTTP API.
type TaskPort interface {
	CreateTask(ctx context.Context, title string, description *string) (*domain.Task, error)
	ListActive(ctx context.Context) ([]*domain.Task, error)
	ListCompleted(ctx context.Context) ([]*domain.Task, error)
	CompleteTask(ctx context.Context, id int64) (*domain.Task, error)
	UpdateTask(ctx context.Context, id int64, title string, description *string) (*domain.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}
