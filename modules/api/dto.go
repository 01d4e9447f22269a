package api

import (
	"time"

	domain "github.com/example/taskflow/domain/task"
)

// TaskRequest is the HTTP request body for creating or updating a task.
type TaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// TaskResponse is the HTTP representation of a task.
type TaskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// ListTasksResponse is the HTTP response for the active and history views.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

// CompleteTaskResponse is the HTTP response for completing a task.
type CompleteTaskResponse struct {
	Message     string    `json:"message"`
	ID          int64     `json:"id"`
	CompletedAt time.Time `json:"completedAt"`
}

// UpdateTaskResponse is the HTTP response for updating a task.
type UpdateTaskResponse struct {
	Message     string  `json:"message"`
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// DeleteTaskResponse is the HTTP response for deleting a task.
type DeleteTaskResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// HealthResponse is the HTTP response for health check.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse is the HTTP response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

func toTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt,
		CompletedAt: task.CompletedAt,
	}
}

func toListResponse(tasks []*domain.Task) ListTasksResponse {
	resp := ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
	}
	for _, task := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(task))
	}
	return resp
}
