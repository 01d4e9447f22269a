package task

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/taskflow/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// taskAdapter implements TaskPort over the task module's ServiceContainer.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a TaskPort that calls the task module's services.
// container is received via SetDependencyServiceContainer.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

// CreateTask creates a new task via the create-task service.
func (a *taskAdapter) CreateTask(ctx context.Context, title string, description *string) (*domain.Task, error) {
	req := CreateTaskRequest{Title: title, Description: description}
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceCreateTask,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", ServiceCreateTask, err)
	}
	return taskResult(resp)
}

// ListActive lists active tasks via the list-active-tasks service.
func (a *taskAdapter) ListActive(ctx context.Context) ([]*domain.Task, error) {
	var resp ListTasksResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceListActive,
		json.Marshal,
		json.Unmarshal,
		&ListTasksRequest{},
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", ServiceListActive, err)
	}
	return listResult(resp)
}

// ListCompleted lists completed tasks via the list-completed-tasks service.
func (a *taskAdapter) ListCompleted(ctx context.Context) ([]*domain.Task, error) {
	var resp ListTasksResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceListCompleted,
		json.Marshal,
		json.Unmarshal,
		&ListTasksRequest{},
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", ServiceListCompleted, err)
	}
	return listResult(resp)
}

// CompleteTask marks a task as completed via the complete-task service.
func (a *taskAdapter) CompleteTask(ctx context.Context, id int64) (*domain.Task, error) {
	req := CompleteTaskRequest{ID: id}
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceCompleteTask,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", ServiceCompleteTask, err)
	}
	return taskResult(resp)
}

// UpdateTask updates a task via the update-task service.
func (a *taskAdapter) UpdateTask(ctx context.Context, id int64, title string, description *string) (*domain.Task, error) {
	req := UpdateTaskRequest{ID: id, Title: title, Description: description}
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceUpdateTask,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", ServiceUpdateTask, err)
	}
	return taskResult(resp)
}

// DeleteTask deletes a task via the delete-task service.
func (a *taskAdapter) DeleteTask(ctx context.Context, id int64) error {
	req := DeleteTaskRequest{ID: id}
	var resp DeleteTaskResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceDeleteTask,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("%s service call failed: %w", ServiceDeleteTask, err)
	}
	if err := resp.Error.Err(); err != nil {
		return err
	}
	if !resp.Deleted {
		return fmt.Errorf("%w: task %d not deleted", domain.ErrStorage, id)
	}
	return nil
}

func taskResult(resp TaskResponse) (*domain.Task, error) {
	if err := resp.Error.Err(); err != nil {
		return nil, err
	}
	if resp.Task == nil {
		return nil, fmt.Errorf("%w: empty task response", domain.ErrStorage)
	}
	return resp.Task, nil
}

func listResult(resp ListTasksResponse) ([]*domain.Task, error) {
	if err := resp.Error.Err(); err != nil {
		return nil, err
	}
	if resp.Tasks == nil {
		return make([]*domain.Task, 0), nil
	}
	return resp.Tasks, nil
}
