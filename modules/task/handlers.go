package task

import (
	"context"

	"github.com/go-monolith/mono"
)

// Handlers delegate to the service and fold domain errors into the response
// envelope, so only transport failures surface as handler errors.

func (m *TaskModule) handleCreate(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.CreateTask(ctx, req.Title, req.Description)
	if err != nil {
		m.logFailure(ServiceCreateTask, 0, err)
		return TaskResponse{Error: newServiceError(err)}, nil
	}
	m.logger.Info("Task created", "id", task.ID)
	return TaskResponse{Task: task}, nil
}

func (m *TaskModule) handleListActive(ctx context.Context, _ ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.service.ListActive(ctx)
	if err != nil {
		m.logFailure(ServiceListActive, 0, err)
		return ListTasksResponse{Error: newServiceError(err)}, nil
	}
	return ListTasksResponse{Tasks: tasks, Total: len(tasks)}, nil
}

func (m *TaskModule) handleListCompleted(ctx context.Context, _ ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.service.ListCompleted(ctx)
	if err != nil {
		m.logFailure(ServiceListCompleted, 0, err)
		return ListTasksResponse{Error: newServiceError(err)}, nil
	}
	return ListTasksResponse{Tasks: tasks, Total: len(tasks)}, nil
}

func (m *TaskModule) handleComplete(ctx context.Context, req CompleteTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.CompleteTask(ctx, req.ID)
	if err != nil {
		m.logFailure(ServiceCompleteTask, req.ID, err)
		return TaskResponse{Error: newServiceError(err)}, nil
	}
	m.logger.Info("Task completed", "id", task.ID)
	return TaskResponse{Task: task}, nil
}

func (m *TaskModule) handleUpdate(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.UpdateTask(ctx, req.ID, req.Title, req.Description)
	if err != nil {
		m.logFailure(ServiceUpdateTask, req.ID, err)
		return TaskResponse{Error: newServiceError(err)}, nil
	}
	return TaskResponse{Task: task}, nil
}

func (m *TaskModule) handleDelete(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.service.DeleteTask(ctx, req.ID); err != nil {
		m.logFailure(ServiceDeleteTask, req.ID, err)
		return DeleteTaskResponse{ID: req.ID, Error: newServiceError(err)}, nil
	}
	m.logger.Info("Task deleted", "id", req.ID)
	return DeleteTaskResponse{Deleted: true, ID: req.ID}, nil
}

func (m *TaskModule) logFailure(service string, id int64, err error) {
	serr := newServiceError(err)
	if serr.Code == CodeStorage {
		m.logger.WithError(err).Error("Task service failed", "service", service, "id", id)
		return
	}
	m.logger.Info("Task request rejected", "service", service, "id", id, "code", serr.Code)
}
