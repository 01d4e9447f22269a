package api

import (
	"context"
	"errors"
	"strconv"

	domain "github.com/example/taskflow/domain/task"
	"github.com/gofiber/fiber/v2"
)

// setupRoutes registers all HTTP routes.
func (m *APIModule) setupRoutes(app *fiber.App) {
	app.Get("/health", m.healthCheck)

	api := app.Group("/api")
	api.Get("/tasks/active", m.listActive)
	api.Get("/tasks/history", m.listHistory)
	api.Post("/tasks", m.createTask)
	api.Patch("/tasks/:id/complete", m.completeTask)
	api.Put("/tasks/:id", m.updateTask)
	api.Delete("/tasks/:id", m.deleteTask)
}

// healthCheck handles GET /health
func (m *APIModule) healthCheck(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module": m.Name(),
		},
	})
}

// listActive handles GET /api/tasks/active
func (m *APIModule) listActive(c *fiber.Ctx) error {
	ctx, cancel := m.requestContext(c)
	defer cancel()

	tasks, err := m.taskPort.ListActive(ctx)
	if err != nil {
		return m.writeError(c, err)
	}
	return c.JSON(toListResponse(tasks))
}

// listHistory handles GET /api/tasks/history
func (m *APIModule) listHistory(c *fiber.Ctx) error {
	ctx, cancel := m.requestContext(c)
	defer cancel()

	tasks, err := m.taskPort.ListCompleted(ctx)
	if err != nil {
		return m.writeError(c, err)
	}
	return c.JSON(toListResponse(tasks))
}

// createTask handles POST /api/tasks
func (m *APIModule) createTask(c *fiber.Ctx) error {
	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid request body",
		})
	}

	ctx, cancel := m.requestContext(c)
	defer cancel()

	task, err := m.taskPort.CreateTask(ctx, req.Title, req.Description)
	if err != nil {
		return m.writeError(c, err)
	}
	return c.JSON(toTaskResponse(task))
}

// completeTask handles PATCH /api/tasks/:id/complete
func (m *APIModule) completeTask(c *fiber.Ctx) error {
	id, ok := taskID(c)
	if !ok {
		return m.writeError(c, domain.ErrNotFound)
	}

	ctx, cancel := m.requestContext(c)
	defer cancel()

	task, err := m.taskPort.CompleteTask(ctx, id)
	if err != nil {
		return m.writeError(c, err)
	}

	resp := CompleteTaskResponse{
		Message: "Task marked as completed",
		ID:      task.ID,
	}
	if task.CompletedAt != nil {
		resp.CompletedAt = *task.CompletedAt
	}
	return c.JSON(resp)
}

// updateTask handles PUT /api/tasks/:id
func (m *APIModule) updateTask(c *fiber.Ctx) error {
	id, ok := taskID(c)
	if !ok {
		return m.writeError(c, domain.ErrNotFound)
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid request body",
		})
	}

	ctx, cancel := m.requestContext(c)
	defer cancel()

	task, err := m.taskPort.UpdateTask(ctx, id, req.Title, req.Description)
	if err != nil {
		return m.writeError(c, err)
	}
	return c.JSON(UpdateTaskResponse{
		Message:     "Task updated",
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
	})
}

// deleteTask handles DELETE /api/tasks/:id
func (m *APIModule) deleteTask(c *fiber.Ctx) error {
	id, ok := taskID(c)
	if !ok {
		return m.writeError(c, domain.ErrNotFound)
	}

	ctx, cancel := m.requestContext(c)
	defer cancel()

	if err := m.taskPort.DeleteTask(ctx, id); err != nil {
		return m.writeError(c, err)
	}
	return c.JSON(DeleteTaskResponse{
		Message: "Task deleted",
		ID:      id,
	})
}

// requestContext bounds the task call by the configured request timeout.
func (m *APIModule) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if m.cfg.RequestTimeout <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), m.cfg.RequestTimeout)
}

// writeError maps task errors to HTTP status codes.
func (m *APIModule) writeError(c *fiber.Ctx, err error) error {
	switch {
	case domain.IsValidation(err):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: err.Error(),
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: "Task not found",
		})
	default:
		m.logger.WithError(err).Error("Task request failed",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", c.Locals("requestid"))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}
}

// taskID parses the :id path parameter. Non-numeric and non-positive ids
// cannot name a stored task.
func taskID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
