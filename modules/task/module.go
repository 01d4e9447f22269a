package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// Config configures the task module.
type Config struct {
	Store                StoreConfig
	AllowDeleteCompleted bool
}

// TaskModule owns the task store and exposes the task lifecycle as
// request-reply services (core domain).
type TaskModule struct {
	cfg     Config
	store   Store
	service *Service
	logger  types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*TaskModule)(nil)
	_ mono.ServiceProviderModule = (*TaskModule)(nil)
	_ mono.HealthCheckableModule = (*TaskModule)(nil)
)

// NewModule creates a TaskModule that opens its store on Start.
func NewModule(cfg Config, logger types.Logger) *TaskModule {
	return &TaskModule{
		cfg:    cfg,
		logger: logger.WithModule("task"),
	}
}

// NewModuleWithStore creates a TaskModule around an already opened store.
// The module takes ownership of the store and closes it on Stop.
func NewModuleWithStore(store Store, logger types.Logger, opts ...ServiceOption) *TaskModule {
	return &TaskModule{
		store:   store,
		service: NewService(store, opts...),
		logger:  logger.WithModule("task"),
	}
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "task"
}

// Service returns the task service, or nil before Start.
func (m *TaskModule) Service() *Service {
	return m.service
}

// RegisterServices registers request-reply services in the service container.
func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceCreateTask, json.Unmarshal, json.Marshal, m.handleCreate,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceCreateTask, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceListActive, json.Unmarshal, json.Marshal, m.handleListActive,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceListActive, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceListCompleted, json.Unmarshal, json.Marshal, m.handleListCompleted,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceListCompleted, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceCompleteTask, json.Unmarshal, json.Marshal, m.handleComplete,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceCompleteTask, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceUpdateTask, json.Unmarshal, json.Marshal, m.handleUpdate,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceUpdateTask, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceDeleteTask, json.Unmarshal, json.Marshal, m.handleDelete,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceDeleteTask, err)
	}

	m.logger.Info("Registered task services",
		"services", []string{
			ServiceCreateTask, ServiceListActive, ServiceListCompleted,
			ServiceCompleteTask, ServiceUpdateTask, ServiceDeleteTask,
		})
	return nil
}

// Start opens the store unless one was injected.
func (m *TaskModule) Start(ctx context.Context) error {
	if m.store != nil {
		m.logger.Info("Task module started with injected store")
		return nil
	}

	m.logger.Info("Opening task store", "driver", m.driver())

	store, err := OpenStore(ctx, m.cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open task store: %w", err)
	}

	m.store = store
	m.service = NewService(store, WithDeleteCompleted(m.cfg.AllowDeleteCompleted))

	m.logger.Info("Task module started", "driver", m.driver())
	return nil
}

// Stop closes the store.
func (m *TaskModule) Stop(_ context.Context) error {
	if m.store == nil {
		return nil
	}

	m.logger.Info("Closing task store...")
	if err := m.store.Close(); err != nil {
		return fmt.Errorf("failed to close task store: %w", err)
	}
	m.logger.Info("Task store closed")
	return nil
}

// Health pings the store and reports the number of stored tasks.
func (m *TaskModule) Health(ctx context.Context) mono.HealthStatus {
	if m.store == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "store not initialized",
		}
	}

	if err := m.store.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("store ping failed: %v", err),
		}
	}

	details := map[string]any{"driver": m.driver()}
	count, err := m.store.Count(ctx)
	if err != nil {
		m.logger.WithError(err).Warn("Failed to count tasks for health check")
	} else {
		details["tasks"] = count
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}

func (m *TaskModule) driver() string {
	switch m.store.(type) {
	case *GormStore:
		return DriverSQLite
	case *PostgresStore:
		return DriverPostgres
	}
	if m.cfg.Store.Driver == "" {
		return DriverSQLite
	}
	return m.cfg.Store.Driver
}
