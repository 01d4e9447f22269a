package task

import (
	"context"
	"fmt"
	"time"

	domain "github.com/example/taskflow/domain/task"
)

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store is the durable home of task rows. Every method is a single-row,
// single-statement operation except for the read-back that follows a write.
type Store interface {
	Create(ctx context.Context, task *domain.Task) error
	FindByID(ctx context.Context, id int64) (*domain.Task, error)
	ListActive(ctx context.Context) ([]*domain.Task, error)
	ListCompleted(ctx context.Context) ([]*domain.Task, error)
	Complete(ctx context.Context, id int64, at time.Time) (*domain.Task, error)
	Update(ctx context.Context, id int64, title string, description *string) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// StoreConfig selects and configures the store backend.
type StoreConfig struct {
	Driver      string
	SQLitePath  string
	DatabaseURL string
	Debug       bool
}

// OpenStore opens the backend named by cfg.Driver and prepares its schema.
func OpenStore(ctx context.Context, cfg StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", DriverSQLite:
		return OpenGormStore(cfg.SQLitePath, cfg.Debug)
	case DriverPostgres:
		return OpenPostgresStore(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}
