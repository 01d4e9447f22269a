package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/example/taskflow/domain/task"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore provides task storage via GORM + SQLite.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// OpenGormStore opens the SQLite database at path and migrates the tasks table.
func OpenGormStore(path string, debug bool) (*GormStore, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	// SQLite serialises writers; a single connection also keeps :memory: databases intact.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return NewGormStore(db), nil
}

// NewGormStore wraps an already migrated GORM handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Create inserts a new task and reads back the persisted row.
func (s *GormStore) Create(ctx context.Context, task *domain.Task) error {
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	stored, err := s.FindByID(ctx, task.ID)
	if err != nil {
		return err
	}
	*task = *stored
	return nil
}

// FindByID retrieves a task by its ID.
func (s *GormStore) FindByID(ctx context.Context, id int64) (*domain.Task, error) {
	var task domain.Task
	if err := s.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// ListActive returns active tasks, newest first.
func (s *GormStore) ListActive(ctx context.Context) ([]*domain.Task, error) {
	tasks := make([]*domain.Task, 0)
	err := s.db.WithContext(ctx).
		Where("status = ?", domain.StatusActive).
		Order("created_at DESC").
		Order("id DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active tasks: %w", err)
	}
	return tasks, nil
}

// ListCompleted returns completed tasks, most recently completed first.
func (s *GormStore) ListCompleted(ctx context.Context) ([]*domain.Task, error) {
	tasks := make([]*domain.Task, 0)
	err := s.db.WithContext(ctx).
		Where("status = ?", domain.StatusCompleted).
		Order("completed_at DESC").
		Order("created_at DESC").
		Order("id DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list completed tasks: %w", err)
	}
	return tasks, nil
}

// Complete transitions an active task to completed. A task that is already
// completed keeps its original completion time.
func (s *GormStore) Complete(ctx context.Context, id int64, at time.Time) (*domain.Task, error) {
	result := s.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ? AND status = ?", id, domain.StatusActive).
		Updates(map[string]any{
			"status":       domain.StatusCompleted,
			"completed_at": at,
		})
	if err := result.Error; err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Update overwrites title and description, leaving status and timestamps untouched.
func (s *GormStore) Update(ctx context.Context, id int64, title string, description *string) (*domain.Task, error) {
	result := s.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"title":       title,
			"description": description,
		})
	if err := result.Error; err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return s.FindByID(ctx, id)
}

// Delete permanently removes a task by ID.
func (s *GormStore) Delete(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count returns the number of stored tasks.
func (s *GormStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.Task{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// Ping verifies the database connection.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
