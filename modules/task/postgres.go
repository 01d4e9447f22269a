package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/example/taskflow/domain/task"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id           BIGSERIAL PRIMARY KEY,
	title        TEXT NOT NULL CHECK (title <> ''),
	description  TEXT,
	status       TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'completed')),
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	completed_at TIMESTAMPTZ,
	CHECK ((status = 'completed') = (completed_at IS NOT NULL))
)`

const taskColumns = "id, title, description, status, created_at, completed_at"

// PostgresStore provides task storage via pgx + PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// OpenPostgresStore connects to databaseURL and ensures the tasks table exists.
func OpenPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return NewPostgresStore(pool), nil
}

// NewPostgresStore wraps an existing pool. The schema must already exist.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Create inserts a new task and fills in the persisted values.
func (s *PostgresStore) Create(ctx context.Context, task *domain.Task) error {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO tasks (title, description, status, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+taskColumns,
		task.Title, task.Description, string(task.Status), task.CreatedAt,
	)
	stored, err := scanTask(row)
	if err != nil {
		if isPgCheckViolation(err) {
			return domain.ErrTitleRequired
		}
		return fmt.Errorf("failed to create task: %w", err)
	}
	*task = *stored
	return nil
}

// FindByID retrieves a task by its ID.
func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*domain.Task, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ListActive returns active tasks, newest first.
func (s *PostgresStore) ListActive(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.list(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE status = 'active'
		 ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active tasks: %w", err)
	}
	return tasks, nil
}

// ListCompleted returns completed tasks, most recently completed first.
func (s *PostgresStore) ListCompleted(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.list(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE status = 'completed'
		 ORDER BY completed_at DESC, created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed tasks: %w", err)
	}
	return tasks, nil
}

func (s *PostgresStore) list(ctx context.Context, query string) ([]*domain.Task, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	tasks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Task, error) {
		return scanTask(row)
	})
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = make([]*domain.Task, 0)
	}
	return tasks, nil
}

// Complete transitions an active task to completed. A task that is already
// completed keeps its original completion time.
func (s *PostgresStore) Complete(ctx context.Context, id int64, at time.Time) (*domain.Task, error) {
	_, err := s.pool.Exec(ctx,
		`UPDATE tasks SET status = 'completed', completed_at = $2
		 WHERE id = $1 AND status = 'active'`,
		id, at,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Update overwrites title and description, leaving status and timestamps untouched.
func (s *PostgresStore) Update(ctx context.Context, id int64, title string, description *string) (*domain.Task, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE tasks SET title = $2, description = $3
		 WHERE id = $1
		 RETURNING `+taskColumns,
		id, title, description,
	)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isPgCheckViolation(err) {
			return nil, domain.ErrTitleRequired
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// Delete permanently removes a task by ID.
func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count returns the number of stored tasks.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM tasks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// Ping verifies the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		task   domain.Task
		status string
	)
	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&status,
		&task.CreatedAt,
		&task.CompletedAt,
	); err != nil {
		return nil, err
	}
	task.Status = domain.Status(status)
	task.CreatedAt = task.CreatedAt.UTC()
	if task.CompletedAt != nil {
		completedAt := task.CompletedAt.UTC()
		task.CompletedAt = &completedAt
	}
	return &task, nil
}

// isPgCheckViolation checks if error is a PostgreSQL check constraint violation.
func isPgCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23514"
	}
	return false
}
