package task

import (
	"strings"
	"time"
)

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Task is the core domain entity representing a tracked unit of work.
type Task struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description *string    `json:"description"`
	Status      Status     `gorm:"size:16;not null;default:active;index" json:"status"`
	CreatedAt   time.Time  `gorm:"not null;index" json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// TableName returns the table name for the Task model.
func (Task) TableName() string {
	return "tasks"
}

// IsCompleted reports whether the task has been transitioned to completed.
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// ValidateTitle trims the title and rejects it when nothing is left.
func ValidateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", ErrTitleRequired
	}
	return trimmed, nil
}

// NormalizeDescription maps an absent or blank description to nil.
func NormalizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
