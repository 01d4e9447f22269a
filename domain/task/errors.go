package task

import "errors"

var (
	// ErrNotFound is returned when no task has the requested identifier.
	ErrNotFound = errors.New("task not found")

	// ErrStorage marks failures of the underlying persistence layer.
	ErrStorage = errors.New("storage failure")
)

// ErrTitleRequired is returned by create and update when the title is blank.
var ErrTitleRequired = &ValidationError{Field: "title", Message: "Title is required"}

// ErrCompletedLocked is returned by delete when completed tasks are not deletable.
var ErrCompletedLocked = &ValidationError{Field: "status", Message: "Completed tasks cannot be deleted"}

// ValidationError reports a request the caller must fix before retrying.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
