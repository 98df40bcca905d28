package fleet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AJacquin/ManaHg/internal/execshell"
)

const (
	taskErrorTemplateConstant = "%s %q: %v"
	noErrorsMessageConstant   = "no errors"
	multiErrorSummaryTemplate = "%d repositories failed"
	errorStatusPrefixConstant = "Error: "
)

// TaskError wraps a failure from one repository task with its origin.
type TaskError struct {
	OperationName  string
	RepositoryPath string
	Err            error
}

// Error returns a formatted description of the task failure.
func (taskError *TaskError) Error() string {
	return fmt.Sprintf(taskErrorTemplateConstant, taskError.OperationName, taskError.RepositoryPath, taskError.Err)
}

// Unwrap returns the underlying error for error chain inspection.
func (taskError *TaskError) Unwrap() error {
	return taskError.Err
}

// MultiError aggregates failures from bulk repository operations.
type MultiError struct {
	Errors []error
}

// Error returns a summary of the accumulated failures.
func (multiError *MultiError) Error() string {
	if len(multiError.Errors) == 0 {
		return noErrorsMessageConstant
	}
	if len(multiError.Errors) == 1 {
		return multiError.Errors[0].Error()
	}
	return fmt.Sprintf(multiErrorSummaryTemplate, len(multiError.Errors))
}

// Add appends an error to the collection if it is not nil.
func (multiError *MultiError) Add(err error) {
	if err != nil {
		multiError.Errors = append(multiError.Errors, err)
	}
}

// Err returns nil when no failures occurred, otherwise the MultiError itself.
func (multiError *MultiError) Err() error {
	if len(multiError.Errors) == 0 {
		return nil
	}
	return multiError
}

// FormatFailureStatus renders a dashboard status cell for a failed operation,
// preferring the trimmed hg stderr over the wrapped error chain.
func FormatFailureStatus(err error) string {
	var commandFailure execshell.CommandFailedError
	if errors.As(err, &commandFailure) {
		standardErrorText := strings.TrimSpace(commandFailure.Result.StandardError)
		if len(standardErrorText) > 0 {
			return errorStatusPrefixConstant + standardErrorText
		}
	}
	return errorStatusPrefixConstant + err.Error()
}
