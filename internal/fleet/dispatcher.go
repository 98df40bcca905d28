package fleet

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AJacquin/ManaHg/internal/inventory"
	"github.com/AJacquin/ManaHg/internal/repos/shared"
)

const (
	// DefaultConcurrencyConstant bounds parallel hg invocations across checkouts.
	DefaultConcurrencyConstant = 4

	minimumConcurrencyConstant         = 1
	repositoryManagerMissingMessage    = "repository manager not configured"
	dispatchStartedLogMessageConstant  = "dispatching fleet operation"
	taskFinishedLogMessageConstant     = "fleet task finished"
	dispatchFinishedLogMessageConstant = "fleet operation finished"
	operationLogFieldConstant          = "operation"
	runIdentifierLogFieldConstant      = "run_id"
	repositoryCountLogFieldConstant    = "repositories"
	concurrencyLogFieldConstant        = "concurrency"
	repositoryPathLogFieldConstant     = "repository"
	statusLogFieldConstant             = "status"
	failureCountLogFieldConstant       = "failures"
)

// ErrRepositoryManagerNotConfigured indicates the dispatcher was built without a manager.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessage)

// TaskResult holds the refreshed record and failure, if any, of one repository task.
type TaskResult struct {
	Repository inventory.Repository
	Err        error
}

// Report aggregates the outcome of one bulk dispatch in inventory order.
type Report struct {
	RunIdentifier string
	Results       []TaskResult
	FailureCount  int
}

// Repositories returns the refreshed records in inventory order.
func (report Report) Repositories() []inventory.Repository {
	repositories := make([]inventory.Repository, 0, len(report.Results))
	for _, result := range report.Results {
		repositories = append(repositories, result.Repository)
	}
	return repositories
}

// Err aggregates the per-repository failures, returning nil when all tasks succeeded.
func (report Report) Err() error {
	multiError := &MultiError{}
	for _, result := range report.Results {
		multiError.Add(result.Err)
	}
	return multiError.Err()
}

// Dependencies enumerates the collaborators required by the dispatcher.
type Dependencies struct {
	RepositoryManager shared.RepositoryManager
	Logger            *zap.Logger
}

// Dispatcher runs repository operations across many checkouts concurrently,
// isolating failures so one broken checkout never aborts the rest.
type Dispatcher struct {
	repositoryManager shared.RepositoryManager
	logger            *zap.Logger
	concurrency       int
	timeout           time.Duration
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithConcurrency sets the maximum number of repositories processed in parallel.
func WithConcurrency(limit int) DispatcherOption {
	return func(dispatcher *Dispatcher) {
		dispatcher.concurrency = limit
	}
}

// WithTimeout sets the per-repository operation timeout.
func WithTimeout(timeout time.Duration) DispatcherOption {
	return func(dispatcher *Dispatcher) {
		dispatcher.timeout = timeout
	}
}

// NewDispatcher constructs a Dispatcher with bounded default concurrency.
func NewDispatcher(dependencies Dependencies, options ...DispatcherOption) (*Dispatcher, error) {
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	dispatcher := &Dispatcher{
		repositoryManager: dependencies.RepositoryManager,
		logger:            logger,
		concurrency:       DefaultConcurrencyConstant,
	}
	for _, option := range options {
		option(dispatcher)
	}
	if dispatcher.concurrency < minimumConcurrencyConstant {
		dispatcher.concurrency = minimumConcurrencyConstant
	}
	return dispatcher, nil
}

// Dispatch runs the operation against every repository, refreshes each record
// afterwards, and returns results in the order the repositories were given.
func (dispatcher *Dispatcher) Dispatch(executionContext context.Context, repositories []inventory.Repository, operation RepositoryOperation) Report {
	report := Report{
		RunIdentifier: uuid.NewString(),
		Results:       make([]TaskResult, len(repositories)),
	}
	if len(repositories) == 0 {
		return report
	}

	dispatcher.logger.Info(
		dispatchStartedLogMessageConstant,
		zap.String(operationLogFieldConstant, operation.Name),
		zap.String(runIdentifierLogFieldConstant, report.RunIdentifier),
		zap.Int(repositoryCountLogFieldConstant, len(repositories)),
		zap.Int(concurrencyLogFieldConstant, dispatcher.concurrency),
	)

	semaphore := make(chan struct{}, dispatcher.concurrency)
	var waitGroup sync.WaitGroup

	for repositoryIndex, repository := range repositories {
		waitGroup.Add(1)
		go func(resultIndex int, record inventory.Repository) {
			defer waitGroup.Done()

			if contextError := executionContext.Err(); contextError != nil {
				record.LastStatus = FormatFailureStatus(contextError)
				report.Results[resultIndex] = TaskResult{Repository: record, Err: contextError}
				return
			}

			select {
			case semaphore <- struct{}{}:
				defer func() { <-semaphore }()
			case <-executionContext.Done():
				record.LastStatus = FormatFailureStatus(executionContext.Err())
				report.Results[resultIndex] = TaskResult{Repository: record, Err: executionContext.Err()}
				return
			}

			report.Results[resultIndex] = dispatcher.runTask(executionContext, record, operation)
		}(repositoryIndex, repository)
	}

	waitGroup.Wait()

	for _, result := range report.Results {
		if result.Err != nil {
			report.FailureCount++
		}
	}

	dispatcher.logger.Info(
		dispatchFinishedLogMessageConstant,
		zap.String(operationLogFieldConstant, operation.Name),
		zap.String(runIdentifierLogFieldConstant, report.RunIdentifier),
		zap.Int(failureCountLogFieldConstant, report.FailureCount),
	)

	return report
}

func (dispatcher *Dispatcher) runTask(executionContext context.Context, record inventory.Repository, operation RepositoryOperation) TaskResult {
	taskContext := executionContext
	if dispatcher.timeout > 0 {
		var cancelTask context.CancelFunc
		taskContext, cancelTask = context.WithTimeout(executionContext, dispatcher.timeout)
		defer cancelTask()
	}

	var statusOverride string
	var operationError error
	if operation.Execute != nil {
		statusOverride, operationError = operation.Execute(taskContext, dispatcher.repositoryManager, record)
	}

	state := dispatcher.repositoryManager.Refresh(taskContext, record.Path)
	record.Branch = state.Branch
	record.Revision = state.Revision
	record.Modified = state.Modified
	record.Phase = state.Phase

	result := TaskResult{Repository: record}
	switch {
	case operationError != nil:
		record.LastStatus = FormatFailureStatus(operationError)
		result.Err = &TaskError{OperationName: operation.Name, RepositoryPath: record.Path, Err: operationError}
	case len(statusOverride) > 0:
		record.LastStatus = statusOverride
	default:
		record.LastStatus = operation.SuccessStatus
	}
	result.Repository = record

	dispatcher.logger.Debug(
		taskFinishedLogMessageConstant,
		zap.String(operationLogFieldConstant, operation.Name),
		zap.String(repositoryPathLogFieldConstant, record.Path),
		zap.String(statusLogFieldConstant, record.LastStatus),
	)
	return result
}
