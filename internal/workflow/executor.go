package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/AJacquin/ManaHg/internal/inventory"
	"github.com/AJacquin/ManaHg/internal/repos/shared"
)

const (
	workflowExecutionErrorTemplateConstant = "workflow operation %s failed: %w"
	workflowExecutorDependenciesMessage    = "workflow executor requires a fleet dispatcher"
	workflowExecutorStoreMessage           = "workflow executor requires an inventory store"
	workflowExecutorEmptyInventoryMessage  = "workflow requires at least one tracked repository"
	workflowInventoryLoadErrorTemplate     = "failed to load repository inventory: %w"
)

// SettingsStore loads the persisted repository inventory.
type SettingsStore interface {
	Load() (inventory.Settings, error)
}

// Dependencies configures shared collaborators for workflow execution.
type Dependencies struct {
	Logger     *zap.Logger
	Store      SettingsStore
	Dispatcher OperationDispatcher
	Prompter   shared.ConfirmationPrompter
	Output     io.Writer
	Errors     io.Writer
}

// RuntimeOptions captures user-provided execution modifiers.
type RuntimeOptions struct {
	DryRun    bool
	AssumeYes bool
}

// Executor coordinates workflow operation execution.
type Executor struct {
	operations   []Operation
	dependencies Dependencies
}

// NewExecutor constructs an Executor instance.
func NewExecutor(operations []Operation, dependencies Dependencies) *Executor {
	return &Executor{operations: append([]Operation{}, operations...), dependencies: dependencies}
}

// Execute loads the tracked inventory and runs the configured operations
// against every record in order.
func (executor *Executor) Execute(executionContext context.Context, runtimeOptions RuntimeOptions) error {
	if executor.dependencies.Store == nil {
		return errors.New(workflowExecutorStoreMessage)
	}

	settings, loadError := executor.dependencies.Store.Load()
	if loadError != nil {
		return fmt.Errorf(workflowInventoryLoadErrorTemplate, loadError)
	}
	if len(settings.RepositoryPaths) == 0 {
		return errors.New(workflowExecutorEmptyInventoryMessage)
	}

	return executor.ExecuteAgainst(executionContext, inventory.RepositoriesFromPaths(settings.RepositoryPaths), runtimeOptions)
}

// ExecuteAgainst runs the configured operations in order against the provided
// records, stopping at the first step whose dispatch reports a failure.
func (executor *Executor) ExecuteAgainst(executionContext context.Context, repositories []inventory.Repository, runtimeOptions RuntimeOptions) error {
	if executor.dependencies.Dispatcher == nil {
		return errors.New(workflowExecutorDependenciesMessage)
	}
	if len(repositories) == 0 {
		return errors.New(workflowExecutorEmptyInventoryMessage)
	}

	logger := executor.dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	promptState := NewPromptState(runtimeOptions.AssumeYes)
	dispatchingPrompter := newPromptDispatcher(executor.dependencies.Prompter, promptState)

	state := &State{Repositories: repositories}
	environment := &Environment{
		Dispatcher: executor.dependencies.Dispatcher,
		Prompter:   dispatchingPrompter,
		Output:     executor.dependencies.Output,
		Errors:     executor.dependencies.Errors,
		Logger:     logger,
		DryRun:     runtimeOptions.DryRun,
	}

	for operationIndex := range executor.operations {
		operation := executor.operations[operationIndex]
		if operation == nil {
			continue
		}
		if executeError := operation.Execute(executionContext, environment, state); executeError != nil {
			return fmt.Errorf(workflowExecutionErrorTemplateConstant, operation.Name(), executeError)
		}
	}

	return nil
}
