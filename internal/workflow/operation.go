package workflow

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/AJacquin/ManaHg/internal/fleet"
	"github.com/AJacquin/ManaHg/internal/inventory"
	"github.com/AJacquin/ManaHg/internal/repos/shared"
)

// Operation coordinates a single workflow step across the tracked checkouts.
type Operation interface {
	Name() string
	Execute(executionContext context.Context, environment *Environment, state *State) error
}

// OperationDispatcher runs one fleet operation across repository records.
type OperationDispatcher interface {
	Dispatch(executionContext context.Context, repositories []inventory.Repository, operation fleet.RepositoryOperation) fleet.Report
}

// Environment exposes shared dependencies for workflow operations.
type Environment struct {
	Dispatcher OperationDispatcher
	Prompter   shared.ConfirmationPrompter
	Output     io.Writer
	Errors     io.Writer
	Logger     *zap.Logger
	DryRun     bool
}

// State carries the repository records threaded through workflow steps. Each
// dispatching step replaces the records it touched with their refreshed
// counterparts, so later steps observe up-to-date dashboard fields.
type State struct {
	Repositories []inventory.Repository
}
