package overview

import (
	"context"

	"github.com/AJacquin/ManaHg/internal/fleet"
	"github.com/AJacquin/ManaHg/internal/inventory"
)

// SettingsStore loads the persisted repository inventory.
type SettingsStore interface {
	Load() (inventory.Settings, error)
}

// OperationDispatcher fans a repository operation across the tracked checkouts.
type OperationDispatcher interface {
	Dispatch(executionContext context.Context, repositories []inventory.Repository, operation fleet.RepositoryOperation) fleet.Report
}
