package checkouts

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AJacquin/ManaHg/internal/fleet"
	"github.com/AJacquin/ManaHg/internal/inventory"
	"github.com/AJacquin/ManaHg/internal/repos/dependencies"
	"github.com/AJacquin/ManaHg/internal/repos/shared"
	"github.com/AJacquin/ManaHg/internal/utils"
	"github.com/AJacquin/ManaHg/internal/workflow"
)

const (
	settingsLoadErrorTemplateConstant     = "failed to load repository settings: %w"
	checkoutNotTrackedTemplateConstant    = "repository %s is not tracked"
	fleetDispatcherErrorTemplateConstant  = "unable to construct fleet dispatcher: %w"
	repositoryManagerErrorTemplateCommand = "unable to construct repository manager: %w"
	noTrackedCheckoutsMessageConstant     = "no tracked checkouts; run scan first"
)

// fleetWiring groups the collaborators a bulk dispatch command resolves
// before execution. Zero-value fields fall back to shell-backed defaults.
type fleetWiring struct {
	LoggerProvider               LoggerProvider
	MercurialExecutor            shared.MercurialExecutor
	RepositoryManager            shared.RepositoryManager
	SettingsPathProvider         SettingsPathProvider
	PrompterFactory              PrompterFactory
	HumanReadableLoggingProvider func() bool
	CommandEventObserverProvider CommandEventObserverProvider
	Concurrency                  int
}

// fleetSession holds the executor collaborators resolved for one command run.
type fleetSession struct {
	store        *inventory.Store
	dependencies workflow.Dependencies
}

func newFleetSession(command *cobra.Command, wiring fleetWiring) (*fleetSession, error) {
	logger := resolveLogger(wiring.LoggerProvider)

	humanReadableLogging := false
	if wiring.HumanReadableLoggingProvider != nil {
		humanReadableLogging = wiring.HumanReadableLoggingProvider()
	}

	observer := resolveCommandEventObserver(wiring.CommandEventObserverProvider)
	mercurialExecutor, executorError := dependencies.ResolveMercurialExecutor(wiring.MercurialExecutor, logger, humanReadableLogging, observer)
	if executorError != nil {
		return nil, executorError
	}

	repositoryManager, managerError := dependencies.ResolveRepositoryManager(wiring.RepositoryManager, mercurialExecutor)
	if managerError != nil {
		return nil, fmt.Errorf(repositoryManagerErrorTemplateCommand, managerError)
	}

	dispatcher, dispatcherError := fleet.NewDispatcher(
		fleet.Dependencies{RepositoryManager: repositoryManager, Logger: logger},
		fleet.WithConcurrency(wiring.Concurrency),
	)
	if dispatcherError != nil {
		return nil, fmt.Errorf(fleetDispatcherErrorTemplateConstant, dispatcherError)
	}

	store, storeError := resolveSettingsStore(wiring.SettingsPathProvider)
	if storeError != nil {
		return nil, storeError
	}

	prompter := resolvePrompter(wiring.PrompterFactory, command)

	return &fleetSession{
		store: store,
		dependencies: workflow.Dependencies{
			Logger:     logger,
			Store:      store,
			Dispatcher: dispatcher,
			Prompter:   prompter,
			Output:     utils.NewFlushingWriter(command.OutOrStdout()),
			Errors:     utils.NewFlushingWriter(command.ErrOrStderr()),
		},
	}, nil
}

// runAcrossInventory selects the requested records (all tracked checkouts
// when paths is empty) and executes the operations against them in order.
func (session *fleetSession) runAcrossInventory(executionContext context.Context, paths []string, operations []workflow.Operation, runtimeOptions workflow.RuntimeOptions) error {
	repositories, selectError := session.selectTrackedRepositories(paths)
	if selectError != nil {
		return selectError
	}
	if len(repositories) == 0 {
		return errors.New(noTrackedCheckoutsMessageConstant)
	}

	executor := workflow.NewExecutor(operations, session.dependencies)
	return executor.ExecuteAgainst(executionContext, repositories, runtimeOptions)
}

// selectTrackedRepositories narrows the tracked inventory to the requested
// paths, preserving inventory order. An empty selection returns every record.
func (session *fleetSession) selectTrackedRepositories(paths []string) ([]inventory.Repository, error) {
	settings, loadError := session.store.Load()
	if loadError != nil {
		return nil, fmt.Errorf(settingsLoadErrorTemplateConstant, loadError)
	}

	records := inventory.RepositoriesFromPaths(settings.RepositoryPaths)
	if len(paths) == 0 {
		return records, nil
	}

	requested := make(map[string]struct{}, len(paths))
	for _, requestedPath := range paths {
		requested[requestedPath] = struct{}{}
	}

	selected := make([]inventory.Repository, 0, len(paths))
	for _, record := range records {
		if _, wanted := requested[record.Path]; !wanted {
			continue
		}
		selected = append(selected, record)
		delete(requested, record.Path)
	}

	for _, requestedPath := range paths {
		if _, unmatched := requested[requestedPath]; unmatched {
			return nil, fmt.Errorf(checkoutNotTrackedTemplateConstant, requestedPath)
		}
	}

	return selected, nil
}
