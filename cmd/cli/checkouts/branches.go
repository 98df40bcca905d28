package checkouts

import (
	"github.com/spf13/cobra"

	"github.com/AJacquin/ManaHg/internal/branches"
	"github.com/AJacquin/ManaHg/internal/repos/dependencies"
	"github.com/AJacquin/ManaHg/internal/repos/shared"
)

const (
	branchesUseConstant      = "branches"
	branchesShortDescription = "Aggregate branch names across the fleet"
	branchesLongDescription  = "branches probes every tracked checkout for its branch list and renders each branch with the number of checkouts carrying it."
)

// BranchesCommandBuilder assembles the branches command.
type BranchesCommandBuilder struct {
	LoggerProvider               LoggerProvider
	MercurialExecutor            shared.MercurialExecutor
	RepositoryManager            shared.RepositoryManager
	SettingsPathProvider         SettingsPathProvider
	HumanReadableLoggingProvider func() bool
	CommandEventObserverProvider CommandEventObserverProvider
}

// Build constructs the branches command.
func (builder *BranchesCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   branchesUseConstant,
		Short: branchesShortDescription,
		Long:  branchesLongDescription,
		RunE:  builder.run,
	}

	return command, nil
}

func (builder *BranchesCommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := resolveLogger(builder.LoggerProvider)

	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	observer := resolveCommandEventObserver(builder.CommandEventObserverProvider)
	mercurialExecutor, executorError := dependencies.ResolveMercurialExecutor(builder.MercurialExecutor, logger, humanReadableLogging, observer)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := dependencies.ResolveRepositoryManager(builder.RepositoryManager, mercurialExecutor)
	if managerError != nil {
		return managerError
	}

	store, storeError := resolveSettingsStore(builder.SettingsPathProvider)
	if storeError != nil {
		return storeError
	}

	service, serviceError := branches.NewService(branches.Dependencies{
		Store:     store,
		Inspector: repositoryManager,
		Output:    command.OutOrStdout(),
		Errors:    command.ErrOrStderr(),
	})
	if serviceError != nil {
		return serviceError
	}

	_, runError := service.Run(command.Context())
	return runError
}
