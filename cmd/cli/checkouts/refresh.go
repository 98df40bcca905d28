package checkouts

import (
	"github.com/spf13/cobra"

	"github.com/AJacquin/ManaHg/internal/repos/shared"
	"github.com/AJacquin/ManaHg/internal/workflow"
)

const (
	refreshUseConstant      = "refresh [path ...]"
	refreshShortDescription = "Re-probe tracked checkouts"
	refreshLongDescription  = "refresh re-reads branch, revision, modified state, and phase for the selected checkouts, or for every tracked checkout when no paths are given."
)

// RefreshCommandBuilder assembles the refresh command.
type RefreshCommandBuilder struct {
	LoggerProvider               LoggerProvider
	MercurialExecutor            shared.MercurialExecutor
	RepositoryManager            shared.RepositoryManager
	SettingsPathProvider         SettingsPathProvider
	HumanReadableLoggingProvider func() bool
	CommandEventObserverProvider CommandEventObserverProvider
	ConfigurationProvider        func() FleetConfiguration
}

// Build constructs the refresh command.
func (builder *RefreshCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   refreshUseConstant,
		Short: refreshShortDescription,
		Long:  refreshLongDescription,
		RunE:  builder.run,
	}

	return command, nil
}

func (builder *RefreshCommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := resolveFleetConfiguration(builder.ConfigurationProvider)

	session, sessionError := newFleetSession(command, fleetWiring{
		LoggerProvider:               builder.LoggerProvider,
		MercurialExecutor:            builder.MercurialExecutor,
		RepositoryManager:            builder.RepositoryManager,
		SettingsPathProvider:         builder.SettingsPathProvider,
		HumanReadableLoggingProvider: builder.HumanReadableLoggingProvider,
		CommandEventObserverProvider: builder.CommandEventObserverProvider,
		Concurrency:                  configuration.Concurrency,
	})
	if sessionError != nil {
		return sessionError
	}

	operations := []workflow.Operation{&workflow.RefreshOperation{}}

	return session.runAcrossInventory(command.Context(), checkoutPathSanitizer.Sanitize(arguments), operations, workflow.RuntimeOptions{})
}
