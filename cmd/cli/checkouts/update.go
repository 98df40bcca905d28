package checkouts

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AJacquin/ManaHg/internal/repos/shared"
	"github.com/AJacquin/ManaHg/internal/workflow"
)

const (
	updateUseConstant           = "update"
	updateShortDescription      = "Update every tracked checkout's working directory"
	updateLongDescription       = "update runs hg update across the tracked checkouts, targeting the branch tip by default, an explicit revision with --rev, or the last public changeset of each checkout's branch with --last-public."
	updateRevisionFlagName      = "rev"
	updateRevisionFlagUsage     = "Update to the given revision"
	updateLastPublicFlagName    = "last-public"
	updateLastPublicFlagUsage   = "Update to the last public changeset of each checkout's branch"
	updateDryRunFlagName        = "dry-run"
	updateDryRunFlagUsage       = "Preview the update without touching any working directory"
	updateTargetConflictMessage = "--rev and --last-public are mutually exclusive"
)

// UpdateCommandBuilder assembles the update command.
type UpdateCommandBuilder struct {
	LoggerProvider               LoggerProvider
	MercurialExecutor            shared.MercurialExecutor
	RepositoryManager            shared.RepositoryManager
	SettingsPathProvider         SettingsPathProvider
	HumanReadableLoggingProvider func() bool
	CommandEventObserverProvider CommandEventObserverProvider
	ConfigurationProvider        func() FleetConfiguration
}

// Build constructs the update command.
func (builder *UpdateCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   updateUseConstant,
		Short: updateShortDescription,
		Long:  updateLongDescription,
		RunE:  builder.run,
	}

	command.Flags().String(updateRevisionFlagName, "", updateRevisionFlagUsage)
	command.Flags().Bool(updateLastPublicFlagName, false, updateLastPublicFlagUsage)
	command.Flags().Bool(updateDryRunFlagName, false, updateDryRunFlagUsage)

	return command, nil
}

func (builder *UpdateCommandBuilder) run(command *cobra.Command, arguments []string) error {
	revision, _ := command.Flags().GetString(updateRevisionFlagName)
	revision = strings.TrimSpace(revision)
	lastPublic, _ := command.Flags().GetBool(updateLastPublicFlagName)
	dryRun, _ := command.Flags().GetBool(updateDryRunFlagName)

	if len(revision) > 0 && lastPublic {
		return errors.New(updateTargetConflictMessage)
	}

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

	operations := []workflow.Operation{&workflow.UpdateOperation{Revision: revision, LastPublic: lastPublic}}

	return session.runAcrossInventory(command.Context(), nil, operations, workflow.RuntimeOptions{DryRun: dryRun})
}
