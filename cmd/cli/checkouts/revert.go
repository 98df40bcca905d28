package checkouts

import (
	"github.com/spf13/cobra"

	"github.com/AJacquin/ManaHg/internal/repos/shared"
	flagutils "github.com/AJacquin/ManaHg/internal/utils/flags"
	"github.com/AJacquin/ManaHg/internal/workflow"
)

const (
	revertUseConstant      = "revert"
	revertShortDescription = "Revert working copy changes across the fleet"
	revertLongDescription  = "revert runs hg revert --all across the tracked checkouts; each checkout is confirmed individually unless --yes is given or a prompt answers apply-to-all."
	revertDryRunFlagName   = "dry-run"
	revertDryRunFlagUsage  = "Preview the revert without touching any working directory"
)

// RevertCommandBuilder assembles the revert command.
type RevertCommandBuilder struct {
	LoggerProvider               LoggerProvider
	MercurialExecutor            shared.MercurialExecutor
	RepositoryManager            shared.RepositoryManager
	SettingsPathProvider         SettingsPathProvider
	PrompterFactory              PrompterFactory
	HumanReadableLoggingProvider func() bool
	CommandEventObserverProvider CommandEventObserverProvider
	ConfigurationProvider        func() FleetConfiguration
}

// Build constructs the revert command.
func (builder *RevertCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   revertUseConstant,
		Short: revertShortDescription,
		Long:  revertLongDescription,
		RunE:  builder.run,
	}

	command.Flags().BoolP(flagutils.AssumeYesFlagName, flagutils.AssumeYesFlagShorthand, false, flagutils.AssumeYesFlagUsage)
	command.Flags().Bool(revertDryRunFlagName, false, revertDryRunFlagUsage)

	return command, nil
}

func (builder *RevertCommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := resolveFleetConfiguration(builder.ConfigurationProvider)

	assumeYes := configuration.AssumeYes
	if command.Flags().Changed(flagutils.AssumeYesFlagName) {
		assumeYes, _ = command.Flags().GetBool(flagutils.AssumeYesFlagName)
	}
	dryRun, _ := command.Flags().GetBool(revertDryRunFlagName)

	session, sessionError := newFleetSession(command, fleetWiring{
		LoggerProvider:               builder.LoggerProvider,
		MercurialExecutor:            builder.MercurialExecutor,
		RepositoryManager:            builder.RepositoryManager,
		SettingsPathProvider:         builder.SettingsPathProvider,
		PrompterFactory:              builder.PrompterFactory,
		HumanReadableLoggingProvider: builder.HumanReadableLoggingProvider,
		CommandEventObserverProvider: builder.CommandEventObserverProvider,
		Concurrency:                  configuration.Concurrency,
	})
	if sessionError != nil {
		return sessionError
	}

	operations := []workflow.Operation{&workflow.RevertOperation{}}

	confirmationPolicy := shared.ConfirmationPolicyFromBool(assumeYes)
	return session.runAcrossInventory(command.Context(), nil, operations, workflow.RuntimeOptions{DryRun: dryRun, AssumeYes: confirmationPolicy.ShouldAssumeYes()})
}
