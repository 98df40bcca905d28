package checkouts

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AJacquin/ManaHg/internal/repos/shared"
	"github.com/AJacquin/ManaHg/internal/workflow"
)

const (
	switchUseConstant           = "switch <branch>"
	switchShortDescription      = "Switch every tracked checkout to a named branch"
	switchLongDescription       = "switch runs hg update to the named branch across the tracked checkouts and records the Switched outcome."
	switchDryRunFlagName        = "dry-run"
	switchDryRunFlagUsage       = "Preview the branch switch without touching any working directory"
	switchBranchRequiredMessage = "switch requires a non-empty branch name"
)

// SwitchCommandBuilder assembles the switch command.
type SwitchCommandBuilder struct {
	LoggerProvider               LoggerProvider
	MercurialExecutor            shared.MercurialExecutor
	RepositoryManager            shared.RepositoryManager
	SettingsPathProvider         SettingsPathProvider
	HumanReadableLoggingProvider func() bool
	CommandEventObserverProvider CommandEventObserverProvider
	ConfigurationProvider        func() FleetConfiguration
}

// Build constructs the switch command.
func (builder *SwitchCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   switchUseConstant,
		Short: switchShortDescription,
		Long:  switchLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.run,
	}

	command.Flags().Bool(switchDryRunFlagName, false, switchDryRunFlagUsage)

	return command, nil
}

func (builder *SwitchCommandBuilder) run(command *cobra.Command, arguments []string) error {
	targetBranch := strings.TrimSpace(arguments[0])
	if len(targetBranch) == 0 {
		return errors.New(switchBranchRequiredMessage)
	}

	dryRun, _ := command.Flags().GetBool(switchDryRunFlagName)

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

	operations := []workflow.Operation{&workflow.SwitchBranchOperation{TargetBranch: targetBranch}}

	return session.runAcrossInventory(command.Context(), nil, operations, workflow.RuntimeOptions{DryRun: dryRun})
}
