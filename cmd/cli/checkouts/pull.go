package checkouts

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AJacquin/ManaHg/internal/repos/shared"
	flagutils "github.com/AJacquin/ManaHg/internal/utils/flags"
	"github.com/AJacquin/ManaHg/internal/workflow"
)

const (
	pullUseConstant           = "pull"
	pullShortDescription      = "Pull new changesets into every tracked checkout"
	pullLongDescription       = "pull runs hg pull across the tracked checkouts; --branch restricts the pull to one named branch and --current pulls only each checkout's active branch."
	pullBranchFlagName        = "branch"
	pullBranchFlagUsage       = "Pull only the named branch"
	pullCurrentFlagName       = "current"
	pullCurrentFlagUsage      = "Pull only each checkout's current branch"
	pullDryRunFlagName        = "dry-run"
	pullDryRunFlagUsage       = "Preview the pull without contacting any remote"
	pullBranchConflictMessage = "--branch and --current are mutually exclusive"
)

// PullCommandBuilder assembles the pull command.
type PullCommandBuilder struct {
	LoggerProvider               LoggerProvider
	MercurialExecutor            shared.MercurialExecutor
	RepositoryManager            shared.RepositoryManager
	SettingsPathProvider         SettingsPathProvider
	HumanReadableLoggingProvider func() bool
	CommandEventObserverProvider CommandEventObserverProvider
	ConfigurationProvider        func() FleetConfiguration

	branchFlagValues *flagutils.BranchFlagValues
}

// Build constructs the pull command.
func (builder *PullCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   pullUseConstant,
		Short: pullShortDescription,
		Long:  pullLongDescription,
		RunE:  builder.run,
	}

	builder.branchFlagValues = flagutils.BindBranchFlags(command, flagutils.BranchFlagValues{}, flagutils.BranchFlagDefinition{
		Name:    pullBranchFlagName,
		Usage:   pullBranchFlagUsage,
		Enabled: true,
	})
	command.Flags().Bool(pullCurrentFlagName, false, pullCurrentFlagUsage)
	command.Flags().Bool(pullDryRunFlagName, false, pullDryRunFlagUsage)

	return command, nil
}

func (builder *PullCommandBuilder) run(command *cobra.Command, arguments []string) error {
	branchName := ""
	if builder.branchFlagValues != nil {
		branchName = strings.TrimSpace(builder.branchFlagValues.Name)
	}
	currentBranch, _ := command.Flags().GetBool(pullCurrentFlagName)
	dryRun, _ := command.Flags().GetBool(pullDryRunFlagName)

	if len(branchName) > 0 && currentBranch {
		return errors.New(pullBranchConflictMessage)
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

	operations := []workflow.Operation{&workflow.PullOperation{BranchName: branchName, CurrentBranch: currentBranch}}

	return session.runAcrossInventory(command.Context(), nil, operations, workflow.RuntimeOptions{DryRun: dryRun})
}
