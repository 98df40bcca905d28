package checkouts

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AJacquin/ManaHg/internal/repos/shared"
	"github.com/AJacquin/ManaHg/internal/workflow"
)

const (
	commitUseConstant            = "commit"
	commitShortDescription       = "Commit working copy changes across the fleet"
	commitLongDescription        = "commit runs hg commit with the given message across checkouts that carry uncommitted changes; --all commits every tracked checkout regardless of its modified state."
	commitMessageFlagName        = "message"
	commitMessageFlagShorthand   = "m"
	commitMessageFlagUsage       = "Commit message applied to every checkout"
	commitAllFlagName            = "all"
	commitAllFlagUsage           = "Commit every tracked checkout, not only the modified ones"
	commitDryRunFlagName         = "dry-run"
	commitDryRunFlagUsage        = "Preview the commit without writing any changeset"
	commitMessageRequiredMessage = "commit requires a message; pass --message"
)

// CommitCommandBuilder assembles the commit command.
type CommitCommandBuilder struct {
	LoggerProvider               LoggerProvider
	MercurialExecutor            shared.MercurialExecutor
	RepositoryManager            shared.RepositoryManager
	SettingsPathProvider         SettingsPathProvider
	HumanReadableLoggingProvider func() bool
	CommandEventObserverProvider CommandEventObserverProvider
	ConfigurationProvider        func() FleetConfiguration
}

// Build constructs the commit command.
func (builder *CommitCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commitUseConstant,
		Short: commitShortDescription,
		Long:  commitLongDescription,
		RunE:  builder.run,
	}

	command.Flags().StringP(commitMessageFlagName, commitMessageFlagShorthand, "", commitMessageFlagUsage)
	command.Flags().Bool(commitAllFlagName, false, commitAllFlagUsage)
	command.Flags().Bool(commitDryRunFlagName, false, commitDryRunFlagUsage)

	return command, nil
}

func (builder *CommitCommandBuilder) run(command *cobra.Command, arguments []string) error {
	message, _ := command.Flags().GetString(commitMessageFlagName)
	message = strings.TrimSpace(message)
	if len(message) == 0 {
		if helpError := displayCommandHelp(command); helpError != nil {
			return helpError
		}
		return errors.New(commitMessageRequiredMessage)
	}

	includeUnmodified, _ := command.Flags().GetBool(commitAllFlagName)
	dryRun, _ := command.Flags().GetBool(commitDryRunFlagName)

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

	operations := []workflow.Operation{&workflow.CommitOperation{Message: message, IncludeUnmodified: includeUnmodified}}

	return session.runAcrossInventory(command.Context(), nil, operations, workflow.RuntimeOptions{DryRun: dryRun})
}
