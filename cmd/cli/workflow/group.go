package workflow

import (
	"github.com/spf13/cobra"

	"github.com/AJacquin/ManaHg/internal/repos/shared"
)

const (
	groupUseConstant      = "workflow"
	groupShortDescription = "Run declarative operation sequences"
	groupLongDescription  = "workflow groups subcommands that execute declarative operation sequences across the tracked checkouts."
)

// CommandGroupBuilder assembles the workflow command group.
type CommandGroupBuilder struct {
	LoggerProvider               LoggerProvider
	MercurialExecutor            shared.MercurialExecutor
	RepositoryManager            shared.RepositoryManager
	SettingsPathProvider         SettingsPathProvider
	PrompterFactory              PrompterFactory
	HumanReadableLoggingProvider func() bool
	CommandEventObserverProvider CommandEventObserverProvider
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the workflow command hierarchy.
func (builder *CommandGroupBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   groupUseConstant,
		Short: groupShortDescription,
		Long:  groupLongDescription,
	}

	runBuilder := RunCommandBuilder{
		LoggerProvider:               builder.LoggerProvider,
		MercurialExecutor:            builder.MercurialExecutor,
		RepositoryManager:            builder.RepositoryManager,
		SettingsPathProvider:         builder.SettingsPathProvider,
		PrompterFactory:              builder.PrompterFactory,
		HumanReadableLoggingProvider: builder.HumanReadableLoggingProvider,
		CommandEventObserverProvider: builder.CommandEventObserverProvider,
		ConfigurationProvider:        builder.ConfigurationProvider,
	}
	runCommand, runError := runBuilder.Build()
	if runError != nil {
		return nil, runError
	}
	command.AddCommand(runCommand)

	return command, nil
}
