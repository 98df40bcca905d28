package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AJacquin/ManaHg/internal/fleet"
	"github.com/AJacquin/ManaHg/internal/repos/dependencies"
	"github.com/AJacquin/ManaHg/internal/repos/shared"
	"github.com/AJacquin/ManaHg/internal/utils"
	flagutils "github.com/AJacquin/ManaHg/internal/utils/flags"
	"github.com/AJacquin/ManaHg/internal/workflow"
)

const (
	runUseConstant                       = "run <file>"
	runShortDescriptionConstant          = "Execute a workflow definition across the tracked checkouts"
	runLongDescriptionConstant           = "run loads an ordered list of fleet operations from a YAML or JSON document and executes each step against the tracked inventory."
	runDryRunFlagUsageConstant           = "Preview workflow steps without touching any checkout"
	runPathRequiredMessageConstant       = "workflow run requires a configuration file path"
	loadConfigurationErrorTemplate       = "unable to load workflow configuration: %w"
	buildOperationsErrorTemplate         = "unable to build workflow operations: %w"
	fleetDispatcherErrorTemplateConstant = "unable to construct fleet dispatcher: %w"
	repositoryManagerErrorTemplate       = "unable to construct repository manager: %w"
)

// RunCommandBuilder assembles the workflow run command.
type RunCommandBuilder struct {
	LoggerProvider               LoggerProvider
	MercurialExecutor            shared.MercurialExecutor
	RepositoryManager            shared.RepositoryManager
	SettingsPathProvider         SettingsPathProvider
	PrompterFactory              PrompterFactory
	HumanReadableLoggingProvider func() bool
	CommandEventObserverProvider CommandEventObserverProvider
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the workflow run command.
func (builder *RunCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   runUseConstant,
		Short: runShortDescriptionConstant,
		Long:  runLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	flagutils.BindExecutionFlags(command, flagutils.ExecutionDefaults{}, flagutils.ExecutionFlagDefinitions{
		DryRun: flagutils.ExecutionFlagDefinition{
			Name:    flagutils.DryRunFlagName,
			Usage:   runDryRunFlagUsageConstant,
			Enabled: true,
		},
		AssumeYes: flagutils.ExecutionFlagDefinition{
			Name:      flagutils.AssumeYesFlagName,
			Shorthand: flagutils.AssumeYesFlagShorthand,
			Usage:     flagutils.AssumeYesFlagUsage,
			Enabled:   true,
		},
	})

	return command, nil
}

func (builder *RunCommandBuilder) run(command *cobra.Command, arguments []string) error {
	definitionPath := ""
	if len(arguments) > 0 {
		definitionPath = strings.TrimSpace(arguments[0])
	}
	if len(definitionPath) == 0 {
		if helpError := displayCommandHelp(command); helpError != nil {
			return helpError
		}
		return errors.New(runPathRequiredMessageConstant)
	}
	definitionPath = workflowHomeDirectoryExpander.Expand(definitionPath)

	definition, definitionError := workflow.LoadConfiguration(definitionPath)
	if definitionError != nil {
		return fmt.Errorf(loadConfigurationErrorTemplate, definitionError)
	}

	operations, operationsError := workflow.BuildOperations(definition)
	if operationsError != nil {
		return fmt.Errorf(buildOperationsErrorTemplate, operationsError)
	}

	configuration := builder.resolveConfiguration()

	dryRun := configuration.DryRun
	if command.Flags().Changed(flagutils.DryRunFlagName) {
		dryRun, _ = command.Flags().GetBool(flagutils.DryRunFlagName)
	}

	assumeYes := configuration.AssumeYes
	if command.Flags().Changed(flagutils.AssumeYesFlagName) {
		assumeYes, _ = command.Flags().GetBool(flagutils.AssumeYesFlagName)
	}

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
		return fmt.Errorf(repositoryManagerErrorTemplate, managerError)
	}

	dispatcher, dispatcherError := fleet.NewDispatcher(
		fleet.Dependencies{RepositoryManager: repositoryManager, Logger: logger},
		fleet.WithConcurrency(configuration.Concurrency),
	)
	if dispatcherError != nil {
		return fmt.Errorf(fleetDispatcherErrorTemplateConstant, dispatcherError)
	}

	store, storeError := resolveSettingsStore(builder.SettingsPathProvider)
	if storeError != nil {
		return storeError
	}

	executor := workflow.NewExecutor(operations, workflow.Dependencies{
		Logger:     logger,
		Store:      store,
		Dispatcher: dispatcher,
		Prompter:   resolvePrompter(builder.PrompterFactory, command),
		Output:     utils.NewFlushingWriter(command.OutOrStdout()),
		Errors:     utils.NewFlushingWriter(command.ErrOrStderr()),
	})

	return executor.Execute(command.Context(), workflow.RuntimeOptions{DryRun: dryRun, AssumeYes: assumeYes})
}

func (builder *RunCommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}
