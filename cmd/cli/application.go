package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/AJacquin/ManaHg/cmd/cli/checkouts"
	workflowcmd "github.com/AJacquin/ManaHg/cmd/cli/workflow"
	"github.com/AJacquin/ManaHg/internal/execshell"
	"github.com/AJacquin/ManaHg/internal/inventory"
	"github.com/AJacquin/ManaHg/internal/ui"
	"github.com/AJacquin/ManaHg/internal/utils"
	flagutils "github.com/AJacquin/ManaHg/internal/utils/flags"
)

const (
	applicationNameConstant                            = "manahg"
	applicationShortDescriptionConstant                = "Command-line interface for managing fleets of Mercurial checkouts"
	applicationLongDescriptionConstant                 = "manahg tracks Mercurial checkouts in a persisted inventory and dispatches bulk hg operations across them."
	configFileFlagNameConstant                         = "config"
	configFileFlagUsageConstant                        = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                           = "log-level"
	logLevelFlagUsageConstant                          = "Override the configured log level."
	logFormatFlagNameConstant                          = "log-format"
	logFormatFlagUsageConstant                         = "Override the configured log format (structured or console)."
	humanReadableLogsFlagNameConstant                  = "human-readable-logs"
	humanReadableLogsFlagUsageConstant                 = "Report hg command events as plain operator-facing lines."
	commonConfigurationKeyConstant                     = "common"
	commonLogLevelConfigKeyConstant                    = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant                   = commonConfigurationKeyConstant + ".log_format"
	commonSettingsPathConfigKeyConstant                = commonConfigurationKeyConstant + ".settings_path"
	environmentPrefixConstant                          = "MANAHG"
	configurationSearchPathEnvironmentVariableConstant = "MANAHG_CONFIG_SEARCH_PATH"
	configurationNameConstant                          = "config"
	configurationTypeConstant                          = "yaml"
	configurationInitializedMessageConstant            = "configuration initialized"
	configurationLogLevelFieldConstant                 = "log_level"
	configurationLogFormatFieldConstant                = "log_format"
	configurationFileFieldConstant                     = "config_file"
	configurationLoadErrorTemplateConstant             = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant                = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant                    = "unable to flush logger: %w"
	rootCommandInfoMessageConstant                     = "manahg CLI executed"
	rootCommandDebugMessageConstant                    = "manahg CLI diagnostics"
	logFieldCommandNameConstant                        = "command_name"
	logFieldArgumentCountConstant                      = "argument_count"
	logFieldArgumentsConstant                          = "arguments"
	loggerNotInitializedMessageConstant                = "logger not initialized"
	defaultConfigurationSearchPathConstant             = "."
	homeConfigurationDirectoryConstant                 = ".config/manahg"
	defaultSettingsPathConstant                        = "~/" + homeConfigurationDirectoryConstant + "/" + inventory.DefaultInventoryFileNameConstant
	toolsConfigurationKeyConstant                      = "tools"
	workflowConfigurationKeyConstant                   = toolsConfigurationKeyConstant + ".workflow"
	versionFlagArgumentConstant                        = "--version"
	argumentTerminatorConstant                         = "--"
	versionOutputTemplateConstant                      = applicationNameConstant + " version: %s\n"
	developmentBuildVersionConstant                    = "(devel)"
	fallbackVersionConstant                            = "development"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores settings shared across subcommands.
type ApplicationCommonConfiguration struct {
	LogLevel     string `mapstructure:"log_level"`
	LogFormat    string `mapstructure:"log_format"`
	SettingsPath string `mapstructure:"settings_path"`
}

// ApplicationToolsConfiguration holds configuration for CLI subcommands grouped by tool family.
type ApplicationToolsConfiguration struct {
	Scan     checkouts.ScanConfiguration      `mapstructure:"scan"`
	Fleet    checkouts.FleetConfiguration     `mapstructure:"fleet"`
	Watch    checkouts.WatchConfiguration     `mapstructure:"watch"`
	Workflow workflowcmd.CommandConfiguration `mapstructure:"workflow"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand                *cobra.Command
	configurationLoader        *utils.ConfigurationLoader
	loggerFactory              *utils.LoggerFactory
	logger                     *zap.Logger
	consoleLogger              *zap.Logger
	configuration              ApplicationConfiguration
	configurationMetadata      utils.LoadedConfiguration
	configurationFilePath      string
	logLevelFlagValue          string
	logFormatFlagValue         string
	humanReadableLogsFlagValue bool
	commandContextAccessor     utils.CommandContextAccessor
	versionResolver            func(context.Context) string
	exitFunction               func(int)
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		configurationSearchPaths(),
	)

	embeddedConfiguration, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	configurationLoader.SetEmbeddedConfiguration(embeddedConfiguration, embeddedConfigurationType)

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		consoleLogger:          zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		versionResolver:        buildInformationVersion,
		exitFunction:           os.Exit,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	cobraCommand.PersistentFlags().BoolVar(&application.humanReadableLogsFlagValue, humanReadableLogsFlagNameConstant, false, humanReadableLogsFlagUsageConstant)

	loggerProvider := func() *zap.Logger {
		return application.logger
	}
	settingsPathProvider := func() string {
		return application.configuration.Common.SettingsPath
	}
	commandEventObserverProvider := func() execshell.CommandEventObserver {
		return application.commandEventObserver()
	}
	scanConfigurationProvider := func() checkouts.ScanConfiguration {
		return application.configuration.Tools.Scan
	}
	fleetConfigurationProvider := func() checkouts.FleetConfiguration {
		return application.configuration.Tools.Fleet
	}
	watchConfigurationProvider := func() checkouts.WatchConfiguration {
		return application.configuration.Tools.Watch
	}
	workflowConfigurationProvider := func() workflowcmd.CommandConfiguration {
		return application.configuration.Tools.Workflow
	}

	scanBuilder := checkouts.ScanCommandBuilder{
		SettingsPathProvider:  settingsPathProvider,
		ConfigurationProvider: scanConfigurationProvider,
	}
	scanCommand, scanBuildError := scanBuilder.Build()
	if scanBuildError == nil {
		cobraCommand.AddCommand(scanCommand)
	}

	listBuilder := checkouts.ListCommandBuilder{
		LoggerProvider:               loggerProvider,
		SettingsPathProvider:         settingsPathProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		CommandEventObserverProvider: commandEventObserverProvider,
		ConfigurationProvider:        fleetConfigurationProvider,
	}
	listCommand, listBuildError := listBuilder.Build()
	if listBuildError == nil {
		cobraCommand.AddCommand(listCommand)
	}

	refreshBuilder := checkouts.RefreshCommandBuilder{
		LoggerProvider:               loggerProvider,
		SettingsPathProvider:         settingsPathProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		CommandEventObserverProvider: commandEventObserverProvider,
		ConfigurationProvider:        fleetConfigurationProvider,
	}
	refreshCommand, refreshBuildError := refreshBuilder.Build()
	if refreshBuildError == nil {
		cobraCommand.AddCommand(refreshCommand)
	}

	pullBuilder := checkouts.PullCommandBuilder{
		LoggerProvider:               loggerProvider,
		SettingsPathProvider:         settingsPathProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		CommandEventObserverProvider: commandEventObserverProvider,
		ConfigurationProvider:        fleetConfigurationProvider,
	}
	pullCommand, pullBuildError := pullBuilder.Build()
	if pullBuildError == nil {
		cobraCommand.AddCommand(pullCommand)
	}

	updateBuilder := checkouts.UpdateCommandBuilder{
		LoggerProvider:               loggerProvider,
		SettingsPathProvider:         settingsPathProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		CommandEventObserverProvider: commandEventObserverProvider,
		ConfigurationProvider:        fleetConfigurationProvider,
	}
	updateCommand, updateBuildError := updateBuilder.Build()
	if updateBuildError == nil {
		cobraCommand.AddCommand(updateCommand)
	}

	switchBuilder := checkouts.SwitchCommandBuilder{
		LoggerProvider:               loggerProvider,
		SettingsPathProvider:         settingsPathProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		CommandEventObserverProvider: commandEventObserverProvider,
		ConfigurationProvider:        fleetConfigurationProvider,
	}
	switchCommand, switchBuildError := switchBuilder.Build()
	if switchBuildError == nil {
		cobraCommand.AddCommand(switchCommand)
	}

	commitBuilder := checkouts.CommitCommandBuilder{
		LoggerProvider:               loggerProvider,
		SettingsPathProvider:         settingsPathProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		CommandEventObserverProvider: commandEventObserverProvider,
		ConfigurationProvider:        fleetConfigurationProvider,
	}
	commitCommand, commitBuildError := commitBuilder.Build()
	if commitBuildError == nil {
		cobraCommand.AddCommand(commitCommand)
	}

	revertBuilder := checkouts.RevertCommandBuilder{
		LoggerProvider:               loggerProvider,
		SettingsPathProvider:         settingsPathProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		CommandEventObserverProvider: commandEventObserverProvider,
		ConfigurationProvider:        fleetConfigurationProvider,
	}
	revertCommand, revertBuildError := revertBuilder.Build()
	if revertBuildError == nil {
		cobraCommand.AddCommand(revertCommand)
	}

	branchesBuilder := checkouts.BranchesCommandBuilder{
		LoggerProvider:               loggerProvider,
		SettingsPathProvider:         settingsPathProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		CommandEventObserverProvider: commandEventObserverProvider,
	}
	branchesCommand, branchesBuildError := branchesBuilder.Build()
	if branchesBuildError == nil {
		cobraCommand.AddCommand(branchesCommand)
	}

	removeBuilder := checkouts.RemoveCommandBuilder{
		SettingsPathProvider:  settingsPathProvider,
		ConfigurationProvider: fleetConfigurationProvider,
	}
	removeCommand, removeBuildError := removeBuilder.Build()
	if removeBuildError == nil {
		cobraCommand.AddCommand(removeCommand)
	}

	thgBuilder := checkouts.ThgCommandBuilder{
		LoggerProvider:               loggerProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
	}
	thgCommand, thgBuildError := thgBuilder.Build()
	if thgBuildError == nil {
		cobraCommand.AddCommand(thgCommand)
	}

	watchBuilder := checkouts.WatchCommandBuilder{
		LoggerProvider:               loggerProvider,
		SettingsPathProvider:         settingsPathProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		CommandEventObserverProvider: commandEventObserverProvider,
		ConfigurationProvider:        watchConfigurationProvider,
	}
	watchCommand, watchBuildError := watchBuilder.Build()
	if watchBuildError == nil {
		cobraCommand.AddCommand(watchCommand)
	}

	configBuilder := checkouts.ConfigCommandBuilder{
		SettingsPathProvider: settingsPathProvider,
	}
	configCommand, configBuildError := configBuilder.Build()
	if configBuildError == nil {
		cobraCommand.AddCommand(configCommand)
	}

	workflowBuilder := workflowcmd.CommandGroupBuilder{
		LoggerProvider:               loggerProvider,
		SettingsPathProvider:         settingsPathProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		CommandEventObserverProvider: commandEventObserverProvider,
		ConfigurationProvider:        workflowConfigurationProvider,
	}
	workflowCommand, workflowBuildError := workflowBuilder.Build()
	if workflowBuildError == nil {
		cobraCommand.AddCommand(workflowCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	normalizedArguments := flagutils.NormalizeToggleArguments(os.Args[1:])

	if argumentsRequestVersion(normalizedArguments) {
		fmt.Fprintf(os.Stdout, versionOutputTemplateConstant, application.resolveVersion(application.rootCommand.Context()))
		application.exitFunction(0)
		return nil
	}

	application.rootCommand.SetArgs(normalizedArguments)

	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func configurationSearchPaths() []string {
	overridePath := strings.TrimSpace(os.Getenv(configurationSearchPathEnvironmentVariableConstant))
	if len(overridePath) > 0 {
		return []string{overridePath}
	}

	searchPaths := []string{defaultConfigurationSearchPathConstant}
	if homeDirectory, homeDirectoryError := os.UserHomeDir(); homeDirectoryError == nil {
		searchPaths = append(searchPaths, filepath.Join(homeDirectory, homeConfigurationDirectoryConstant))
	}
	return searchPaths
}

func argumentsRequestVersion(arguments []string) bool {
	for _, argumentValue := range arguments {
		if argumentValue == argumentTerminatorConstant {
			return false
		}
		if argumentValue == versionFlagArgumentConstant {
			return true
		}
	}
	return false
}

func buildInformationVersion(context.Context) string {
	buildInformation, buildInformationAvailable := debug.ReadBuildInfo()
	if !buildInformationAvailable {
		return fallbackVersionConstant
	}

	versionValue := strings.TrimSpace(buildInformation.Main.Version)
	if len(versionValue) == 0 || versionValue == developmentBuildVersionConstant {
		return fallbackVersionConstant
	}
	return versionValue
}

func (application *Application) resolveVersion(executionContext context.Context) string {
	if application.versionResolver == nil {
		return buildInformationVersion(executionContext)
	}
	return application.versionResolver(executionContext)
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:     string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant:    string(utils.LogFormatStructured),
		commonSettingsPathConfigKeyConstant: defaultSettingsPathConstant,
	}
	for configurationKey, configurationValue := range checkouts.DefaultConfigurationValues(toolsConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	for configurationKey, configurationValue := range workflowcmd.DefaultConfigurationValues(workflowConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	loggerOutputs, loggerCreationError := application.loggerFactory.CreateLoggerOutputs(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = loggerOutputs.DiagnosticLogger
	application.consoleLogger = loggerOutputs.ConsoleLogger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	if application.humanReadableLogsFlagValue {
		return true
	}
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) commandEventObserver() execshell.CommandEventObserver {
	if !application.humanReadableLoggingEnabled() {
		return nil
	}
	return ui.NewConsoleCommandEventLogger(application.consoleLogger)
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	application.logger.Info(
		rootCommandInfoMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Int(logFieldArgumentCountConstant, len(arguments)),
	)

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	if len(arguments) == 0 {
		return command.Help()
	}

	return nil
}

func (application *Application) flushLogger() error {
	if syncError := application.syncLoggerInstance(application.logger); syncError != nil {
		return syncError
	}
	return nil
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
