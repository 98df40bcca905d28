package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	commandNameMercurialConstant  = "hg"
	commandNameTortoiseHgConstant = "thg"

	commandStartedLogMessageConstant      = "executing command"
	commandCompletedLogMessageConstant    = "command completed"
	commandStartFailureLogMessageConstant = "command execution failed"
	detachedLaunchLogMessageConstant      = "launched detached command"

	logFieldCommandConstant          = "command"
	logFieldArgumentsConstant        = "arguments"
	logFieldWorkingDirectoryConstant = "working_directory"
	logFieldExitCodeConstant         = "exit_code"
	logFieldStandardErrorConstant    = "stderr"

	commandFailedErrorTemplateConstant    = "%s exited with code %d%s"
	commandFailedStderrTemplateConstant   = ": %s"
	commandExecutionErrorTemplateConstant = "unable to execute %s: %v"
	commandLabelJoinSeparatorConstant     = " "
)

// Sentinel errors reported during executor construction and detached launches.
var (
	// ErrLoggerNotConfigured indicates the executor was built without a logger.
	ErrLoggerNotConfigured = errors.New("logger not configured")
	// ErrCommandRunnerNotConfigured indicates the executor was built without a command runner.
	ErrCommandRunnerNotConfigured = errors.New("command runner not configured")
	// ErrProcessStarterNotConfigured indicates the configured runner cannot launch detached processes.
	ErrProcessStarterNotConfigured = errors.New("process starter not configured")
)

// CommandName identifies a supported executable.
type CommandName string

// Supported executables.
const (
	CommandMercurial  CommandName = CommandName(commandNameMercurialConstant)
	CommandTortoiseHg CommandName = CommandName(commandNameTortoiseHgConstant)
)

// CommandDetails describes a single invocation of an external executable.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand couples an executable name with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outputs of a completed command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner executes shell commands and reports their results.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// ProcessStarter launches commands without waiting for them to finish.
type ProcessStarter interface {
	Start(command ShellCommand) error
}

// CommandFailedError reports a command that completed with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command including its exit code and trimmed standard error.
func (failure CommandFailedError) Error() string {
	return fmt.Sprintf(
		commandFailedErrorTemplateConstant,
		formatCommandReference(failure.Command),
		failure.Result.ExitCode,
		formatTrailingStandardError(failure.Result.StandardError),
	)
}

// CommandExecutionError reports a command that could not be executed at all.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, formatCommandReference(failure.Command), failure.Cause)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// ShellExecutor runs external commands with structured logging and optional human-readable event reporting.
type ShellExecutor struct {
	logger               *zap.Logger
	commandRunner        CommandRunner
	humanReadableLogging bool
	messageFormatter     CommandMessageFormatter
	eventObserver        CommandEventObserver
}

// NewShellExecutor validates dependencies and assembles a ShellExecutor.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner, humanReadableLogging ...bool) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	humanReadable := false
	if len(humanReadableLogging) > 0 {
		humanReadable = humanReadableLogging[0]
	}

	return &ShellExecutor{
		logger:               logger,
		commandRunner:        commandRunner,
		humanReadableLogging: humanReadable,
		messageFormatter:     CommandMessageFormatter{},
		eventObserver:        noopCommandEventObserver{},
	}, nil
}

// SetCommandEventObserver replaces the observer notified about command lifecycle events.
func (executor *ShellExecutor) SetCommandEventObserver(observer CommandEventObserver) {
	if executor == nil {
		return
	}
	if observer == nil {
		executor.eventObserver = noopCommandEventObserver{}
		return
	}
	executor.eventObserver = observer
}

// ExecuteMercurial runs hg with the provided details.
func (executor *ShellExecutor) ExecuteMercurial(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandMercurial, Details: details})
}

// ExecuteTortoiseHg runs thg with the provided details and waits for completion.
func (executor *ShellExecutor) ExecuteTortoiseHg(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandTortoiseHg, Details: details})
}

// Execute runs the supplied command through the configured runner.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.logCommandStart(command)

	executionResult, runError := executor.commandRunner.Run(executionContext, command)
	if runError != nil {
		executor.logExecutionFailure(command, runError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.logCommandCompletion(command, executionResult)

	if executionResult.ExitCode != 0 {
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	return executionResult, nil
}

// StartDetached launches the supplied command without waiting for it to exit.
func (executor *ShellExecutor) StartDetached(command ShellCommand) error {
	processStarter, starterSupported := executor.commandRunner.(ProcessStarter)
	if !starterSupported {
		return ErrProcessStarterNotConfigured
	}

	executor.logCommandStart(command)

	startError := processStarter.Start(command)
	if startError != nil {
		executor.logExecutionFailure(command, startError)
		return CommandExecutionError{Command: command, Cause: startError}
	}

	executor.logger.Debug(
		detachedLaunchLogMessageConstant,
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	)
	return nil
}

func (executor *ShellExecutor) logCommandStart(command ShellCommand) {
	executor.eventObserver.CommandStarted(command)

	if executor.humanReadableLogging {
		if executor.messageFormatter.shouldLogStartMessage(command) {
			executor.logger.Info(executor.messageFormatter.BuildStartedMessage(command))
		}
		return
	}

	executor.logger.Info(
		commandStartedLogMessageConstant,
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	)
}

func (executor *ShellExecutor) logCommandCompletion(command ShellCommand, result ExecutionResult) {
	executor.eventObserver.CommandCompleted(command, result)

	if executor.humanReadableLogging {
		if result.ExitCode == 0 {
			executor.logger.Info(executor.messageFormatter.BuildSuccessMessage(command))
			return
		}
		executor.logger.Warn(executor.messageFormatter.BuildFailureMessage(command, result))
		return
	}

	executor.logger.Info(
		commandCompletedLogMessageConstant,
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
		zap.Int(logFieldExitCodeConstant, result.ExitCode),
		zap.String(logFieldStandardErrorConstant, strings.TrimSpace(result.StandardError)),
	)
}

func (executor *ShellExecutor) logExecutionFailure(command ShellCommand, failure error) {
	executor.eventObserver.CommandExecutionFailed(command, failure)

	if executor.humanReadableLogging {
		executor.logger.Error(executor.messageFormatter.BuildExecutionFailureMessage(command, failure))
		return
	}

	executor.logger.Error(
		commandStartFailureLogMessageConstant,
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
		zap.Error(failure),
	)
}

func formatCommandReference(command ShellCommand) string {
	commandParts := append([]string{string(command.Name)}, command.Details.Arguments...)
	return strings.Join(commandParts, commandLabelJoinSeparatorConstant)
}

func formatTrailingStandardError(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return ""
	}
	return fmt.Sprintf(commandFailedStderrTemplateConstant, trimmedStandardError)
}
