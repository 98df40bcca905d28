package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	hgBranchSubcommandNameConstant   = "branch"
	hgBranchesSubcommandNameConstant = "branches"
	hgIdentifySubcommandNameConstant = "id"
	hgLogSubcommandNameConstant      = "log"
	hgStatusSubcommandNameConstant   = "status"
	hgPullSubcommandNameConstant     = "pull"
	hgUpdateSubcommandNameConstant   = "update"
	hgRevertSubcommandNameConstant   = "revert"
	hgCommitSubcommandNameConstant   = "commit"
	hgTemplateFlagConstant           = "--template"
	hgPhaseTemplateValueConstant     = "{phase}"
	hgBranchFlagConstant             = "-b"
	hgRevisionFlagConstant           = "-r"
	hgMessageFlagConstant            = "-m"
	hgRevertAllFlagConstant          = "--all"
)

const (
	hgCurrentBranchStartTemplateConstant            = "Identifying current branch in %s"
	hgCurrentBranchSuccessTemplateConstant          = "Current branch in %s is %s"
	hgCurrentBranchEmptySuccessTemplateConstant     = "Could not determine the current branch in %s"
	hgCurrentBranchFailureTemplateConstant          = "Failed to identify current branch in %s (exit code %d%s)"
	hgCurrentBranchExecutionFailureTemplateConstant = "Unable to identify current branch in %s: %s"

	hgBranchListStartTemplateConstant            = "Listing branches in %s"
	hgBranchListSuccessTemplateConstant          = "Listed branches in %s"
	hgBranchListFailureTemplateConstant          = "Failed to list branches in %s (exit code %d%s)"
	hgBranchListExecutionFailureTemplateConstant = "Unable to list branches in %s: %s"

	hgIdentifyStartTemplateConstant            = "Reading working copy revision in %s"
	hgIdentifySuccessTemplateConstant          = "Working copy revision in %s is %s"
	hgIdentifyEmptySuccessTemplateConstant     = "Working copy revision in %s is unavailable"
	hgIdentifyFailureTemplateConstant          = "Failed to read working copy revision in %s (exit code %d%s)"
	hgIdentifyExecutionFailureTemplateConstant = "Unable to read working copy revision in %s: %s"

	hgPhaseStartTemplateConstant            = "Reading changeset phase in %s"
	hgPhaseSuccessTemplateConstant          = "Changeset phase in %s is %s"
	hgPhaseEmptySuccessTemplateConstant     = "Changeset phase in %s is unavailable"
	hgPhaseFailureTemplateConstant          = "Failed to read changeset phase in %s (exit code %d%s)"
	hgPhaseExecutionFailureTemplateConstant = "Unable to read changeset phase in %s: %s"

	hgStatusStartTemplateConstant            = "Reviewing working copy status in %s"
	hgStatusSuccessTemplateConstant          = "Collected working copy status for %s"
	hgStatusFailureTemplateConstant          = "Failed to review working copy status in %s (exit code %d%s)"
	hgStatusExecutionFailureTemplateConstant = "Unable to review working copy status in %s: %s"

	hgPullStartTemplateConstant                   = "Pulling changes into %s"
	hgPullSuccessTemplateConstant                 = "Pulled changes into %s"
	hgPullFailureTemplateConstant                 = "Failed to pull changes into %s (exit code %d%s)"
	hgPullExecutionFailureTemplateConstant        = "Unable to pull changes into %s: %s"
	hgPullBranchStartTemplateConstant             = "Pulling branch %s into %s"
	hgPullBranchSuccessTemplateConstant           = "Pulled branch %s into %s"
	hgPullBranchFailureTemplateConstant           = "Failed to pull branch %s into %s (exit code %d%s)"
	hgPullBranchExecutionFailureTemplateConstant  = "Unable to pull branch %s into %s: %s"
	hgUpdateStartTemplateConstant                 = "Updating %s to the latest changeset"
	hgUpdateSuccessTemplateConstant               = "%s now at the latest changeset"
	hgUpdateFailureTemplateConstant               = "Failed to update %s (exit code %d%s)"
	hgUpdateExecutionFailureTemplateConstant      = "Unable to update %s: %s"
	hgUpdateToStartTemplateConstant               = "Updating %s to %s"
	hgUpdateToSuccessTemplateConstant             = "%s now at %s"
	hgUpdateToFailureTemplateConstant             = "Failed to update %s to %s (exit code %d%s)"
	hgUpdateToExecutionFailureTemplateConstant    = "Unable to update %s to %s: %s"
	hgRevertStartTemplateConstant                 = "Reverting working copy changes in %s"
	hgRevertSuccessTemplateConstant               = "Reverted working copy changes in %s"
	hgRevertFailureTemplateConstant               = "Failed to revert working copy changes in %s (exit code %d%s)"
	hgRevertExecutionFailureTemplateConstant      = "Unable to revert working copy changes in %s: %s"
	hgCommitStartTemplateConstant                 = "Creating commit in %s with message %q"
	hgCommitSuccessTemplateConstant               = "Created commit in %s with message %q"
	hgCommitFailureTemplateConstant               = "Failed to create commit in %s with message %q (exit code %d%s)"
	hgCommitExecutionFailureTemplateConstant      = "Unable to create commit in %s with message %q: %s"
	tortoiseHgLaunchStartTemplateConstant         = "Opening TortoiseHg for %s"
	tortoiseHgLaunchSuccessTemplateConstant       = "Opened TortoiseHg for %s"
	tortoiseHgLaunchFailureTemplateConstant       = "Failed to open TortoiseHg for %s (exit code %d%s)"
	tortoiseHgLaunchExecutionFailureTemplateConst = "Unable to open TortoiseHg for %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) shouldLogStartMessage(command ShellCommand) bool {
	if command.Name != CommandMercurial {
		return true
	}
	return !formatter.isReadOnlyProbeCommand(command.Details.Arguments)
}

// isReadOnlyProbeCommand recognizes the high-frequency field probes whose start
// notifications would drown operator-facing output during bulk refreshes.
func (formatter CommandMessageFormatter) isReadOnlyProbeCommand(arguments []string) bool {
	if len(arguments) == 0 {
		return false
	}
	switch strings.TrimSpace(arguments[0]) {
	case hgBranchSubcommandNameConstant, hgIdentifySubcommandNameConstant, hgStatusSubcommandNameConstant, hgLogSubcommandNameConstant:
		return true
	default:
		return false
	}
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandMercurial:
		return formatter.describeMercurialMessage(command, result, failure, stage)
	case CommandTortoiseHg:
		return formatter.describeTortoiseHgMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeMercurialMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	switch subcommand {
	case hgBranchSubcommandNameConstant:
		return formatter.describeCurrentBranchMessage(command, result, failure, stage)
	case hgBranchesSubcommandNameConstant:
		return formatter.describeBranchListMessage(command, result, failure, stage)
	case hgIdentifySubcommandNameConstant:
		return formatter.describeIdentifyMessage(command, result, failure, stage)
	case hgLogSubcommandNameConstant:
		return formatter.describeLogMessage(command, result, failure, stage)
	case hgStatusSubcommandNameConstant:
		return formatter.describeStatusMessage(command, result, failure, stage)
	case hgPullSubcommandNameConstant:
		return formatter.describePullMessage(command, result, failure, stage)
	case hgUpdateSubcommandNameConstant:
		return formatter.describeUpdateMessage(command, result, failure, stage)
	case hgRevertSubcommandNameConstant:
		return formatter.describeRevertMessage(command, result, failure, stage)
	case hgCommitSubcommandNameConstant:
		return formatter.describeCommitMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeCurrentBranchMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(hgCurrentBranchStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		trimmed := strings.TrimSpace(result.StandardOutput)
		if len(trimmed) == 0 {
			return fmt.Sprintf(hgCurrentBranchEmptySuccessTemplateConstant, workingDirectory)
		}
		return fmt.Sprintf(hgCurrentBranchSuccessTemplateConstant, workingDirectory, trimmed)
	case messageStageFailure:
		return fmt.Sprintf(hgCurrentBranchFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(hgCurrentBranchExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeBranchListMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(hgBranchListStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(hgBranchListSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(hgBranchListFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(hgBranchListExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeIdentifyMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(hgIdentifyStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		trimmed := strings.TrimSpace(result.StandardOutput)
		if len(trimmed) == 0 {
			return fmt.Sprintf(hgIdentifyEmptySuccessTemplateConstant, workingDirectory)
		}
		return fmt.Sprintf(hgIdentifySuccessTemplateConstant, workingDirectory, trimmed)
	case messageStageFailure:
		return fmt.Sprintf(hgIdentifyFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(hgIdentifyExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeLogMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if findFlagValue(command.Details.Arguments, hgTemplateFlagConstant) != hgPhaseTemplateValueConstant {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(hgPhaseStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		trimmed := strings.TrimSpace(result.StandardOutput)
		if len(trimmed) == 0 {
			return fmt.Sprintf(hgPhaseEmptySuccessTemplateConstant, workingDirectory)
		}
		return fmt.Sprintf(hgPhaseSuccessTemplateConstant, workingDirectory, trimmed)
	case messageStageFailure:
		return fmt.Sprintf(hgPhaseFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(hgPhaseExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeStatusMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(hgStatusStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(hgStatusSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(hgStatusFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(hgStatusExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describePullMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	branchName := strings.TrimSpace(findFlagValue(command.Details.Arguments, hgBranchFlagConstant))

	if len(branchName) > 0 {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(hgPullBranchStartTemplateConstant, branchName, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(hgPullBranchSuccessTemplateConstant, branchName, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(hgPullBranchFailureTemplateConstant, branchName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(hgPullBranchExecutionFailureTemplateConstant, branchName, workingDirectory, formatter.describeFailure(failure))
		}
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(hgPullStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(hgPullSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(hgPullFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(hgPullExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeUpdateMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	updateTarget := formatter.resolveUpdateTarget(command.Details.Arguments)

	if len(updateTarget) > 0 {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(hgUpdateToStartTemplateConstant, workingDirectory, updateTarget)
		case messageStageSuccess:
			return fmt.Sprintf(hgUpdateToSuccessTemplateConstant, workingDirectory, updateTarget)
		case messageStageFailure:
			return fmt.Sprintf(hgUpdateToFailureTemplateConstant, workingDirectory, updateTarget, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(hgUpdateToExecutionFailureTemplateConstant, workingDirectory, updateTarget, formatter.describeFailure(failure))
		}
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(hgUpdateStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(hgUpdateSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(hgUpdateFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(hgUpdateExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeRevertMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if !containsArgument(command.Details.Arguments, hgRevertAllFlagConstant) {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(hgRevertStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(hgRevertSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(hgRevertFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(hgRevertExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeCommitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	commitMessage := formatter.extractCommitMessage(command.Details.Arguments)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(hgCommitStartTemplateConstant, workingDirectory, commitMessage)
	case messageStageSuccess:
		return fmt.Sprintf(hgCommitSuccessTemplateConstant, workingDirectory, commitMessage)
	case messageStageFailure:
		return fmt.Sprintf(hgCommitFailureTemplateConstant, workingDirectory, commitMessage, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(hgCommitExecutionFailureTemplateConstant, workingDirectory, commitMessage, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeTortoiseHgMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(tortoiseHgLaunchStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(tortoiseHgLaunchSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(tortoiseHgLaunchFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(tortoiseHgLaunchExecutionFailureTemplateConst, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

// resolveUpdateTarget reports the revision or branch an update command names,
// preferring an explicit -r value over the positional target.
func (formatter CommandMessageFormatter) resolveUpdateTarget(arguments []string) string {
	revisionValue := strings.TrimSpace(findFlagValue(arguments, hgRevisionFlagConstant))
	if len(revisionValue) > 0 {
		return revisionValue
	}
	if len(arguments) < 2 {
		return emptyStringConstant
	}
	return formatter.extractFirstNonFlagArgument(arguments[1:])
}

func (formatter CommandMessageFormatter) extractFirstNonFlagArgument(arguments []string) string {
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 {
			continue
		}
		if strings.HasPrefix(trimmed, "-") {
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) extractCommitMessage(arguments []string) string {
	commitMessage := strings.TrimSpace(findFlagValue(arguments, hgMessageFlagConstant))
	if len(commitMessage) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return commitMessage
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func findFlagValue(arguments []string, flag string) string {
	for index := 0; index < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == flag && index+1 < len(arguments) {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return emptyStringConstant
}
