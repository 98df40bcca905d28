package hgrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AJacquin/ManaHg/internal/execshell"
	"github.com/AJacquin/ManaHg/internal/repos/shared"
)

const (
	// BranchErrorValueConstant marks a checkout whose branch could not be read.
	BranchErrorValueConstant = "ERROR"
	// UnknownRevisionValueConstant marks a checkout whose revision could not be read.
	UnknownRevisionValueConstant = "?"

	branchSubcommandConstant       = "branch"
	branchesSubcommandConstant     = "branches"
	identifySubcommandConstant     = "id"
	identifyNumericFlagConstant    = "-n"
	logSubcommandConstant          = "log"
	logRevisionFlagConstant        = "-r"
	logWorkingParentRevisionValue  = "."
	logTemplateFlagConstant        = "--template"
	logPhaseTemplateConstant       = "{phase}"
	statusSubcommandConstant       = "status"
	statusQuietFlagConstant        = "-q"
	pullSubcommandConstant         = "pull"
	pullBranchFlagConstant         = "-b"
	updateSubcommandConstant       = "update"
	updateRevisionFlagConstant     = "-r"
	revertSubcommandConstant       = "revert"
	revertAllFlagConstant          = "--all"
	commitSubcommandConstant       = "commit"
	commitMessageFlagConstant      = "-m"
	lastPublicRevsetTemplate       = `last(public() and branch("%s"))`
	nothingChangedOutputConstant   = "nothing changed"
	commitFailureExitCodeConstant  = 1
	executorMissingMessageConstant = "mercurial executor not configured"
	launcherMissingMessageConstant = "process launcher not configured"
	pathRequiredMessageConstant    = "repository path must be provided"
	branchUnknownMessageConstant   = "current branch unknown"
	messageRequiredMessageConstant = "commit message must be provided"
	branchReadFailureTemplate      = "failed to read current branch: %w"
	branchListFailureTemplate      = "failed to list branches: %w"
	revisionReadFailureTemplate    = "failed to read working copy revision: %w"
	statusReadFailureTemplate      = "failed to read working copy status: %w"
	phaseReadFailureTemplate       = "failed to read changeset phase: %w"
	workbenchLaunchFailureTemplate = "failed to launch TortoiseHg workbench: %w"
)

// ErrMercurialExecutorNotConfigured indicates the executor dependency was missing.
var ErrMercurialExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// ErrProcessLauncherNotConfigured indicates the detached launcher dependency was missing.
var ErrProcessLauncherNotConfigured = errors.New(launcherMissingMessageConstant)

// ErrRepositoryPathRequired indicates an operation received an empty repository path.
var ErrRepositoryPathRequired = errors.New(pathRequiredMessageConstant)

// ErrBranchUnknown indicates a branch-scoped operation ran against an unreadable branch.
var ErrBranchUnknown = errors.New(branchUnknownMessageConstant)

// ErrCommitMessageRequired indicates a commit was requested without a message.
var ErrCommitMessageRequired = errors.New(messageRequiredMessageConstant)

// RepositoryManager performs Mercurial operations against checkout directories.
type RepositoryManager struct {
	executor shared.MercurialExecutor
}

// NewRepositoryManager constructs a RepositoryManager from the provided executor.
func NewRepositoryManager(executor shared.MercurialExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrMercurialExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// CurrentBranch reports the branch of the working copy parent.
func (manager *RepositoryManager) CurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	output, executionError := manager.executeMercurial(executionContext, repositoryPath, branchSubcommandConstant)
	if executionError != nil {
		return "", fmt.Errorf(branchReadFailureTemplate, executionError)
	}
	return output, nil
}

// Branches lists branch names known to the checkout, most recent head first.
func (manager *RepositoryManager) Branches(executionContext context.Context, repositoryPath string) ([]string, error) {
	output, executionError := manager.executeMercurial(executionContext, repositoryPath, branchesSubcommandConstant)
	if executionError != nil {
		return nil, fmt.Errorf(branchListFailureTemplate, executionError)
	}

	var branchNames []string
	for _, outputLine := range strings.Split(output, "\n") {
		fields := strings.Fields(outputLine)
		if len(fields) == 0 {
			continue
		}
		branchNames = append(branchNames, fields[0])
	}
	return branchNames, nil
}

// WorkingCopyRevision reports the numeric revision identifier of the working copy.
func (manager *RepositoryManager) WorkingCopyRevision(executionContext context.Context, repositoryPath string) (string, error) {
	output, executionError := manager.executeMercurial(executionContext, repositoryPath, identifySubcommandConstant, identifyNumericFlagConstant)
	if executionError != nil {
		return "", fmt.Errorf(revisionReadFailureTemplate, executionError)
	}
	return output, nil
}

// HasUncommittedChanges reports whether the working copy holds tracked modifications.
func (manager *RepositoryManager) HasUncommittedChanges(executionContext context.Context, repositoryPath string) (bool, error) {
	output, executionError := manager.executeMercurial(executionContext, repositoryPath, statusSubcommandConstant, statusQuietFlagConstant)
	if executionError != nil {
		return false, fmt.Errorf(statusReadFailureTemplate, executionError)
	}
	return len(output) > 0, nil
}

// CurrentPhase reports the phase of the working copy parent changeset.
func (manager *RepositoryManager) CurrentPhase(executionContext context.Context, repositoryPath string) (shared.ChangesetPhase, error) {
	output, executionError := manager.executeMercurial(
		executionContext,
		repositoryPath,
		logSubcommandConstant,
		logRevisionFlagConstant,
		logWorkingParentRevisionValue,
		logTemplateFlagConstant,
		logPhaseTemplateConstant,
	)
	if executionError != nil {
		return shared.ChangesetPhaseUnknown, fmt.Errorf(phaseReadFailureTemplate, executionError)
	}
	return shared.ParseChangesetPhase(output), nil
}

// Refresh re-reads the dashboard fields, substituting fallback markers for
// probes that fail instead of aborting the whole read.
func (manager *RepositoryManager) Refresh(executionContext context.Context, repositoryPath string) shared.RepositoryState {
	state := shared.RepositoryState{}

	branchName, branchError := manager.CurrentBranch(executionContext, repositoryPath)
	if branchError != nil {
		state.Branch = BranchErrorValueConstant
	} else {
		state.Branch = branchName
	}

	revision, revisionError := manager.WorkingCopyRevision(executionContext, repositoryPath)
	if revisionError != nil {
		state.Revision = UnknownRevisionValueConstant
		state.Modified = false
	} else {
		state.Revision = revision
		modified, statusError := manager.HasUncommittedChanges(executionContext, repositoryPath)
		if statusError == nil {
			state.Modified = modified
		}
	}

	phase, phaseError := manager.CurrentPhase(executionContext, repositoryPath)
	if phaseError != nil {
		state.Phase = shared.ChangesetPhaseUnknown
	} else {
		state.Phase = phase
	}

	return state
}

// Pull fetches changesets from the default remote, optionally restricted to one branch.
func (manager *RepositoryManager) Pull(executionContext context.Context, repositoryPath string, branchName string) error {
	trimmedBranchName := strings.TrimSpace(branchName)
	if len(trimmedBranchName) == 0 {
		_, executionError := manager.executeMercurial(executionContext, repositoryPath, pullSubcommandConstant)
		return executionError
	}
	if strings.HasPrefix(trimmedBranchName, BranchErrorValueConstant) {
		return ErrBranchUnknown
	}
	_, executionError := manager.executeMercurial(executionContext, repositoryPath, pullSubcommandConstant, pullBranchFlagConstant, trimmedBranchName)
	return executionError
}

// Update moves the working copy to the named target, or to the branch tip when empty.
func (manager *RepositoryManager) Update(executionContext context.Context, repositoryPath string, target string) error {
	trimmedTarget := strings.TrimSpace(target)
	if len(trimmedTarget) == 0 {
		_, executionError := manager.executeMercurial(executionContext, repositoryPath, updateSubcommandConstant)
		return executionError
	}
	_, executionError := manager.executeMercurial(executionContext, repositoryPath, updateSubcommandConstant, trimmedTarget)
	return executionError
}

// UpdateToLastPublic moves the working copy to the newest public changeset on the branch.
func (manager *RepositoryManager) UpdateToLastPublic(executionContext context.Context, repositoryPath string, branchName string) error {
	trimmedBranchName := strings.TrimSpace(branchName)
	if len(trimmedBranchName) == 0 || strings.HasPrefix(trimmedBranchName, BranchErrorValueConstant) {
		return ErrBranchUnknown
	}
	revisionSet := fmt.Sprintf(lastPublicRevsetTemplate, trimmedBranchName)
	_, executionError := manager.executeMercurial(executionContext, repositoryPath, updateSubcommandConstant, updateRevisionFlagConstant, revisionSet)
	return executionError
}

// RevertAll discards every uncommitted change in the working copy.
func (manager *RepositoryManager) RevertAll(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.executeMercurial(executionContext, repositoryPath, revertSubcommandConstant, revertAllFlagConstant)
	return executionError
}

// Commit records the working copy changes, reporting when there was nothing to record.
func (manager *RepositoryManager) Commit(executionContext context.Context, repositoryPath string, message string) (shared.CommitOutcome, error) {
	trimmedMessage := strings.TrimSpace(message)
	if len(trimmedMessage) == 0 {
		return shared.CommitOutcomeNothingChanged, ErrCommitMessageRequired
	}

	_, executionError := manager.executeMercurial(executionContext, repositoryPath, commitSubcommandConstant, commitMessageFlagConstant, trimmedMessage)
	if executionError == nil {
		return shared.CommitOutcomeCreated, nil
	}

	var failedError execshell.CommandFailedError
	if errors.As(executionError, &failedError) {
		if failedError.Result.ExitCode == commitFailureExitCodeConstant && containsNothingChanged(failedError.Result) {
			return shared.CommitOutcomeNothingChanged, nil
		}
	}
	return shared.CommitOutcomeNothingChanged, executionError
}

func containsNothingChanged(result execshell.ExecutionResult) bool {
	if strings.Contains(result.StandardOutput, nothingChangedOutputConstant) {
		return true
	}
	return strings.Contains(result.StandardError, nothingChangedOutputConstant)
}

func (manager *RepositoryManager) executeMercurial(executionContext context.Context, repositoryPath string, arguments ...string) (string, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return "", ErrRepositoryPathRequired
	}

	details := execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: trimmedRepositoryPath,
		EnvironmentVariables: map[string]string{
			shared.PlainOutputEnvironmentVariableConstant: shared.PlainOutputEnvironmentValueConstant,
		},
	}

	result, executionError := manager.executor.ExecuteMercurial(executionContext, details)
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(result.StandardOutput), nil
}

// WorkbenchLauncher opens the TortoiseHg workbench detached from the CLI process.
type WorkbenchLauncher struct {
	launcher shared.DetachedProcessLauncher
}

// NewWorkbenchLauncher constructs a WorkbenchLauncher from the provided process launcher.
func NewWorkbenchLauncher(launcher shared.DetachedProcessLauncher) (*WorkbenchLauncher, error) {
	if launcher == nil {
		return nil, ErrProcessLauncherNotConfigured
	}
	return &WorkbenchLauncher{launcher: launcher}, nil
}

// LaunchWorkbench starts the TortoiseHg workbench rooted at the checkout.
func (workbench *WorkbenchLauncher) LaunchWorkbench(repositoryPath string) error {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return ErrRepositoryPathRequired
	}

	command := execshell.ShellCommand{
		Name: execshell.CommandTortoiseHg,
		Details: execshell.CommandDetails{
			WorkingDirectory: trimmedRepositoryPath,
		},
	}
	if launchError := workbench.launcher.StartDetached(command); launchError != nil {
		return fmt.Errorf(workbenchLaunchFailureTemplate, launchError)
	}
	return nil
}
