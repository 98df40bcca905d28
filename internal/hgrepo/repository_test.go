package hgrepo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AJacquin/ManaHg/internal/execshell"
	"github.com/AJacquin/ManaHg/internal/repos/shared"
)

const testRepositoryPathConstant = "/srv/checkouts/api"

type scriptedResponse struct {
	result execshell.ExecutionResult
	err    error
}

type recordingMercurialExecutor struct {
	commands  []execshell.CommandDetails
	responses []scriptedResponse
}

func (executor *recordingMercurialExecutor) ExecuteMercurial(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.commands = append(executor.commands, details)
	if len(executor.responses) == 0 {
		return execshell.ExecutionResult{}, nil
	}
	response := executor.responses[0]
	executor.responses = executor.responses[1:]
	return response.result, response.err
}

func successResponse(standardOutput string) scriptedResponse {
	return scriptedResponse{result: execshell.ExecutionResult{StandardOutput: standardOutput}}
}

func failureResponse(message string) scriptedResponse {
	return scriptedResponse{err: errors.New(message)}
}

func TestNewRepositoryManagerRequiresExecutor(t *testing.T) {
	_, creationError := NewRepositoryManager(nil)
	require.ErrorIs(t, creationError, ErrMercurialExecutorNotConfigured)
}

func TestEveryInvocationEnablesPlainOutput(t *testing.T) {
	executor := &recordingMercurialExecutor{responses: []scriptedResponse{successResponse("default\n")}}
	manager, creationError := NewRepositoryManager(executor)
	require.NoError(t, creationError)

	_, branchError := manager.CurrentBranch(context.Background(), testRepositoryPathConstant)
	require.NoError(t, branchError)

	require.Len(t, executor.commands, 1)
	require.Equal(t, testRepositoryPathConstant, executor.commands[0].WorkingDirectory)
	require.Equal(
		t,
		shared.PlainOutputEnvironmentValueConstant,
		executor.commands[0].EnvironmentVariables[shared.PlainOutputEnvironmentVariableConstant],
	)
}

func TestCurrentBranchTrimsOutput(t *testing.T) {
	executor := &recordingMercurialExecutor{responses: []scriptedResponse{successResponse("  feature-x \n")}}
	manager, _ := NewRepositoryManager(executor)

	branchName, branchError := manager.CurrentBranch(context.Background(), testRepositoryPathConstant)
	require.NoError(t, branchError)
	require.Equal(t, "feature-x", branchName)
	require.Equal(t, []string{branchSubcommandConstant}, executor.commands[0].Arguments)
}

func TestBranchesParsesFirstColumn(t *testing.T) {
	branchesOutput := "default                      431:abc123ff\nstable                       412:9f8e7d6c (inactive)\n\nrelease-1.2                  399:00112233\n"
	executor := &recordingMercurialExecutor{responses: []scriptedResponse{successResponse(branchesOutput)}}
	manager, _ := NewRepositoryManager(executor)

	branchNames, branchesError := manager.Branches(context.Background(), testRepositoryPathConstant)
	require.NoError(t, branchesError)
	require.Equal(t, []string{"default", "stable", "release-1.2"}, branchNames)
}

func TestCurrentPhaseParsesTemplateOutput(t *testing.T) {
	testCases := []struct {
		name     string
		output   string
		expected shared.ChangesetPhase
	}{
		{name: "public_phase", output: "public", expected: shared.ChangesetPhasePublic},
		{name: "draft_phase", output: "draft\n", expected: shared.ChangesetPhaseDraft},
		{name: "empty_output_unknown", output: "", expected: shared.ChangesetPhaseUnknown},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			executor := &recordingMercurialExecutor{responses: []scriptedResponse{successResponse(testCase.output)}}
			manager, _ := NewRepositoryManager(executor)

			phase, phaseError := manager.CurrentPhase(context.Background(), testRepositoryPathConstant)
			require.NoError(t, phaseError)
			require.Equal(t, testCase.expected, phase)
			require.Equal(
				t,
				[]string{logSubcommandConstant, logRevisionFlagConstant, logWorkingParentRevisionValue, logTemplateFlagConstant, logPhaseTemplateConstant},
				executor.commands[0].Arguments,
			)
		})
	}
}

func TestHasUncommittedChanges(t *testing.T) {
	testCases := []struct {
		name     string
		output   string
		expected bool
	}{
		{name: "quiet_status_empty", output: "\n", expected: false},
		{name: "quiet_status_lists_files", output: "M src/main.go\nA docs/notes.md\n", expected: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			executor := &recordingMercurialExecutor{responses: []scriptedResponse{successResponse(testCase.output)}}
			manager, _ := NewRepositoryManager(executor)

			modified, statusError := manager.HasUncommittedChanges(context.Background(), testRepositoryPathConstant)
			require.NoError(t, statusError)
			require.Equal(t, testCase.expected, modified)
		})
	}
}

func TestRefreshSubstitutesFallbackMarkers(t *testing.T) {
	testCases := []struct {
		name      string
		responses []scriptedResponse
		expected  shared.RepositoryState
	}{
		{
			name: "all_probes_succeed",
			responses: []scriptedResponse{
				successResponse("default\n"),
				successResponse("431\n"),
				successResponse("M src/main.go\n"),
				successResponse("draft"),
			},
			expected: shared.RepositoryState{Branch: "default", Revision: "431", Modified: true, Phase: shared.ChangesetPhaseDraft},
		},
		{
			name: "branch_probe_fails",
			responses: []scriptedResponse{
				failureResponse("abort: no repository found"),
				successResponse("431\n"),
				successResponse(""),
				successResponse("public"),
			},
			expected: shared.RepositoryState{Branch: BranchErrorValueConstant, Revision: "431", Modified: false, Phase: shared.ChangesetPhasePublic},
		},
		{
			name: "revision_probe_fails_skips_status",
			responses: []scriptedResponse{
				successResponse("default"),
				failureResponse("abort: unknown revision"),
				successResponse("public"),
			},
			expected: shared.RepositoryState{Branch: "default", Revision: UnknownRevisionValueConstant, Modified: false, Phase: shared.ChangesetPhasePublic},
		},
		{
			name: "status_probe_failure_reports_unmodified",
			responses: []scriptedResponse{
				successResponse("default"),
				successResponse("431"),
				failureResponse("abort: status unavailable"),
				successResponse("secret"),
			},
			expected: shared.RepositoryState{Branch: "default", Revision: "431", Modified: false, Phase: shared.ChangesetPhaseSecret},
		},
		{
			name: "phase_probe_failure_reports_unknown",
			responses: []scriptedResponse{
				successResponse("default"),
				successResponse("431"),
				successResponse(""),
				failureResponse("abort: template unsupported"),
			},
			expected: shared.RepositoryState{Branch: "default", Revision: "431", Modified: false, Phase: shared.ChangesetPhaseUnknown},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			executor := &recordingMercurialExecutor{responses: testCase.responses}
			manager, _ := NewRepositoryManager(executor)

			state := manager.Refresh(context.Background(), testRepositoryPathConstant)
			require.Equal(t, testCase.expected, state)
		})
	}
}

func TestPullScopesToBranchWhenProvided(t *testing.T) {
	executor := &recordingMercurialExecutor{}
	manager, _ := NewRepositoryManager(executor)

	require.NoError(t, manager.Pull(context.Background(), testRepositoryPathConstant, ""))
	require.Equal(t, []string{pullSubcommandConstant}, executor.commands[0].Arguments)

	require.NoError(t, manager.Pull(context.Background(), testRepositoryPathConstant, "stable"))
	require.Equal(t, []string{pullSubcommandConstant, pullBranchFlagConstant, "stable"}, executor.commands[1].Arguments)
}

func TestPullRejectsUnknownBranch(t *testing.T) {
	executor := &recordingMercurialExecutor{}
	manager, _ := NewRepositoryManager(executor)

	pullError := manager.Pull(context.Background(), testRepositoryPathConstant, BranchErrorValueConstant)
	require.ErrorIs(t, pullError, ErrBranchUnknown)
	require.Empty(t, executor.commands)
}

func TestUpdateTargetsBranchOrTip(t *testing.T) {
	executor := &recordingMercurialExecutor{}
	manager, _ := NewRepositoryManager(executor)

	require.NoError(t, manager.Update(context.Background(), testRepositoryPathConstant, ""))
	require.Equal(t, []string{updateSubcommandConstant}, executor.commands[0].Arguments)

	require.NoError(t, manager.Update(context.Background(), testRepositoryPathConstant, "stable"))
	require.Equal(t, []string{updateSubcommandConstant, "stable"}, executor.commands[1].Arguments)
}

func TestUpdateToLastPublicBuildsRevset(t *testing.T) {
	executor := &recordingMercurialExecutor{}
	manager, _ := NewRepositoryManager(executor)

	require.NoError(t, manager.UpdateToLastPublic(context.Background(), testRepositoryPathConstant, "stable"))
	require.Equal(
		t,
		[]string{updateSubcommandConstant, updateRevisionFlagConstant, `last(public() and branch("stable"))`},
		executor.commands[0].Arguments,
	)

	require.ErrorIs(t, manager.UpdateToLastPublic(context.Background(), testRepositoryPathConstant, BranchErrorValueConstant), ErrBranchUnknown)
	require.ErrorIs(t, manager.UpdateToLastPublic(context.Background(), testRepositoryPathConstant, ""), ErrBranchUnknown)
}

func TestRevertAllDiscardsChanges(t *testing.T) {
	executor := &recordingMercurialExecutor{}
	manager, _ := NewRepositoryManager(executor)

	require.NoError(t, manager.RevertAll(context.Background(), testRepositoryPathConstant))
	require.Equal(t, []string{revertSubcommandConstant, revertAllFlagConstant}, executor.commands[0].Arguments)
}

func TestCommitOutcomes(t *testing.T) {
	nothingChangedFailure := execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandMercurial},
		Result:  execshell.ExecutionResult{StandardOutput: "nothing changed\n", ExitCode: 1},
	}
	abortFailure := execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandMercurial},
		Result:  execshell.ExecutionResult{StandardError: "abort: no username supplied", ExitCode: 255},
	}

	testCases := []struct {
		name            string
		message         string
		response        scriptedResponse
		expectedOutcome shared.CommitOutcome
		expectedErrText string
	}{
		{
			name:            "changeset_recorded",
			message:         "fix parser",
			response:        successResponse(""),
			expectedOutcome: shared.CommitOutcomeCreated,
		},
		{
			name:            "nothing_changed_is_not_an_error",
			message:         "fix parser",
			response:        scriptedResponse{err: nothingChangedFailure},
			expectedOutcome: shared.CommitOutcomeNothingChanged,
		},
		{
			name:            "abort_propagates",
			message:         "fix parser",
			response:        scriptedResponse{err: abortFailure},
			expectedErrText: "abort: no username supplied",
		},
		{
			name:            "empty_message_rejected",
			message:         "   ",
			expectedErrText: messageRequiredMessageConstant,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			executor := &recordingMercurialExecutor{responses: []scriptedResponse{testCase.response}}
			manager, _ := NewRepositoryManager(executor)

			outcome, commitError := manager.Commit(context.Background(), testRepositoryPathConstant, testCase.message)
			if len(testCase.expectedErrText) > 0 {
				require.ErrorContains(t, commitError, testCase.expectedErrText)
				return
			}
			require.NoError(t, commitError)
			require.Equal(t, testCase.expectedOutcome, outcome)
		})
	}
}

func TestWorkbenchLauncher(t *testing.T) {
	_, creationError := NewWorkbenchLauncher(nil)
	require.ErrorIs(t, creationError, ErrProcessLauncherNotConfigured)

	launcher := &recordingProcessLauncher{}
	workbench, workbenchError := NewWorkbenchLauncher(launcher)
	require.NoError(t, workbenchError)

	require.NoError(t, workbench.LaunchWorkbench(testRepositoryPathConstant))
	require.Len(t, launcher.commands, 1)
	require.Equal(t, execshell.CommandTortoiseHg, launcher.commands[0].Name)
	require.Equal(t, testRepositoryPathConstant, launcher.commands[0].Details.WorkingDirectory)

	require.ErrorIs(t, workbench.LaunchWorkbench("   "), ErrRepositoryPathRequired)
}

type recordingProcessLauncher struct {
	commands []execshell.ShellCommand
}

func (launcher *recordingProcessLauncher) StartDetached(command execshell.ShellCommand) error {
	launcher.commands = append(launcher.commands, command)
	return nil
}
