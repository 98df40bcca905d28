package checkouts_test

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/AJacquin/ManaHg/internal/inventory"
	"github.com/AJacquin/ManaHg/internal/repos/shared"
)

const (
	testInventoryFileNameConstant = "repositories.json"

	fleetAlphaRepositoryConstant = "/tmp/fleet-alpha"
	fleetBetaRepositoryConstant  = "/tmp/fleet-beta"

	fakeDefaultBranchConstant   = "default"
	fakeDefaultRevisionConstant = "7:0123abcd"

	recordedPullOperation       = "pull"
	recordedUpdateOperation     = "update"
	recordedLastPublicOperation = "update-last-public"
	recordedRevertOperation     = "revert"
	recordedCommitOperation     = "commit"
)

func writeTrackedInventory(testInstance *testing.T, repositoryPaths ...string) string {
	testInstance.Helper()

	inventoryPath := filepath.Join(testInstance.TempDir(), testInventoryFileNameConstant)
	store, storeError := inventory.NewStore(inventoryPath)
	require.NoError(testInstance, storeError)

	settings := inventory.DefaultSettings()
	settings.AddRepositoryPaths(repositoryPaths)
	require.NoError(testInstance, store.Save(settings))

	return inventoryPath
}

func loadInventorySettings(testInstance *testing.T, inventoryPath string) inventory.Settings {
	testInstance.Helper()

	store, storeError := inventory.NewStore(inventoryPath)
	require.NoError(testInstance, storeError)

	settings, loadError := store.Load()
	require.NoError(testInstance, loadError)
	return settings
}

func executeCommand(testInstance *testing.T, command *cobra.Command, arguments ...string) (string, string, error) {
	testInstance.Helper()

	command.SetContext(context.Background())
	stdoutBuffer := &bytes.Buffer{}
	stderrBuffer := &bytes.Buffer{}
	command.SetOut(stdoutBuffer)
	command.SetErr(stderrBuffer)
	command.SetArgs(arguments)

	executionError := command.Execute()
	return stdoutBuffer.String(), stderrBuffer.String(), executionError
}

type fakeRepositoryDiscoverer struct {
	repositories  []string
	receivedRoots []string
}

func (discoverer *fakeRepositoryDiscoverer) DiscoverRepositories(roots []string) ([]string, error) {
	discoverer.receivedRoots = append([]string{}, roots...)
	return append([]string{}, discoverer.repositories...), nil
}

type repositoryCall struct {
	operation      string
	repositoryPath string
	argument       string
}

// fakeRepositoryManager satisfies shared.RepositoryManager with canned state.
// Calls are recorded under a mutex because the dispatcher probes concurrently.
type fakeRepositoryManager struct {
	mutex          sync.Mutex
	states         map[string]shared.RepositoryState
	branchLists    map[string][]string
	operationErrs  map[string]error
	commitOutcomes map[string]shared.CommitOutcome
	calls          []repositoryCall
}

func (manager *fakeRepositoryManager) record(operation string, repositoryPath string, argument string) {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()
	manager.calls = append(manager.calls, repositoryCall{operation: operation, repositoryPath: repositoryPath, argument: argument})
}

func (manager *fakeRepositoryManager) recordedCalls(operation string) []repositoryCall {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()

	selected := make([]repositoryCall, 0, len(manager.calls))
	for _, call := range manager.calls {
		if call.operation == operation {
			selected = append(selected, call)
		}
	}
	return selected
}

func (manager *fakeRepositoryManager) failureFor(repositoryPath string) error {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()
	return manager.operationErrs[repositoryPath]
}

func (manager *fakeRepositoryManager) stateFor(repositoryPath string) shared.RepositoryState {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()

	if state, exists := manager.states[repositoryPath]; exists {
		return state
	}
	return shared.RepositoryState{
		Branch:   fakeDefaultBranchConstant,
		Revision: fakeDefaultRevisionConstant,
		Modified: false,
		Phase:    shared.ChangesetPhasePublic,
	}
}

func (manager *fakeRepositoryManager) CurrentBranch(_ context.Context, repositoryPath string) (string, error) {
	return manager.stateFor(repositoryPath).Branch, nil
}

func (manager *fakeRepositoryManager) WorkingCopyRevision(_ context.Context, repositoryPath string) (string, error) {
	return manager.stateFor(repositoryPath).Revision, nil
}

func (manager *fakeRepositoryManager) HasUncommittedChanges(_ context.Context, repositoryPath string) (bool, error) {
	return manager.stateFor(repositoryPath).Modified, nil
}

func (manager *fakeRepositoryManager) CurrentPhase(_ context.Context, repositoryPath string) (shared.ChangesetPhase, error) {
	return manager.stateFor(repositoryPath).Phase, nil
}

func (manager *fakeRepositoryManager) Branches(_ context.Context, repositoryPath string) ([]string, error) {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()

	if branchNames, exists := manager.branchLists[repositoryPath]; exists {
		return append([]string{}, branchNames...), nil
	}
	return []string{fakeDefaultBranchConstant}, nil
}

func (manager *fakeRepositoryManager) Refresh(_ context.Context, repositoryPath string) shared.RepositoryState {
	return manager.stateFor(repositoryPath)
}

func (manager *fakeRepositoryManager) Pull(_ context.Context, repositoryPath string, branchName string) error {
	manager.record(recordedPullOperation, repositoryPath, branchName)
	return manager.failureFor(repositoryPath)
}

func (manager *fakeRepositoryManager) Update(_ context.Context, repositoryPath string, target string) error {
	manager.record(recordedUpdateOperation, repositoryPath, target)
	return manager.failureFor(repositoryPath)
}

func (manager *fakeRepositoryManager) UpdateToLastPublic(_ context.Context, repositoryPath string, branchName string) error {
	manager.record(recordedLastPublicOperation, repositoryPath, branchName)
	return manager.failureFor(repositoryPath)
}

func (manager *fakeRepositoryManager) RevertAll(_ context.Context, repositoryPath string) error {
	manager.record(recordedRevertOperation, repositoryPath, "")
	return manager.failureFor(repositoryPath)
}

func (manager *fakeRepositoryManager) Commit(_ context.Context, repositoryPath string, message string) (shared.CommitOutcome, error) {
	manager.record(recordedCommitOperation, repositoryPath, message)
	if failure := manager.failureFor(repositoryPath); failure != nil {
		return "", failure
	}

	manager.mutex.Lock()
	defer manager.mutex.Unlock()
	if outcome, exists := manager.commitOutcomes[repositoryPath]; exists {
		return outcome, nil
	}
	return shared.CommitOutcomeCreated, nil
}

type recordingPrompter struct {
	mutex  sync.Mutex
	result shared.ConfirmationResult
	calls  int
}

func (prompter *recordingPrompter) Confirm(string) (shared.ConfirmationResult, error) {
	prompter.mutex.Lock()
	defer prompter.mutex.Unlock()
	prompter.calls++
	return prompter.result, nil
}

func (prompter *recordingPrompter) callCount() int {
	prompter.mutex.Lock()
	defer prompter.mutex.Unlock()
	return prompter.calls
}

type fakeWorkbenchLauncher struct {
	launchedPaths []string
	err           error
}

func (launcher *fakeWorkbenchLauncher) LaunchWorkbench(repositoryPath string) error {
	launcher.launchedPaths = append(launcher.launchedPaths, repositoryPath)
	return launcher.err
}
