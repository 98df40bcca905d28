package overview_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AJacquin/ManaHg/internal/fleet"
	"github.com/AJacquin/ManaHg/internal/inventory"
	"github.com/AJacquin/ManaHg/internal/overview"
	"github.com/AJacquin/ManaHg/internal/repos/shared"
)

type stubSettingsStore struct {
	settings  inventory.Settings
	loadError error
}

func (store stubSettingsStore) Load() (inventory.Settings, error) {
	return store.settings, store.loadError
}

type stubDispatcher struct {
	refreshedStates map[string]shared.RepositoryState
	statuses        map[string]string
	dispatched      []inventory.Repository
	operationName   string
}

func (dispatcher *stubDispatcher) Dispatch(_ context.Context, repositories []inventory.Repository, operation fleet.RepositoryOperation) fleet.Report {
	dispatcher.dispatched = append(dispatcher.dispatched, repositories...)
	dispatcher.operationName = operation.Name

	report := fleet.Report{}
	for _, repository := range repositories {
		record := repository
		if state, found := dispatcher.refreshedStates[record.Path]; found {
			record.Branch = state.Branch
			record.Revision = state.Revision
			record.Modified = state.Modified
			record.Phase = state.Phase
		}
		record.LastStatus = operation.SuccessStatus
		if status, found := dispatcher.statuses[record.Path]; found {
			record.LastStatus = status
		}
		report.Results = append(report.Results, fleet.TaskResult{Repository: record})
	}
	return report
}

func TestNewServiceRequiresDependencies(testInstance *testing.T) {
	testCases := []struct {
		name          string
		dependencies  overview.Dependencies
		expectedError error
	}{
		{
			name:          "missing_store",
			dependencies:  overview.Dependencies{Dispatcher: &stubDispatcher{}, Output: &strings.Builder{}},
			expectedError: overview.ErrSettingsStoreNotConfigured,
		},
		{
			name:          "missing_dispatcher",
			dependencies:  overview.Dependencies{Store: stubSettingsStore{}, Output: &strings.Builder{}},
			expectedError: overview.ErrDispatcherNotConfigured,
		},
		{
			name:          "missing_output",
			dependencies:  overview.Dependencies{Store: stubSettingsStore{}, Dispatcher: &stubDispatcher{}},
			expectedError: overview.ErrOutputWriterNotConfigured,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			service, creationError := overview.NewService(testCase.dependencies)
			require.Nil(subtest, service)
			require.ErrorIs(subtest, creationError, testCase.expectedError)
		})
	}
}

func TestServiceRunRendersTable(testInstance *testing.T) {
	outputBuilder := &strings.Builder{}
	dispatcher := &stubDispatcher{
		refreshedStates: map[string]shared.RepositoryState{
			"/srv/alpha": {Branch: "default", Revision: "42", Modified: true, Phase: shared.ChangesetPhasePublic},
			"/srv/beta":  {Branch: "stable", Revision: "7", Modified: false, Phase: shared.ChangesetPhaseDraft},
		},
	}
	service, creationError := overview.NewService(overview.Dependencies{
		Store: stubSettingsStore{settings: inventory.Settings{
			RepositoryPaths: []string{"/srv/beta", "/srv/alpha"},
			ShowFullPath:    true,
		}},
		Dispatcher: dispatcher,
		Output:     outputBuilder,
	})
	require.NoError(testInstance, creationError)

	result, runError := service.Run(context.Background(), overview.Options{})
	require.NoError(testInstance, runError)
	require.Len(testInstance, result.Repositories, 2)
	require.Equal(testInstance, "refresh", dispatcher.operationName)

	renderedOutput := outputBuilder.String()
	outputLines := strings.Split(strings.TrimRight(renderedOutput, "\n"), "\n")
	require.Len(testInstance, outputLines, 3)
	require.Contains(testInstance, outputLines[0], "PATH")
	require.Contains(testInstance, outputLines[0], "STATUS")
	require.Contains(testInstance, outputLines[1], "/srv/beta")
	require.Contains(testInstance, outputLines[1], "stable")
	require.Contains(testInstance, outputLines[1], "7")
	require.Contains(testInstance, outputLines[1], "No")
	require.Contains(testInstance, outputLines[1], "Draft")
	require.Contains(testInstance, outputLines[2], "/srv/alpha")
	require.Contains(testInstance, outputLines[2], "Yes")
	require.Contains(testInstance, outputLines[2], "Public")
}

func TestServiceRunRendersShortPaths(testInstance *testing.T) {
	outputBuilder := &strings.Builder{}
	service, creationError := overview.NewService(overview.Dependencies{
		Store: stubSettingsStore{settings: inventory.Settings{
			RepositoryPaths: []string{"/srv/checkouts/alpha"},
			ShowFullPath:    false,
		}},
		Dispatcher: &stubDispatcher{},
		Output:     outputBuilder,
	})
	require.NoError(testInstance, creationError)

	_, runError := service.Run(context.Background(), overview.Options{})
	require.NoError(testInstance, runError)
	require.Contains(testInstance, outputBuilder.String(), "alpha")
	require.NotContains(testInstance, outputBuilder.String(), "/srv/checkouts/alpha")
}

func TestServiceRunShowFullPathOverride(testInstance *testing.T) {
	outputBuilder := &strings.Builder{}
	service, creationError := overview.NewService(overview.Dependencies{
		Store: stubSettingsStore{settings: inventory.Settings{
			RepositoryPaths: []string{"/srv/checkouts/alpha"},
			ShowFullPath:    false,
		}},
		Dispatcher: &stubDispatcher{},
		Output:     outputBuilder,
	})
	require.NoError(testInstance, creationError)

	fullPaths := true
	_, runError := service.Run(context.Background(), overview.Options{ShowFullPath: &fullPaths})
	require.NoError(testInstance, runError)
	require.Contains(testInstance, outputBuilder.String(), "/srv/checkouts/alpha")
}

func TestServiceRunRendersCSV(testInstance *testing.T) {
	outputBuilder := &strings.Builder{}
	dispatcher := &stubDispatcher{
		refreshedStates: map[string]shared.RepositoryState{
			"/srv/alpha": {Branch: "default", Revision: "42", Modified: false, Phase: shared.ChangesetPhasePublic},
		},
		statuses: map[string]string{"/srv/alpha": "Error: abort: repository is locked"},
	}
	service, creationError := overview.NewService(overview.Dependencies{
		Store: stubSettingsStore{settings: inventory.Settings{
			RepositoryPaths: []string{"/srv/alpha"},
			ShowFullPath:    true,
		}},
		Dispatcher: dispatcher,
		Output:     outputBuilder,
	})
	require.NoError(testInstance, creationError)

	_, runError := service.Run(context.Background(), overview.Options{CSVOutput: true})
	require.NoError(testInstance, runError)

	outputLines := strings.Split(strings.TrimRight(outputBuilder.String(), "\n"), "\n")
	require.Len(testInstance, outputLines, 2)
	require.Equal(testInstance, "path,branch,revision,modified,phase,status", outputLines[0])
	require.Contains(testInstance, outputLines[1], "/srv/alpha,default,42,No,Public")
	require.Contains(testInstance, outputLines[1], "Error: abort: repository is locked")
}

func TestServiceRunSortsRecords(testInstance *testing.T) {
	outputBuilder := &strings.Builder{}
	dispatcher := &stubDispatcher{
		refreshedStates: map[string]shared.RepositoryState{
			"/srv/alpha": {Branch: "zulu", Revision: "1", Phase: shared.ChangesetPhasePublic},
			"/srv/beta":  {Branch: "alpha", Revision: "2", Phase: shared.ChangesetPhasePublic},
		},
	}
	service, creationError := overview.NewService(overview.Dependencies{
		Store: stubSettingsStore{settings: inventory.Settings{
			RepositoryPaths: []string{"/srv/alpha", "/srv/beta"},
			ShowFullPath:    true,
		}},
		Dispatcher: dispatcher,
		Output:     outputBuilder,
	})
	require.NoError(testInstance, creationError)

	result, runError := service.Run(context.Background(), overview.Options{
		SortColumn: inventory.SortColumnBranch,
		SortOrder:  inventory.SortOrderAscending,
	})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, "/srv/beta", result.Repositories[0].Path)
	require.Equal(testInstance, "/srv/alpha", result.Repositories[1].Path)
}

func TestServiceRunPathFilter(testInstance *testing.T) {
	outputBuilder := &strings.Builder{}
	dispatcher := &stubDispatcher{}
	service, creationError := overview.NewService(overview.Dependencies{
		Store: stubSettingsStore{settings: inventory.Settings{
			RepositoryPaths: []string{"/srv/alpha", "/srv/beta"},
			ShowFullPath:    true,
		}},
		Dispatcher: dispatcher,
		Output:     outputBuilder,
	})
	require.NoError(testInstance, creationError)

	selectedPath, pathError := shared.NewRepositoryPath("/srv/beta")
	require.NoError(testInstance, pathError)

	result, runError := service.Run(context.Background(), overview.Options{PathFilter: &selectedPath})
	require.NoError(testInstance, runError)
	require.Len(testInstance, result.Repositories, 1)
	require.Equal(testInstance, "/srv/beta", result.Repositories[0].Path)
	require.Len(testInstance, dispatcher.dispatched, 1)
}

func TestServiceRunPathFilterRejectsUntracked(testInstance *testing.T) {
	outputBuilder := &strings.Builder{}
	service, creationError := overview.NewService(overview.Dependencies{
		Store: stubSettingsStore{settings: inventory.Settings{
			RepositoryPaths: []string{"/srv/alpha"},
			ShowFullPath:    true,
		}},
		Dispatcher: &stubDispatcher{},
		Output:     outputBuilder,
	})
	require.NoError(testInstance, creationError)

	untrackedPath, pathError := shared.NewRepositoryPath("/srv/missing")
	require.NoError(testInstance, pathError)

	_, runError := service.Run(context.Background(), overview.Options{PathFilter: &untrackedPath})
	require.Error(testInstance, runError)
	require.Contains(testInstance, runError.Error(), "/srv/missing")
}
