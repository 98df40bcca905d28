package checkouts_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	checkouts "github.com/AJacquin/ManaHg/cmd/cli/checkouts"
)

func TestThgCommandLaunchesWorkbench(testInstance *testing.T) {
	testCases := []struct {
		name                string
		arguments           []string
		expectedPathBuilder func(testing.TB) string
	}{
		{
			name:      "explicit_path",
			arguments: []string{"/tmp/thg-checkout"},
			expectedPathBuilder: func(testing.TB) string {
				return "/tmp/thg-checkout"
			},
		},
		{
			name:      "home_relative_path_expanded",
			arguments: []string{"~/checkouts/workbench"},
			expectedPathBuilder: func(testingInstance testing.TB) string {
				homeDirectory, homeError := os.UserHomeDir()
				require.NoError(testingInstance, homeError)
				return filepath.Join(homeDirectory, "checkouts", "workbench")
			},
		},
		{
			name:      "defaults_to_working_directory",
			arguments: nil,
			expectedPathBuilder: func(testingInstance testing.TB) string {
				workingDirectory, workingDirectoryError := os.Getwd()
				require.NoError(testingInstance, workingDirectoryError)
				return workingDirectory
			},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			launcher := &fakeWorkbenchLauncher{}
			builder := checkouts.ThgCommandBuilder{WorkbenchLauncher: launcher}
			command, buildError := builder.Build()
			require.NoError(subtest, buildError)

			stdout, _, executionError := executeCommand(subtest, command, testCase.arguments...)
			require.NoError(subtest, executionError)

			expectedPath := testCase.expectedPathBuilder(subtest)
			require.Equal(subtest, []string{expectedPath}, launcher.launchedPaths)
			require.Contains(subtest, stdout, "Launched TortoiseHg workbench for "+expectedPath)
		})
	}
}

func TestThgCommandPropagatesLaunchFailure(testInstance *testing.T) {
	launchFailure := errors.New("workbench executable not found")
	launcher := &fakeWorkbenchLauncher{err: launchFailure}

	builder := checkouts.ThgCommandBuilder{WorkbenchLauncher: launcher}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	stdout, _, executionError := executeCommand(testInstance, command, "/tmp/thg-checkout")
	require.ErrorIs(testInstance, executionError, launchFailure)
	require.NotContains(testInstance, stdout, "Launched TortoiseHg workbench")
}
