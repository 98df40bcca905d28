package cli

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AJacquin/ManaHg/internal/utils"
)

func TestArgumentsRequestVersion(t *testing.T) {
	testCases := []struct {
		name             string
		arguments        []string
		expectedDetected bool
	}{
		{
			name:             "bare_version_flag",
			arguments:        []string{"--version"},
			expectedDetected: true,
		},
		{
			name:             "version_flag_after_subcommand",
			arguments:        []string{"config", "--version"},
			expectedDetected: true,
		},
		{
			name:             "version_flag_behind_terminator_ignored",
			arguments:        []string{"--", "--version"},
			expectedDetected: false,
		},
		{
			name:             "no_version_flag",
			arguments:        []string{"list", "--csv"},
			expectedDetected: false,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expectedDetected, argumentsRequestVersion(testCase.arguments))
		})
	}
}

func TestBuildInformationVersionNeverEmpty(t *testing.T) {
	require.NotEmpty(t, buildInformationVersion(nil))
}

func TestHumanReadableLoggingEnabled(t *testing.T) {
	testCases := []struct {
		name            string
		flagValue       bool
		logFormat       string
		expectedEnabled bool
	}{
		{
			name:            "structured_format_disables",
			logFormat:       string(utils.LogFormatStructured),
			expectedEnabled: false,
		},
		{
			name:            "console_format_enables",
			logFormat:       string(utils.LogFormatConsole),
			expectedEnabled: true,
		},
		{
			name:            "flag_overrides_structured_format",
			flagValue:       true,
			logFormat:       string(utils.LogFormatStructured),
			expectedEnabled: true,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			application := &Application{
				humanReadableLogsFlagValue: testCase.flagValue,
				configuration: ApplicationConfiguration{
					Common: ApplicationCommonConfiguration{LogFormat: testCase.logFormat},
				},
			}

			require.Equal(t, testCase.expectedEnabled, application.humanReadableLoggingEnabled())
		})
	}
}

func TestCommandEventObserverFollowsLoggingMode(t *testing.T) {
	structuredApplication := &Application{
		configuration: ApplicationConfiguration{
			Common: ApplicationCommonConfiguration{LogFormat: string(utils.LogFormatStructured)},
		},
	}
	require.Nil(t, structuredApplication.commandEventObserver())

	humanReadableApplication := &Application{
		humanReadableLogsFlagValue: true,
	}
	require.NotNil(t, humanReadableApplication.commandEventObserver())
}

func TestConfigurationSearchPathsHonorsEnvironmentOverride(t *testing.T) {
	overrideDirectory := t.TempDir()
	t.Setenv(configurationSearchPathEnvironmentVariableConstant, overrideDirectory)

	require.Equal(t, []string{overrideDirectory}, configurationSearchPaths())
}

func TestConfigurationSearchPathsDefaultToWorkingDirectory(t *testing.T) {
	t.Setenv(configurationSearchPathEnvironmentVariableConstant, "")

	searchPaths := configurationSearchPaths()
	require.NotEmpty(t, searchPaths)
	require.Equal(t, defaultConfigurationSearchPathConstant, searchPaths[0])
}
