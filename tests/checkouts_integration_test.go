package tests

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	checkoutsIntegrationTimeout             = 120 * time.Second
	checkoutsIntegrationRunSubcommand       = "run"
	checkoutsIntegrationModulePathConstant  = "."
	checkoutsIntegrationLogLevelFlag        = "--log-level"
	checkoutsIntegrationErrorLevel          = "error"
	checkoutsIntegrationScanCommand         = "scan"
	checkoutsIntegrationListCommand         = "list"
	checkoutsIntegrationPullCommand         = "pull"
	checkoutsIntegrationCSVFlag             = "--csv"
	checkoutsIntegrationMetadataDirectory   = ".hg"
	checkoutsIntegrationStubExecutableName  = "hg"
	checkoutsIntegrationStubBinDirectory    = "bin"
	checkoutsIntegrationSettingsFileName    = "repositories.json"
	checkoutsIntegrationConfigFileName      = "config.yaml"
	checkoutsIntegrationConfigTemplate      = "common:\n  settings_path: %s\n"
	checkoutsIntegrationConfigSearchEnvName = "MANAHG_CONFIG_SEARCH_PATH"
	checkoutsIntegrationAlphaCheckoutName   = "alpha"
	checkoutsIntegrationBetaCheckoutName    = "beta"
	checkoutsIntegrationSickCheckoutName    = "sick-checkout"
	checkoutsIntegrationTrackedTemplate     = "TRACKED: %s\nTRACKED: %s\nDiscovered 2 checkouts, tracking 2 new\n"
	checkoutsIntegrationCSVTemplate         = "path,branch,revision,modified,phase,status\n%s,default,7,No,Public,Ready\n%s,default,7,No,Public,Ready\n"
	checkoutsIntegrationPullTemplate        = "Success: %s\nSuccess: %s\n"
	checkoutsIntegrationPullSuccessTemplate = "Success: %s\n"
	checkoutsIntegrationPullFailureTemplate = "Error: abort: repository is unrelated: %s\n"
	checkoutsIntegrationPullFailureSummary  = "workflow operation pull failed"
	checkoutsIntegrationStubScript          = "#!/bin/sh\ncase \"$1\" in\nbranch)\n  echo \"default\"\n  ;;\nbranches)\n  echo \"default                        7:9f3b6a1c4d2e\"\n  ;;\nid)\n  echo \"7\"\n  ;;\nlog)\n  printf \"public\"\n  ;;\nstatus)\n  exit 0\n  ;;\npull)\n  case \"$PWD\" in\n  *sick*)\n    echo \"abort: repository is unrelated\" >&2\n    exit 255\n    ;;\n  esac\n  echo \"pulling from default\"\n  ;;\nesac\nexit 0\n"
)

// checkoutsIntegrationFixture holds the shared environment of one CLI scenario:
// a scan root with .hg checkouts, a Mercurial stub on PATH, and a config file
// redirecting the inventory to a temporary location.
type checkoutsIntegrationFixture struct {
	scanRoot       string
	commandOptions integrationCommandOptions
}

func newCheckoutsIntegrationFixture(testInstance *testing.T, checkoutNames []string) checkoutsIntegrationFixture {
	testInstance.Helper()

	tempDirectory := testInstance.TempDir()
	scanRoot := filepath.Join(tempDirectory, "checkouts")
	for _, checkoutName := range checkoutNames {
		metadataPath := filepath.Join(scanRoot, checkoutName, checkoutsIntegrationMetadataDirectory)
		require.NoError(testInstance, os.MkdirAll(metadataPath, 0o755))
	}

	stubDirectory := filepath.Join(tempDirectory, checkoutsIntegrationStubBinDirectory)
	require.NoError(testInstance, os.Mkdir(stubDirectory, 0o755))
	stubPath := filepath.Join(stubDirectory, checkoutsIntegrationStubExecutableName)
	require.NoError(testInstance, os.WriteFile(stubPath, []byte(checkoutsIntegrationStubScript), 0o755))

	configDirectory := filepath.Join(tempDirectory, "config")
	require.NoError(testInstance, os.Mkdir(configDirectory, 0o755))
	settingsPath := filepath.Join(configDirectory, checkoutsIntegrationSettingsFileName)
	configContent := fmt.Sprintf(checkoutsIntegrationConfigTemplate, settingsPath)
	configPath := filepath.Join(configDirectory, checkoutsIntegrationConfigFileName)
	require.NoError(testInstance, os.WriteFile(configPath, []byte(configContent), 0o644))

	return checkoutsIntegrationFixture{
		scanRoot: scanRoot,
		commandOptions: integrationCommandOptions{
			PathVariable: stubDirectory + string(os.PathListSeparator) + os.Getenv("PATH"),
			EnvironmentOverrides: map[string]string{
				checkoutsIntegrationConfigSearchEnvName: configDirectory,
			},
		},
	}
}

func (fixture checkoutsIntegrationFixture) checkoutPath(checkoutName string) string {
	return filepath.Join(fixture.scanRoot, checkoutName)
}

func (fixture checkoutsIntegrationFixture) arguments(subcommandArguments ...string) []string {
	arguments := []string{
		checkoutsIntegrationRunSubcommand,
		checkoutsIntegrationModulePathConstant,
		checkoutsIntegrationLogLevelFlag,
		checkoutsIntegrationErrorLevel,
	}
	return append(arguments, subcommandArguments...)
}

func TestCheckoutsScanListPullIntegration(testInstance *testing.T) {
	repositoryRoot := integrationRepositoryRoot(testInstance)
	fixture := newCheckoutsIntegrationFixture(testInstance, []string{
		checkoutsIntegrationAlphaCheckoutName,
		checkoutsIntegrationBetaCheckoutName,
	})
	alphaPath := fixture.checkoutPath(checkoutsIntegrationAlphaCheckoutName)
	betaPath := fixture.checkoutPath(checkoutsIntegrationBetaCheckoutName)

	scanOutput := runIntegrationCommand(
		testInstance,
		repositoryRoot,
		fixture.commandOptions,
		checkoutsIntegrationTimeout,
		fixture.arguments(checkoutsIntegrationScanCommand, fixture.scanRoot),
	)
	expectedScanOutput := fmt.Sprintf(checkoutsIntegrationTrackedTemplate, alphaPath, betaPath)
	require.Equal(testInstance, expectedScanOutput, filterStructuredOutput(scanOutput))

	listOutput := runIntegrationCommand(
		testInstance,
		repositoryRoot,
		fixture.commandOptions,
		checkoutsIntegrationTimeout,
		fixture.arguments(checkoutsIntegrationListCommand, checkoutsIntegrationCSVFlag),
	)
	expectedListOutput := fmt.Sprintf(checkoutsIntegrationCSVTemplate, alphaPath, betaPath)
	require.Equal(testInstance, expectedListOutput, filterStructuredOutput(listOutput))

	pullOutput := runIntegrationCommand(
		testInstance,
		repositoryRoot,
		fixture.commandOptions,
		checkoutsIntegrationTimeout,
		fixture.arguments(checkoutsIntegrationPullCommand),
	)
	expectedPullOutput := fmt.Sprintf(checkoutsIntegrationPullTemplate, alphaPath, betaPath)
	require.Equal(testInstance, expectedPullOutput, filterStructuredOutput(pullOutput))
}

func TestCheckoutsPullIsolatesBrokenCheckout(testInstance *testing.T) {
	repositoryRoot := integrationRepositoryRoot(testInstance)
	fixture := newCheckoutsIntegrationFixture(testInstance, []string{
		checkoutsIntegrationAlphaCheckoutName,
		checkoutsIntegrationSickCheckoutName,
	})
	alphaPath := fixture.checkoutPath(checkoutsIntegrationAlphaCheckoutName)
	sickPath := fixture.checkoutPath(checkoutsIntegrationSickCheckoutName)

	runIntegrationCommand(
		testInstance,
		repositoryRoot,
		fixture.commandOptions,
		checkoutsIntegrationTimeout,
		fixture.arguments(checkoutsIntegrationScanCommand, fixture.scanRoot),
	)

	pullOutput, pullError := runFailingIntegrationCommand(
		testInstance,
		repositoryRoot,
		fixture.commandOptions,
		checkoutsIntegrationTimeout,
		fixture.arguments(checkoutsIntegrationPullCommand),
	)
	require.Error(testInstance, pullError)

	filteredOutput := filterStructuredOutput(pullOutput)
	require.Contains(testInstance, filteredOutput, fmt.Sprintf(checkoutsIntegrationPullSuccessTemplate, alphaPath))
	require.Contains(testInstance, filteredOutput, fmt.Sprintf(checkoutsIntegrationPullFailureTemplate, sickPath))
	require.Contains(testInstance, filteredOutput, checkoutsIntegrationPullFailureSummary)
}
