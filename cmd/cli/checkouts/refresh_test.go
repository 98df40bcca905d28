package checkouts_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	checkouts "github.com/AJacquin/ManaHg/cmd/cli/checkouts"
)

const (
	refreshUntrackedPathConstant    = "/tmp/refresh-untracked"
	refreshUntrackedMessageConstant = "repository /tmp/refresh-untracked is not tracked"
)

func buildRefreshCommand(manager *fakeRepositoryManager, inventoryPath string) checkouts.RefreshCommandBuilder {
	return checkouts.RefreshCommandBuilder{
		RepositoryManager:    manager,
		SettingsPathProvider: func() string { return inventoryPath },
	}
}

func TestRefreshCommandProbesEveryTrackedCheckout(testInstance *testing.T) {
	manager := &fakeRepositoryManager{}
	inventoryPath := writeTrackedInventory(testInstance, fleetAlphaRepositoryConstant, fleetBetaRepositoryConstant)

	builder := buildRefreshCommand(manager, inventoryPath)
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	stdout, _, executionError := executeCommand(testInstance, command)
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, stdout, "Ready: "+fleetAlphaRepositoryConstant)
	require.Contains(testInstance, stdout, "Ready: "+fleetBetaRepositoryConstant)
}

func TestRefreshCommandNarrowsToRequestedPaths(testInstance *testing.T) {
	manager := &fakeRepositoryManager{}
	inventoryPath := writeTrackedInventory(testInstance, fleetAlphaRepositoryConstant, fleetBetaRepositoryConstant)

	builder := buildRefreshCommand(manager, inventoryPath)
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	stdout, _, executionError := executeCommand(testInstance, command, fleetBetaRepositoryConstant)
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, stdout, "Ready: "+fleetBetaRepositoryConstant)
	require.NotContains(testInstance, stdout, "Ready: "+fleetAlphaRepositoryConstant)
}

func TestRefreshCommandRejectsUntrackedPath(testInstance *testing.T) {
	manager := &fakeRepositoryManager{}
	inventoryPath := writeTrackedInventory(testInstance, fleetAlphaRepositoryConstant)

	builder := buildRefreshCommand(manager, inventoryPath)
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	_, _, executionError := executeCommand(testInstance, command, refreshUntrackedPathConstant)
	require.Error(testInstance, executionError)
	require.Equal(testInstance, refreshUntrackedMessageConstant, executionError.Error())
}
