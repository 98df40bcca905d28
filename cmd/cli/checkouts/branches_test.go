package checkouts_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	checkouts "github.com/AJacquin/ManaHg/cmd/cli/checkouts"
)

func TestBranchesCommandAggregatesTallies(testInstance *testing.T) {
	manager := &fakeRepositoryManager{
		branchLists: map[string][]string{
			fleetAlphaRepositoryConstant: {"default", "feature-one"},
			fleetBetaRepositoryConstant:  {"default"},
		},
	}
	inventoryPath := writeTrackedInventory(testInstance, fleetAlphaRepositoryConstant, fleetBetaRepositoryConstant)

	builder := checkouts.BranchesCommandBuilder{
		RepositoryManager:    manager,
		SettingsPathProvider: func() string { return inventoryPath },
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	stdout, _, executionError := executeCommand(testInstance, command)
	require.NoError(testInstance, executionError)

	require.Contains(testInstance, stdout, "BRANCH")
	require.Contains(testInstance, stdout, "CHECKOUTS")
	require.Regexp(testInstance, `default\s+2`, stdout)
	require.Regexp(testInstance, `feature-one\s+1`, stdout)

	defaultIndex := strings.Index(stdout, "default")
	featureIndex := strings.Index(stdout, "feature-one")
	require.GreaterOrEqual(testInstance, defaultIndex, 0)
	require.GreaterOrEqual(testInstance, featureIndex, 0)
	require.Less(testInstance, defaultIndex, featureIndex)
}

func TestBranchesCommandHandlesEmptyInventory(testInstance *testing.T) {
	manager := &fakeRepositoryManager{}
	inventoryPath := writeTrackedInventory(testInstance)

	builder := checkouts.BranchesCommandBuilder{
		RepositoryManager:    manager,
		SettingsPathProvider: func() string { return inventoryPath },
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	stdout, _, executionError := executeCommand(testInstance, command)
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, stdout, "BRANCH")
}
