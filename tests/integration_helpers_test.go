package tests

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// integrationCommandOptions adjusts the environment of one CLI invocation.
type integrationCommandOptions struct {
	PathVariable         string
	EnvironmentOverrides map[string]string
}

func integrationRepositoryRoot(testInstance *testing.T) string {
	testInstance.Helper()
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		testInstance.Fatalf("unable to resolve working directory: %v", workingDirectoryError)
	}
	return filepath.Dir(workingDirectory)
}

func buildIntegrationEnvironment(options integrationCommandOptions) []string {
	environment := append([]string{}, os.Environ()...)
	if len(options.PathVariable) > 0 {
		environment = append(environment, "PATH="+options.PathVariable)
	}
	for variableName, variableValue := range options.EnvironmentOverrides {
		environment = append(environment, variableName+"="+variableValue)
	}
	return environment
}

func runIntegrationCommand(testInstance *testing.T, repositoryRoot string, options integrationCommandOptions, timeout time.Duration, arguments []string) string {
	testInstance.Helper()
	outputText, runError := runFailingIntegrationCommand(testInstance, repositoryRoot, options, timeout, arguments)
	requireNoError(testInstance, runError, outputText)
	return outputText
}

func runFailingIntegrationCommand(testInstance *testing.T, repositoryRoot string, options integrationCommandOptions, timeout time.Duration, arguments []string) (string, error) {
	testInstance.Helper()
	executionContext, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	command := exec.CommandContext(executionContext, "go", arguments...)
	command.Dir = repositoryRoot
	command.Env = buildIntegrationEnvironment(options)

	outputBytes, runError := command.CombinedOutput()
	return string(outputBytes), runError
}

func filterStructuredOutput(rawOutput string) string {
	lines := strings.Split(rawOutput, "\n")
	var filtered []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}
		if strings.HasPrefix(trimmed, "{") {
			continue
		}
		filtered = append(filtered, line)
	}
	if len(filtered) == 0 {
		return ""
	}
	return strings.Join(filtered, "\n") + "\n"
}

func requireNoError(testInstance *testing.T, err error, output string) {
	testInstance.Helper()
	if err != nil {
		testInstance.Fatalf("command failed: %v\n%s", err, output)
	}
}
