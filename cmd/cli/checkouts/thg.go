package checkouts

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AJacquin/ManaHg/internal/repos/dependencies"
	"github.com/AJacquin/ManaHg/internal/repos/shared"
)

const (
	thgUseConstant      = "thg [path]"
	thgShortDescription = "Open the TortoiseHg workbench for a checkout"
	thgLongDescription  = "thg launches the TortoiseHg workbench for the given checkout, or the current directory when no path is provided, without waiting for it to exit."
	thgLaunchedTemplate = "Launched TortoiseHg workbench for %s\n"
)

// ThgCommandBuilder assembles the thg command.
type ThgCommandBuilder struct {
	LoggerProvider               LoggerProvider
	WorkbenchLauncher            shared.WorkbenchLauncher
	HumanReadableLoggingProvider func() bool
}

// Build constructs the thg command.
func (builder *ThgCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   thgUseConstant,
		Short: thgShortDescription,
		Long:  thgLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	return command, nil
}

func (builder *ThgCommandBuilder) run(command *cobra.Command, arguments []string) error {
	repositoryPath := ""
	if len(arguments) > 0 {
		repositoryPath = strings.TrimSpace(arguments[0])
	}

	if len(repositoryPath) == 0 {
		workingDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return workingDirectoryError
		}
		repositoryPath = workingDirectory
	} else {
		repositoryPath = checkoutHomeDirectoryExpander.Expand(repositoryPath)
	}

	logger := resolveLogger(builder.LoggerProvider)

	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	launcher, launcherError := dependencies.ResolveWorkbenchLauncher(builder.WorkbenchLauncher, logger, humanReadableLogging)
	if launcherError != nil {
		return launcherError
	}

	if launchError := launcher.LaunchWorkbench(repositoryPath); launchError != nil {
		return launchError
	}

	_, writeError := fmt.Fprintf(command.OutOrStdout(), thgLaunchedTemplate, repositoryPath)
	return writeError
}
