package workflow

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AJacquin/ManaHg/internal/execshell"
	"github.com/AJacquin/ManaHg/internal/inventory"
	"github.com/AJacquin/ManaHg/internal/repos/prompt"
	"github.com/AJacquin/ManaHg/internal/repos/shared"
	pathutils "github.com/AJacquin/ManaHg/internal/utils/path"
)

var workflowHomeDirectoryExpander = pathutils.NewHomeExpander()

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// PrompterFactory creates confirmation prompters scoped to a Cobra command.
type PrompterFactory func(*cobra.Command) shared.ConfirmationPrompter

// SettingsPathProvider yields the inventory file location backing the commands.
type SettingsPathProvider func() string

// CommandEventObserverProvider yields the observer notified about hg invocations.
type CommandEventObserverProvider func() execshell.CommandEventObserver

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func resolvePrompter(factory PrompterFactory, command *cobra.Command) shared.ConfirmationPrompter {
	if factory != nil {
		prompter := factory(command)
		if prompter != nil {
			return prompter
		}
	}
	return prompt.NewIOConfirmationPrompter(command.InOrStdin(), command.OutOrStdout())
}

func resolveCommandEventObserver(provider CommandEventObserverProvider) execshell.CommandEventObserver {
	if provider == nil {
		return nil
	}
	return provider()
}

func resolveSettingsStore(provider SettingsPathProvider) (*inventory.Store, error) {
	settingsPath := ""
	if provider != nil {
		settingsPath = provider()
	}
	expandedPath := workflowHomeDirectoryExpander.Expand(strings.TrimSpace(settingsPath))
	return inventory.NewStore(expandedPath)
}

func displayCommandHelp(command *cobra.Command) error {
	if command == nil {
		return nil
	}
	return command.Help()
}
