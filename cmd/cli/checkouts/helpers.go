package checkouts

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AJacquin/ManaHg/internal/execshell"
	"github.com/AJacquin/ManaHg/internal/inventory"
	"github.com/AJacquin/ManaHg/internal/repos/prompt"
	"github.com/AJacquin/ManaHg/internal/repos/shared"
	pathutils "github.com/AJacquin/ManaHg/internal/utils/path"
)

var (
	checkoutHomeDirectoryExpander = pathutils.NewHomeExpander()
	scanRootSanitizer             = pathutils.NewRepositoryPathSanitizerWithConfiguration(checkoutHomeDirectoryExpander, pathutils.RepositoryPathSanitizerConfiguration{
		ExcludeBooleanLiteralCandidates: true,
		PruneNestedPaths:                true,
	})
	checkoutPathSanitizer = pathutils.NewRepositoryPathSanitizerWithConfiguration(checkoutHomeDirectoryExpander, pathutils.RepositoryPathSanitizerConfiguration{
		ExcludeBooleanLiteralCandidates: true,
	})
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// PrompterFactory creates confirmation prompters scoped to a Cobra command.
type PrompterFactory func(*cobra.Command) shared.ConfirmationPrompter

// SettingsPathProvider yields the inventory file location backing the commands.
type SettingsPathProvider func() string

// CommandEventObserverProvider yields the observer notified about hg invocations.
type CommandEventObserverProvider func() execshell.CommandEventObserver

func determineScanRoots(arguments []string, configuredRoots []string) []string {
	roots := scanRootSanitizer.Sanitize(arguments)
	if len(roots) > 0 {
		return roots
	}

	return scanRootSanitizer.Sanitize(configuredRoots)
}

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
	expandedPath := checkoutHomeDirectoryExpander.Expand(strings.TrimSpace(settingsPath))
	return inventory.NewStore(expandedPath)
}

func displayCommandHelp(command *cobra.Command) error {
	if command == nil {
		return nil
	}
	return command.Help()
}

// cascadingConfirmationPrompter wraps a base prompter and latches assume-yes
// once an apply-to-all confirmation arrives, so later targets skip the prompt.
type cascadingConfirmationPrompter struct {
	mutex     sync.Mutex
	base      shared.ConfirmationPrompter
	assumeYes bool
}

func newCascadingConfirmationPrompter(base shared.ConfirmationPrompter, initialAssumeYes bool) *cascadingConfirmationPrompter {
	return &cascadingConfirmationPrompter{base: base, assumeYes: initialAssumeYes}
}

// Confirm answers affirmatively once assume-yes is latched and otherwise
// delegates to the base prompter, recording apply-to-all confirmations.
func (prompter *cascadingConfirmationPrompter) Confirm(message string) (shared.ConfirmationResult, error) {
	prompter.mutex.Lock()
	latched := prompter.assumeYes
	prompter.mutex.Unlock()

	if latched {
		return shared.ConfirmationResult{Confirmed: true, ApplyToAll: true}, nil
	}

	if prompter.base == nil {
		return shared.ConfirmationResult{}, nil
	}

	result, confirmError := prompter.base.Confirm(message)
	if confirmError != nil {
		return shared.ConfirmationResult{}, confirmError
	}

	if result.Confirmed && result.ApplyToAll {
		prompter.mutex.Lock()
		prompter.assumeYes = true
		prompter.mutex.Unlock()
	}

	return result, nil
}

// AssumeYes reports whether confirmations are currently bypassed.
func (prompter *cascadingConfirmationPrompter) AssumeYes() bool {
	prompter.mutex.Lock()
	defer prompter.mutex.Unlock()
	return prompter.assumeYes
}
