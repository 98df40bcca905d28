package workflow

import "github.com/AJacquin/ManaHg/internal/fleet"

const (
	configurationConcurrencyKeyConstant = "concurrency"
	configurationDryRunKeyConstant      = "dry_run"
	configurationAssumeYesKeyConstant   = "assume_yes"
)

// CommandConfiguration captures configuration values for workflow runs.
type CommandConfiguration struct {
	Concurrency int  `mapstructure:"concurrency"`
	DryRun      bool `mapstructure:"dry_run"`
	AssumeYes   bool `mapstructure:"assume_yes"`
}

// DefaultCommandConfiguration provides baseline workflow run settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Concurrency: fleet.DefaultConcurrencyConstant,
		DryRun:      false,
		AssumeYes:   false,
	}
}

// DefaultConfigurationValues produces Viper defaults for the workflow command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + configurationConcurrencyKeyConstant: defaults.Concurrency,
		rootKey + "." + configurationDryRunKeyConstant:      defaults.DryRun,
		rootKey + "." + configurationAssumeYesKeyConstant:   defaults.AssumeYes,
	}
}

// sanitize normalizes configuration values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	if sanitized.Concurrency < 1 {
		sanitized.Concurrency = fleet.DefaultConcurrencyConstant
	}
	return sanitized
}
