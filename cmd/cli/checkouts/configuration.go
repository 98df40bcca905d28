package checkouts

import (
	"github.com/AJacquin/ManaHg/internal/fleet"
	"github.com/AJacquin/ManaHg/internal/watch"
)

const (
	defaultScanRootConstant = "."

	scanConfigurationKeyConstant        = "scan"
	fleetConfigurationKeyConstant       = "fleet"
	watchConfigurationKeyConstant       = "watch"
	configurationRootsKeyConstant       = "roots"
	configurationDryRunKeyConstant      = "dry_run"
	configurationAssumeYesKeyConstant   = "assume_yes"
	configurationConcurrencyKeyConstant = "concurrency"
	configurationDebounceKeyConstant    = "debounce_milliseconds"
)

// ToolsConfiguration captures checkout command configuration sections.
type ToolsConfiguration struct {
	Scan  ScanConfiguration  `mapstructure:"scan"`
	Fleet FleetConfiguration `mapstructure:"fleet"`
	Watch WatchConfiguration `mapstructure:"watch"`
}

// ScanConfiguration describes configuration values for the scan command.
type ScanConfiguration struct {
	Roots  []string `mapstructure:"roots"`
	DryRun bool     `mapstructure:"dry_run"`
}

// FleetConfiguration describes configuration values shared by the bulk
// dispatch commands.
type FleetConfiguration struct {
	Concurrency int  `mapstructure:"concurrency"`
	AssumeYes   bool `mapstructure:"assume_yes"`
}

// WatchConfiguration describes configuration values for the watch command.
type WatchConfiguration struct {
	DebounceMilliseconds int `mapstructure:"debounce_milliseconds"`
}

// DefaultToolsConfiguration returns baseline configuration values for checkout commands.
func DefaultToolsConfiguration() ToolsConfiguration {
	return ToolsConfiguration{
		Scan: ScanConfiguration{
			Roots:  []string{defaultScanRootConstant},
			DryRun: false,
		},
		Fleet: FleetConfiguration{
			Concurrency: fleet.DefaultConcurrencyConstant,
			AssumeYes:   false,
		},
		Watch: WatchConfiguration{
			DebounceMilliseconds: int(watch.DefaultDebounceConstant.Milliseconds()),
		},
	}
}

// DefaultConfigurationValues produces Viper defaults for checkout commands.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultToolsConfiguration()
	return map[string]any{
		rootKey + "." + scanConfigurationKeyConstant + "." + configurationRootsKeyConstant:        defaults.Scan.Roots,
		rootKey + "." + scanConfigurationKeyConstant + "." + configurationDryRunKeyConstant:       defaults.Scan.DryRun,
		rootKey + "." + fleetConfigurationKeyConstant + "." + configurationConcurrencyKeyConstant: defaults.Fleet.Concurrency,
		rootKey + "." + fleetConfigurationKeyConstant + "." + configurationAssumeYesKeyConstant:   defaults.Fleet.AssumeYes,
		rootKey + "." + watchConfigurationKeyConstant + "." + configurationDebounceKeyConstant:    defaults.Watch.DebounceMilliseconds,
	}
}

// sanitize normalizes scan configuration values.
func (configuration ScanConfiguration) sanitize() ScanConfiguration {
	sanitized := configuration
	sanitized.Roots = scanRootSanitizer.Sanitize(configuration.Roots)
	if len(sanitized.Roots) == 0 {
		sanitized.Roots = append([]string{}, defaultScanRootConstant)
	}
	return sanitized
}

// sanitize normalizes fleet configuration values.
func (configuration FleetConfiguration) sanitize() FleetConfiguration {
	sanitized := configuration
	if sanitized.Concurrency < 1 {
		sanitized.Concurrency = fleet.DefaultConcurrencyConstant
	}
	return sanitized
}

// sanitize normalizes watch configuration values.
func (configuration WatchConfiguration) sanitize() WatchConfiguration {
	sanitized := configuration
	if sanitized.DebounceMilliseconds <= 0 {
		sanitized.DebounceMilliseconds = int(watch.DefaultDebounceConstant.Milliseconds())
	}
	return sanitized
}

func resolveScanConfiguration(provider func() ScanConfiguration) ScanConfiguration {
	if provider == nil {
		return DefaultToolsConfiguration().Scan
	}
	return provider().sanitize()
}

func resolveFleetConfiguration(provider func() FleetConfiguration) FleetConfiguration {
	if provider == nil {
		return DefaultToolsConfiguration().Fleet
	}
	return provider().sanitize()
}

func resolveWatchConfiguration(provider func() WatchConfiguration) WatchConfiguration {
	if provider == nil {
		return DefaultToolsConfiguration().Watch
	}
	return provider().sanitize()
}
