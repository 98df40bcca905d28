package prefs

import (
	"errors"
	"fmt"
	"io"

	"github.com/AJacquin/ManaHg/internal/inventory"
)

const (
	storeMissingMessageConstant       = "settings store not configured"
	themeIndexNegativeMessageConstant = "theme index must not be negative"
	settingsLoadFailureTemplate       = "failed to load repository settings: %w"
	settingsSaveFailureTemplate       = "failed to save repository settings: %w"
	themeIndexTemplateConstant        = "theme_idx: %d\n"
	showFullPathTemplateConstant      = "show_full_path: %t\n"
)

// ErrStoreNotConfigured indicates the settings store dependency was missing.
var ErrStoreNotConfigured = errors.New(storeMissingMessageConstant)

// ErrThemeIndexNegative indicates a negative theme index update was requested.
var ErrThemeIndexNegative = errors.New(themeIndexNegativeMessageConstant)

// SettingsStore loads and saves the persisted repository inventory.
type SettingsStore interface {
	Load() (inventory.Settings, error)
	Save(settings inventory.Settings) error
}

// Dependencies enumerates external collaborators required by the preferences service.
type Dependencies struct {
	Store  SettingsStore
	Output io.Writer
}

// Options carries the preference updates to apply. Nil fields leave the
// stored value untouched; all-nil options render the current values.
type Options struct {
	ThemeIndex   *int
	ShowFullPath *bool
}

// Result reports the effective settings after the run.
type Result struct {
	Settings inventory.Settings
	Updated  bool
}

// Service reads and updates persisted display preferences.
type Service struct {
	store  SettingsStore
	output io.Writer
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Store == nil {
		return nil, ErrStoreNotConfigured
	}
	return &Service{store: dependencies.Store, output: dependencies.Output}, nil
}

// Run applies any requested preference updates and prints the effective values.
func (service *Service) Run(options Options) (Result, error) {
	if options.ThemeIndex != nil && *options.ThemeIndex < 0 {
		return Result{}, ErrThemeIndexNegative
	}

	settings, loadError := service.store.Load()
	if loadError != nil {
		return Result{}, fmt.Errorf(settingsLoadFailureTemplate, loadError)
	}

	updated := false
	if options.ThemeIndex != nil && settings.ThemeIndex != *options.ThemeIndex {
		settings.ThemeIndex = *options.ThemeIndex
		updated = true
	}
	if options.ShowFullPath != nil && settings.ShowFullPath != *options.ShowFullPath {
		settings.ShowFullPath = *options.ShowFullPath
		updated = true
	}

	if updated {
		if saveError := service.store.Save(settings); saveError != nil {
			return Result{}, fmt.Errorf(settingsSaveFailureTemplate, saveError)
		}
	}

	if service.output != nil {
		fmt.Fprintf(service.output, themeIndexTemplateConstant, settings.ThemeIndex)
		fmt.Fprintf(service.output, showFullPathTemplateConstant, settings.ShowFullPath)
	}

	return Result{Settings: settings, Updated: updated}, nil
}
