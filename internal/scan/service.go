package scan

import (
	"errors"
	"fmt"

	"github.com/AJacquin/ManaHg/internal/inventory"
	"github.com/AJacquin/ManaHg/internal/repos/shared"
)

const (
	discovererMissingMessageConstant   = "repository discoverer not configured"
	storeMissingMessageConstant        = "settings store not configured"
	rootsMissingMessageConstant        = "at least one scan root must be provided"
	discoveryFailureTemplateConstant   = "repository discovery failed: %w"
	settingsLoadFailureTemplate        = "failed to load repository settings: %w"
	settingsSaveFailureTemplate        = "failed to save repository settings: %w"
	planTrackMessageConstant           = "PLAN-TRACK: %s\n"
	planKnownMessageConstant           = "PLAN-SKIP (already tracked): %s\n"
	trackedMessageConstant             = "TRACKED: %s\n"
	scanSummaryTemplateConstant        = "Discovered %d checkouts, tracking %d new\n"
	removePromptTemplateConstant       = "Stop tracking '%s'? [a/N/y] "
	removeSkipMessageConstant          = "SKIP: %s\n"
	removeUntrackedMessageConstant     = "UNTRACKED: %s\n"
	removeUnknownMessageConstant       = "NOT-TRACKED: %s\n"
	removePromptFailureTemplateMessage = "confirmation failed for %s: %w"
)

// ErrDiscovererNotConfigured indicates the repository discoverer dependency was missing.
var ErrDiscovererNotConfigured = errors.New(discovererMissingMessageConstant)

// ErrStoreNotConfigured indicates the settings store dependency was missing.
var ErrStoreNotConfigured = errors.New(storeMissingMessageConstant)

// ErrScanRootsRequired indicates no scan roots were provided.
var ErrScanRootsRequired = errors.New(rootsMissingMessageConstant)

// Dependencies enumerates external collaborators required by the scan service.
type Dependencies struct {
	Discoverer shared.RepositoryDiscoverer
	Store      SettingsStore
	Prompter   shared.ConfirmationPrompter
	Reporter   shared.Reporter
}

// SettingsStore loads and saves the persisted repository inventory.
type SettingsStore interface {
	Load() (inventory.Settings, error)
	Save(settings inventory.Settings) error
}

// Options configures a scan pass.
type Options struct {
	Roots  []string
	DryRun bool
}

// RemoveOptions configures an untrack pass.
type RemoveOptions struct {
	Paths        []string
	Confirmation shared.ConfirmationPolicy
}

// Result reports the scan outcome.
type Result struct {
	DiscoveredCount int
	TrackedCount    int
	TrackedPaths    []string
}

// RemoveResult reports the untrack outcome.
type RemoveResult struct {
	RemovedCount int
}

// Service discovers checkouts and maintains the tracked inventory.
type Service struct {
	discoverer shared.RepositoryDiscoverer
	store      SettingsStore
	prompter   shared.ConfirmationPrompter
	reporter   shared.Reporter
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Discoverer == nil {
		return nil, ErrDiscovererNotConfigured
	}
	if dependencies.Store == nil {
		return nil, ErrStoreNotConfigured
	}
	return &Service{
		discoverer: dependencies.Discoverer,
		store:      dependencies.Store,
		prompter:   dependencies.Prompter,
		reporter:   dependencies.Reporter,
	}, nil
}

// Scan walks the provided roots and tracks every discovered checkout.
func (service *Service) Scan(options Options) (Result, error) {
	if len(options.Roots) == 0 {
		return Result{}, ErrScanRootsRequired
	}

	discoveredPaths, discoveryError := service.discoverer.DiscoverRepositories(options.Roots)
	if discoveryError != nil {
		return Result{}, fmt.Errorf(discoveryFailureTemplateConstant, discoveryError)
	}

	settings, loadError := service.store.Load()
	if loadError != nil {
		return Result{}, fmt.Errorf(settingsLoadFailureTemplate, loadError)
	}

	tracked := make(map[string]struct{}, len(settings.RepositoryPaths))
	for _, trackedPath := range settings.RepositoryPaths {
		tracked[trackedPath] = struct{}{}
	}

	newPaths := make([]string, 0, len(discoveredPaths))
	for _, discoveredPath := range discoveredPaths {
		if _, alreadyTracked := tracked[discoveredPath]; alreadyTracked {
			if options.DryRun {
				service.printf(planKnownMessageConstant, discoveredPath)
			}
			continue
		}
		newPaths = append(newPaths, discoveredPath)
		if options.DryRun {
			service.printf(planTrackMessageConstant, discoveredPath)
		}
	}

	if options.DryRun {
		return Result{DiscoveredCount: len(discoveredPaths), TrackedCount: len(newPaths), TrackedPaths: newPaths}, nil
	}

	addedCount := settings.AddRepositoryPaths(newPaths)
	if addedCount > 0 {
		if saveError := service.store.Save(settings); saveError != nil {
			return Result{}, fmt.Errorf(settingsSaveFailureTemplate, saveError)
		}
	}

	for _, trackedPath := range newPaths {
		service.printf(trackedMessageConstant, trackedPath)
	}
	service.printf(scanSummaryTemplateConstant, len(discoveredPaths), addedCount)

	return Result{DiscoveredCount: len(discoveredPaths), TrackedCount: addedCount, TrackedPaths: newPaths}, nil
}

// Remove drops the provided paths from the tracked inventory, prompting per
// path unless assume-yes is set.
func (service *Service) Remove(options RemoveOptions) (RemoveResult, error) {
	settings, loadError := service.store.Load()
	if loadError != nil {
		return RemoveResult{}, fmt.Errorf(settingsLoadFailureTemplate, loadError)
	}

	tracked := make(map[string]struct{}, len(settings.RepositoryPaths))
	for _, trackedPath := range settings.RepositoryPaths {
		tracked[trackedPath] = struct{}{}
	}

	confirmedPaths := make([]string, 0, len(options.Paths))
	for _, candidatePath := range options.Paths {
		if _, isTracked := tracked[candidatePath]; !isTracked {
			service.printf(removeUnknownMessageConstant, candidatePath)
			continue
		}

		if options.Confirmation.ShouldPrompt() && service.prompter != nil {
			prompt := fmt.Sprintf(removePromptTemplateConstant, candidatePath)
			confirmation, promptError := service.prompter.Confirm(prompt)
			if promptError != nil {
				return RemoveResult{}, fmt.Errorf(removePromptFailureTemplateMessage, candidatePath, promptError)
			}
			if !confirmation.Confirmed {
				service.printf(removeSkipMessageConstant, candidatePath)
				continue
			}
		}

		confirmedPaths = append(confirmedPaths, candidatePath)
	}

	removedCount := settings.RemoveRepositoryPaths(confirmedPaths)
	if removedCount > 0 {
		if saveError := service.store.Save(settings); saveError != nil {
			return RemoveResult{}, fmt.Errorf(settingsSaveFailureTemplate, saveError)
		}
	}

	for _, removedPath := range confirmedPaths {
		service.printf(removeUntrackedMessageConstant, removedPath)
	}

	return RemoveResult{RemovedCount: removedCount}, nil
}

func (service *Service) printf(format string, arguments ...any) {
	if service.reporter == nil {
		return
	}
	service.reporter.Printf(format, arguments...)
}
