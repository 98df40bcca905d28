package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"vawter.tech/stopper"

	"github.com/AJacquin/ManaHg/internal/fleet"
	"github.com/AJacquin/ManaHg/internal/inventory"
	"github.com/AJacquin/ManaHg/internal/repos/shared"
)

const (
	// DefaultDebounceConstant spaces out re-probes while a checkout's tree is churning.
	DefaultDebounceConstant = 500 * time.Millisecond

	storeMissingMessageConstant      = "settings store not configured"
	refresherMissingMessageConstant  = "checkout refresher not configured"
	noWatchableMessageConstant       = "no tracked repositories could be watched"
	watcherCreationFailureTemplate   = "failed to create filesystem watcher: %w"
	settingsLoadFailureTemplate      = "failed to load repository settings: %w"
	eventChannelSlackConstant        = 16
	stopGracePeriodConstant          = 100 * time.Millisecond
	watchEstablishedMessageConstant  = "watching repository"
	watchSkippedMessageConstant      = "skipping unwatchable repository"
	repositoryPathLogFieldConstant   = "repository_path"
	debounceIntervalLogFieldConstant = "debounce_interval"
	watchedCountLogFieldConstant     = "repositories"
	watchLoopStartedMessageConstant  = "watch loop started"
	watchLoopFinishedMessageConstant = "watch loop finished"
	refreshTriggeredMessageConstant  = "refresh triggered"
	notificationErrorMessageConstant = "filesystem notification error"
	metadataWatchFailureLogMessage   = "metadata directory not watchable"
)

// ErrStoreNotConfigured indicates the settings store dependency was missing.
var ErrStoreNotConfigured = errors.New(storeMissingMessageConstant)

// ErrRefresherNotConfigured indicates the checkout refresher dependency was missing.
var ErrRefresherNotConfigured = errors.New(refresherMissingMessageConstant)

// ErrNoWatchableRepositories indicates every tracked path failed to register with the watcher.
var ErrNoWatchableRepositories = errors.New(noWatchableMessageConstant)

// SettingsStore loads the persisted repository inventory.
type SettingsStore interface {
	Load() (inventory.Settings, error)
}

// RefreshEvent carries one re-probed record, or a watcher error.
type RefreshEvent struct {
	Repository inventory.Repository
	Err        error
}

// CleanupFunc tears down the watch, draining its goroutine before returning.
type CleanupFunc func() error

// Dependencies enumerates external collaborators required by the watch service.
type Dependencies struct {
	Store     SettingsStore
	Refresher shared.CheckoutRefresher
	Logger    *zap.Logger
}

// Options configures a watch session.
type Options struct {
	Debounce time.Duration
}

// Service re-probes tracked checkouts whenever their trees change.
type Service struct {
	store     SettingsStore
	refresher shared.CheckoutRefresher
	logger    *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Store == nil {
		return nil, ErrStoreNotConfigured
	}
	if dependencies.Refresher == nil {
		return nil, ErrRefresherNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: dependencies.Store, refresher: dependencies.Refresher, logger: logger}, nil
}

// Watch registers every tracked checkout with a filesystem watcher and
// returns a channel of refresh events. Each checkout root and its metadata
// directory are watched so working copy edits and committed changesets both
// trigger a re-probe. Every watched checkout is probed once up front, and
// notifications are debounced per repository. The returned cleanup stops the
// watch and closes the channel.
func (service *Service) Watch(executionContext context.Context, options Options) (<-chan RefreshEvent, CleanupFunc, error) {
	settings, loadError := service.store.Load()
	if loadError != nil {
		return nil, nil, fmt.Errorf(settingsLoadFailureTemplate, loadError)
	}

	debounceInterval := options.Debounce
	if debounceInterval <= 0 {
		debounceInterval = DefaultDebounceConstant
	}

	watcher, watcherError := fsnotify.NewWatcher()
	if watcherError != nil {
		return nil, nil, fmt.Errorf(watcherCreationFailureTemplate, watcherError)
	}

	repositoryByWatchPath := make(map[string]string)
	watchedRepositories := make([]string, 0, len(settings.RepositoryPaths))
	for _, repositoryPath := range settings.RepositoryPaths {
		if addError := watcher.Add(repositoryPath); addError != nil {
			service.logger.Warn(watchSkippedMessageConstant, zap.String(repositoryPathLogFieldConstant, repositoryPath), zap.Error(addError))
			continue
		}
		repositoryByWatchPath[repositoryPath] = repositoryPath

		metadataPath := filepath.Join(repositoryPath, shared.MetadataDirectoryNameConstant)
		if metadataError := watcher.Add(metadataPath); metadataError != nil {
			service.logger.Debug(metadataWatchFailureLogMessage, zap.String(repositoryPathLogFieldConstant, repositoryPath), zap.Error(metadataError))
		} else {
			repositoryByWatchPath[metadataPath] = repositoryPath
		}

		watchedRepositories = append(watchedRepositories, repositoryPath)
		service.logger.Debug(watchEstablishedMessageConstant, zap.String(repositoryPathLogFieldConstant, repositoryPath))
	}

	if len(watchedRepositories) == 0 {
		_ = watcher.Close()
		return nil, nil, ErrNoWatchableRepositories
	}

	events := make(chan RefreshEvent, len(watchedRepositories)+eventChannelSlackConstant)
	refreshRequests := make(chan string, len(watchedRepositories)+eventChannelSlackConstant)

	stopContext := stopper.WithContext(executionContext)
	stopContext.Defer(func() {
		_ = watcher.Close()
		close(events)
	})

	cleanup := func() error {
		stopContext.Stop(stopGracePeriodConstant)
		return stopContext.Wait()
	}

	// Probing and event delivery stay on the watch goroutine so the channel
	// close registered above cannot race a send.
	refreshAndSend := func(repositoryPath string) {
		if stopContext.IsStopping() {
			return
		}

		repositoryState := service.refresher.Refresh(executionContext, repositoryPath)
		record := inventory.NewRepository(repositoryPath)
		record.Branch = repositoryState.Branch
		record.Revision = repositoryState.Revision
		record.Modified = repositoryState.Modified
		record.Phase = repositoryState.Phase
		record.LastStatus = fleet.StatusReadyConstant

		service.logger.Debug(refreshTriggeredMessageConstant, zap.String(repositoryPathLogFieldConstant, repositoryPath))

		select {
		case events <- RefreshEvent{Repository: record}:
		case <-stopContext.Stopping():
		}
	}

	service.logger.Info(watchLoopStartedMessageConstant,
		zap.Int(watchedCountLogFieldConstant, len(watchedRepositories)),
		zap.Duration(debounceIntervalLogFieldConstant, debounceInterval),
	)

	stopContext.Go(func(stopContext *stopper.Context) error {
		debouncers := make(map[string]*time.Timer, len(watchedRepositories))
		stopContext.Defer(func() {
			for _, debouncer := range debouncers {
				debouncer.Stop()
			}
		})

		for _, repositoryPath := range watchedRepositories {
			refreshAndSend(repositoryPath)
		}

		for !stopContext.IsStopping() {
			select {
			case <-stopContext.Stopping():
				service.logger.Info(watchLoopFinishedMessageConstant)
				return nil

			case repositoryPath := <-refreshRequests:
				refreshAndSend(repositoryPath)

			case notification, open := <-watcher.Events:
				if !open {
					return nil
				}

				repositoryPath, watched := repositoryByWatchPath[filepath.Dir(notification.Name)]
				if !watched {
					continue
				}

				if debouncer, exists := debouncers[repositoryPath]; exists {
					debouncer.Stop()
				}
				refreshTarget := repositoryPath
				debouncers[repositoryPath] = time.AfterFunc(debounceInterval, func() {
					select {
					case refreshRequests <- refreshTarget:
					case <-stopContext.Stopping():
					}
				})

			case notificationError, open := <-watcher.Errors:
				if !open {
					return nil
				}
				if notificationError != nil && !stopContext.IsStopping() {
					service.logger.Warn(notificationErrorMessageConstant, zap.Error(notificationError))
					select {
					case events <- RefreshEvent{Err: notificationError}:
					case <-stopContext.Stopping():
						return nil
					}
				}
			}
		}
		return nil
	})

	return events, cleanup, nil
}
