package checkouts

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AJacquin/ManaHg/internal/repos/dependencies"
	"github.com/AJacquin/ManaHg/internal/repos/shared"
	"github.com/AJacquin/ManaHg/internal/watch"
)

const (
	watchUseConstant              = "watch"
	watchShortDescription         = "Re-probe checkouts when their trees change"
	watchLongDescription          = "watch registers every tracked checkout with a filesystem watcher and prints the refreshed record whenever a tree changes, until interrupted."
	watchDebounceFlagName         = "debounce"
	watchDebounceFlagUsage        = "Milliseconds to wait after the last change before re-probing a checkout"
	watchStartedMessageConstant   = "Watching tracked checkouts (Ctrl-C to stop)...\n"
	watchEventTemplateConstant    = "[%s] %s branch=%s revision=%s modified=%s phase=%s\n"
	watchErrorTemplateConstant    = "WATCH-ERROR: %v\n"
	watchTimestampLayoutConstant  = "15:04:05"
	watchCleanupFailureLogMessage = "watch cleanup failed"
)

// WatchCommandBuilder assembles the watch command.
type WatchCommandBuilder struct {
	LoggerProvider               LoggerProvider
	MercurialExecutor            shared.MercurialExecutor
	RepositoryManager            shared.RepositoryManager
	SettingsPathProvider         SettingsPathProvider
	HumanReadableLoggingProvider func() bool
	CommandEventObserverProvider CommandEventObserverProvider
	ConfigurationProvider        func() WatchConfiguration
}

// Build constructs the watch command.
func (builder *WatchCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   watchUseConstant,
		Short: watchShortDescription,
		Long:  watchLongDescription,
		RunE:  builder.run,
	}

	command.Flags().Int(watchDebounceFlagName, int(watch.DefaultDebounceConstant.Milliseconds()), watchDebounceFlagUsage)

	return command, nil
}

func (builder *WatchCommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := resolveWatchConfiguration(builder.ConfigurationProvider)

	debounceMilliseconds := configuration.DebounceMilliseconds
	if command.Flags().Changed(watchDebounceFlagName) {
		debounceMilliseconds, _ = command.Flags().GetInt(watchDebounceFlagName)
	}

	logger := resolveLogger(builder.LoggerProvider)

	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	observer := resolveCommandEventObserver(builder.CommandEventObserverProvider)
	mercurialExecutor, executorError := dependencies.ResolveMercurialExecutor(builder.MercurialExecutor, logger, humanReadableLogging, observer)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := dependencies.ResolveRepositoryManager(builder.RepositoryManager, mercurialExecutor)
	if managerError != nil {
		return managerError
	}

	store, storeError := resolveSettingsStore(builder.SettingsPathProvider)
	if storeError != nil {
		return storeError
	}

	service, serviceError := watch.NewService(watch.Dependencies{
		Store:     store,
		Refresher: repositoryManager,
		Logger:    logger,
	})
	if serviceError != nil {
		return serviceError
	}

	watchContext, cancelWatch := signal.NotifyContext(command.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancelWatch()

	events, cleanup, watchError := service.Watch(watchContext, watch.Options{Debounce: time.Duration(debounceMilliseconds) * time.Millisecond})
	if watchError != nil {
		return watchError
	}
	defer func() {
		if cleanupError := cleanup(); cleanupError != nil {
			logger.Warn(watchCleanupFailureLogMessage, zap.Error(cleanupError))
		}
	}()

	output := command.OutOrStdout()
	fmt.Fprint(output, watchStartedMessageConstant)

	for {
		select {
		case <-watchContext.Done():
			return nil

		case event, open := <-events:
			if !open {
				return nil
			}
			if event.Err != nil {
				fmt.Fprintf(command.ErrOrStderr(), watchErrorTemplateConstant, event.Err)
				continue
			}
			record := event.Repository
			fmt.Fprintf(output, watchEventTemplateConstant,
				time.Now().Format(watchTimestampLayoutConstant),
				record.Path,
				record.Branch,
				record.Revision,
				record.ModifiedMarker(),
				record.Phase,
			)
		}
	}
}
