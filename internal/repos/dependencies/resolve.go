package dependencies

import (
	"github.com/AJacquin/ManaHg/internal/execshell"
	"github.com/AJacquin/ManaHg/internal/hgrepo"
	"github.com/AJacquin/ManaHg/internal/repos/discovery"
	"github.com/AJacquin/ManaHg/internal/repos/shared"
	"go.uber.org/zap"
)

// ResolveRepositoryDiscoverer returns the provided discoverer or a filesystem-backed default.
func ResolveRepositoryDiscoverer(existing shared.RepositoryDiscoverer) shared.RepositoryDiscoverer {
	if existing != nil {
		return existing
	}
	return discovery.NewFilesystemRepositoryDiscoverer()
}

// ResolveMercurialExecutor returns the provided executor or constructs a shell-backed default.
func ResolveMercurialExecutor(existing shared.MercurialExecutor, logger *zap.Logger, humanReadableLogging bool, observer execshell.CommandEventObserver) (shared.MercurialExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, humanReadableLogging)
	if creationError != nil {
		return nil, creationError
	}
	if observer != nil {
		shellExecutor.SetCommandEventObserver(observer)
	}
	return shellExecutor, nil
}

// ResolveRepositoryManager returns the provided repository manager or constructs one from the executor.
func ResolveRepositoryManager(existing shared.RepositoryManager, executor shared.MercurialExecutor) (shared.RepositoryManager, error) {
	if existing != nil {
		return existing, nil
	}
	return hgrepo.NewRepositoryManager(executor)
}

// ResolveWorkbenchLauncher returns the provided launcher or constructs a shell-backed default.
func ResolveWorkbenchLauncher(existing shared.WorkbenchLauncher, logger *zap.Logger, humanReadableLogging bool) (shared.WorkbenchLauncher, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, humanReadableLogging)
	if creationError != nil {
		return nil, creationError
	}
	return hgrepo.NewWorkbenchLauncher(shellExecutor)
}
