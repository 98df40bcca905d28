package shared

import (
	"context"
	"errors"
	"strings"

	"github.com/AJacquin/ManaHg/internal/execshell"
)

const (
	// MetadataDirectoryNameConstant identifies the control directory marking a Mercurial checkout root.
	MetadataDirectoryNameConstant = ".hg"
	// PlainOutputEnvironmentVariableConstant names the environment variable forcing stable hg output.
	PlainOutputEnvironmentVariableConstant = "HGPLAIN"
	// PlainOutputEnvironmentValueConstant enables HGPLAIN mode for unattended parsing.
	PlainOutputEnvironmentValueConstant = "1"
)

const (
	repositoryPathEmptyMessageConstant   = "repository path must not be empty"
	repositoryPathNewlineMessageConstant = "repository path must not contain newlines"
	newlineCharacterConstant             = "\n"
	carriageReturnCharacterConstant      = "\r"
)

// RepositoryPath is a validated filesystem path referencing a checkout root.
type RepositoryPath string

// NewRepositoryPath trims and validates a raw repository path string.
func NewRepositoryPath(raw string) (RepositoryPath, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", errors.New(repositoryPathEmptyMessageConstant)
	}
	if strings.Contains(raw, newlineCharacterConstant) || strings.Contains(raw, carriageReturnCharacterConstant) {
		return "", errors.New(repositoryPathNewlineMessageConstant)
	}
	return RepositoryPath(trimmed), nil
}

// String renders the repository path.
func (path RepositoryPath) String() string {
	return string(path)
}

// ChangesetPhase identifies the Mercurial phase of a checkout's working copy parent.
type ChangesetPhase string

// Changeset phases as rendered in the dashboard.
const (
	ChangesetPhasePublic  ChangesetPhase = "Public"
	ChangesetPhaseDraft   ChangesetPhase = "Draft"
	ChangesetPhaseSecret  ChangesetPhase = "Secret"
	ChangesetPhaseUnknown ChangesetPhase = "Unknown"
)

// ParseChangesetPhase normalizes raw phase template output, capitalizing the
// first letter and falling back to ChangesetPhaseUnknown for empty output.
func ParseChangesetPhase(raw string) ChangesetPhase {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ChangesetPhaseUnknown
	}
	return ChangesetPhase(strings.ToUpper(trimmed[:1]) + trimmed[1:])
}

// CommitOutcome describes the result of a commit attempt.
type CommitOutcome string

// Commit outcomes.
const (
	// CommitOutcomeCreated indicates a changeset was recorded.
	CommitOutcomeCreated CommitOutcome = "created"
	// CommitOutcomeNothingChanged indicates the working copy held no changes to record.
	CommitOutcomeNothingChanged CommitOutcome = "nothing_changed"
)

// ConfirmationResult captures the outcome of a user confirmation prompt.
type ConfirmationResult struct {
	Confirmed  bool
	ApplyToAll bool
}

// ConfirmationPrompter collects user confirmations prior to mutating actions.
type ConfirmationPrompter interface {
	Confirm(prompt string) (ConfirmationResult, error)
}

// MercurialExecutor exposes the subset of shell execution used by checkout services.
type MercurialExecutor interface {
	ExecuteMercurial(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// DetachedProcessLauncher starts commands without waiting for them to exit.
type DetachedProcessLauncher interface {
	StartDetached(command execshell.ShellCommand) error
}

// RepositoryState aggregates the dashboard fields refreshed from a checkout.
type RepositoryState struct {
	Branch   string
	Revision string
	Modified bool
	Phase    ChangesetPhase
}

// CheckoutInspector reads repository facts without mutating the working copy.
type CheckoutInspector interface {
	CurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	WorkingCopyRevision(executionContext context.Context, repositoryPath string) (string, error)
	HasUncommittedChanges(executionContext context.Context, repositoryPath string) (bool, error)
	CurrentPhase(executionContext context.Context, repositoryPath string) (ChangesetPhase, error)
	Branches(executionContext context.Context, repositoryPath string) ([]string, error)
}

// CheckoutRefresher re-reads dashboard fields, substituting fallback markers
// for probes that fail.
type CheckoutRefresher interface {
	Refresh(executionContext context.Context, repositoryPath string) RepositoryState
}

// CheckoutMutator performs Mercurial operations that change a checkout.
type CheckoutMutator interface {
	Pull(executionContext context.Context, repositoryPath string, branchName string) error
	Update(executionContext context.Context, repositoryPath string, target string) error
	UpdateToLastPublic(executionContext context.Context, repositoryPath string, branchName string) error
	RevertAll(executionContext context.Context, repositoryPath string) error
	Commit(executionContext context.Context, repositoryPath string, message string) (CommitOutcome, error)
}

// RepositoryManager exposes the Mercurial operations consumed by checkout services.
type RepositoryManager interface {
	CheckoutInspector
	CheckoutRefresher
	CheckoutMutator
}

// WorkbenchLauncher opens the TortoiseHg workbench for a checkout.
type WorkbenchLauncher interface {
	LaunchWorkbench(repositoryPath string) error
}

// RepositoryDiscoverer locates Mercurial checkouts for bulk operations.
type RepositoryDiscoverer interface {
	DiscoverRepositories(roots []string) ([]string, error)
}
