package fleet

import (
	"context"

	"github.com/AJacquin/ManaHg/internal/inventory"
	"github.com/AJacquin/ManaHg/internal/repos/shared"
)

// Dashboard status labels recorded after each task.
const (
	// StatusReadyConstant marks a repository whose fields were refreshed without a mutation.
	StatusReadyConstant = "Ready"
	// StatusSuccessConstant marks a completed pull or update.
	StatusSuccessConstant = "Success"
	// StatusSwitchedConstant marks a completed branch switch.
	StatusSwitchedConstant = "Switched"
	// StatusCommittedConstant marks a recorded changeset.
	StatusCommittedConstant = "Committed"
	// StatusNothingChangedConstant marks a commit attempt with no changes to record.
	StatusNothingChangedConstant = "Nothing changed"
)

const (
	refreshOperationNameConstant          = "refresh"
	pullOperationNameConstant             = "pull"
	pullBranchOperationNameConstant       = "pull-branch"
	pullCurrentOperationNameConstant      = "pull-current-branch"
	updateOperationNameConstant           = "update"
	updateRevisionOperationNameConstant   = "update-revision"
	switchOperationNameConstant           = "switch-branch"
	updateLastPublicOperationNameConstant = "update-last-public"
	revertOperationNameConstant           = "revert"
	commitOperationNameConstant           = "commit"
)

// OperationFunc performs the mutating part of a repository task. It may return
// a status override replacing the operation's success label.
type OperationFunc func(executionContext context.Context, manager shared.RepositoryManager, repository inventory.Repository) (string, error)

// RepositoryOperation describes one bulk action dispatched across checkouts.
type RepositoryOperation struct {
	Name          string
	SuccessStatus string
	Execute       OperationFunc
}

// RefreshOperation re-reads dashboard fields without mutating checkouts.
func RefreshOperation() RepositoryOperation {
	return RepositoryOperation{
		Name:          refreshOperationNameConstant,
		SuccessStatus: StatusReadyConstant,
	}
}

// PullOperation fetches all branches from each repository's default remote.
func PullOperation() RepositoryOperation {
	return RepositoryOperation{
		Name:          pullOperationNameConstant,
		SuccessStatus: StatusSuccessConstant,
		Execute: func(executionContext context.Context, manager shared.RepositoryManager, repository inventory.Repository) (string, error) {
			return "", manager.Pull(executionContext, repository.Path, "")
		},
	}
}

// PullBranchOperation fetches only the named branch from each repository's
// default remote.
func PullBranchOperation(branchName string) RepositoryOperation {
	return RepositoryOperation{
		Name:          pullBranchOperationNameConstant,
		SuccessStatus: StatusSuccessConstant,
		Execute: func(executionContext context.Context, manager shared.RepositoryManager, repository inventory.Repository) (string, error) {
			return "", manager.Pull(executionContext, repository.Path, branchName)
		},
	}
}

// PullCurrentBranchOperation fetches only each repository's current branch.
func PullCurrentBranchOperation() RepositoryOperation {
	return RepositoryOperation{
		Name:          pullCurrentOperationNameConstant,
		SuccessStatus: StatusSuccessConstant,
		Execute: func(executionContext context.Context, manager shared.RepositoryManager, repository inventory.Repository) (string, error) {
			branchName, branchError := manager.CurrentBranch(executionContext, repository.Path)
			if branchError != nil {
				return "", branchError
			}
			return "", manager.Pull(executionContext, repository.Path, branchName)
		},
	}
}

// UpdateLatestOperation moves each working copy to its branch tip.
func UpdateLatestOperation() RepositoryOperation {
	return RepositoryOperation{
		Name:          updateOperationNameConstant,
		SuccessStatus: StatusSuccessConstant,
		Execute: func(executionContext context.Context, manager shared.RepositoryManager, repository inventory.Repository) (string, error) {
			return "", manager.Update(executionContext, repository.Path, "")
		},
	}
}

// UpdateToRevisionOperation moves each working copy to the named revision.
func UpdateToRevisionOperation(revision string) RepositoryOperation {
	return RepositoryOperation{
		Name:          updateRevisionOperationNameConstant,
		SuccessStatus: StatusSuccessConstant,
		Execute: func(executionContext context.Context, manager shared.RepositoryManager, repository inventory.Repository) (string, error) {
			return "", manager.Update(executionContext, repository.Path, revision)
		},
	}
}

// SwitchBranchOperation moves each working copy onto the named branch.
func SwitchBranchOperation(targetBranch string) RepositoryOperation {
	return RepositoryOperation{
		Name:          switchOperationNameConstant,
		SuccessStatus: StatusSwitchedConstant,
		Execute: func(executionContext context.Context, manager shared.RepositoryManager, repository inventory.Repository) (string, error) {
			return "", manager.Update(executionContext, repository.Path, targetBranch)
		},
	}
}

// UpdateLastPublicOperation moves each working copy to the newest public changeset on its branch.
func UpdateLastPublicOperation() RepositoryOperation {
	return RepositoryOperation{
		Name:          updateLastPublicOperationNameConstant,
		SuccessStatus: StatusSuccessConstant,
		Execute: func(executionContext context.Context, manager shared.RepositoryManager, repository inventory.Repository) (string, error) {
			branchName, branchError := manager.CurrentBranch(executionContext, repository.Path)
			if branchError != nil {
				return "", branchError
			}
			return "", manager.UpdateToLastPublic(executionContext, repository.Path, branchName)
		},
	}
}

// RevertOperation discards uncommitted changes in each working copy.
func RevertOperation() RepositoryOperation {
	return RepositoryOperation{
		Name:          revertOperationNameConstant,
		SuccessStatus: StatusSuccessConstant,
		Execute: func(executionContext context.Context, manager shared.RepositoryManager, repository inventory.Repository) (string, error) {
			return "", manager.RevertAll(executionContext, repository.Path)
		},
	}
}

// CommitOperation records working copy changes with the provided message.
func CommitOperation(message string) RepositoryOperation {
	return RepositoryOperation{
		Name:          commitOperationNameConstant,
		SuccessStatus: StatusCommittedConstant,
		Execute: func(executionContext context.Context, manager shared.RepositoryManager, repository inventory.Repository) (string, error) {
			outcome, commitError := manager.Commit(executionContext, repository.Path, message)
			if commitError != nil {
				return "", commitError
			}
			if outcome == shared.CommitOutcomeNothingChanged {
				return StatusNothingChangedConstant, nil
			}
			return "", nil
		},
	}
}
