package workflow

import (
	"context"
	"fmt"

	"github.com/AJacquin/ManaHg/internal/fleet"
	"github.com/AJacquin/ManaHg/internal/inventory"
)

const (
	stepPlanTemplateConstant   = "PLAN: %s\n"
	stepResultTemplateConstant = "%s: %s\n"
	commitNothingMessage       = "SKIP: no modified checkouts\n"

	pullCurrentDescriptionConstant      = "pull (current branch)"
	pullBranchDescriptionTemplate       = "pull (branch=%s)"
	updateRevisionDescriptionTemplate   = "update (rev=%s)"
	updateLastPublicDescription         = "update (last public)"
	switchBranchDescriptionTemplate     = "switch-branch (branch=%s)"
	commitDescriptionTemplateConstant   = "commit (message=%q)"
	commitAllDescriptionTemplateMessage = "commit (all, message=%q)"
)

func printfOutput(environment *Environment, format string, formatArguments ...any) {
	if environment == nil || environment.Output == nil {
		return
	}
	fmt.Fprintf(environment.Output, format, formatArguments...)
}

func printPlanLine(environment *Environment, description string) {
	printfOutput(environment, stepPlanTemplateConstant, description)
}

// dispatchFleetOperation runs one fleet operation over the target records,
// folds the refreshed records back into the workflow state, prints one outcome
// line per repository, and surfaces the aggregated failure.
func dispatchFleetOperation(executionContext context.Context, environment *Environment, state *State, operation fleet.RepositoryOperation, targets []inventory.Repository) error {
	report := environment.Dispatcher.Dispatch(executionContext, targets, operation)
	applyReport(state, report)
	renderReport(environment, report)
	return report.Err()
}

func applyReport(state *State, report fleet.Report) {
	updatedByPath := make(map[string]inventory.Repository, len(report.Results))
	for _, result := range report.Results {
		updatedByPath[result.Repository.Path] = result.Repository
	}
	for recordIndex := range state.Repositories {
		if updated, exists := updatedByPath[state.Repositories[recordIndex].Path]; exists {
			state.Repositories[recordIndex] = updated
		}
	}
}

func renderReport(environment *Environment, report fleet.Report) {
	for _, result := range report.Results {
		printfOutput(environment, stepResultTemplateConstant, result.Repository.LastStatus, result.Repository.Path)
	}
}

// RefreshOperation re-probes every record's dashboard fields.
type RefreshOperation struct{}

// Name identifies the operation in configuration and failure messages.
func (operation *RefreshOperation) Name() string {
	return string(OperationTypeRefresh)
}

// Execute dispatches a fleet refresh over the workflow state.
func (operation *RefreshOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	if environment.DryRun {
		printPlanLine(environment, operation.Name())
		return nil
	}
	return dispatchFleetOperation(executionContext, environment, state, fleet.RefreshOperation(), state.Repositories)
}

// PullOperation fetches changesets into every checkout, optionally restricted
// to one named branch or to each checkout's current branch.
type PullOperation struct {
	BranchName    string
	CurrentBranch bool
}

// Name identifies the operation in configuration and failure messages.
func (operation *PullOperation) Name() string {
	return string(OperationTypePull)
}

func (operation *PullOperation) describe() string {
	switch {
	case operation.CurrentBranch:
		return pullCurrentDescriptionConstant
	case len(operation.BranchName) > 0:
		return fmt.Sprintf(pullBranchDescriptionTemplate, operation.BranchName)
	default:
		return operation.Name()
	}
}

func (operation *PullOperation) fleetOperation() fleet.RepositoryOperation {
	switch {
	case operation.CurrentBranch:
		return fleet.PullCurrentBranchOperation()
	case len(operation.BranchName) > 0:
		return fleet.PullBranchOperation(operation.BranchName)
	default:
		return fleet.PullOperation()
	}
}

// Execute dispatches the configured pull variant over the workflow state.
func (operation *PullOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	if environment.DryRun {
		printPlanLine(environment, operation.describe())
		return nil
	}
	return dispatchFleetOperation(executionContext, environment, state, operation.fleetOperation(), state.Repositories)
}

// UpdateOperation moves every working copy to its branch tip, to an explicit
// revision, or to the last public changeset of its current branch.
type UpdateOperation struct {
	Revision   string
	LastPublic bool
}

// Name identifies the operation in configuration and failure messages.
func (operation *UpdateOperation) Name() string {
	return string(OperationTypeUpdate)
}

func (operation *UpdateOperation) describe() string {
	switch {
	case operation.LastPublic:
		return updateLastPublicDescription
	case len(operation.Revision) > 0:
		return fmt.Sprintf(updateRevisionDescriptionTemplate, operation.Revision)
	default:
		return operation.Name()
	}
}

func (operation *UpdateOperation) fleetOperation() fleet.RepositoryOperation {
	switch {
	case operation.LastPublic:
		return fleet.UpdateLastPublicOperation()
	case len(operation.Revision) > 0:
		return fleet.UpdateToRevisionOperation(operation.Revision)
	default:
		return fleet.UpdateLatestOperation()
	}
}

// Execute dispatches the configured update variant over the workflow state.
func (operation *UpdateOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	if environment.DryRun {
		printPlanLine(environment, operation.describe())
		return nil
	}
	return dispatchFleetOperation(executionContext, environment, state, operation.fleetOperation(), state.Repositories)
}

// SwitchBranchOperation moves every working copy onto the named branch.
type SwitchBranchOperation struct {
	TargetBranch string
}

// Name identifies the operation in configuration and failure messages.
func (operation *SwitchBranchOperation) Name() string {
	return string(OperationTypeSwitchBranch)
}

func (operation *SwitchBranchOperation) describe() string {
	return fmt.Sprintf(switchBranchDescriptionTemplate, operation.TargetBranch)
}

// Execute dispatches a fleet branch switch over the workflow state.
func (operation *SwitchBranchOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	if environment.DryRun {
		printPlanLine(environment, operation.describe())
		return nil
	}
	return dispatchFleetOperation(executionContext, environment, state, fleet.SwitchBranchOperation(operation.TargetBranch), state.Repositories)
}

// CommitOperation records working copy changes across checkouts. By default
// only checkouts with uncommitted changes are committed, established by a
// refresh pass; IncludeUnmodified commits every record and lets Mercurial
// report the ones with nothing to record.
type CommitOperation struct {
	Message           string
	IncludeUnmodified bool
}

// Name identifies the operation in configuration and failure messages.
func (operation *CommitOperation) Name() string {
	return string(OperationTypeCommit)
}

func (operation *CommitOperation) describe() string {
	if operation.IncludeUnmodified {
		return fmt.Sprintf(commitAllDescriptionTemplateMessage, operation.Message)
	}
	return fmt.Sprintf(commitDescriptionTemplateConstant, operation.Message)
}

// Execute commits the targeted checkouts with the configured message.
func (operation *CommitOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	if environment.DryRun {
		printPlanLine(environment, operation.describe())
		return nil
	}

	targets := state.Repositories
	if !operation.IncludeUnmodified {
		refreshReport := environment.Dispatcher.Dispatch(executionContext, state.Repositories, fleet.RefreshOperation())
		applyReport(state, refreshReport)
		targets = modifiedRepositories(state.Repositories)
	}

	if len(targets) == 0 {
		printfOutput(environment, commitNothingMessage)
		return nil
	}

	return dispatchFleetOperation(executionContext, environment, state, fleet.CommitOperation(operation.Message), targets)
}

func modifiedRepositories(repositories []inventory.Repository) []inventory.Repository {
	modified := make([]inventory.Repository, 0, len(repositories))
	for _, repository := range repositories {
		if repository.Modified {
			modified = append(modified, repository)
		}
	}
	return modified
}
