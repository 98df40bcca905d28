package workflow

import (
	"context"
	"fmt"

	"github.com/AJacquin/ManaHg/internal/fleet"
	"github.com/AJacquin/ManaHg/internal/inventory"
	"github.com/AJacquin/ManaHg/internal/repos/shared"
)

const (
	revertPromptTemplateConstant         = "Revert all changes in '%s'? [a/N/y] "
	revertSkipMessageTemplateConstant    = "SKIP: %s\n"
	revertNothingConfirmedMessage        = "SKIP: no checkouts confirmed\n"
	revertConfirmFailureTemplateConstant = "confirmation failed for %s: %w"
)

// RevertOperation discards uncommitted changes across checkouts after a
// per-checkout confirmation.
type RevertOperation struct{}

// Name identifies the operation in configuration and failure messages.
func (operation *RevertOperation) Name() string {
	return string(OperationTypeRevert)
}

// Execute confirms each checkout and dispatches a fleet revert over the
// accepted ones. Declined checkouts are reported and left untouched.
func (operation *RevertOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	if environment.DryRun {
		printPlanLine(environment, operation.Name())
		return nil
	}

	confirmed := make([]inventory.Repository, 0, len(state.Repositories))
	for _, repository := range state.Repositories {
		result, confirmError := confirmRevert(environment, repository.Path)
		if confirmError != nil {
			return fmt.Errorf(revertConfirmFailureTemplateConstant, repository.Path, confirmError)
		}
		if !result.Confirmed {
			printfOutput(environment, revertSkipMessageTemplateConstant, repository.Path)
			continue
		}
		confirmed = append(confirmed, repository)
	}

	if len(confirmed) == 0 {
		printfOutput(environment, revertNothingConfirmedMessage)
		return nil
	}

	return dispatchFleetOperation(executionContext, environment, state, fleet.RevertOperation(), confirmed)
}

func confirmRevert(environment *Environment, repositoryPath string) (shared.ConfirmationResult, error) {
	if environment.Prompter == nil {
		return shared.ConfirmationResult{}, nil
	}
	return environment.Prompter.Confirm(fmt.Sprintf(revertPromptTemplateConstant, repositoryPath))
}
