package workflow

import (
	"sync"

	"github.com/AJacquin/ManaHg/internal/repos/shared"
)

// PromptState tracks cascading confirmation across workflow steps so that one
// apply-to-all answer covers every later prompt in the run.
type PromptState struct {
	mutex     sync.Mutex
	assumeYes bool
}

// NewPromptState seeds the cascade, pre-confirming every prompt when
// assumeYes is set.
func NewPromptState(assumeYes bool) *PromptState {
	return &PromptState{assumeYes: assumeYes}
}

// AssumeYes reports whether prompts are currently bypassed.
func (state *PromptState) AssumeYes() bool {
	state.mutex.Lock()
	defer state.mutex.Unlock()
	return state.assumeYes
}

func (state *PromptState) recordResult(result shared.ConfirmationResult) {
	if !result.Confirmed || !result.ApplyToAll {
		return
	}
	state.mutex.Lock()
	state.assumeYes = true
	state.mutex.Unlock()
}

type promptDispatcher struct {
	base  shared.ConfirmationPrompter
	state *PromptState
}

func newPromptDispatcher(base shared.ConfirmationPrompter, state *PromptState) shared.ConfirmationPrompter {
	return &promptDispatcher{base: base, state: state}
}

// Confirm short-circuits once an apply-to-all answer was recorded and
// otherwise defers to the wrapped prompter. A missing base prompter declines.
func (dispatcher *promptDispatcher) Confirm(prompt string) (shared.ConfirmationResult, error) {
	if dispatcher.state.AssumeYes() {
		return shared.ConfirmationResult{Confirmed: true, ApplyToAll: true}, nil
	}
	if dispatcher.base == nil {
		return shared.ConfirmationResult{}, nil
	}
	result, confirmError := dispatcher.base.Confirm(prompt)
	if confirmError != nil {
		return shared.ConfirmationResult{}, confirmError
	}
	dispatcher.state.recordResult(result)
	return result, nil
}
