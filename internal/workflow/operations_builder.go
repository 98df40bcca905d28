package workflow

import (
	"errors"
	"fmt"
	"strings"
)

const (
	unsupportedOperationTemplateConstant = "unsupported workflow operation: %s"
	unknownToolTemplateConstant          = "workflow step references unknown tool %s"
	pullBranchConflictMessageConstant    = "pull step accepts either 'branch' or 'current', not both"
	updateTargetConflictMessageConstant  = "update step accepts either 'rev' or 'last_public', not both"
	switchBranchRequiredMessageConstant  = "switch-branch step requires a 'branch'"
	commitMessageRequiredMessageConstant = "commit step requires a 'message'"
)

// BuildOperations converts the declarative configuration into executable operations.
func BuildOperations(configuration Configuration) ([]Operation, error) {
	operations := make([]Operation, 0, len(configuration.Steps))
	for stepIndex := range configuration.Steps {
		operationType, stepOptions, resolveError := resolveStepDefinition(configuration, configuration.Steps[stepIndex])
		if resolveError != nil {
			return nil, resolveError
		}
		operation, buildError := buildOperationFromStep(operationType, stepOptions)
		if buildError != nil {
			return nil, buildError
		}
		operations = append(operations, operation)
	}
	return operations, nil
}

func buildOperationFromStep(operationType OperationType, stepOptions map[string]any) (Operation, error) {
	switch operationType {
	case OperationTypeRefresh:
		return &RefreshOperation{}, nil
	case OperationTypePull:
		return buildPullOperation(stepOptions)
	case OperationTypeUpdate:
		return buildUpdateOperation(stepOptions)
	case OperationTypeSwitchBranch:
		return buildSwitchBranchOperation(stepOptions)
	case OperationTypeCommit:
		return buildCommitOperation(stepOptions)
	case OperationTypeRevert:
		return &RevertOperation{}, nil
	default:
		return nil, fmt.Errorf(unsupportedOperationTemplateConstant, operationType)
	}
}

func buildPullOperation(stepOptions map[string]any) (Operation, error) {
	reader := newOptionReader(stepOptions)
	branchValue, _, branchError := reader.stringValue(optionBranchKeyConstant)
	if branchError != nil {
		return nil, branchError
	}
	currentValue, _, currentError := reader.boolValue(optionCurrentKeyConstant)
	if currentError != nil {
		return nil, currentError
	}
	if currentValue && len(branchValue) > 0 {
		return nil, errors.New(pullBranchConflictMessageConstant)
	}
	return &PullOperation{BranchName: branchValue, CurrentBranch: currentValue}, nil
}

func buildUpdateOperation(stepOptions map[string]any) (Operation, error) {
	reader := newOptionReader(stepOptions)
	revisionValue, _, revisionError := reader.stringValue(optionRevisionKeyConstant)
	if revisionError != nil {
		return nil, revisionError
	}
	lastPublicValue, _, lastPublicError := reader.boolValue(optionLastPublicKeyConstant)
	if lastPublicError != nil {
		return nil, lastPublicError
	}
	if lastPublicValue && len(revisionValue) > 0 {
		return nil, errors.New(updateTargetConflictMessageConstant)
	}
	return &UpdateOperation{Revision: revisionValue, LastPublic: lastPublicValue}, nil
}

func buildSwitchBranchOperation(stepOptions map[string]any) (Operation, error) {
	reader := newOptionReader(stepOptions)
	branchValue, branchExists, branchError := reader.stringValue(optionBranchKeyConstant)
	if branchError != nil {
		return nil, branchError
	}
	if !branchExists || len(branchValue) == 0 {
		return nil, errors.New(switchBranchRequiredMessageConstant)
	}
	return &SwitchBranchOperation{TargetBranch: branchValue}, nil
}

func buildCommitOperation(stepOptions map[string]any) (Operation, error) {
	reader := newOptionReader(stepOptions)
	messageValue, messageExists, messageError := reader.stringValue(optionMessageKeyConstant)
	if messageError != nil {
		return nil, messageError
	}
	if !messageExists || len(messageValue) == 0 {
		return nil, errors.New(commitMessageRequiredMessageConstant)
	}
	allValue, _, allError := reader.boolValue(optionAllKeyConstant)
	if allError != nil {
		return nil, allError
	}
	return &CommitOperation{Message: messageValue, IncludeUnmodified: allValue}, nil
}

// resolveStepDefinition expands a tool reference into the referenced tool's
// operation and options. Options declared on the step override the tool's.
func resolveStepDefinition(configuration Configuration, step StepConfiguration) (OperationType, map[string]any, error) {
	toolName := toolReferenceName(step.Options)
	if len(toolName) == 0 {
		return step.Operation, step.Options, nil
	}

	tool, toolExists := configuration.toolByName(toolName)
	if !toolExists {
		return "", nil, fmt.Errorf(unknownToolTemplateConstant, toolName)
	}

	mergedOptions := make(map[string]any, len(tool.Options)+len(step.Options))
	for optionKey, optionValue := range tool.Options {
		mergedOptions[optionKey] = optionValue
	}
	for optionKey, optionValue := range step.Options {
		if strings.EqualFold(strings.TrimSpace(optionKey), optionToolReferenceKeyConstant) {
			continue
		}
		mergedOptions[optionKey] = optionValue
	}

	operationType := step.Operation
	if len(strings.TrimSpace(string(operationType))) == 0 {
		operationType = tool.Operation
	}
	return operationType, mergedOptions, nil
}

func toolReferenceName(stepOptions map[string]any) string {
	for rawKey, rawValue := range stepOptions {
		if !strings.EqualFold(strings.TrimSpace(rawKey), optionToolReferenceKeyConstant) {
			continue
		}
		if nameValue, isString := rawValue.(string); isString {
			return strings.TrimSpace(nameValue)
		}
	}
	return ""
}
