package shared

import "strings"

// ConfirmationPolicy specifies how executors should handle user confirmations.
type ConfirmationPolicy int

const (
	// ConfirmationPrompt indicates the executor should prompt the user.
	ConfirmationPrompt ConfirmationPolicy = iota
	// ConfirmationAssumeYes indicates the executor should continue without prompting.
	ConfirmationAssumeYes
)

// ConfirmationPolicyFromBool converts legacy boolean flags into a policy.
func ConfirmationPolicyFromBool(assumeYes bool) ConfirmationPolicy {
	if assumeYes {
		return ConfirmationAssumeYes
	}
	return ConfirmationPrompt
}

// ShouldPrompt reports whether the executor must prompt the user.
func (policy ConfirmationPolicy) ShouldPrompt() bool {
	return policy != ConfirmationAssumeYes
}

// ShouldAssumeYes reports whether prompting can be skipped.
func (policy ConfirmationPolicy) ShouldAssumeYes() bool {
	return policy == ConfirmationAssumeYes
}

// ParseRepositoryPathOptional normalizes repository paths, returning nil when empty.
func ParseRepositoryPathOptional(raw string) (*RepositoryPath, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	repositoryPath, repositoryPathError := NewRepositoryPath(trimmed)
	if repositoryPathError != nil {
		return nil, repositoryPathError
	}
	return &repositoryPath, nil
}
