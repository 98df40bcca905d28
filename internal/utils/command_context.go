package utils

import "context"

type commandContextKey string

const configurationFilePathKey = commandContextKey("configuration-file-path")

// CommandContextAccessor reads and writes values carried in command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath stores the resolved configuration file path in the context.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFilePathKey, configurationFilePath)
}

// ConfigurationFilePath reports the configuration file path carried in the context, when present.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFilePath, available := executionContext.Value(configurationFilePathKey).(string)
	return configurationFilePath, available
}
