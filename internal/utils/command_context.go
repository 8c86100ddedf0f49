package utils

import "context"

const (
	configurationFilePathContextKeyConstant = commandContextKey("cix.configurationFilePath")
)

type commandContextKey string

// CommandContextAccessor reads and writes the cix values carried on command contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath returns a context carrying the configuration file path the loader resolved.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFilePathContextKeyConstant, configurationFilePath)
}

// ConfigurationFilePath reports the configuration file path carried on the context, when present.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFilePath, configurationFilePathPresent := executionContext.Value(configurationFilePathContextKeyConstant).(string)
	if !configurationFilePathPresent {
		return "", false
	}
	return configurationFilePath, true
}
