package runcmd

import "strings"

const (
	cmakeConfigurationSourceDirectoryKeyConstant = "source_dir"
	cmakeConfigurationBuildDirectoryKeyConstant  = "build_dir"
	cmakeConfigurationFailFastKeyConstant        = "fail_fast"
	defaultCMakeSourceDirectoryConstant          = "."
	defaultCMakeBuildDirectoryConstant           = "build"
)

// CMakeCommandConfiguration captures configuration values for the cmake command.
type CMakeCommandConfiguration struct {
	SourceDirectory string `mapstructure:"source_dir"`
	BuildDirectory  string `mapstructure:"build_dir"`
	FailFast        bool   `mapstructure:"fail_fast"`
}

// DefaultCMakeCommandConfiguration provides baseline configuration values for the cmake command.
func DefaultCMakeCommandConfiguration() CMakeCommandConfiguration {
	return CMakeCommandConfiguration{
		SourceDirectory: defaultCMakeSourceDirectoryConstant,
		BuildDirectory:  defaultCMakeBuildDirectoryConstant,
		FailFast:        true,
	}
}

// DefaultCMakeConfigurationValues exposes cmake defaults keyed for the configuration loader.
func DefaultCMakeConfigurationValues(configurationPrefix string) map[string]any {
	defaults := DefaultCMakeCommandConfiguration()
	return map[string]any{
		configurationPrefix + configurationKeySeparatorConstant + cmakeConfigurationSourceDirectoryKeyConstant: defaults.SourceDirectory,
		configurationPrefix + configurationKeySeparatorConstant + cmakeConfigurationBuildDirectoryKeyConstant:  defaults.BuildDirectory,
		configurationPrefix + configurationKeySeparatorConstant + cmakeConfigurationFailFastKeyConstant:        defaults.FailFast,
	}
}

// Sanitize trims directory values without applying implicit defaults.
func (configuration CMakeCommandConfiguration) Sanitize() CMakeCommandConfiguration {
	sanitized := configuration
	sanitized.SourceDirectory = strings.TrimSpace(configuration.SourceDirectory)
	sanitized.BuildDirectory = strings.TrimSpace(configuration.BuildDirectory)
	return sanitized
}
