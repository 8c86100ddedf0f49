package runcmd

import "strings"

const (
	configurationWorkingDirectoryKeyConstant = "cwd"
	configurationCreateDirectoryKeyConstant  = "create_cwd"
	configurationFreshDirectoryKeyConstant   = "fresh_cwd"
	configurationCaptureOutputKeyConstant    = "capture"
	configurationFailFastKeyConstant         = "fail_fast"
	configurationKeySeparatorConstant        = "."
)

// CommandConfiguration captures configuration values for the run command.
type CommandConfiguration struct {
	WorkingDirectory       string `mapstructure:"cwd"`
	CreateWorkingDirectory bool   `mapstructure:"create_cwd"`
	FreshWorkingDirectory  bool   `mapstructure:"fresh_cwd"`
	CaptureOutput          bool   `mapstructure:"capture"`
	FailFast               bool   `mapstructure:"fail_fast"`
}

// DefaultCommandConfiguration provides baseline configuration values for the run command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		WorkingDirectory:       "",
		CreateWorkingDirectory: false,
		FreshWorkingDirectory:  false,
		CaptureOutput:          false,
		FailFast:               true,
	}
}

// DefaultConfigurationValues exposes defaults keyed for the configuration loader.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationPrefix + configurationKeySeparatorConstant + configurationWorkingDirectoryKeyConstant: defaults.WorkingDirectory,
		configurationPrefix + configurationKeySeparatorConstant + configurationCreateDirectoryKeyConstant:  defaults.CreateWorkingDirectory,
		configurationPrefix + configurationKeySeparatorConstant + configurationFreshDirectoryKeyConstant:   defaults.FreshWorkingDirectory,
		configurationPrefix + configurationKeySeparatorConstant + configurationCaptureOutputKeyConstant:    defaults.CaptureOutput,
		configurationPrefix + configurationKeySeparatorConstant + configurationFailFastKeyConstant:         defaults.FailFast,
	}
}

// Sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.WorkingDirectory = strings.TrimSpace(configuration.WorkingDirectory)
	return sanitized
}
